// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// # Webhook Signatures
//
// Header format: "t=<unix seconds>,v1=<hex hmac>[,v1=<hex hmac>]".
// The MAC is HMAC-SHA256(secret, "<t>." + raw body).

var (
	ErrSignatureMissing   = errors.New("sec: signature header missing")
	ErrSignatureMalformed = errors.New("sec: signature header malformed")
	ErrSignatureExpired   = errors.New("sec: signature timestamp outside tolerance")
	ErrSignatureMismatch  = errors.New("sec: signature mismatch")
)

// SignWebhookPayload produces the signature header value for payload at timestamp.
func SignWebhookPayload(secret []byte, timestamp time.Time, payload []byte) string {
	unix := strconv.FormatInt(timestamp.Unix(), 10)
	return "t=" + unix + ",v1=" + hex.EncodeToString(computeMAC(secret, unix, payload))
}

// VerifyWebhookSignature checks header against the exact payload bytes.
//
// Any v1 entry may match, which lets the sender overlap two secrets during
// rotation. Comparison is constant time.
func VerifyWebhookSignature(secret []byte, header string, payload []byte, now time.Time, tolerance time.Duration) error {
	if strings.TrimSpace(header) == "" {
		return ErrSignatureMissing
	}

	var (
		unix       string
		signatures [][]byte
	)

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return ErrSignatureMalformed
		}

		switch key {
		case "t":
			unix = value
		case "v1":
			decoded, err := hex.DecodeString(value)
			if err != nil {
				return ErrSignatureMalformed
			}
			signatures = append(signatures, decoded)
		}
	}

	if unix == "" || len(signatures) == 0 {
		return ErrSignatureMalformed
	}

	seconds, err := strconv.ParseInt(unix, 10, 64)
	if err != nil {
		return ErrSignatureMalformed
	}

	age := now.Sub(time.Unix(seconds, 0))
	if age > tolerance || age < -tolerance {
		return ErrSignatureExpired
	}

	expected := computeMAC(secret, unix, payload)
	for _, candidate := range signatures {
		if hmac.Equal(expected, candidate) {
			return nil
		}
	}

	return ErrSignatureMismatch
}

func computeMAC(secret []byte, unix string, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(unix))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}
