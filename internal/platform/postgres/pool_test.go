// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/greencart/internal/platform/postgres"
)

// recordingTx embeds pgx.Tx so only the methods WithTx calls need bodies.
type recordingTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (tx *recordingTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *recordingTx) Rollback(context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *recordingTx
	err error
}

func (b fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

/*
TestWithTx verifies commit on success and rollback on failure.
*/
func TestWithTx(t *testing.T) {
	ctx := context.Background()

	// 1. Success commits
	tx := &recordingTx{}
	assert.NoError(t, postgres.WithTx(ctx, fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil }))
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)

	// 2. Failure rolls back and surfaces the error
	tx = &recordingTx{}
	boom := errors.New("boom")
	assert.ErrorIs(t, postgres.WithTx(ctx, fakeBeginner{tx: tx}, func(pgx.Tx) error { return boom }), boom)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)

	// 3. Begin failure never runs fn
	called := false
	err := postgres.WithTx(ctx, fakeBeginner{err: boom}, func(pgx.Tx) error { called = true; return nil })
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}
