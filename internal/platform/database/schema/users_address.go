// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAddressTable represents the 'users.address' table
type UserAddressTable struct {
	Table     string
	ID        string
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Phone     string
	CreatedAt string
}

// UserAddress is the schema definition for users.address
var UserAddress = UserAddressTable{
	Table:     "users.address",
	ID:        "id",
	UserID:    "userid",
	FirstName: "firstname",
	LastName:  "lastname",
	Email:     "email",
	Street:    "street",
	City:      "city",
	State:     "state",
	ZipCode:   "zipcode",
	Country:   "country",
	Phone:     "phone",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t UserAddressTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.FirstName, t.LastName, t.Email, t.Street,
		t.City, t.State, t.ZipCode, t.Country, t.Phone, t.CreatedAt,
	}
}

// SelectList returns Columns joined for a SELECT clause.
func (t UserAddressTable) SelectList() string {
	return selectList(t.Columns())
}
