// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the table and column names of the PostgreSQL schema.

Stores build their SQL from these definitions so a rename in a migration is a
one-line change here. Column order in Columns() matches the scan order used by
the owning store.
*/
package schema

import "strings"

func selectList(columns []string) string {
	return strings.Join(columns, ", ")
}
