// Package migrations carries the database schema.
package migrations

import _ "embed"

//go:embed 001_init.up.sql
var Up string

//go:embed 001_init.down.sql
var Down string
