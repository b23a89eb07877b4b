// Package db provides the embedded database schema.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables. The
// statements are idempotent and safe to re-run on every boot.
//
//go:embed migrations/001_schema.sql
var Schema string
