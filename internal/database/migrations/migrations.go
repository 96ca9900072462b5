// Package migrations embeds the SQL schema applied by cmd/migrate.
package migrations

import "embed"

// SchemaFile is the versioned schema script.
const SchemaFile = "schema.sql"

// SchemaVersion is recorded in schema_migrations once SchemaFile is applied.
const SchemaVersion = "neuralcrime_v1.0.0"

//go:embed *.sql
var Files embed.FS
