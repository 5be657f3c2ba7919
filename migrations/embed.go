// Package migrations embeds the versioned schema files for each SQL backend.
package migrations

import "embed"

// FS holds one sub-directory of NNN_name.sql files per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
