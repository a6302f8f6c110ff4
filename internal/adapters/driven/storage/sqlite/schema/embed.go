// Package schema embeds the DDL of the local backend.
package schema

import "embed"

// FS contains the schema files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
