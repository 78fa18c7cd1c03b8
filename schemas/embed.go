// Package schemas содержит JSON-схемы запросов, встроенные в бинарник.
package schemas

import "embed"

//go:embed requests
var SchemasFS embed.FS
