package mapty

import "embed"

// WebFS holds the browser frontend served at /.
//
//go:embed web/dist
var WebFS embed.FS
