// Package views embeds the HTML templates rendered by the HTTP layer.
package views

import "embed"

//go:embed *.html
var FS embed.FS
