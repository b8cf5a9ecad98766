// Package content embeds the levels shipped with the binary.
package content

import "embed"

// FS holds the built-in level files at its root.
//
//go:embed *.lua
var FS embed.FS
