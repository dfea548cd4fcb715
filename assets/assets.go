// Package assets embeds the default GLSL sources.
package assets

import (
	"embed"
	"io/fs"
)

// FS holds shaders/<name>.vert and shaders/<name>.frag
//
//go:embed shaders
var FS embed.FS

// Shaders returns the embedded shader directory as the root of an FS, the
// same shape as os.DirFS on an override directory.
func Shaders() fs.FS {
	sub, err := fs.Sub(FS, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}
