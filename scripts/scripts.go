// Package scripts embeds the Risor modules shipped with circle.
package scripts

import (
	"embed"
	"io/fs"
)

//go:embed lib/*.risor
var FS embed.FS

// Lib returns the importable modules, rooted so that "import shapes"
// resolves lib/shapes.risor.
func Lib() fs.FS {
	sub, err := fs.Sub(FS, "lib")
	if err != nil {
		panic(err)
	}
	return sub
}
