// Package web holds the landing and listing pages served by the API.
package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static
var staticFS embed.FS

// Static returns the asset filesystem. A non-empty dir replaces the embedded
// assets, which makes editing pages possible without a rebuild.
func Static(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
