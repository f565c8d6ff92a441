//go:build ui_embed

// Package ui embeds the browser control page.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Build with: go build -tags ui_embed .

//go:embed all:dist
var distFS embed.FS

const indexPage = "index.html"

// Handler serves the embedded control page. Asset paths are served as
// files; every other extensionless path gets the page itself, uncached so
// a controller upgrade reaches open browsers on reload.
func Handler() (http.Handler, error) {
	pages, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil, err
	}
	assets := http.FileServer(http.FS(pages))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" && name != indexPage && isFile(pages, name) {
			assets.ServeHTTP(w, r)
			return
		}
		if strings.Contains(path.Base(name), ".") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, pages, indexPage)
	}), nil
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
