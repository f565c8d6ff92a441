//go:build !ui_embed

// Package ui serves the OpenAPI docs in place of the control page when it is
// not embedded.
package ui

import (
	"net/http"
)

// Handler redirects every request to /docs.
func Handler() (http.Handler, error) {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusFound)
	}), nil
}
