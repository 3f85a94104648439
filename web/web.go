// Package web embebe las plantillas HTML del sitio público y del back-office.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var files embed.FS

// Templates árbol de plantillas con raíz en templates/ ("public/home", "layouts/main", ...).
func Templates() fs.FS {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
