package view

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

//go:embed content/landing.md
var landingCopy []byte

// Templates returns the embedded page templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Assets returns the embedded stylesheet, script and image, rooted so that
// "orderform.css" resolves directly.
func Assets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
