package schema

import (
	"embed"
	"io/fs"
)

//go:embed data/order.openapi.yaml
var embeddedDocument embed.FS

const (
	documentName = "data/order.openapi.yaml"

	// OrderPath and OrderMethod locate the order operation inside the bundled
	// OpenAPI document.
	OrderPath   = "/api/order"
	OrderMethod = "POST"
)

// Document returns the raw bundled OpenAPI document.
func Document() []byte {
	data, err := fs.ReadFile(embeddedDocument, documentName)
	if err != nil {
		// The embed directive guarantees the file exists.
		panic(err)
	}
	return data
}
