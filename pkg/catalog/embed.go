package catalog

import (
	"embed"
	"io/fs"
)

//go:embed data/catalog.yaml
var embeddedCatalog embed.FS

const documentName = "data/catalog.yaml"

func embeddedDocument() []byte {
	data, err := fs.ReadFile(embeddedCatalog, documentName)
	if err != nil {
		// The embed directive guarantees the file exists.
		panic(err)
	}
	return data
}
