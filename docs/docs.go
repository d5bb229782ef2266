// Package docs registra o documento OpenAPI da API no swag,
// de onde o http-swagger o serve em /swagger/doc.json.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

type document struct{}

func (document) ReadDoc() string { return swaggerJSON }

func init() {
	swag.Register(swag.Name, document{})
}
