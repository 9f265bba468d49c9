//go:build swag

package swaggerkit

import (
	"feedline/internal/core/version"

	"github.com/swaggo/swag/v2"
)

// instance matches swag init --instanceName
const instance = "api"

func init() {
	if swag.GetSwagger(instance) != nil {
		return
	}
	info := version.Info()
	swag.Register(instance, &swag.Spec{
		Title:            info.Service,
		Version:          info.Version,
		InfoInstanceName: instance,
		SwaggerTemplate:  `{"swagger":"2.0","info":{"title":"{{.Title}}","version":"{{.Version}}"},"paths":{}}`,
		LeftDelim:        "{{",
		RightDelim:       "}}",
	})
}

// docReader serves the generated document registered under instance
var docReader = func() string {
	doc, err := swag.ReadDoc(instance)
	if err != nil {
		return skeleton()
	}
	return doc
}
