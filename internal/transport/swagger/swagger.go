package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// DocumentPath is where the router publishes the embedded OpenAPI document.
const DocumentPath = "/openapi.yml"

// Handler serves the Swagger UI for the portal API.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	)
}
