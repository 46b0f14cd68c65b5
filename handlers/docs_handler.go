package handlers

import (
	_ "embed"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed apidocs/openapi.json
var openAPIDocument []byte

// OpenAPIDocument serves the API description consumed by the Swagger UI.
func OpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

// SwaggerUI serves the Swagger UI pointed at docURL.
func SwaggerUI(docURL string) http.HandlerFunc {
	return httpSwagger.Handler(httpSwagger.URL(docURL))
}
