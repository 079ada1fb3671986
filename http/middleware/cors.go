package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// CORS sets "Access-Control-Allow" style headers on a response for requests from origins.
// Preflight OPTIONS requests are answered by CORS itself.
//
// If no origins are given, NoopAdapter returns and this middleware does nothing.
//
// CORS has to run before routing to see preflight requests;
// cf. [router.Router.BeforeRouting].
func CORS(origins ...string) Adapter {
	if len(origins) == 0 {
		return NoopAdapter
	}

	return handlers.CORS(
		handlers.AllowedHeaders([]string{
			"Content-Type",
			"X-CSRF-Token",
			"X-HTTP-Method-Override",
			IdempotencyHeader,
		}),
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{
			http.MethodDelete,
			http.MethodGet,
			http.MethodHead,
			http.MethodOptions,
			http.MethodPatch,
			http.MethodPost,
			http.MethodPut,
		}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
}
