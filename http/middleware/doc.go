/*
The middleware package defines what a middleware is in sik and the set of middlewares an app wires.

The available middlewares are:
- CORS
- ForceHTTPS
- Idempotent
- InjectIPAddress
- InjectSession
- LogRequest
- MethodOverride
- ParseCookies
- ParseForm
- ParseJSON
- RateLimit
- ReportPanic
- RequestID

MethodOverride and CORS have to run before routing.
The rest compose into the chain run on every request, e.g.:

	adpts := []middleware.Adapter{
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.RateLimit(middleware.NewVisitors(middleware.DefaultRate, middleware.DefaultBurst)),
		middleware.ParseJSON(middleware.DefaultBodyLimit),
		middleware.ParseForm(),
		middleware.ParseCookies(jar),
		middleware.InjectSession(sessionStore),
	}

*/
package middleware
