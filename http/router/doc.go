/*
Package router defines how requests reach the handlers of a sik app.

[*Router] is a thin wrapper around [mux.Router].
A [Route] leverages a standardized data model when registering how requests should be routed:
a path and an HTTP method comprise a [Route],
and an implementation of [http.Handler] is called when a request matches it.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

Three stacks of middlewares exist:
  - those run before routing, set with BeforeRouting,
    which may rewrite the request in ways that change which Route matches it
  - those run on every request, set with OnEveryRequest
  - those particular to a Route or a call to HandleRoutes

Static and Favicon serve files straight off disk.
*/
package router
