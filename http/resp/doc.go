/*
The resp package provides a high-level API for responding to HTTP requests
with an easy way to configure the responses application-wide.

A [*Responder] is constructed once and shared by handlers.
Each response method accepts [Fn] functional options, e.g.:

	responder.Json(w, r, resp.Code(http.StatusCreated), resp.Data(payload))
*/
package resp
