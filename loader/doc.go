/*
Package loader discovers the API modules of a sik project.

An API module is a YAML (or JSON) manifest sitting in the project's API directory,
by default <root>/lib/api:

	prefix: /api
	routes:
	  - method: GET
	    path: /test
	    body: {msg: It worked}
	  - method: POST
	    path: /users
	    handler: users.create
	    idempotent: true

A route either names a handler registered in a [Registry] by Go code
or declares a static JSON body to respond with.

[LoadAPIs] never touches a router.
It returns [Endpoint] descriptors the caller registers, e.g., with app.App.Mount.
*/
package loader
