package middleware

import (
	"github.com/gorilla/handlers"
)

// MethodOverride lets clients unable to send PUT, PATCH or DELETE requests tunnel them through POST,
// naming the intended method in the "X-HTTP-Method-Override" header
// or the "_method" form value.
//
// MethodOverride has to run before routing so the router matches the overridden method;
// cf. [router.Router.BeforeRouting].
func MethodOverride() Adapter {
	return handlers.HTTPMethodOverrideHandler
}
