package sik

import "context"

type Key string

const (
	// BodyKey stashes the decoded JSON body of an HTTP request.
	BodyKey Key = "BodyKey"

	// CookiesKey stashes the plain and signed cookies parsed from an HTTP request.
	CookiesKey Key = "CookiesKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by sik.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "sik context key: " + string(k)
}

// BodyFromContext retrieves the JSON body decoded by the body parsing middleware.
// The second return value reports whether a body was set at all;
// requests without a JSON Content-Type never have one.
func BodyFromContext(ctx context.Context) (any, bool) {
	val := ctx.Value(BodyKey)
	if val == nil {
		return nil, false
	}

	return val, true
}

// RequestIDFromContext retrieves the request ID, or the zero-value when none was set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
