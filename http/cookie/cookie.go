// Package cookie signs and verifies HTTP cookies with a shared secret.
//
// A [*Jar] plays the part of a cookie parser:
// plain cookies pass through untouched, while cookies set through the Jar
// are signed so tampering is detected when they come back.
package cookie

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/xy-planning-network/sik"
)

// A Jar sets and reads signed cookies.
type Jar struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewJar constructs a *Jar signing cookies with secret.
// Cookies are marked Secure when env calls for it.
func NewJar(secret string, env sik.Environment) (*Jar, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: cookie secret cannot be empty", sik.ErrMissingData)
	}

	return &Jar{
		codec:  securecookie.New([]byte(secret), nil),
		secure: env.SecureCookies(),
	}, nil
}

// Set signs val and sets it on w as a cookie called name.
func (j *Jar) Set(w http.ResponseWriter, name string, val string) error {
	encoded, err := j.codec.Encode(name, val)
	if err != nil {
		return fmt.Errorf("%w: cannot sign cookie %s: %s", sik.ErrNotValid, name, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   j.secure,
	})

	return nil
}

// Get retrieves the signed cookie called name from r.
//
// Get returns an error matching http.ErrNoCookie if r lacks the cookie,
// and one matching sik.ErrNotValid if its signature does not check out.
func (j *Jar) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}

	var val string
	if err := j.codec.Decode(name, c.Value, &val); err != nil {
		return "", fmt.Errorf("%w: cookie %s: %s", sik.ErrNotValid, name, err)
	}

	return val, nil
}

// Delete expires the cookie called name.
func (j *Jar) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secure,
	})
}

// Parse sorts every cookie on r into plain and signed Values.
// A cookie whose value verifies against the Jar's secret is signed;
// every other cookie is plain.
func (j *Jar) Parse(r *http.Request) Values {
	v := Values{Plain: make(map[string]string), Signed: make(map[string]string)}
	for _, c := range r.Cookies() {
		var val string
		if err := j.codec.Decode(c.Name, c.Value, &val); err == nil {
			v.Signed[c.Name] = val
			continue
		}

		v.Plain[c.Name] = c.Value
	}

	return v
}

// Values holds the cookies sent with a request.
type Values struct {
	Plain  map[string]string
	Signed map[string]string
}

// FromContext retrieves the Values stashed by the cookie parsing middleware.
func FromContext(ctx context.Context) (Values, bool) {
	v, ok := ctx.Value(sik.CookiesKey).(Values)
	return v, ok
}
