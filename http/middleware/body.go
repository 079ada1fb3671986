package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/xy-planning-network/sik"
)

// DefaultBodyLimit caps the number of bytes ParseJSON reads when no limit is provided.
const DefaultBodyLimit int64 = 100 << 10 // 100KB

// ParseJSON decodes request bodies sent with an "application/json" Content-Type
// and stashes the decoded value in the *http.Request.Context under sik.BodyKey.
// Retrieve it with sik.BodyFromContext.
//
// The body stays readable for the next handler.
// Malformed JSON gets a 400; bodies over limit bytes get a 413.
// A limit below 1 uses DefaultBodyLimit.
func ParseJSON(limit int64) Adapter {
	if limit < 1 {
		limit = DefaultBodyLimit
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody || !hasContentType(r, "application/json") {
				h.ServeHTTP(w, r)
				return
			}

			b, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
			r.Body.Close()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			if int64(len(b)) > limit {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(b))
			if len(bytes.TrimSpace(b)) == 0 {
				h.ServeHTTP(w, r)
				return
			}

			var body any
			if err := json.Unmarshal(b, &body); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			h.ServeHTTP(w, r.Clone(context.WithValue(r.Context(), sik.BodyKey, body)))
		})
	}
}

// ParseForm parses "application/x-www-form-urlencoded" request bodies into *http.Request.Form
// and *http.Request.PostForm ahead of the handler.
// A malformed form gets a 400.
func ParseForm() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasContentType(r, "application/x-www-form-urlencoded") {
				h.ServeHTTP(w, r)
				return
			}

			if err := r.ParseForm(); err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}

// hasContentType asserts whether the media type of r's Content-Type header is mediatype,
// ignoring any parameters like charset.
func hasContentType(r *http.Request, mediatype string) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return mt == mediatype
}
