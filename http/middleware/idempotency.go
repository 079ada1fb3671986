package middleware

import (
	"bytes"
	"crypto/sha256"
	"io"
	"net/http"
)

const (
	IdempotencyHeader = "Idempotency-Key"
)

// replayHeaders are the response headers saved with an IdemRes
// and written again when the response is replayed.
var replayHeaders = []string{
	"Cache-Control",
	"Content-Encoding",
	"Content-Language",
	"Content-Location",
	"Content-Type",
	"ETag",
	"Last-Modified",
	"Location",
}

var _ http.ResponseWriter = new(idemWriter)

// Idempotent returns a middleware.Adapter that enables features
// of idempotency on a POST endpoint.
// GET, DELETE, PUT, & PATCH are idempotent by definition.
//
// Idempotent pulls a key (a UUID v4 string) from request headers
// to base the uniqueness of a POST request around.
//
// If a previous request has not used that key,
// Idempotent claims the key for the request
// and, once the handler returns, pairs all of the following values to it:
// - a hash of the body of the request
// - the body of the resulting response
// - the content headers of the resulting response (see replayHeaders)
// - the status code of the resulting response
//
// If that key has been used before (and has not expired),
// Idempotent falls into one of these scenarios:
//
//   - if the original request is still being handled,
//     Idempotent responds with 409
//
//   - if the newly requested resource (the URI) does not match the original,
//     Idempotent responds with 422
//
//   - if the new request's body does not match the body of the original request's,
//     Idempotent responds with 422
//
//   - otherwise, Idempotent writes the status code, headers and body saved for the key
//
// If cache is nil, an IdemResMap is used.
//
// Idempotent implements the draft Idempotent HTTP Header Field specification:
// https://tools.ietf.org/id/draft-idempotency-header-01.html
func Idempotent(cache IdempotencyCacher) Adapter {
	if cache == nil {
		cache = NewIdemResMap()
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}

			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			sum, err := hashBody(r)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}

			uri := r.URL.RequestURI()
			prev, claimed, err := cache.Claim(r.Context(), key, IdemRes{Req: sum, URI: uri})
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !claimed {
				switch {
				case prev.URI != uri || !bytes.Equal(prev.Req, sum):
					http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
				case prev.Status == 0:
					http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
				default:
					for k, vals := range prev.Header {
						w.Header()[k] = vals
					}
					w.WriteHeader(prev.Status)
					w.Write(prev.Body)
				}
				return
			}

			iw := &idemWriter{w: w, res: IdemRes{Req: sum, URI: uri}}
			handler.ServeHTTP(iw, r)

			if iw.res.Status == 0 {
				iw.res.Status = http.StatusOK
				iw.res.Header = savedHeaders(w.Header())
			}

			// NOTE: a response that failed to save leaves the key claimed
			// and so later requests see 409 until it expires.
			cache.Set(r.Context(), key, iw.res)
		})
	}
}

// hashBody sums the body of r and leaves the body readable for the next handler.
func hashBody(r *http.Request) ([]byte, error) {
	h := sha256.New()
	if r.Body == nil {
		return h.Sum(nil), nil
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(h, io.TeeReader(r.Body, buf)); err != nil {
		return nil, err
	}
	r.Body.Close()
	r.Body = io.NopCloser(buf)

	return h.Sum(nil), nil
}

// savedHeaders copies the replayHeaders set in h.
func savedHeaders(h http.Header) http.Header {
	saved := make(http.Header)
	for _, k := range replayHeaders {
		if vals := h.Values(k); len(vals) > 0 {
			saved[http.CanonicalHeaderKey(k)] = append([]string(nil), vals...)
		}
	}

	return saved
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
//
// An IdemRes with a zero Status belongs to a request still being handled.
type IdemRes struct {
	Body   []byte
	Header http.Header
	Req    []byte
	Status int
	URI    string
}

// An idemWriter records what a handler writes so the response can be saved
// alongside the idempotency key.
type idemWriter struct {
	w   http.ResponseWriter
	res IdemRes
}

func (iw *idemWriter) Header() http.Header { return iw.w.Header() }

func (iw *idemWriter) Write(b []byte) (int, error) {
	if iw.res.Status == 0 {
		iw.WriteHeader(http.StatusOK)
	}

	n, err := iw.w.Write(b)
	iw.res.Body = append(iw.res.Body, b[:n]...)
	return n, err
}

func (iw *idemWriter) WriteHeader(s int) {
	if iw.res.Status != 0 {
		return
	}

	iw.res.Status = s
	iw.res.Header = savedHeaders(iw.w.Header())
	iw.w.WriteHeader(s)
}
