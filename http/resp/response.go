package resp

import (
	"fmt"
	"net/http"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w    http.ResponseWriter
	r    *http.Request
	code int
	data any
	err  error
}

// Code sets the response status code.
//
// Codes outside of the range [100, 599] return ErrInvalid.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		if c < http.StatusContinue || c > 599 {
			return fmt.Errorf("%w: status code %d", ErrInvalid, c)
		}

		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError, unless one is already set,
// and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if r.code == 0 {
			r.code = http.StatusInternalServerError
		}

		r.err = e
		return nil
	}
}

// Header sets the header key to val on the response.
func Header(key, val string) Fn {
	return func(_ Responder, r *Response) error {
		r.w.Header().Set(key, val)
		return nil
	}
}
