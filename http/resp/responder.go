package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/xy-planning-network/sik/logger"
)

// Responder maintains reusable pieces for responding to HTTP requests.
// It exposes methods for writing structured data as an HTTP response.
//
// When handling a specific HTTP request, calling code supplies additional data, structure,
// and so forth through Fn functions.
type Responder struct {
	logger logger.Logger

	// Pool of *bytes.Buffer to prerender responses into
	pool *sync.Pool
}

// NewResponder constructs a *Responder logging with l.
// A nil l uses logger.New.
func NewResponder(l logger.Logger) *Responder {
	if l == nil {
		l = logger.New()
	}

	return &Responder{
		logger: l,
		pool:   &sync.Pool{New: func() any { return new(bytes.Buffer) }},
	}
}

// Err wraps http.Error, logging the error causing the failure state.
//
// Use in exceptional circumstances when no Json can occur.
func (doer *Responder) Err(w http.ResponseWriter, r *http.Request, err error, opts ...Fn) {
	rr, nested := doer.do(w, r, append(opts, Err(err))...)
	if nested != nil {
		err = fmt.Errorf("%w: %s", err, nested)
	}

	var msg string
	if err != nil {
		msg = err.Error()
	}

	doer.logger.Error(msg, &logger.LogContext{Caller: logger.CurrentCaller(), Error: err, Request: r})

	code := http.StatusInternalServerError
	if rr != nil && rr.code != 0 {
		code = rr.code
	}

	http.Error(w, http.StatusText(code), code)
}

// Json responds with data in JSON format, as set by Data, and the status code set by Code.
// The default status code is 200.
//
// The data is written as is, without any enclosing envelope.
func (doer *Responder) Json(w http.ResponseWriter, r *http.Request, opts ...Fn) error {
	rr, err := doer.do(w, r, opts...)
	if err != nil {
		return err
	}

	if rr.code == 0 {
		rr.code = http.StatusOK
	}

	b := doer.pool.Get().(*bytes.Buffer)
	b.Reset()
	defer doer.pool.Put(b)

	if err := json.NewEncoder(b).Encode(rr.data); err != nil {
		doer.Err(w, r, err)
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(rr.code)
	if _, err := b.WriteTo(w); err != nil {
		return err
	}

	return nil
}

// do applies all options to the passed in http.ResponseWriter and *http.Request,
// stopping at the first to fail.
func (doer *Responder) do(w http.ResponseWriter, r *http.Request, opts ...Fn) (*Response, error) {
	rr := &Response{w: w, r: r}
	for _, opt := range opts {
		select {
		case <-r.Context().Done():
			return rr, ErrDone
		default:
			if err := opt(*doer, rr); err != nil {
				return rr, err
			}
		}
	}

	return rr, nil
}
