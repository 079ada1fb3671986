package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the number of requests per second a Visitor may make.
	DefaultRate rate.Limit = 5

	// DefaultBurst is the number of requests a Visitor may make at once.
	DefaultBurst = 20

	visitorTTL      = 60 * time.Minute
	cleanupInterval = time.Minute
)

// A Visitor tracks a rate limiter and last seen time.
type Visitor struct {
	LastSeen time.Time
	Limiter  *rate.Limiter
}

// A Visitors maps a Visitor to an IP address.
type Visitors struct {
	burst     int
	limit     rate.Limit
	lastClean time.Time
	val       map[string]Visitor
	sync.Mutex
}

// NewVisitors constructs a *Visitors allowing each Visitor limit requests per second
// with bursts of up to burst.
// Values below 1 fall back to DefaultRate and DefaultBurst.
func NewVisitors(limit rate.Limit, burst int) *Visitors {
	if limit <= 0 {
		limit = DefaultRate
	}

	if burst < 1 {
		burst = DefaultBurst
	}

	return &Visitors{
		burst:     burst,
		limit:     limit,
		lastClean: time.Now(),
		val:       make(map[string]Visitor),
	}
}

// Fetch retrieves the Visitor for the given ip creating a new Visitor if not seen.
func (vs *Visitors) Fetch(ip string) Visitor {
	vs.Lock()
	defer vs.Unlock()

	v, ok := vs.val[ip]
	if !ok {
		v = Visitor{Limiter: rate.NewLimiter(vs.limit, vs.burst)}
	}

	v.LastSeen = time.Now().UTC()
	vs.val[ip] = v
	return v
}

// Len reports how many Visitors are tracked.
func (vs *Visitors) Len() int {
	vs.Lock()
	defer vs.Unlock()
	return len(vs.val)
}

// cleanup deletes Visitors not seen in over an hour.
// It does any work at most once per cleanupInterval.
func (vs *Visitors) cleanup() {
	vs.Lock()
	defer vs.Unlock()

	if time.Since(vs.lastClean) < cleanupInterval {
		return
	}

	for ip, v := range vs.val {
		if time.Since(v.LastSeen) > visitorTTL {
			delete(vs.val, ip)
		}
	}
	vs.lastClean = time.Now()
}

// RateLimit limits the rate at which each client, as found by ClientIP,
// can make requests, responding 429 to those over their limit.
//
// NOTE: implementation found here:
// https://www.alexedwards.net/blog/how-to-rate-limit-http-requests
//
// If visitors is nil, NoopAdapter returns and this middleware does nothing.
func RateLimit(visitors *Visitors) Adapter {
	if visitors == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer visitors.cleanup()

			if !visitors.Fetch(ClientIP(r)).Limiter.Allow() {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
}
