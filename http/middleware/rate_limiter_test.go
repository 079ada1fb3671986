package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/sik/http/middleware"
)

func TestVisitorFetch(t *testing.T) {
	t.Run("Serial", func(t *testing.T) {
		// Arrange
		vs := middleware.NewVisitors(0, 0)

		// Act
		v1 := vs.Fetch("127.0.0.1")
		time.Sleep(1 * time.Millisecond)
		v2 := vs.Fetch("127.0.0.1")

		// Assert
		require.Equal(t, v1.Limiter, v2.Limiter)
		require.True(t, v1.LastSeen.Before(v2.LastSeen))
		require.Equal(t, middleware.DefaultRate, v1.Limiter.Limit())
		require.Equal(t, middleware.DefaultBurst, v1.Limiter.Burst())
		require.Equal(t, 1, vs.Len())
	})

	t.Run("Concurrent", func(t *testing.T) {
		// Arrange
		var wg sync.WaitGroup
		vs := middleware.NewVisitors(0, 0)
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				// Act
				vs.Fetch(fmt.Sprintf("10.0.0.%d", i%10))
			}(i)
		}

		wg.Wait()

		// Assert
		require.Equal(t, 10, vs.Len())
	})
}

func TestRateLimit(t *testing.T) {
	// Arrange + Act
	actual := middleware.RateLimit(nil)

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	h := middleware.RateLimit(middleware.NewVisitors(1, 2))(teapotHandler())
	codes := make([]int, 0, 3)

	// Act
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
		h.ServeHTTP(w, r)
		codes = append(codes, w.Code)
	}

	// Assert
	require.Equal(t, []int{http.StatusTeapot, http.StatusTeapot, http.StatusTooManyRequests}, codes)

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	r.Header.Set("X-Forwarded-For", "8.8.8.8")

	// Act
	h.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)
}
