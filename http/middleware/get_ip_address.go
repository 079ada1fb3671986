package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/xy-planning-network/sik"
)

// forwardingHeaders are checked, in order, for the client's address when sik runs behind a proxy.
var forwardingHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// InjectIPAddress promotes the client's IP address, as found by ClientIP,
// to *http.Request.Context under sik.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), sik.IpAddrKey, ClientIP(r))
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// ClientIP finds the address of the client making r.
//
// The forwarding headers are walked right to left,
// so the first public address found is the one just before sik's proxy.
// Private, loopback and otherwise non-global addresses are skipped.
// Without a match, the host of r.RemoteAddr returns.
func ClientIP(r *http.Request) string {
	for _, h := range forwardingHeaders {
		addresses := strings.Split(r.Header.Get(h), ",")
		for i := len(addresses) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(addresses[i]))
			if ip == nil || !ip.IsGlobalUnicast() || ip.IsPrivate() || isSharedAddressSpace(ip) {
				continue
			}

			return ip.String()
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// sharedAddressSpace is the carrier-grade NAT range, which net.IP.IsPrivate does not cover.
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isSharedAddressSpace(ip net.IP) bool { return sharedAddressSpace.Contains(ip) }
