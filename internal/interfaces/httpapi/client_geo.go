package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// Edge headers in trust order. The socket address is the last resort.
var (
	clientIPHeaders      = []string{"Fly-Client-IP", "X-Forwarded-For", "X-Real-IP"}
	clientCountryHeaders = []string{"Fly-Client-Country", "CF-IPCountry", "CloudFront-Viewer-Country"}
)

const unknownCountry = "ZZ"

func clientIP(r *http.Request) string {
	for _, h := range clientIPHeaders {
		if ip, ok := parseClientIP(r.Header.Get(h)); ok {
			return ip
		}
	}
	if ip, ok := parseClientIP(r.RemoteAddr); ok {
		return ip
	}
	return ""
}

func clientCountry(r *http.Request) string {
	for _, h := range clientCountryHeaders {
		code := strings.ToUpper(strings.TrimSpace(r.Header.Get(h)))
		if isCountryCode(code) {
			return code
		}
	}
	return unknownCountry
}

// parseClientIP takes the first hop of a forwarded list and drops any port.
func parseClientIP(raw string) (string, bool) {
	value, _, _ := strings.Cut(raw, ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(value); err == nil {
		return ap.Addr().Unmap().String(), true
	}
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}

func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
