package httpapi

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "fly header wins", headers: map[string]string{"Fly-Client-IP": "203.0.113.7", "X-Real-IP": "10.0.0.1"}, want: "203.0.113.7"},
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "198.51.100.2, 10.0.0.1"}, want: "198.51.100.2"},
		{name: "garbage header skipped", headers: map[string]string{"X-Forwarded-For": "unknown"}, remote: "192.0.2.9:5555", want: "192.0.2.9"},
		{name: "ipv6 socket", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/v1/seasons", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := clientIP(req); got != tc.want {
				t.Fatalf("clientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClientCountry(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/v1/seasons", nil)
	if got := clientCountry(req); got != "ZZ" {
		t.Fatalf("expected unknown country, got %q", got)
	}
	req.Header.Set("CF-IPCountry", "id")
	if got := clientCountry(req); got != "ID" {
		t.Fatalf("expected ID, got %q", got)
	}
	req.Header.Set("Fly-Client-Country", "X1")
	if got := clientCountry(req); got != "ID" {
		t.Fatalf("invalid code should fall through, got %q", got)
	}
}
