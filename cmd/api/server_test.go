package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRedirectHandler(t *testing.T) {
	handler := redirectHandler([]string{"api.finclusion.in"})

	tests := []struct {
		name         string
		host         string
		forwarded    string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "redirects to https and drops the port",
			host:         "api.finclusion.in:80",
			target:       "/api/transactions?page=2",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "https://api.finclusion.in/api/transactions?page=2",
		},
		{
			name:         "uses forwarded host",
			host:         "10.0.0.4",
			forwarded:    "api.finclusion.in",
			target:       "/api/profile",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "https://api.finclusion.in/api/profile",
		},
		{
			name:       "unknown host is rejected",
			host:       "evil.example",
			target:     "/api/auth/login",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "health answers in place",
			host:       "10.0.0.4",
			target:     "/health",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Host", tt.forwarded)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestStartServers_PlainHTTP(t *testing.T) {
	srvs := StartServers(ServerConfig{
		Handler: http.NotFoundHandler(),
		Addr:    "127.0.0.1:0",
	})
	defer srvs.Shutdown(time.Second)

	if srvs.redirect != nil {
		t.Error("redirect server started without TLS")
	}
	if srvs.api.ReadHeaderTimeout != headerTimeout {
		t.Errorf("ReadHeaderTimeout = %v, want %v", srvs.api.ReadHeaderTimeout, headerTimeout)
	}
}
