package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"app.finclusion.in", "  localhost:3060 "}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.finclusion.in", true},
		{"https://app.finclusion.in:8443", true},
		{"https://APP.Finclusion.IN", true},
		{"http://localhost:3060", true},
		{"http://localhost:5173", true},
		{"https://finclusion.in", false},
		{"https://evil.app.finclusion.in", false},
		{"://broken", false},
		{"app.finclusion.in", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := isOriginAllowed(tt.origin, allowed); got != tt.want {
				t.Errorf("isOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	const webClient = "http://localhost:3060"

	tests := []struct {
		name          string
		allowedHosts  []string
		method        string
		path          string
		origin        string
		wantStatus    int
		wantOrigin    string
		wantCreds     bool
		wantNextCalls int
	}{
		{
			name:          "open API without allow-list",
			method:        http.MethodGet,
			path:          "/api/categories",
			origin:        "http://anywhere.example",
			wantStatus:    http.StatusOK,
			wantOrigin:    "*",
			wantNextCalls: 1,
		},
		{
			name:          "web client reads transactions",
			allowedHosts:  []string{"localhost:3060"},
			method:        http.MethodGet,
			path:          "/api/transactions",
			origin:        webClient,
			wantStatus:    http.StatusOK,
			wantOrigin:    webClient,
			wantCreds:     true,
			wantNextCalls: 1,
		},
		{
			name:         "foreign origin cannot register",
			allowedHosts: []string{"localhost:3060"},
			method:       http.MethodPost,
			path:         "/api/auth/register",
			origin:       "http://evil.example",
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "preflight for profile upload",
			allowedHosts: []string{"localhost:3060"},
			method:       http.MethodOptions,
			path:         "/api/profile/upload",
			origin:       webClient,
			wantStatus:   http.StatusNoContent,
			wantOrigin:   webClient,
			wantCreds:    true,
		},
		{
			name:          "health is open to any origin",
			allowedHosts:  []string{"localhost:3060"},
			method:        http.MethodGet,
			path:          "/health",
			origin:        "http://uptime.example",
			wantStatus:    http.StatusOK,
			wantOrigin:    "*",
			wantNextCalls: 1,
		},
		{
			name:          "CLI client sends no origin",
			allowedHosts:  []string{"localhost:3060"},
			method:        http.MethodPut,
			path:          "/api/profile",
			wantStatus:    http.StatusOK,
			wantNextCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			CORS(tt.allowedHosts)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if calls != tt.wantNextCalls {
				t.Errorf("next called %d times, want %d", calls, tt.wantNextCalls)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials") == "true"; got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %v, want %v", got, tt.wantCreds)
			}
			if tt.wantStatus != http.StatusForbidden {
				if got := rr.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
					t.Errorf("Allow-Headers = %q", got)
				}
			}
		})
	}
}
