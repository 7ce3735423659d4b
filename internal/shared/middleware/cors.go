package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// corsExemptPaths are served to any origin (liveness and uptime checks).
var corsExemptPaths = map[string]bool{
	"/health": true,
}

// CORS applies Cross-Origin Resource Sharing headers against an allow-list of hosts.
//
// With no allowed hosts configured every origin gets "*". Otherwise the request
// Origin must match an allowed host (port optional) and is echoed back with
// credentials enabled; a disallowed origin gets 403. Preflight requests are
// answered with 204 and never reach next.
func CORS(allowedHosts []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case len(allowedHosts) == 0 || corsExemptPaths[r.URL.Path]:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin == "":
				// Same-origin or non-browser request
			case isOriginAllowed(origin, allowedHosts):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			default:
				writeError(w, http.StatusForbidden, "Origin not allowed")
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isOriginAllowed(origin string, allowedHosts []string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return IsHostAllowed(strings.ToLower(u.Host), allowedHosts)
}
