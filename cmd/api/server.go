package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"finclusion/internal/shared/config"
	"finclusion/internal/shared/middleware"
)

const (
	// Profile image uploads share the API server, so reads get extra time.
	apiReadTimeout  = 30 * time.Second
	apiWriteTimeout = 30 * time.Second
	headerTimeout   = 10 * time.Second
	idleTimeout     = 60 * time.Second
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler      http.Handler
	Addr         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

// servers is the running API server plus the optional :80 redirect server.
type servers struct {
	api      *http.Server
	redirect *http.Server
}

func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:      handler,
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}

// StartServers starts the API server and, when TLS redirect is on, a plain
// HTTP server on :80 that sends clients to HTTPS.
func StartServers(scfg ServerConfig) *servers {
	s := &servers{api: &http.Server{
		Addr:              scfg.Addr,
		Handler:           scfg.Handler,
		ReadTimeout:       apiReadTimeout,
		ReadHeaderTimeout: headerTimeout,
		WriteTimeout:      apiWriteTimeout,
		IdleTimeout:       idleTimeout,
	}}

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		s.redirect = &http.Server{
			Addr:              ":80",
			Handler:           redirectHandler(scfg.AllowedHosts),
			ReadHeaderTimeout: headerTimeout,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       idleTimeout,
		}
		go serve("HTTP redirect server", s.redirect, s.redirect.ListenAndServe, false)
	}

	if scfg.TLSEnabled {
		go serve("Finclusion API (HTTPS)", s.api, func() error {
			return s.api.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath)
		}, true)
	} else {
		go serve("Finclusion API (HTTP)", s.api, s.api.ListenAndServe, true)
	}

	return s
}

// serve runs listen until the server is closed. A failure of a fatal
// server stops the process.
func serve(name string, srv *http.Server, listen func() error, fatal bool) {
	log.Printf("%s starting on %s", name, srv.Addr)
	err := listen()
	if err == nil || err == http.ErrServerClosed {
		return
	}
	if fatal {
		log.Fatalf("%s error: %v", name, err)
	}
	log.Printf("%s error: %v", name, err)
}

// Shutdown stops accepting requests and drains in-flight ones, redirect
// server first.
func (s *servers) Shutdown(timeout time.Duration) {
	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.redirect != nil {
		if err := s.redirect.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down HTTP redirect server: %v", err)
		}
	}
	if err := s.api.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	log.Println("Server stopped")
}

// redirectHandler sends every request to its HTTPS URL on an allowed host.
// /health is answered in place so plain-HTTP load balancer checks pass.
func redirectHandler(allowedHosts []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
			return
		}

		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}

		hostname, _, _ := strings.Cut(host, ":")
		http.Redirect(w, r, "https://"+hostname+r.URL.RequestURI(), http.StatusMovedPermanently)
	})
}
