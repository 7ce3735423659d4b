package main

import (
	"log"
	"net/http"

	httphandlers "finclusion/internal/interfaces/http"
	"finclusion/internal/shared/config"
	"finclusion/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes, rate limited per client IP
	authLimit := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerSecond, cfg.RateLimit.AuthBurst))
	mux.Handle("/api/auth/register", authLimit(http.HandlerFunc(deps.AuthHandler.HandleRegister)))
	mux.Handle("/api/auth/login", authLimit(http.HandlerFunc(deps.AuthHandler.HandleLogin)))
	mux.Handle("/api/auth/logout", authLimit(http.HandlerFunc(deps.AuthHandler.HandleLogout)))

	// Protected routes
	authMiddleware := middleware.Auth(deps.IdentityService)

	mux.Handle("/api/categories", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategories)))
	mux.Handle("/api/categories/stats", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategoryStats)))
	mux.Handle("/api/categories/{id}", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategoryByID)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactions)))
	mux.Handle("/api/transactions/monthly", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleMonthly)))
	mux.Handle("/api/transactions/by-category", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleByCategory)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))
	mux.Handle("/api/profile", authMiddleware(http.HandlerFunc(deps.ProfileHandler.HandleProfile)))
	mux.Handle("/api/profile/upload", authMiddleware(http.HandlerFunc(deps.ProfileHandler.HandleUploadImage)))

	// Locally stored profile images
	if deps.Uploads != nil {
		mux.Handle("GET /uploads/", deps.Uploads)
	}

	// Apply global middleware
	var handler http.Handler = middleware.Tracing(mux)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(cfg.Telemetry.ServiceName)(handler)
	}
	handler = middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(handler))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
