package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/veikkola/phonebook/internal/auth"
	"github.com/veikkola/phonebook/internal/graphql"
	"github.com/veikkola/phonebook/internal/middleware"
	"github.com/veikkola/phonebook/internal/storage/sqlite"
	"github.com/veikkola/phonebook/pkg/logging"
)

const defaultTokenTTL = 72 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logger := logging.Setup()

	port := getEnv("PORT", "4000")
	dbPath := getEnv("DB_PATH", "./data/phonebook.db")
	secret := os.Getenv("SECRET")
	if secret == "" {
		logger.Error("SECRET environment variable is required")
		os.Exit(1)
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("Invalid TOKEN_TTL", "value", raw, "error", err)
			os.Exit(1)
		}
		tokenTTL = ttl
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", dbPath)

	jwtManager := auth.NewJWTManager(secret, tokenTTL)
	loginService := auth.NewLoginService(store, jwtManager, secret)

	schema, err := graphql.New(store, loginService, logger)
	if err != nil {
		logger.Error("Failed to build schema", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", schema.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	// Session context first, so logging can attribute requests to users.
	sessionMiddleware := middleware.SessionContext(jwtManager, store, logger)
	chained := middleware.Metrics(sessionMiddleware(middleware.Logging(mux)))

	// HTTP/2 without TLS, for deployments behind a terminating proxy.
	h2cHandler := h2c.NewHandler(chained, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	logger.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s/graphql", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
