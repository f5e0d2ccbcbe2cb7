// Library Management API server.
//
// @title Library Management API
// @version 1.0
// @description REST backend for a library catalog: users, books, categories
// @description and JWT authentication with a database-backed revocation list.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/library-api/backend/internal/config"
	"github.com/library-api/backend/internal/db"
	"github.com/library-api/backend/internal/handler"
	"github.com/library-api/backend/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	revocations, err := service.NewRevocationService(store, tokens, cfg.Auth.FallbackTTL)
	if err != nil {
		log.Fatalf("revocation service: %v", err)
	}
	reaper, err := service.NewReaper(revocations, cfg.Auth.ReaperInterval)
	if err != nil {
		log.Fatalf("reaper: %v", err)
	}

	svcs := handler.Services{
		Auth:       service.NewAuthService(store, tokens, revocations),
		Users:      service.NewUserService(store),
		Books:      service.NewBookService(store),
		Categories: service.NewCategoryService(store),
	}

	router := gin.Default()
	router.Use(handler.RequestID())
	if cfg.Server.AllowedOrigins != "" {
		router.Use(handler.CORSMiddleware(strings.Split(cfg.Server.AllowedOrigins, ",")))
	}
	router.Use(handler.RateLimit(cfg.Server.RateLimitMax, cfg.Server.RateLimitWindow))
	handler.RegisterRoutes(router, svcs, cfg.Server.Version)

	go reaper.Run(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("library API listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
