package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/address"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/auth"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/cart"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout/publisher"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout/repository"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/config"
	h "github.com/Ramya-993/mcartify-theme-sub000/internal/http"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

func main() {
	cfg := config.Load()

	// Upstream store API client
	apiClient, err := storeapi.New(storeapi.Config{
		BaseURL: cfg.StoreAPIBaseURL,
		Timeout: cfg.StoreAPITimeout,
	})
	if err != nil {
		log.Fatalf("failed to create store API client: %v", err)
	}

	// Redis-backed session store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatalf("failed to connect to redis: %v", err)
	}
	pingCancel()
	sessions := session.NewRedisStore(redisClient)

	// Checkout attempt records + outbox
	repo, err := repository.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Services
	cartService := cart.NewService(apiClient, sessions)
	authService := auth.NewService(apiClient, sessions)
	addressService := address.NewService(apiClient, cartService, sessions)
	gateways := checkout.NewRegistry(
		&checkout.RazorpayGateway{},
		&checkout.CashfreeGateway{},
	)
	checkoutService := checkout.NewService(apiClient, sessions, gateways, repo)

	// Outbox poller drains checkout events to Kafka in the background.
	poller := publisher.NewOutboxPoller(repo, cfg.KafkaBrokers...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()
	go poller.Run(pollerCtx)

	// Handlers
	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	authHandler := h.NewAuthHandler(authService, cfg.RequestTimeout)
	addressHandler := h.NewAddressHandler(addressService, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/promos", cartHandler.ListPromoCodes)
			r.Post("/promo", cartHandler.ApplyPromo)
			r.Delete("/promo", cartHandler.RemovePromo)
		})
		r.Route("/auth", func(r chi.Router) {
			r.Post("/otp/send", authHandler.SendOTP)
			r.Post("/otp/verify", authHandler.VerifyOTP)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", addressHandler.List)
			r.Post("/", addressHandler.Save)
			r.Post("/select", addressHandler.Select)
			r.Delete("/{address_id}", addressHandler.Delete)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/integrations", checkoutHandler.Integrations)
			r.Post("/submit", checkoutHandler.Submit)
			r.Post("/complete", checkoutHandler.Complete)
			r.Post("/fail", checkoutHandler.Fail)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      http.MaxBytesHandler(otelhttp.NewHandler(r, "storefront"), cfg.MaxRequestBodySize),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pollerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
