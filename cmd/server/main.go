package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/ticketloop/marketplace/internal/client"     // Marketplace HTTP client
	"github.com/ticketloop/marketplace/internal/config"     // Internal config loader
	"github.com/ticketloop/marketplace/internal/database"   // MySQL trade-request store
	"github.com/ticketloop/marketplace/internal/handler"    // HTTP handlers
	"github.com/ticketloop/marketplace/internal/middleware" // Identity and rate limiting
	"github.com/ticketloop/marketplace/internal/queue"      // Lifecycle event consumer
	"github.com/ticketloop/marketplace/internal/refund"     // Refund workflow
	"github.com/ticketloop/marketplace/internal/repository" // Trade-request repository
	"github.com/ticketloop/marketplace/internal/reservation" // Checkout engine
	"github.com/ticketloop/marketplace/internal/router"      // Route registration
	queuepublisher "github.com/ticketloop/marketplace/internal/service" // AMQP publisher
	"github.com/ticketloop/marketplace/internal/trade"                  // Trade matching and requests
)

func main() {
	cfg := config.Load() // Load environment config
	e := echo.New()      // Create Echo instance

	// Identity runs first so the rate limiter can key on the user id.
	// It never rejects; operations that need a user enforce that in the
	// engine layer.
	e.Use(middleware.Identity(cfg.JWTSecret))

	// Redis-backed token bucket. When Redis is unreachable the
	// middleware degrades to pass-through, so a cache outage never
	// blocks checkout traffic.
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled {
		e.Use(middleware.NewTokenBucket(rlCfg, config.NewRedisClient()))
	}

	api := client.New(cfg.APIBaseURL, cfg.APIToken)
	pub := queuepublisher.Publisher{}

	manager := reservation.NewManager(api.Inventory(), pub, cfg.CheckoutWindow)
	checkout := handler.NewCheckoutHandler(manager)
	tickets := handler.NewTicketsHandler(api.Tickets())
	refunds := handler.NewRefundHandler(refund.NewWorkflow(api.Refunds(), pub), tickets)

	// Trade requests need the local store. Without DB settings the
	// matching endpoints still work; only the request lifecycle is
	// disabled.
	var requests *trade.Requests
	if cfg.DBHost != "" {
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("open trade-request store: %v", err)
		}
		requests = trade.NewRequests(repository.NewTradeRequestRepo(db), api.Trades())
	} else {
		log.Println("DB_HOST not set; trade requests disabled")
	}
	trades := handler.NewTradeHandler(trade.NewMatcher(api.Tickets()), requests, api.Tickets())

	router.RegisterRoutes(e) // Health check
	router.RegisterCheckout(e, checkout)
	router.RegisterTickets(e, tickets)
	router.RegisterRefund(e, refunds)
	router.RegisterTrade(e, trades)

	// The consumer mirrors lifecycle events into the audit log. It keeps
	// retrying the broker on its own; a missing broker only costs the
	// audit trail.
	go func() {
		if err := queue.StartLifecycleConsumer(); err != nil {
			log.Printf("lifecycle consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
