package main

import (
	"context"                       // context package is needed for Redis operations
	"dapptrack/internal/api"        // Custom package for API handlers
	"dapptrack/internal/config"     // Custom package for configuration
	"dapptrack/internal/db"         // Database connection
	"dapptrack/internal/directory"  // Organization directory
	"dapptrack/internal/ledger"     // Aptos client
	"dapptrack/internal/middleware" // Custom package for middleware
	"dapptrack/internal/pinning"    // Pinata client
	"dapptrack/internal/scheduler"  // Ledger snapshot refresh
	"dapptrack/internal/views"      // Page builders
	"errors"                        // Error inspection
	"net/http"                      // HTTP server
	"os"                            // Signals
	"os/signal"                     // Shutdown notification
	"syscall"                       // SIGTERM
	"time"                          // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{}) // Machine readable logs in production
	}

	// Connect to the database
	gdb, err := db.Open(cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	if cfg.ModuleAddress == "" {
		logrus.Warn("VITE_MODULE_PUBLISHER_ACCOUNT_ADDRESS is not set, ledger queries will fail")
	}
	if !cfg.PinataConfigured() {
		logrus.Warn("PINATA_JWT is not set, proof uploads and directory snapshots are disabled")
	}

	// External services
	pinner := pinning.NewClient(cfg.PinataAPIURL, cfg.PinataGateway, cfg.PinataJWT, nil)
	chain := ledger.NewClient(cfg.AptosNodeURL, cfg.AptosIndexerURL, cfg.ModuleAddress, nil)

	// Organization directory, restored from the last pinned snapshot on an empty database
	store := directory.NewStore(gdb)
	snapshotter := directory.NewSnapshotter(store, pinner)
	if n, err := snapshotter.Bootstrap(context.Background()); err != nil {
		logrus.WithField("error", err.Error()).Warn("Directory bootstrap failed")
	} else if n > 0 {
		logrus.WithField("count", n).Info("Directory restored from snapshot")
	}

	// Periodic ledger snapshot refresh
	reader := ledger.NewReader(chain)
	refresher := scheduler.NewRefresher(reader, redisClient)
	sched := scheduler.New(cfg.RefreshCron, refresher)
	if err := sched.Start(); err != nil {
		logrus.Fatalf("failed to start scheduler: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.New() // Gin router instance
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(cfg.CORSOrigins))

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		Config:    cfg,                                   // Application configuration
		DB:        gdb,                                   // Directory and operators
		Redis:     redisClient,                           // Cache
		Pinner:    pinner,                                // Proof uploads
		Events:    chain,                                 // Indexer events
		Orgs:      reader,                                // Single organization reads
		Txs:       chain,                                 // Transaction status
		Snapshots: refresher,                             // Shared ledger snapshot
		Directory: store,                                 // Directory store
		Publisher: snapshotter,                           // Directory snapshots
		Payloads:  ledger.NewPayloads(cfg.ModuleAddress), // Entry-function payloads
		Pages:     views.New(pinner.GatewayURL),          // Page builders
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort, // Listen address
		Handler:           r,                 // Gin router
		ReadHeaderTimeout: 10 * time.Second,  // Slow client guard
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down")

	sched.Stop() // Wait for a running refresh
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	_ = redisClient.Close()
}
