package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qrmenu/internal/api"
	"qrmenu/internal/config"
	"qrmenu/internal/lifecycle"
	"qrmenu/internal/monitoring"
	"qrmenu/internal/realtime"
	"qrmenu/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}

	// Open the database; when it is unreachable the service still starts and
	// runs against the in-memory fallback store.
	var durable *store.GormStore
	db, err := store.Open(cfg.Database.Dialect, cfg.Database.Source)
	if err != nil {
		log.Printf("Database unavailable, running on in-memory fallback: %v", err)
	} else {
		durable = store.NewGormStore(db)
		defer db.Close()
		log.Printf("Database connected (%s)", cfg.Database.Dialect)
	}
	orders := store.NewDualStore(durable, store.NewMemoryStore())

	monitor := monitoring.NewMonitor(prometheus.DefaultRegisterer)

	// Start the broadcast hub
	hub := realtime.NewHub(orders, monitor)
	go hub.Run(ctx)

	engine := lifecycle.NewEngine(orders, hub, monitor)
	srv := api.NewServer(engine, hub, cfg)

	// Start metrics server
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}

		cancel() // Cancel main context
	}()

	log.Printf("Starting API server on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, path string) {
	metricsRouter := gin.Default()
	metricsRouter.GET(path, gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
