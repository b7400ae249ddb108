// Command licensed runs the licensing authority: the gRPC Heartbeat
// service backed by PostgreSQL, alongside a health/metrics HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sage-x-project/licguard/config"
	"github.com/sage-x-project/licguard/health"
	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/server"
	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/store/postgres"
)

const healthShutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.toml", "path to the server config file")
	flag.Parse()

	log := logger.NewDefaultLogger()

	if err := run(*configPath, log); err != nil {
		log.Fatal("licensed.exit", logger.Error(err))
	}
}

func run(configPath string, log logger.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("licensed: load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := postgres.NewStore(ctx, cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("licensed: connect to store: %w", err)
	}
	defer st.Close()

	reg := registry.New()

	checker := health.NewChecker(st, reg)
	healthSrv := health.NewServer(checker, log, cfg.HealthPort)
	if err := healthSrv.Start(); err != nil {
		return fmt.Errorf("licensed: start health server: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), healthShutdownTimeout)
		defer cancel()
		_ = healthSrv.Stop(shutdownCtx)
	}()

	sess := &session.Server{
		Store:    st,
		Registry: reg,
		Log:      log,
	}

	log.Info("licensed.starting",
		logger.String("socket_addr", cfg.SocketAddr),
		logger.Int("health_port", cfg.HealthPort),
	)

	return server.Listen(ctx, cfg.SocketAddr, sess, log)
}
