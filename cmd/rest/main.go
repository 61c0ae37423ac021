package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citystyle-be/internal/bootstrap"
	"citystyle-be/internal/config"
	"citystyle-be/internal/server"
	"citystyle-be/internal/tracer"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap container: %v", err)
	}
	defer container.Close()
	defer container.Logger.Sync()

	// 3. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Tracing, container.Logger)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	g, gctx := errgroup.WithContext(ctx)

	// 5. Start Background Services
	if container.ConsumerService != nil {
		g.Go(func() error {
			return container.ConsumerService.Consume(gctx)
		})
	}

	// 6. Run Server
	g.Go(func() error {
		return srv.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		container.Logger.Info("server", "shutting down", nil)
		err := srv.Shutdown(shutdownCtx)
		if tErr := shutdownTracer(shutdownCtx); tErr != nil {
			container.Logger.Warn("tracer", "tracer shutdown failed", map[string]interface{}{"error": tErr})
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("server", "server stopped with error", map[string]interface{}{"error": err})
		container.Close()
		os.Exit(1)
	}
}
