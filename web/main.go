package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = $"+renderer.WorkersEnvVar+" or CPU count)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))

	if info, err := renderer.GetHostInfo(); err == nil {
		logger.Info("host", "info", info.String())
	}

	pool := renderer.NewWorkerPool(*workers, core.NewSlogLogger(logger))
	defer pool.Shutdown()

	// Create and start web server
	webServer := server.NewServer(*port, pool, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}()

	logger.Info("Sphere Raytracer Web Server", "url", fmt.Sprintf("http://localhost:%d", *port))

	if err := webServer.Start(); err != nil {
		logger.Error("Error starting server", "err", err)
		os.Exit(1)
	}
}
