// Package app wires configuration, logging, the world, and the HTTP
// surface into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	server "grove-and-grain/server"
	servernet "grove-and-grain/server/internal/net"
	"grove-and-grain/server/internal/worldfile"
	"grove-and-grain/server/logging"
	loggingsinks "grove-and-grain/server/logging/sinks"
)

type Config struct {
	Logger *log.Logger
}

// Run builds the world from the configured world file and serves it
// until ctx is cancelled. Environment overrides:
//
//	WORLD_FILE      path to the world document (default maps/glade.yaml)
//	GRID_ADDR       listen address (default :8080)
//	GRID_TICK_RATE  broadcast cycles per second
//	GRID_TIME_SCALE simulated seconds per wall second
//	GRID_LOG_JSON   path for an NDJSON event log (empty disables)
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	logCfg := logging.DefaultConfig()
	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)},
	}

	if path := os.Getenv("GRID_LOG_JSON"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log %s: %w", path, err)
		}
		defer file.Close()
		logCfg.EnabledSinks = append(logCfg.EnabledSinks, "json")
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "json",
			Sink: loggingsinks.NewJSON(file, logCfg.JSONFlushEvery),
		})
	}

	router, err := logging.NewRouter(logging.ClockFunc(time.Now), logCfg, namedSinks)
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(context.Background()); cerr != nil {
			logger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	worldPath := os.Getenv("WORLD_FILE")
	if worldPath == "" {
		worldPath = "maps/glade.yaml"
	}
	doc, err := worldfile.Load(worldPath)
	if err != nil {
		return err
	}
	world, scheduler, err := doc.Build(router)
	if err != nil {
		return err
	}
	logger.Printf("loaded world %q (%dx%d, %d entities)", doc.Name, doc.Rows, doc.Cols, world.Count())

	hubCfg := server.DefaultHubConfig()
	if raw := os.Getenv("GRID_TICK_RATE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			hubCfg.TickRate = value
		} else {
			logger.Printf("invalid GRID_TICK_RATE=%q", raw)
		}
	}
	if raw := os.Getenv("GRID_TIME_SCALE"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			hubCfg.TimeScale = value
		} else {
			logger.Printf("invalid GRID_TIME_SCALE=%q", raw)
		}
	}

	hub := server.NewHub(doc.Name, world, scheduler, hubCfg)
	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{Logger: logger})

	addr := os.Getenv("GRID_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
