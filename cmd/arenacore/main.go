// Package main is the entry point for arenacore.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/game"
	"github.com/samdwyer/arenacore/internal/progress"
	"github.com/samdwyer/arenacore/internal/telemetry"
)

const (
	envSeed = "ARENACORE_SEED"
	envSave = "ARENACORE_SAVE"
	envLog  = "ARENACORE_LOG"
)

// cueLog is an audio sink that records cues in the log. Playback lives outside the
// simulation.
type cueLog struct {
	logger *log.Logger
	next   atomic.Int64
}

func (c *cueLog) Play(cue string) { c.logger.Printf("cue %s", cue) }

func (c *cueLog) StartLoop(cue string) int {
	h := int(c.next.Add(1))
	c.logger.Printf("loop %d start %s", h, cue)
	return h
}

func (c *cueLog) StopLoop(handle int) { c.logger.Printf("loop %d stop", handle) }

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	// The terminal belongs to the renderer, so the game logs to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if path := os.Getenv(envLog); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logger = log.New(f, "arenacore ", log.LstdFlags|log.Lmicroseconds)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := time.Now().UnixNano()
	if v := os.Getenv(envSeed); v != "" {
		var err error
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("Invalid %s: %v", envSeed, err)
		}
	}
	logger.Printf("seed %d", seed)

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx, attribute.Int64("arenacore.seed", seed))
		if err != nil {
			logger.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	tuning, tuningPath, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}
	var watcher *config.Watcher
	if tuningPath != "" {
		watcher, err = config.Watch(tuningPath)
		if err != nil {
			log.Printf("Warning: tuning hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	var store progress.Store = progress.NewMemoryStore()
	if dir := os.Getenv(envSave); dir != "" {
		fs, err := progress.NewFileStore(dir)
		if err != nil {
			log.Fatalf("Failed to open save directory: %v", err)
		}
		store = fs
	}

	g, err := game.New(ctx, game.Config{
		Seed:   seed,
		Tuning: tuning,
		Store:  store,
		Audio:  &cueLog{logger: logger},
		Logger: logger,
	}, watcher)
	if err != nil {
		log.Fatalf("Failed to initialize game: %v", err)
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		logger.Printf("game error: %v", err)
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_ARENACORE_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_ARENACORE_DATASET")
	if dataset == "" {
		dataset = "arenacore"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
