package main

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
	"github.com/NykoEugen/R-D-telegram-game/internal/telemetry"
)

const sweepInterval = 1 * time.Minute

func loadCatalogOrExit(path string) *catalog.Catalog {
	cat, err := catalog.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid rule catalog", err, logging.Fields{"catalog_path": path, "hint": "provide a catalog.json with 'scenes', 'end_conditions', 'actions', 'enemy_templates', 'skills' and 'default_scene'"})
	}
	return cat
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}

// setupTelemetry wires the OTLP trace pipeline when enabled via env; the
// returned shutdown is a no-op otherwise.
func setupTelemetry(ctx context.Context) (trace.Tracer, func()) {
	if os.Getenv(constants.EnvOTELEnabled) == "" {
		return telemetry.NoopTracer(), func() {}
	}
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logging.Error("telemetry setup failed; continuing without it", err, nil)
		return telemetry.NoopTracer(), func() {}
	}
	return telemetry.Tracer("api"), func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("telemetry shutdown failed", err, nil)
		}
	}
}

func idleTimeoutFromEnv() time.Duration {
	raw := os.Getenv(constants.EnvIdleTimeout)
	if raw == "" {
		raw = constants.DefaultIdleTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logging.Warn("invalid idle timeout; using default", logging.Fields{"value": raw})
		d, _ = time.ParseDuration(constants.DefaultIdleTimeout)
	}
	return d
}
