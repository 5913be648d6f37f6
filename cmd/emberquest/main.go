package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/NykoEugen/R-D-telegram-game/internal/api"
	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
	"github.com/NykoEugen/R-D-telegram-game/internal/narrative"
	"github.com/NykoEugen/R-D-telegram-game/internal/service"
)

func main() {
	// .env is a local-development convenience; env vars may be set directly.
	_ = godotenv.Load()

	catalogPath := os.Getenv(constants.EnvCatalogPath)
	if catalogPath == "" {
		catalogPath = constants.DefaultCatalogPath
	}
	cat := loadCatalogOrExit(catalogPath)

	if cat.NarrationPrompt != "" {
		narrative.SetNarrationPromptTemplate(cat.NarrationPrompt)
	}
	narrator := narrative.NewProvider(os.Getenv(constants.EnvOpenAIAPIKey))

	dbPath := os.Getenv(constants.EnvDatabasePath)
	if dbPath == "" {
		dbPath = constants.DefaultDatabasePath
	}
	repo := createRepositoryOrExit(dbPath)

	ctx := context.Background()
	tracer, telemetryShutdown := setupTelemetry(ctx)
	defer telemetryShutdown()

	// Background sweeper: close sessions abandoned past the idle timeout.
	stop := make(chan struct{})
	defer close(stop)
	idleTimeout := idleTimeoutFromEnv()
	go service.RunIdleSweeper(repo, idleTimeout, sweepInterval, stop)

	handler := api.NewAdventureHandler(repo, cat, narrator, nil, tracer)

	router := gin.Default()
	router.GET(constants.RouteHealthz, api.Healthz)

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, api.Version)
		apiRoutes.POST(constants.RouteAdventures, handler.StartAdventure)
		apiRoutes.GET(constants.RouteAdventureByID, handler.GetAdventure)
		apiRoutes.POST(constants.RouteAdventureActions, handler.SubmitAction)
		apiRoutes.GET(constants.RouteSummaryByID, handler.GetSummary)
	}

	addr := cat.ServerAddr
	if addr == "" {
		addr = constants.DefaultServerAddr
	}
	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: addr})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
