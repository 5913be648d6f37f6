package api

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/engine"
	"github.com/NykoEugen/R-D-telegram-game/internal/narrative"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

// AdventureHandler groups all adventure-related HTTP handlers.
type AdventureHandler struct {
	repo     storage.Repository
	cat      *catalog.Catalog
	narrator narrative.Provider
	items    engine.ItemResolver
	tracer   trace.Tracer
}

// NewAdventureHandler creates a handler backed by the given repository,
// rule catalog and narration provider. items may be nil when no inventory
// integration is wired.
func NewAdventureHandler(repo storage.Repository, cat *catalog.Catalog, narrator narrative.Provider, items engine.ItemResolver, tracer trace.Tracer) *AdventureHandler {
	return &AdventureHandler{repo: repo, cat: cat, narrator: narrator, items: items, tracer: tracer}
}
