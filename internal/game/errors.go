package game

import "errors"

// Typed error kinds surfaced to callers. Per-action errors leave the state
// untouched so the caller may retry with a different action; the start-scene
// error indicates a catalog authoring bug and is fatal to the adventure.
var (
	ErrInvalidAction        = errors.New("action not legal in current scene")
	ErrInsufficientEnergy   = errors.New("not enough energy for action")
	ErrNoEligibleStartScene = errors.New("no eligible start scene and no default fallback")
)
