package narrative

import (
	"fmt"
	"strings"
)

// Request carries the structured facts a provider turns into prose. The
// engine never renders text itself; outcome tags are the contract between
// the two halves.
type Request struct {
	PlayerName string
	SceneTitle string
	SceneKind  string
	ActionID   string
	Tags       []string
}

// Provider turns an action outcome into a short narration line.
type Provider interface {
	Narrate(req Request) (string, error)
}

// TemplateProvider is the deterministic fallback used when no API key is
// configured. It never fails.
type TemplateProvider struct{}

func (TemplateProvider) Narrate(req Request) (string, error) {
	verb := "presses on"
	switch {
	case hasTag(req.Tags, "success"):
		verb = "succeeds"
	case hasTag(req.Tags, "exhausted"):
		verb = "is too exhausted to act"
	case hasTag(req.Tags, "failure"):
		verb = "fails"
	}
	who := req.PlayerName
	if who == "" {
		who = "The adventurer"
	}
	if req.ActionID == "" {
		return fmt.Sprintf("%s %s at %s.", who, verb, req.SceneTitle), nil
	}
	return fmt.Sprintf("%s %s to %s at %s.", who, verb, strings.ReplaceAll(req.ActionID, "_", " "), req.SceneTitle), nil
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
