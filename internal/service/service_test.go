package service

import (
	"testing"
	"time"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
	"github.com/NykoEugen/R-D-telegram-game/internal/storage"
)

const serviceCatalogJSON = `{
  "default_scene": "camp",
  "scenes": [
    {"id": "camp", "kind": "rest", "weight": 1,
     "transitions": [{"target": "trail", "weight": 1}]},
    {"id": "trail", "kind": "story", "weight": 0,
     "transitions": [{"target": "den", "weight": 1, "requires": ["stat:bravery>=5"]}]},
    {"id": "den", "kind": "combat", "weight": 0, "enemy_template": "wolf",
     "transitions": [{"target": "camp", "weight": 1}]}
  ],
  "end_conditions": [
    {"kind": "risk_threshold", "threshold": 50},
    {"kind": "energy_depleted"},
    {"kind": "step_budget", "base": 50}
  ],
  "actions": [
    {"id": "rest_here", "kinds": ["rest"], "energy_cost": 0, "risk_delta": -2, "success_prob": 1},
    {"id": "scout", "kinds": ["story"], "energy_cost": 5, "risk_delta": 2, "success_prob": 1}
  ],
  "enemy_templates": [
    {"id": "wolf", "name": "Grey Wolf", "hp_mult": 8, "attack_mult": 1.5,
     "magic_mult": 0.2, "agility_mult": 0.1, "armor": 1, "gold_base": 6, "xp_base": 14}
  ],
  "skills": [
    {"id": "power_strike", "class": "warrior", "formula": "attack",
     "dice_count": 2, "dice_sides": 6, "cooldown": 2}
  ]
}`

// ambushCatalogJSON opens on a combat scene against an enemy that is faster
// and far stronger than any starting hero.
const ambushCatalogJSON = `{
  "default_scene": "ambush",
  "scenes": [
    {"id": "ambush", "kind": "combat", "weight": 1, "enemy_template": "ogre",
     "transitions": [{"target": "camp", "weight": 1}]},
    {"id": "camp", "kind": "rest", "weight": 0,
     "transitions": [{"target": "ambush", "weight": 1}]}
  ],
  "end_conditions": [
    {"kind": "risk_threshold", "threshold": 50},
    {"kind": "energy_depleted"},
    {"kind": "step_budget", "base": 50}
  ],
  "actions": [
    {"id": "rest_here", "kinds": ["rest"], "energy_cost": 0, "risk_delta": 0, "success_prob": 1}
  ],
  "enemy_templates": [
    {"id": "ogre", "name": "Ogre", "hp_mult": 500, "attack_mult": 400,
     "magic_mult": 0, "agility_mult": 60, "gold_base": 0, "xp_base": 0}
  ],
  "skills": []
}`

type mockRepo struct {
	sessions  map[string]*storage.Session
	summaries map[string]*storage.SummaryRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		sessions:  map[string]*storage.Session{},
		summaries: map[string]*storage.SummaryRecord{},
	}
}

func (m *mockRepo) CreateSession(s *storage.Session) error {
	m.sessions[s.SessionID] = s
	return nil
}

func (m *mockRepo) GetSession(sessionID string) (*storage.Session, error) {
	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) UpdateSession(s *storage.Session) error {
	m.sessions[s.SessionID] = s
	return nil
}

func (m *mockRepo) SaveSummary(rec *storage.SummaryRecord) error {
	m.summaries[rec.SessionID] = rec
	return nil
}

func (m *mockRepo) GetSummary(sessionID string) (*storage.SummaryRecord, error) {
	if rec, ok := m.summaries[sessionID]; ok {
		return rec, nil
	}
	return nil, storage.ErrNotFound
}

func (m *mockRepo) FindIdleSessions(cutoff time.Time, limit int) ([]storage.Session, error) {
	var out []storage.Session
	for _, s := range m.sessions {
		if s.Status != string(game.StatusEnded) && !s.LastActionAt.After(cutoff) {
			out = append(out, *s)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func serviceCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(serviceCatalogJSON))
	if err != nil {
		t.Fatalf("service test catalog failed to parse: %v", err)
	}
	return c
}

func testSnapshot() game.CharacterSnapshot {
	return game.CharacterSnapshot{
		Name:       "Rin",
		Class:      "warrior",
		Level:      1,
		Bravery:    9,
		Intellect:  3,
		Stamina:    2,
		MaxHP:      300,
		Attack:     8,
		Magic:      2,
		Agility:    20,
		CritChance: 5,
		Gold:       50,
	}
}

func TestStartAdventure(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)

	res, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SessionID == "" {
		t.Fatalf("expected a session id")
	}
	if res.Scene.ID != "camp" {
		t.Fatalf("expected deterministic start at camp, got %q", res.Scene.ID)
	}
	if res.State.Energy != game.MaxEnergyDefault || res.State.Risk != 0 {
		t.Fatalf("fresh state must have full energy and zero risk")
	}
	if len(res.LegalActions) != 1 || res.LegalActions[0] != "rest_here" {
		t.Fatalf("unexpected legal actions: %v", res.LegalActions)
	}
	if _, ok := repo.sessions[res.SessionID]; !ok {
		t.Fatalf("session not persisted")
	}
}

func TestStartAdventureRequiresName(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	snap := testSnapshot()
	snap.Name = ""
	if _, err := StartAdventure(repo, cat, snap, 1); err != ErrEmptyPlayerName {
		t.Fatalf("expected ErrEmptyPlayerName, got %v", err)
	}
}

func TestSubmitActionUnknownSession(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	if _, err := SubmitAction(repo, cat, nil, "nope12345678", "", "rest_here"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitActionSceneMismatch(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	start, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := SubmitAction(repo, cat, nil, start.SessionID, "trail", "rest_here"); err != ErrSceneMismatch {
		t.Fatalf("expected ErrSceneMismatch, got %v", err)
	}
}

func TestSubmitActionCombatCommandOutsideCombat(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	start, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := SubmitAction(repo, cat, nil, start.SessionID, "camp", "attack"); err != ErrNotInCombat {
		t.Fatalf("expected ErrNotInCombat, got %v", err)
	}
}

func TestSubmitActionFlowThroughCombat(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	start, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// camp -> trail
	res, err := SubmitAction(repo, cat, nil, start.SessionID, "camp", "rest_here")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Scene.ID != "trail" || res.Status != game.StatusActive {
		t.Fatalf("expected trail/active, got %q/%q", res.Scene.ID, res.Status)
	}
	if res.State.StepCount != 1 {
		t.Fatalf("expected step count 1, got %d", res.State.StepCount)
	}

	// trail -> den starts combat (the only transition, bravery 9 passes).
	res, err = SubmitAction(repo, cat, nil, start.SessionID, "trail", "scout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != game.StatusCombat || res.Combat == nil {
		t.Fatalf("expected combat at den, got status %q", res.Status)
	}
	if res.State.StepCount != 2 {
		t.Fatalf("combat turns must not count steps yet: %d", res.State.StepCount)
	}

	goldBefore := res.State.Gold
	for i := 0; i < 200 && res.Status == game.StatusCombat; i++ {
		res, err = SubmitAction(repo, cat, nil, start.SessionID, "den", "attack")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if res.Status == game.StatusCombat {
		t.Fatalf("combat never resolved")
	}
	if res.Combat == nil || res.Combat.Result != game.CombatVictory {
		t.Fatalf("expected victory against the wolf, got %+v", res.Combat)
	}
	if res.State.Gold <= goldBefore {
		t.Fatalf("victory must pay out gold: %d -> %d", goldBefore, res.State.Gold)
	}
	if res.State.StepCount != 2 {
		t.Fatalf("combat turns must not count steps: %d", res.State.StepCount)
	}
	// Folding the fight advances out of the den.
	if res.Status != game.StatusActive || res.Scene.ID != "camp" {
		t.Fatalf("expected to move on to camp, got %q/%q", res.Status, res.Scene.ID)
	}
}

func TestStartFoldsOpeningDefeat(t *testing.T) {
	cat, err := catalog.Parse([]byte(ambushCatalogJSON))
	if err != nil {
		t.Fatalf("ambush catalog failed to parse: %v", err)
	}
	snap := testSnapshot()
	snap.Agility = 1
	snap.MaxHP = 30
	snap.Attack = 3

	// The ogre always wins initiative and one hit is lethal; across seeds
	// the opening strike usually concludes the fight before the hero acts.
	// A session must never come out of start holding a finished combat,
	// and the next submission must always be accepted.
	for seed := int64(1); seed <= 40; seed++ {
		repo := newMockRepo()
		res, err := StartAdventure(repo, cat, snap, seed)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if res.Ended {
			t.Fatalf("seed %d: fresh run cannot satisfy any end condition", seed)
		}

		sess, err := repo.GetSession(res.SessionID)
		if err != nil {
			t.Fatalf("seed %d: session not persisted: %v", seed, err)
		}
		stSaved, csSaved, err := decodeState(sess)
		if err != nil {
			t.Fatalf("seed %d: decode: %v", seed, err)
		}
		if csSaved != nil && csSaved.Over() {
			t.Fatalf("seed %d: persisted a finished combat", seed)
		}

		switch res.Status {
		case game.StatusCombat:
			// The ogre missed its opening strike; the fight is live.
			if _, err := SubmitAction(repo, cat, nil, res.SessionID, "", "attack"); err != nil {
				t.Fatalf("seed %d: combat command rejected: %v", seed, err)
			}
		case game.StatusActive:
			// Defeat folded back to exploration at the camp.
			if stSaved.HP < 1 {
				t.Fatalf("seed %d: hero left at %d hp", seed, stSaved.HP)
			}
			if res.Combat == nil || res.Combat.Result != game.CombatDefeat {
				t.Fatalf("seed %d: expected the folded defeat in the response", seed)
			}
			if _, err := SubmitAction(repo, cat, nil, res.SessionID, "", "rest_here"); err != nil {
				t.Fatalf("seed %d: catalog action rejected: %v", seed, err)
			}
		default:
			t.Fatalf("seed %d: unexpected status %s", seed, res.Status)
		}
	}
}

func TestSubmitActionOnEndedSession(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	start, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.sessions[start.SessionID].Status = string(game.StatusEnded)

	if _, err := SubmitAction(repo, cat, nil, start.SessionID, "camp", "rest_here"); err != ErrAdventureEnded {
		t.Fatalf("expected ErrAdventureEnded, got %v", err)
	}
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	cat := serviceCatalog(t)

	run := func() *storage.Session {
		repo := newMockRepo()
		start, err := StartAdventure(repo, cat, testSnapshot(), 77)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := SubmitAction(repo, cat, nil, start.SessionID, "camp", "rest_here"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := SubmitAction(repo, cat, nil, start.SessionID, "trail", "scout"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return repo.sessions[start.SessionID]
	}

	a, b := run(), run()
	if a.StateJSON != b.StateJSON {
		t.Fatalf("same seed and submissions must produce identical state:\n%s\n%s", a.StateJSON, b.StateJSON)
	}
	if a.CombatJSON != b.CombatJSON {
		t.Fatalf("same seed and submissions must produce identical combat state")
	}
}

func TestCloseIdleSessions(t *testing.T) {
	repo := newMockRepo()
	cat := serviceCatalog(t)
	start, err := StartAdventure(repo, cat, testSnapshot(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.sessions[start.SessionID].LastActionAt = time.Now().Add(-2 * time.Hour)

	closed, err := CloseIdleSessions(repo, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed session, got %d", closed)
	}
	if repo.sessions[start.SessionID].Status != string(game.StatusEnded) {
		t.Fatalf("session must be marked ended")
	}
	rec, ok := repo.summaries[start.SessionID]
	if !ok {
		t.Fatalf("expected an abandonment summary")
	}
	if rec.Reason != ReasonAbandoned {
		t.Fatalf("expected reason %q, got %q", ReasonAbandoned, rec.Reason)
	}

	// A second sweep finds nothing.
	closed, err = CloseIdleSessions(repo, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected no sessions on the second sweep, got %d", closed)
	}
}
