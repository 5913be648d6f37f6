package engine

import (
	"testing"

	"github.com/NykoEugen/R-D-telegram-game/internal/catalog"
	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

func dummyCombat(t *testing.T, cat *catalog.Catalog, st *game.PlayerState, rng *RNG) *game.CombatState {
	t.Helper()
	scene := *cat.Scene("den")
	scene.EnemyTemplate = "dummy"
	return InitCombat(cat, st, &scene, rng)
}

func TestSkillRejectsWrongClass(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	st.Class = "mage"
	rng := NewRNG(1)
	cs := dummyCombat(t, cat, st, rng)

	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "power_strike", nil, rng); err != game.ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction for wrong class, got %v", err)
	}
}

func TestSkillRejectsUnknownID(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(1)
	cs := dummyCombat(t, cat, st, rng)

	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "meteor", nil, rng); err != game.ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction for unknown skill, got %v", err)
	}
}

func TestSkillCooldownGating(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(1)
	cs := dummyCombat(t, cat, st, rng)

	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "power_strike", nil, rng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Cooldown 3 winds down once per hero turn; it is still warm here.
	if cs.SkillCooldowns["power_strike"] != 2 {
		t.Fatalf("expected cooldown 2 after one turn, got %d", cs.SkillCooldowns["power_strike"])
	}
	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "power_strike", nil, rng); err != game.ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction while on cooldown, got %v", err)
	}

	// Basic attacks keep the clock moving until the skill is ready again.
	for i := 0; i < 2; i++ {
		if err := ResolveTurn(cat, st, cs, game.CommandAttack, "", nil, rng); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, warm := cs.SkillCooldowns["power_strike"]; warm {
		t.Fatalf("expected cooldown expired, got %d", cs.SkillCooldowns["power_strike"])
	}
	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "power_strike", nil, rng); err != nil {
		t.Fatalf("expected skill ready again, got %v", err)
	}
}

func TestHealSkillAppliesHealAndStatus(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(4)

	// A miss is possible on any single attempt; fresh fights until one hits.
	for attempt := 0; attempt < 20; attempt++ {
		cs := dummyCombat(t, cat, st, rng)
		cs.PlayerHP -= 10
		hpBefore := cs.PlayerHP

		if err := ResolveTurn(cat, st, cs, game.CommandSkill, "mend_wounds", nil, rng); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cs.PlayerHP > hpBefore {
			// The heal equals the stamina stat.
			if cs.PlayerHP != hpBefore+st.Stat(game.StatStamina) {
				t.Fatalf("expected heal %d, got %d", st.Stat(game.StatStamina), cs.PlayerHP-hpBefore)
			}
			if !cs.HasStatus(game.SideEnemy, game.StatusStun) {
				t.Fatalf("expected guaranteed stun application on hit")
			}
			return
		}
	}
	t.Fatalf("mend_wounds missed 20 fights in a row")
}

func TestSkillCritBonusLastsOneTurn(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(1)
	cs := dummyCombat(t, cat, st, rng)

	if err := ResolveTurn(cat, st, cs, game.CommandSkill, "power_strike", nil, rng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.CritBonus != 0 {
		t.Fatalf("crit bonus must expire with the turn that used it, got %v", cs.CritBonus)
	}
	for i := 0; i < 5; i++ {
		if err := ResolveTurn(cat, st, cs, game.CommandAttack, "", nil, rng); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cs.CritBonus != 0 {
			t.Fatalf("crit bonus leaked into attack %d, got %v", i, cs.CritBonus)
		}
	}
}
