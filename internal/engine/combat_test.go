package engine

import (
	"testing"

	"github.com/NykoEugen/R-D-telegram-game/internal/game"
)

func TestHitChanceClamps(t *testing.T) {
	if got := HitChance(0, 100); got != 40 {
		t.Fatalf("expected floor 40, got %v", got)
	}
	if got := HitChance(100, 0); got != 95 {
		t.Fatalf("expected ceiling 95, got %v", got)
	}
	if got := HitChance(10, 10); got != 75 {
		t.Fatalf("expected base 75 on equal agility, got %v", got)
	}
}

func TestEscapeChanceCaps(t *testing.T) {
	if got := EscapeChance(100); got != 85 {
		t.Fatalf("expected cap 85, got %v", got)
	}
	if got := EscapeChance(10); got != 60 {
		t.Fatalf("expected 60, got %v", got)
	}
}

func TestSpawnEnemyScaling(t *testing.T) {
	cat := loadTestCatalog(t)
	tpl := cat.EnemyTemplates["wolf"]

	e := SpawnEnemy(tpl, 2, 1.0)
	if e.HP != 16 {
		t.Fatalf("expected hp 16 at level 2, got %d", e.HP)
	}
	if e.Attack != 5 {
		t.Fatalf("expected attack 5 at level 2, got %d", e.Attack)
	}
	if e.GoldReward != 12 || e.XPReward != 28 {
		t.Fatalf("rewards must scale with level: gold=%d xp=%d", e.GoldReward, e.XPReward)
	}

	scaled := SpawnEnemy(tpl, 1, 2.0)
	if scaled.HP != 16 {
		t.Fatalf("expected hp 16 with multiplier 2, got %d", scaled.HP)
	}
}

func TestInitCombatHeroInitiative(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(1)

	// Hero agility 20 against the wolf's ~8: initiative cannot be lost.
	cs := InitCombat(cat, st, cat.Scene("den"), rng)
	if !cs.IsHeroTurn() {
		t.Fatalf("hero must open with agility 20 vs 8")
	}
	if cs.TurnOrder[0] != game.SideHero {
		t.Fatalf("expected hero first in turn order, got %v", cs.TurnOrder)
	}
	if cs.PlayerHP != st.HP || cs.PlayerMaxHP != st.MaxHP {
		t.Fatalf("combat hp not synced from player state")
	}
}

func TestCombatVictoryGrantsRewardsOnce(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	st.Attack = 50
	st.MaxHP = 1000
	st.HP = 1000
	rng := NewRNG(3)

	cs := InitCombat(cat, st, cat.Scene("den"), rng)
	for i := 0; i < 200 && !cs.Over(); i++ {
		if err := ResolveTurn(cat, st, cs, game.CommandAttack, "", nil, rng); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cs.Result != game.CombatVictory {
		t.Fatalf("expected victory, got %q", cs.Result)
	}

	goldBefore := st.Gold
	FoldCombat(st, cs, rng)
	if st.Gold != goldBefore+cs.Enemy.GoldReward {
		t.Fatalf("expected gold reward %d, got %d", cs.Enemy.GoldReward, st.Gold-goldBefore)
	}
	if st.XP == 0 && st.Stat(game.StatLevel) == 1 {
		t.Fatalf("expected xp or level gain after victory")
	}
	found := false
	for _, item := range st.Items {
		if item == "wolf_pelt" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected guaranteed wolf_pelt drop, items=%v", st.Items)
	}
}

func TestFoldCombatDefeat(t *testing.T) {
	st := newTestPlayer()
	st.Gold = 100
	cs := &game.CombatState{Result: game.CombatDefeat, Enemy: game.Enemy{GoldReward: 50}}
	FoldCombat(st, cs, NewRNG(1))

	if st.HP != 1 {
		t.Fatalf("defeat must leave the hero at 1 hp, got %d", st.HP)
	}
	if st.Gold != 90 {
		t.Fatalf("defeat must cost 10%% of gold, got %d", st.Gold)
	}
}

func TestFoldCombatVictoryFloorsHP(t *testing.T) {
	// A bleed tick can zero the hero on the same turn the enemy dies.
	st := newTestPlayer()
	cs := &game.CombatState{Result: game.CombatVictory, PlayerHP: 0}
	FoldCombat(st, cs, NewRNG(1))
	if st.HP != 1 {
		t.Fatalf("victory at zero hp must leave the hero at 1, got %d", st.HP)
	}
}

func TestFoldCombatEscapeKeepsDamage(t *testing.T) {
	st := newTestPlayer()
	cs := &game.CombatState{Result: game.CombatEscaped, PlayerHP: 12}
	FoldCombat(st, cs, NewRNG(1))
	if st.HP != 12 {
		t.Fatalf("escape must keep the hit points lost, got %d", st.HP)
	}
}

func TestRunEventuallyEscapes(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	st.Agility = 40
	rng := NewRNG(5)

	scene := *cat.Scene("den")
	scene.EnemyTemplate = "dummy"
	cs := InitCombat(cat, st, &scene, rng)
	for i := 0; i < 100 && !cs.Over(); i++ {
		if err := ResolveTurn(cat, st, cs, game.CommandRun, "", nil, rng); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if cs.Result != game.CombatEscaped {
		t.Fatalf("expected escape at 85%% per attempt, got %q", cs.Result)
	}
}

func TestResolveTurnRejectsFinishedCombat(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	cs := &game.CombatState{Result: game.CombatVictory, SkillCooldowns: map[string]int{}}
	if err := ResolveTurn(cat, st, cs, game.CommandAttack, "", nil, NewRNG(1)); err != game.ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestStunSkipsEnemyTurn(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	st.MaxHP = 1000
	st.HP = 1000
	rng := NewRNG(2)

	cs := InitCombat(cat, st, cat.Scene("den"), rng)
	cs.EnemyEffects = append(cs.EnemyEffects, game.StatusEffectInstance{Kind: game.StatusStun, Duration: 2})

	hpBefore := cs.PlayerHP
	if err := ResolveTurn(cat, st, cs, game.CommandAttack, "", nil, rng); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.PlayerHP != hpBefore {
		t.Fatalf("stunned enemy must not deal damage")
	}
}

func TestItemCommandWithoutResolver(t *testing.T) {
	cat := loadTestCatalog(t)
	st := newTestPlayer()
	rng := NewRNG(1)
	cs := InitCombat(cat, st, cat.Scene("den"), rng)

	if err := ResolveTurn(cat, st, cs, game.CommandItem, "potion", nil, rng); err != game.ErrInvalidAction {
		t.Fatalf("expected ErrInvalidAction without an item resolver, got %v", err)
	}
}
