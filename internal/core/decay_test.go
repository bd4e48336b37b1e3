package core

import (
	"testing"
	"time"

	"petcore/pkg/domain"
)

func basePet() domain.Pet {
	return domain.Pet{
		TokenID:   1,
		Name:      "Rex",
		Stage:     domain.StageEgg,
		Happiness: 100,
		Hunger:    0,
		Health:    100,
	}
}

func TestAdvanceStatsFloorDivision(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()

	got := advanceStats(pet, 40, cfg, time.Unix(1000, 0))
	if got.Hunger != 1 {
		t.Fatalf("expected hunger 1 after 40 ticks, got %d", got.Hunger)
	}
	if got.Happiness != 100 {
		t.Fatalf("expected happiness unchanged after 40 ticks, got %d", got.Happiness)
	}
	if got.LastUpdatedTick != 40 {
		t.Fatalf("expected last updated tick 40, got %d", got.LastUpdatedTick)
	}
}

func TestAdvanceStatsNoElapsedTicks(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.LastUpdatedTick = 50

	got := advanceStats(pet, 50, cfg, time.Unix(1000, 0))
	if got != pet {
		t.Fatalf("expected no-op at zero elapsed ticks, got %+v", got)
	}
	got = advanceStats(pet, 40, cfg, time.Unix(1000, 0))
	if got != pet {
		t.Fatalf("expected no-op when current tick is behind, got %+v", got)
	}
}

func TestAdvanceStatsDeadPetUntouched(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.IsDead = true
	pet.Health = 0
	pet.DeathTimestamp = 500

	got := advanceStats(pet, 10_000, cfg, time.Unix(9000, 0))
	if got != pet {
		t.Fatalf("expected dead pet untouched, got %+v", got)
	}
}

func TestAdvanceStatsHealthPenalty(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.Hunger = 100

	got := advanceStats(pet, 1, cfg, time.Unix(1000, 0))
	if got.Health != 96 {
		t.Fatalf("expected health 96 after one pass at hunger 100, got %d", got.Health)
	}
	if got.IsDead {
		t.Fatal("pet should not be dead yet")
	}
}

func TestAdvanceStatsStarvationDeath(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.Hunger = 100
	pet.Health = 4

	now := time.Unix(7777, 0)
	got := advanceStats(pet, 1, cfg, now)
	if got.Health != 0 {
		t.Fatalf("expected health 0, got %d", got.Health)
	}
	if !got.IsDead {
		t.Fatal("expected pet to die at zero health")
	}
	if got.DeathTimestamp != now.Unix() {
		t.Fatalf("expected death timestamp %d, got %d", now.Unix(), got.DeathTimestamp)
	}
}

func TestAdvanceStatsPassiveRegeneration(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.Hunger = 10
	pet.Happiness = 90
	pet.Health = 95

	// A long gap still regenerates a single point per pass.
	got := advanceStats(pet, 10, cfg, time.Unix(1000, 0))
	if got.Health != 96 {
		t.Fatalf("expected health 96, got %d", got.Health)
	}
}

func TestAdvanceStatsNoRegenerationAtFullHealth(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.Hunger = 10
	pet.Happiness = 90

	got := advanceStats(pet, 10, cfg, time.Unix(1000, 0))
	if got.Health != 100 {
		t.Fatalf("expected health capped at 100, got %d", got.Health)
	}
}

func TestAdvanceStatsHungerSaturates(t *testing.T) {
	cfg := domain.DefaultConfig()
	pet := basePet()
	pet.Hunger = 50

	// 30 ticks/point * 200 points worth of elapsed time.
	got := advanceStats(pet, 6000, cfg, time.Unix(1000, 0))
	if got.Hunger != 100 {
		t.Fatalf("expected hunger saturated at 100, got %d", got.Hunger)
	}
	if got.Happiness != 0 {
		t.Fatalf("expected happiness floored at 0, got %d", got.Happiness)
	}
}

func TestPerfectStats(t *testing.T) {
	pet := basePet()
	if !perfectStats(pet) {
		t.Fatal("expected 100/0/100 to be perfect")
	}
	pet.Hunger = 1
	if perfectStats(pet) {
		t.Fatal("expected nonzero hunger to break perfection")
	}
}
