package core

import (
	"time"

	"petcore/pkg/domain"
)

// advanceStats catches a pet up to the current tick, applying hunger growth,
// happiness decay, the hunger-driven health penalty, slow passive health
// regeneration, and death detection. It is a pure function of the pet, the
// elapsed ticks, and the configured rates; dead pets are left untouched.
func advanceStats(pet domain.Pet, currentTick uint64, cfg domain.Config, now time.Time) domain.Pet {
	if pet.IsDead || currentTick <= pet.LastUpdatedTick {
		return pet
	}
	elapsed := currentTick - pet.LastUpdatedTick

	hungerIncrease := int(elapsed / cfg.TicksPerHungerPoint)
	happinessDecrease := int(elapsed / cfg.TicksPerHappinessPoint)

	if hungerIncrease > 0 {
		pet.Hunger = domain.ClampStat(pet.Hunger + hungerIncrease)
	}
	if happinessDecrease > 0 {
		pet.Happiness = domain.ClampStat(pet.Happiness - happinessDecrease)
	}

	if pet.Hunger > 80 && pet.Health > 0 {
		healthDecrease := (pet.Hunger - 80) / 5
		pet.Health = domain.ClampStat(pet.Health - healthDecrease)
	} else if pet.Hunger < 30 && pet.Happiness > 70 && pet.Health < 100 {
		// Passive regeneration is capped at one point per pass regardless
		// of how many ticks elapsed.
		pet.Health++
	}

	pet.LastUpdatedTick = currentTick

	if pet.Health == 0 && !pet.IsDead {
		pet.IsDead = true
		pet.DeathTimestamp = now.Unix()
	}
	return pet
}

// perfectStats reports whether the pet hit the perfect-stats milestone.
func perfectStats(pet domain.Pet) bool {
	return pet.Happiness == domain.StatMax && pet.Hunger == domain.StatMin && pet.Health == domain.StatMax
}
