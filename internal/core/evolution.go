package core

import "petcore/pkg/domain"

// stageGate describes one forward transition of the evolution machine.
type stageGate struct {
	from         domain.EvolutionStage
	to           domain.EvolutionStage
	minAge       uint64
	minHappiness int
	minHealth    int
}

// evolutionGates returns the ordered transition table. Ages are cumulative
// from birth; Adult is terminal.
func evolutionGates(cfg domain.Config) []stageGate {
	return []stageGate{
		{from: domain.StageEgg, to: domain.StageBaby, minAge: cfg.EggToBabyTicks},
		{from: domain.StageBaby, to: domain.StageTeen, minAge: cfg.BabyToTeenTicks, minHappiness: cfg.EvolutionHappinessThreshold},
		{from: domain.StageTeen, to: domain.StageAdult, minAge: cfg.TeenToAdultTicks, minHappiness: cfg.EvolutionHappinessThreshold, minHealth: cfg.EvolutionHealthThreshold},
	}
}

// evaluateEvolution advances the pet by at most one stage. It returns the
// (possibly updated) pet, the stage advanced to, and whether an advancement
// happened. Callers that want multi-level catch-up must re-invoke after
// committing a transition; the machine never cascades.
func evaluateEvolution(pet domain.Pet, age uint64, cfg domain.Config) (domain.Pet, domain.EvolutionStage, bool) {
	for _, gate := range evolutionGates(cfg) {
		if gate.from != pet.Stage {
			continue
		}
		if age < gate.minAge {
			return pet, "", false
		}
		if pet.Happiness < gate.minHappiness {
			return pet, "", false
		}
		if pet.Health < gate.minHealth {
			return pet, "", false
		}
		pet.Stage = gate.to
		return pet, gate.to, true
	}
	return pet, "", false
}
