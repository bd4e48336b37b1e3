package core

import (
	"context"
	"fmt"
	"strconv"

	"petcore/pkg/domain"
)

// StatBoundsRule rejects any pet write whose stats leave the valid range or
// whose death flag disagrees with its health.
func StatBoundsRule() domain.Rule {
	return statBoundsRule{}
}

type statBoundsRule struct{}

func (statBoundsRule) Name() string { return "stat_bounds" }

func (statBoundsRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityPet || change.After == nil {
			continue
		}
		pet, ok := change.After.(domain.Pet)
		if !ok {
			continue
		}
		checkStat(&res, pet, "happiness", pet.Happiness)
		checkStat(&res, pet, "hunger", pet.Hunger)
		checkStat(&res, pet, "health", pet.Health)
		if pet.IsDead && pet.Health != 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "stat_bounds",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("pet %d is marked dead with health %d", pet.TokenID, pet.Health),
				Entity:   domain.EntityPet,
				EntityID: strconv.FormatUint(pet.TokenID, 10),
			})
		}
	}
	return res, nil
}

func checkStat(res *domain.Result, pet domain.Pet, name string, value int) {
	if value >= domain.StatMin && value <= domain.StatMax {
		return
	}
	res.Violations = append(res.Violations, domain.Violation{
		Rule:     "stat_bounds",
		Severity: domain.SeverityBlock,
		Message:  fmt.Sprintf("pet %d %s %d outside [%d,%d]", pet.TokenID, name, value, domain.StatMin, domain.StatMax),
		Entity:   domain.EntityPet,
		EntityID: strconv.FormatUint(pet.TokenID, 10),
	})
}
