package core

import (
	"context"
	"fmt"
	"strconv"

	"petcore/pkg/domain"
)

// StageProgressionRule enforces forward-only evolution. A pet may advance at
// most one stage per transaction and never regress.
func StageProgressionRule() domain.Rule {
	return stageProgressionRule{}
}

type stageProgressionRule struct{}

func (stageProgressionRule) Name() string { return "stage_progression" }

func (stageProgressionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityPet || change.After == nil {
			continue
		}
		after, ok := change.After.(domain.Pet)
		if !ok {
			continue
		}
		afterLevel, known := after.Stage.Level()
		if !known {
			blockStage(&res, after.TokenID, fmt.Sprintf("unknown stage %q", after.Stage))
			continue
		}
		if change.Action == domain.ActionCreate {
			if after.Stage != domain.StageEgg {
				blockStage(&res, after.TokenID, fmt.Sprintf("pet created at stage %q", after.Stage))
			}
			continue
		}
		before, ok := change.Before.(domain.Pet)
		if !ok {
			continue
		}
		beforeLevel, known := before.Stage.Level()
		if !known {
			continue
		}
		switch {
		case afterLevel < beforeLevel:
			blockStage(&res, after.TokenID, fmt.Sprintf("stage regressed from %q to %q", before.Stage, after.Stage))
		case afterLevel > beforeLevel+1:
			blockStage(&res, after.TokenID, fmt.Sprintf("stage skipped from %q to %q", before.Stage, after.Stage))
		}
	}
	return res, nil
}

func blockStage(res *domain.Result, tokenID uint64, msg string) {
	res.Violations = append(res.Violations, domain.Violation{
		Rule:     "stage_progression",
		Severity: domain.SeverityBlock,
		Message:  msg,
		Entity:   domain.EntityPet,
		EntityID: strconv.FormatUint(tokenID, 10),
	})
}
