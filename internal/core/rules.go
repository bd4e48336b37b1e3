package core

import "petcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in invariant
// set. The rules are defense in depth over the orchestrator's own clamping:
// a violating write means a bug, and the transaction must not commit.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(StatBoundsRule())
	engine.Register(StageProgressionRule())
	return engine
}
