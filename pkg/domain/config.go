package domain

// Config carries the decay rates, evolution thresholds, and action costs.
// Values are set once at initialization and read thereafter; changing them
// mid-lifecycle is not supported.
type Config struct {
	// TicksPerHungerPoint is the number of elapsed ticks per +1 hunger.
	TicksPerHungerPoint uint64 `json:"ticks_per_hunger_point"`
	// TicksPerHappinessPoint is the number of elapsed ticks per -1 happiness.
	TicksPerHappinessPoint uint64 `json:"ticks_per_happiness_point"`

	// Cumulative age gates for stage transitions, in ticks.
	EggToBabyTicks   uint64 `json:"egg_to_baby_ticks"`
	BabyToTeenTicks  uint64 `json:"baby_to_teen_ticks"`
	TeenToAdultTicks uint64 `json:"teen_to_adult_ticks"`
	// EvolutionHappinessThreshold gates Baby->Teen and Teen->Adult.
	EvolutionHappinessThreshold int `json:"evolution_happiness_threshold"`
	// EvolutionHealthThreshold gates Teen->Adult.
	EvolutionHealthThreshold int `json:"evolution_health_threshold"`

	// Action costs in stroops. Payment execution is external to this module;
	// the values are retained so callers can surface them.
	MintCost    uint64 `json:"mint_cost"`
	FeedCost    uint64 `json:"feed_cost"`
	RevivalCost uint64 `json:"revival_cost"`
}

// DefaultConfig returns the canonical configuration. Hunger climbs one
// point every 30 ticks (0 to 100 in about 4.2 hours at 5s ticks) and
// happiness drops one point every 60 ticks.
func DefaultConfig() Config {
	return Config{
		TicksPerHungerPoint:         30,
		TicksPerHappinessPoint:      60,
		EggToBabyTicks:              36,
		BabyToTeenTicks:             84,
		TeenToAdultTicks:            144,
		EvolutionHappinessThreshold: 60,
		EvolutionHealthThreshold:    80,
		MintCost:                    10_000_000_000,
		FeedCost:                    1_000_000_000,
		RevivalCost:                 5_000_000_000,
	}
}
