// Package domain defines the persistent entities, value types, and rule
// evaluation primitives used by petcore.
package domain

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityPet identifies an individual pet record.
	EntityPet EntityType = "pet"
	// EntityAchievement identifies an achievement catalog record.
	EntityAchievement EntityType = "achievement"
	// EntityBadge identifies a per-holder earned badge record.
	EntityBadge EntityType = "badge"
)

// EvolutionStage represents the canonical pet lifecycle states. Pets advance
// forward only, one stage per evaluation.
type EvolutionStage string

// Canonical evolution stages ordered Egg < Baby < Teen < Adult.
const (
	StageEgg   EvolutionStage = "egg"
	StageBaby  EvolutionStage = "baby"
	StageTeen  EvolutionStage = "teen"
	StageAdult EvolutionStage = "adult"
)

// stageLevels maps each stage to its ordinal position in the progression.
var stageLevels = map[EvolutionStage]int{
	StageEgg:   0,
	StageBaby:  1,
	StageTeen:  2,
	StageAdult: 3,
}

// Level returns the ordinal position of the stage (Egg=0 … Adult=3) and
// false for an unknown stage value.
func (s EvolutionStage) Level() (int, bool) {
	lvl, ok := stageLevels[s]
	return lvl, ok
}

// StageFromLevel returns the stage with the given ordinal position.
func StageFromLevel(level int) (EvolutionStage, bool) {
	for stage, lvl := range stageLevels {
		if lvl == level {
			return stage, true
		}
	}
	return "", false
}

// Stat bounds shared by all pet stats.
const (
	StatMin = 0
	StatMax = 100
)

// ClampStat saturates a stat value into the [StatMin, StatMax] range.
func ClampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

// Pet is the persistent pet entity, one per minted token. Stats are always
// within [0,100]; IsDead implies Health == 0. Dead pets persist as
// tombstoned records until an explicit revive.
type Pet struct {
	TokenID         uint64         `json:"token_id"`
	Name            string         `json:"name"`
	BirthTick       uint64         `json:"birth_tick"`
	LastUpdatedTick uint64         `json:"last_updated_tick"`
	Stage           EvolutionStage `json:"stage"`
	Happiness       int            `json:"happiness"`
	Hunger          int            `json:"hunger"`
	Health          int            `json:"health"`
	IsDead          bool           `json:"is_dead"`
	DeathTimestamp  int64          `json:"death_timestamp"`
}

// Age returns the pet's age in ticks at the given current tick.
func (p Pet) Age(currentTick uint64) uint64 {
	if currentTick < p.BirthTick {
		return 0
	}
	return currentTick - p.BirthTick
}

// PetInfo is the read-model returned by pet info queries.
type PetInfo struct {
	TokenID          uint64         `json:"token_id"`
	Name             string         `json:"name"`
	BirthTick        uint64         `json:"birth_tick"`
	AgeTicks         uint64         `json:"age_ticks"`
	Stage            EvolutionStage `json:"stage"`
	Happiness        int            `json:"happiness"`
	Hunger           int            `json:"hunger"`
	Health           int            `json:"health"`
	TicksSinceUpdate uint64         `json:"ticks_since_update"`
	IsDead           bool           `json:"is_dead"`
	DeathTimestamp   int64          `json:"death_timestamp"`
}

// Achievement is one entry of the fixed eight-achievement catalog. The
// descriptive fields are immutable after initialization; TotalEarned counts
// successful awards across all holders.
type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Icon        string `json:"icon"`
	TotalEarned uint64 `json:"total_earned"`
}

// TotalAchievements is the size of the fixed achievement catalog.
const TotalAchievements = 8

// Catalog achievement identifiers.
const (
	AchievementFirstSteps      = 0 // first pet minted
	AchievementMetamorphosis   = 1 // first evolution (reached Baby)
	AchievementDeathSurvivor   = 2 // first revival
	AchievementTripleEvolution = 3 // reached Teen
	AchievementPerfectionist   = 4 // all stats perfect simultaneously
	AchievementStreakMaster    = 5 // fed 10 times
	AchievementActivePlayer    = 6 // played 10 times
	AchievementLegend          = 7 // reached Adult
)

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported mutations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
