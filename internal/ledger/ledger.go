// Package ledger maintains the achievement catalog and the badge ledger:
// per-holder earned flags, per-pet badges, balances, and global supply.
// Award writes happen inside the caller's transaction so a failed lifecycle
// action never leaves a badge behind.
package ledger

import (
	"context"
	"fmt"

	"petcore/pkg/domain"
)

// milestoneThreshold is the feed/play count at which the streak
// achievements unlock.
const milestoneThreshold = 10

// Ledger is the achievement companion component. The zero value is usable;
// options attach observation hooks.
type Ledger struct {
	awardHook func(holder string, achievement domain.Achievement)
}

// Option customizes a Ledger.
type Option func(*Ledger)

// WithAwardHook registers a callback invoked after every successful award,
// before the transaction commits.
func WithAwardHook(fn func(holder string, achievement domain.Achievement)) Option {
	return func(l *Ledger) { l.awardHook = fn }
}

// New constructs a Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Catalog returns the fixed eight-entry achievement catalog with zero
// earned counts.
func Catalog() []domain.Achievement {
	return []domain.Achievement{
		{ID: domain.AchievementFirstSteps, Name: "First Steps", Description: "Mint your first PetWorld pet", Rarity: "Common", Icon: "🥚"},
		{ID: domain.AchievementMetamorphosis, Name: "Metamorphosis", Description: "Evolve your pet for the first time", Rarity: "Rare", Icon: "🦋"},
		{ID: domain.AchievementDeathSurvivor, Name: "Death Survivor", Description: "Revive a pet from death", Rarity: "Rare", Icon: "💀"},
		{ID: domain.AchievementTripleEvolution, Name: "Triple Evolution", Description: "Reach Teen stage (Level 3)", Rarity: "Epic", Icon: "🌟"},
		{ID: domain.AchievementPerfectionist, Name: "Perfectionist", Description: "Get all stats to 100", Rarity: "Epic", Icon: "💯"},
		{ID: domain.AchievementStreakMaster, Name: "Streak Master", Description: "Feed your pet 10 times", Rarity: "Uncommon", Icon: "🔥"},
		{ID: domain.AchievementActivePlayer, Name: "Active Player", Description: "Play with your pet 10 times", Rarity: "Uncommon", Icon: "🎮"},
		{ID: domain.AchievementLegend, Name: "Legend", Description: "Reach Adult stage (Level 4)", Rarity: "Legendary", Icon: "👑"},
	}
}

// Initialize seeds the achievement catalog. It fails with
// ErrAlreadyInitialized when the catalog is already present.
func (l *Ledger) Initialize(tx domain.Transaction) error {
	if _, exists := tx.Snapshot().FindAchievement(domain.AchievementFirstSteps); exists {
		return domain.ErrAlreadyInitialized
	}
	for _, achievement := range Catalog() {
		if err := tx.PutAchievement(achievement); err != nil {
			return fmt.Errorf("seed achievement %d: %w", achievement.ID, err)
		}
	}
	return nil
}

// RegisterLifecycle names the principal trusted to report lifecycle
// milestones. Only the contract owner may call it.
func (l *Ledger) RegisterLifecycle(tx domain.Transaction, caller, principal string) error {
	owner, ok := tx.ContractOwner()
	if !ok {
		return domain.ErrNotInitialized
	}
	if caller != owner {
		return domain.ErrUnauthorized
	}
	tx.SetLifecyclePrincipal(principal)
	return nil
}

// authorize admits the contract owner and the registered lifecycle
// principal, nobody else.
func (l *Ledger) authorize(tx domain.Transaction, caller string) error {
	owner, ok := tx.ContractOwner()
	if !ok {
		return domain.ErrNotInitialized
	}
	if caller == owner {
		return nil
	}
	if principal, ok := tx.LifecyclePrincipal(); ok && caller == principal {
		return nil
	}
	return domain.ErrUnauthorized
}

// Award grants an achievement to holder for the given pet. It fails with
// ErrAlreadyEarned when the holder already has the badge.
func (l *Ledger) Award(tx domain.Transaction, caller, holder string, achievementID int, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	granted, err := l.TryAward(tx, holder, achievementID, tokenID)
	if err != nil {
		return err
	}
	if !granted {
		return domain.ErrAlreadyEarned
	}
	return nil
}

// TryAward grants an achievement unless the holder already earned it.
// It reports whether a badge was actually written. The caller is trusted;
// authorization happens at the entry points.
func (l *Ledger) TryAward(tx domain.Transaction, holder string, achievementID int, tokenID uint64) (bool, error) {
	if achievementID < 0 || achievementID >= domain.TotalAchievements {
		return false, domain.ErrInvalidAchievementID
	}
	key := domain.BadgeKey{Holder: holder, Achievement: achievementID}
	if tx.HasBadge(key) {
		return false, nil
	}
	tx.SetBadge(key)
	tx.SetPetBadge(domain.PetBadgeKey{TokenID: tokenID, Achievement: achievementID})
	achievement, err := tx.UpdateAchievement(achievementID, func(a *domain.Achievement) error {
		a.TotalEarned++
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update achievement %d: %w", achievementID, err)
	}
	tx.AddBadgeBalance(key, 1)
	tx.AddBadgeSupply(achievementID, 1)
	if l.awardHook != nil {
		l.awardHook(holder, achievement)
	}
	return true, nil
}

// RecordFirstPet is the authorized entry point for the first-mint milestone.
func (l *Ledger) RecordFirstPet(tx domain.Transaction, caller, holder string, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.firstPet(tx, holder, tokenID)
}

// RecordFeed is the authorized entry point for the feed milestone.
func (l *Ledger) RecordFeed(tx domain.Transaction, caller, holder string, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.fed(tx, holder, tokenID)
}

// RecordPlay is the authorized entry point for the play milestone.
func (l *Ledger) RecordPlay(tx domain.Transaction, caller, holder string, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.played(tx, holder, tokenID)
}

// RecordEvolution is the authorized entry point for stage milestones.
func (l *Ledger) RecordEvolution(tx domain.Transaction, caller, holder string, tokenID uint64, stage domain.EvolutionStage) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.evolved(tx, holder, tokenID, stage)
}

// RecordRevival is the authorized entry point for the revival milestone.
func (l *Ledger) RecordRevival(tx domain.Transaction, caller, holder string, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.revived(tx, holder, tokenID)
}

// RecordPerfectStats is the authorized entry point for the perfect-stats
// milestone.
func (l *Ledger) RecordPerfectStats(tx domain.Transaction, caller, holder string, tokenID uint64) error {
	if err := l.authorize(tx, caller); err != nil {
		return err
	}
	return l.perfect(tx, holder, tokenID)
}

// FirstPetMinted implements the trusted in-process milestone path.
func (l *Ledger) FirstPetMinted(_ context.Context, tx domain.Transaction, holder string, tokenID uint64) error {
	return l.firstPet(tx, holder, tokenID)
}

// PetFed implements the trusted in-process milestone path.
func (l *Ledger) PetFed(_ context.Context, tx domain.Transaction, holder string, tokenID uint64) error {
	return l.fed(tx, holder, tokenID)
}

// PetPlayed implements the trusted in-process milestone path.
func (l *Ledger) PetPlayed(_ context.Context, tx domain.Transaction, holder string, tokenID uint64) error {
	return l.played(tx, holder, tokenID)
}

// PetEvolved implements the trusted in-process milestone path.
func (l *Ledger) PetEvolved(_ context.Context, tx domain.Transaction, holder string, tokenID uint64, stage domain.EvolutionStage) error {
	return l.evolved(tx, holder, tokenID, stage)
}

// PetRevived implements the trusted in-process milestone path.
func (l *Ledger) PetRevived(_ context.Context, tx domain.Transaction, holder string, tokenID uint64) error {
	return l.revived(tx, holder, tokenID)
}

// PerfectStats implements the trusted in-process milestone path.
func (l *Ledger) PerfectStats(_ context.Context, tx domain.Transaction, holder string, tokenID uint64) error {
	return l.perfect(tx, holder, tokenID)
}

func (l *Ledger) firstPet(tx domain.Transaction, holder string, tokenID uint64) error {
	if tx.HasFirstPet(holder) {
		return nil
	}
	tx.SetFirstPet(holder)
	_, err := l.TryAward(tx, holder, domain.AchievementFirstSteps, tokenID)
	return err
}

func (l *Ledger) fed(tx domain.Transaction, holder string, tokenID uint64) error {
	if tx.IncrementFeedCount(holder) < milestoneThreshold {
		return nil
	}
	_, err := l.TryAward(tx, holder, domain.AchievementStreakMaster, tokenID)
	return err
}

func (l *Ledger) played(tx domain.Transaction, holder string, tokenID uint64) error {
	if tx.IncrementPlayCount(holder) < milestoneThreshold {
		return nil
	}
	_, err := l.TryAward(tx, holder, domain.AchievementActivePlayer, tokenID)
	return err
}

func (l *Ledger) evolved(tx domain.Transaction, holder string, tokenID uint64, stage domain.EvolutionStage) error {
	switch stage {
	case domain.StageBaby:
		if tx.HasEvolved(holder) {
			return nil
		}
		tx.SetEvolved(holder)
		_, err := l.TryAward(tx, holder, domain.AchievementMetamorphosis, tokenID)
		return err
	case domain.StageTeen:
		key := domain.StageKey{Holder: holder, Stage: stage}
		if tx.ReachedStage(key) {
			return nil
		}
		tx.SetReachedStage(key)
		_, err := l.TryAward(tx, holder, domain.AchievementTripleEvolution, tokenID)
		return err
	case domain.StageAdult:
		key := domain.StageKey{Holder: holder, Stage: stage}
		if tx.ReachedStage(key) {
			return nil
		}
		tx.SetReachedStage(key)
		_, err := l.TryAward(tx, holder, domain.AchievementLegend, tokenID)
		return err
	default:
		return nil
	}
}

func (l *Ledger) revived(tx domain.Transaction, holder string, tokenID uint64) error {
	if tx.HasRevived(holder) {
		return nil
	}
	tx.SetRevived(holder)
	_, err := l.TryAward(tx, holder, domain.AchievementDeathSurvivor, tokenID)
	return err
}

func (l *Ledger) perfect(tx domain.Transaction, holder string, tokenID uint64) error {
	_, err := l.TryAward(tx, holder, domain.AchievementPerfectionist, tokenID)
	return err
}
