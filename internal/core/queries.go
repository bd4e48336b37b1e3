package core

import (
	"context"
	"fmt"

	"petcore/internal/ledger"
	"petcore/pkg/domain"
)

// PetInfo returns the pet's read model, with age and staleness computed
// against the current tick. It does not persist decay; call UpdateState for
// that.
func (s *Service) PetInfo(ctx context.Context, tokenID uint64) (domain.PetInfo, error) {
	var info domain.PetInfo
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		pet, ok := view.FindPet(tokenID)
		if !ok {
			return domain.ErrNotFound{Entity: domain.EntityPet, ID: fmt.Sprintf("%d", tokenID)}
		}
		tick := s.ticks.CurrentTick()
		info = domain.PetInfo{
			TokenID:        pet.TokenID,
			Name:           pet.Name,
			BirthTick:      pet.BirthTick,
			AgeTicks:       pet.Age(tick),
			Stage:          pet.Stage,
			Happiness:      pet.Happiness,
			Hunger:         pet.Hunger,
			Health:         pet.Health,
			IsDead:         pet.IsDead,
			DeathTimestamp: pet.DeathTimestamp,
		}
		if tick > pet.LastUpdatedTick {
			info.TicksSinceUpdate = tick - pet.LastUpdatedTick
		}
		return nil
	})
	return info, err
}

// OwnerOf returns the holder of a token.
func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (string, error) {
	var holder string
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		h, ok := view.TokenOwner(tokenID)
		if !ok {
			return domain.ErrNotFound{Entity: domain.EntityPet, ID: fmt.Sprintf("%d", tokenID)}
		}
		holder = h
		return nil
	})
	return holder, err
}

// BalanceOf returns how many pets the holder owns.
func (s *Service) BalanceOf(ctx context.Context, holder string) (int, error) {
	var balance int
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		balance = len(view.HolderTokens(holder))
		return nil
	})
	return balance, err
}

// PetsOf returns the holder's token ids in acquisition order.
func (s *Service) PetsOf(ctx context.Context, holder string) ([]uint64, error) {
	var tokens []uint64
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		tokens = view.HolderTokens(holder)
		return nil
	})
	return tokens, err
}

// TokenURI returns the pet's metadata URI, falling back to the egg default
// for pets minted before a URI was recorded.
func (s *Service) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	var uri string
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		if _, ok := view.FindPet(tokenID); !ok {
			return domain.ErrNotFound{Entity: domain.EntityPet, ID: fmt.Sprintf("%d", tokenID)}
		}
		u, ok := view.TokenURI(tokenID)
		if !ok {
			u = s.uris.StageURI(domain.StageEgg)
		}
		uri = u
		return nil
	})
	return uri, err
}

// Owner returns the contract owner principal.
func (s *Service) Owner(ctx context.Context) (string, error) {
	var owner string
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		o, ok := view.ContractOwner()
		if !ok {
			return domain.ErrNotInitialized
		}
		owner = o
		return nil
	})
	return owner, err
}

// Config returns the stored configuration, or the service default before
// initialization.
func (s *Service) Config(ctx context.Context) (domain.Config, error) {
	cfg := s.cfg
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		if stored, ok := view.Config(); ok {
			cfg = stored
		}
		return nil
	})
	return cfg, err
}

// UserAchievements returns the achievement ids the holder earned.
func (s *Service) UserAchievements(ctx context.Context, holder string) ([]int, error) {
	var earned []int
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		earned = ledger.UserAchievements(view, holder)
		return nil
	})
	return earned, err
}

// PetAchievements returns the achievement ids recorded against the pet.
func (s *Service) PetAchievements(ctx context.Context, tokenID uint64) ([]int, error) {
	var earned []int
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		earned = ledger.PetAchievements(view, tokenID)
		return nil
	})
	return earned, err
}

// AchievementDetails returns one catalog entry.
func (s *Service) AchievementDetails(ctx context.Context, achievementID int) (domain.Achievement, error) {
	var achievement domain.Achievement
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		a, err := ledger.AchievementDetails(view, achievementID)
		if err != nil {
			return err
		}
		achievement = a
		return nil
	})
	return achievement, err
}

// AllAchievements returns the full catalog in id order.
func (s *Service) AllAchievements(ctx context.Context) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		achievements = ledger.AllAchievements(view)
		return nil
	})
	return achievements, err
}

// HasEarned reports whether the holder earned the achievement.
func (s *Service) HasEarned(ctx context.Context, holder string, achievementID int) (bool, error) {
	var earned bool
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		earned = ledger.HasEarned(view, holder, achievementID)
		return nil
	})
	return earned, err
}

// AchievementBalance returns the holder's badge balance for an achievement.
func (s *Service) AchievementBalance(ctx context.Context, holder string, achievementID int) (uint64, error) {
	var balance uint64
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		balance = ledger.BalanceOf(view, holder, achievementID)
		return nil
	})
	return balance, err
}

// AchievementSupply returns the global minted count for an achievement.
func (s *Service) AchievementSupply(ctx context.Context, achievementID int) (uint64, error) {
	var supply uint64
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		supply = ledger.TotalSupply(view, achievementID)
		return nil
	})
	return supply, err
}

// UserAchievementCount returns how many distinct achievements the holder
// earned.
func (s *Service) UserAchievementCount(ctx context.Context, holder string) (int, error) {
	var count int
	err := s.store.View(ctx, func(view domain.TransactionView) error {
		count = ledger.UserAchievementCount(view, holder)
		return nil
	})
	return count, err
}
