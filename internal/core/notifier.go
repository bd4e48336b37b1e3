package core

import (
	"context"

	"petcore/pkg/domain"
)

// MilestoneNotifier receives lifecycle milestone events inside the same
// transaction that produced them. An error aborts the transaction, so
// awards never record without the lifecycle change that triggered them.
type MilestoneNotifier interface {
	FirstPetMinted(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64) error
	PetFed(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64) error
	PetPlayed(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64) error
	PetEvolved(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64, stage domain.EvolutionStage) error
	PetRevived(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64) error
	PerfectStats(ctx context.Context, tx domain.Transaction, holder string, tokenID uint64) error
}
