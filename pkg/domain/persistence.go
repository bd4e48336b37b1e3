package domain

import "context"

// Transaction exposes the domain operations that a persistence
// implementation must support within an atomic scope. Every public service
// operation runs inside exactly one transaction: either all of its writes
// (pet mutation plus ledger mutation) commit, or none do.
type Transaction interface {
	Snapshot() TransactionView

	// Contract-level state.
	Initialized() bool
	SetContractOwner(principal string)
	ContractOwner() (string, bool)
	LifecyclePrincipal() (string, bool)
	SetLifecyclePrincipal(principal string)
	Config() (Config, bool)
	SetConfig(Config)
	// AllocateTokenID returns the next token id and advances the counter.
	AllocateTokenID() uint64

	// Pet entity and ownership bookkeeping.
	CreatePet(Pet) (Pet, error)
	UpdatePet(tokenID uint64, mutator func(*Pet) error) (Pet, error)
	TokenOwner(tokenID uint64) (string, bool)
	SetTokenOwner(tokenID uint64, holder string)
	HolderTokens(holder string) []uint64
	AppendHolderToken(holder string, tokenID uint64)
	RemoveHolderToken(holder string, tokenID uint64)
	TokenURI(tokenID uint64) (string, bool)
	SetTokenURI(tokenID uint64, uri string)

	// Achievement catalog and badge ledger.
	PutAchievement(Achievement) error
	UpdateAchievement(id int, mutator func(*Achievement) error) (Achievement, error)
	HasBadge(BadgeKey) bool
	SetBadge(BadgeKey)
	HasPetBadge(PetBadgeKey) bool
	SetPetBadge(PetBadgeKey)
	BadgeBalance(BadgeKey) uint64
	AddBadgeBalance(BadgeKey, uint64)
	BadgeSupply(achievementID int) uint64
	AddBadgeSupply(achievementID int, delta uint64)

	// Milestone counters and flags.
	FeedCount(holder string) uint64
	IncrementFeedCount(holder string) uint64
	PlayCount(holder string) uint64
	IncrementPlayCount(holder string) uint64
	HasFirstPet(holder string) bool
	SetFirstPet(holder string)
	HasEvolved(holder string) bool
	SetEvolved(holder string)
	HasRevived(holder string) bool
	SetRevived(holder string)
	ReachedStage(StageKey) bool
	SetReachedStage(StageKey)
}

// TransactionView provides read-only access to snapshot data for rules and
// queries.
type TransactionView interface {
	RuleView

	Initialized() bool
	ContractOwner() (string, bool)
	LifecyclePrincipal() (string, bool)
	Config() (Config, bool)
	TokenOwner(tokenID uint64) (string, bool)
	HolderTokens(holder string) []uint64
	TokenURI(tokenID uint64) (string, bool)
	HasBadge(BadgeKey) bool
	HasPetBadge(PetBadgeKey) bool
	BadgeBalance(BadgeKey) uint64
	BadgeSupply(achievementID int) uint64
	FeedCount(holder string) uint64
	PlayCount(holder string) uint64
	ReachedStage(StageKey) bool
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetPet(tokenID uint64) (Pet, bool)
	ListPets() []Pet
}
