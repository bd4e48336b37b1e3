// Package memory provides an in-memory implementation of the core
// persistence store used for tests and ephemeral environments. Each
// transaction runs against a copy of the state; the copy replaces the live
// state only after the transaction body and every registered rule succeed.
package memory

import (
	"context"
	"fmt"
	"sync"

	"petcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store provides an in-memory transactional store for the pet domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *domain.RulesEngine
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *domain.RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{state: newMemoryState(), engine: engine}
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	state   memoryState
	changes []domain.Change
}

var _ domain.Transaction = (*Transaction)(nil)

// RunInTransaction executes fn within a transactional copy of the store
// state. Blocking rule violations abort the commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newTransactionView(&snapshot))
}

// GetPet returns a pet by token id from the committed state.
func (s *Store) GetPet(tokenID uint64) (domain.Pet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.state.pets[tokenID]
	return pet, ok
}

// ListPets returns all committed pets ordered by token id.
func (s *Store) ListPets() []domain.Pet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listPets(&s.state)
}

func (tx *Transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot exposes a read-only view over the transactional state.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return newTransactionView(&tx.state)
}

// Initialized reports whether contract-level state has been seeded.
func (tx *Transaction) Initialized() bool { return tx.state.initialized }

// SetContractOwner records the owning principal and marks the state initialized.
func (tx *Transaction) SetContractOwner(principal string) {
	tx.state.contractOwner = principal
	tx.state.initialized = true
}

// ContractOwner returns the owning principal.
func (tx *Transaction) ContractOwner() (string, bool) {
	if !tx.state.initialized {
		return "", false
	}
	return tx.state.contractOwner, true
}

// LifecyclePrincipal returns the registered companion-action principal.
func (tx *Transaction) LifecyclePrincipal() (string, bool) {
	return tx.state.lifecyclePrincipal, tx.state.hasLifecycle
}

// SetLifecyclePrincipal registers the companion-action principal.
func (tx *Transaction) SetLifecyclePrincipal(principal string) {
	tx.state.lifecyclePrincipal = principal
	tx.state.hasLifecycle = true
}

// Config returns the stored configuration.
func (tx *Transaction) Config() (domain.Config, bool) {
	return tx.state.config, tx.state.hasConfig
}

// SetConfig stores the configuration.
func (tx *Transaction) SetConfig(cfg domain.Config) {
	tx.state.config = cfg
	tx.state.hasConfig = true
}

// AllocateTokenID returns the next token id and advances the counter.
func (tx *Transaction) AllocateTokenID() uint64 {
	id := tx.state.nextTokenID
	tx.state.nextTokenID++
	return id
}

// CreatePet stores a new pet within the transaction.
func (tx *Transaction) CreatePet(p domain.Pet) (domain.Pet, error) {
	if _, exists := tx.state.pets[p.TokenID]; exists {
		return domain.Pet{}, fmt.Errorf("pet %d already exists", p.TokenID)
	}
	tx.state.pets[p.TokenID] = p
	tx.recordChange(domain.Change{Entity: domain.EntityPet, Action: domain.ActionCreate, After: p})
	return p, nil
}

// UpdatePet mutates a pet using the provided mutator function.
func (tx *Transaction) UpdatePet(tokenID uint64, mutator func(*domain.Pet) error) (domain.Pet, error) {
	current, ok := tx.state.pets[tokenID]
	if !ok {
		return domain.Pet{}, domain.ErrNotFound{Entity: domain.EntityPet, ID: fmt.Sprintf("%d", tokenID)}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Pet{}, err
	}
	current.TokenID = tokenID
	tx.state.pets[tokenID] = current
	tx.recordChange(domain.Change{Entity: domain.EntityPet, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// TokenOwner returns the holder of a token.
func (tx *Transaction) TokenOwner(tokenID uint64) (string, bool) {
	holder, ok := tx.state.tokenOwners[tokenID]
	return holder, ok
}

// SetTokenOwner records the holder of a token.
func (tx *Transaction) SetTokenOwner(tokenID uint64, holder string) {
	tx.state.tokenOwners[tokenID] = holder
}

// HolderTokens returns the holder's enumeration list.
func (tx *Transaction) HolderTokens(holder string) []uint64 {
	return append([]uint64(nil), tx.state.holderTokens[holder]...)
}

// AppendHolderToken appends a token to the holder's enumeration list.
func (tx *Transaction) AppendHolderToken(holder string, tokenID uint64) {
	tx.state.holderTokens[holder] = append(tx.state.holderTokens[holder], tokenID)
}

// RemoveHolderToken removes a token from the holder's enumeration list.
func (tx *Transaction) RemoveHolderToken(holder string, tokenID uint64) {
	tokens := tx.state.holderTokens[holder]
	out := tokens[:0]
	for _, id := range tokens {
		if id != tokenID {
			out = append(out, id)
		}
	}
	tx.state.holderTokens[holder] = out
}

// TokenURI returns the metadata URI of a token.
func (tx *Transaction) TokenURI(tokenID uint64) (string, bool) {
	uri, ok := tx.state.tokenURIs[tokenID]
	return uri, ok
}

// SetTokenURI records the metadata URI of a token.
func (tx *Transaction) SetTokenURI(tokenID uint64, uri string) {
	tx.state.tokenURIs[tokenID] = uri
}

// PutAchievement stores a catalog entry.
func (tx *Transaction) PutAchievement(a domain.Achievement) error {
	if a.ID < 0 || a.ID >= domain.TotalAchievements {
		return domain.ErrInvalidAchievementID
	}
	tx.state.achievements[a.ID] = a
	tx.recordChange(domain.Change{Entity: domain.EntityAchievement, Action: domain.ActionCreate, After: a})
	return nil
}

// UpdateAchievement mutates a catalog entry.
func (tx *Transaction) UpdateAchievement(id int, mutator func(*domain.Achievement) error) (domain.Achievement, error) {
	current, ok := tx.state.achievements[id]
	if !ok {
		return domain.Achievement{}, domain.ErrNotFound{Entity: domain.EntityAchievement, ID: fmt.Sprintf("%d", id)}
	}
	before := current
	if err := mutator(&current); err != nil {
		return domain.Achievement{}, err
	}
	current.ID = id
	tx.state.achievements[id] = current
	tx.recordChange(domain.Change{Entity: domain.EntityAchievement, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// HasBadge reports whether the holder earned the achievement.
func (tx *Transaction) HasBadge(key domain.BadgeKey) bool { return tx.state.badges[key] }

// SetBadge marks the achievement earned for the holder.
func (tx *Transaction) SetBadge(key domain.BadgeKey) {
	tx.state.badges[key] = true
	tx.recordChange(domain.Change{Entity: domain.EntityBadge, Action: domain.ActionCreate, After: key})
}

// HasPetBadge reports whether the pet carries the badge.
func (tx *Transaction) HasPetBadge(key domain.PetBadgeKey) bool { return tx.state.petBadges[key] }

// SetPetBadge marks the badge on the pet.
func (tx *Transaction) SetPetBadge(key domain.PetBadgeKey) { tx.state.petBadges[key] = true }

// BadgeBalance returns the holder's balance for the achievement.
func (tx *Transaction) BadgeBalance(key domain.BadgeKey) uint64 { return tx.state.balances[key] }

// AddBadgeBalance increments the holder's balance for the achievement.
func (tx *Transaction) AddBadgeBalance(key domain.BadgeKey, delta uint64) {
	tx.state.balances[key] += delta
}

// BadgeSupply returns the global supply for the achievement.
func (tx *Transaction) BadgeSupply(achievementID int) uint64 { return tx.state.supplies[achievementID] }

// AddBadgeSupply increments the global supply for the achievement.
func (tx *Transaction) AddBadgeSupply(achievementID int, delta uint64) {
	tx.state.supplies[achievementID] += delta
}

// FeedCount returns the holder's feed counter.
func (tx *Transaction) FeedCount(holder string) uint64 { return tx.state.feedCounts[holder] }

// IncrementFeedCount advances and returns the holder's feed counter.
func (tx *Transaction) IncrementFeedCount(holder string) uint64 {
	tx.state.feedCounts[holder]++
	return tx.state.feedCounts[holder]
}

// PlayCount returns the holder's play counter.
func (tx *Transaction) PlayCount(holder string) uint64 { return tx.state.playCounts[holder] }

// IncrementPlayCount advances and returns the holder's play counter.
func (tx *Transaction) IncrementPlayCount(holder string) uint64 {
	tx.state.playCounts[holder]++
	return tx.state.playCounts[holder]
}

// HasFirstPet reports the holder's first-mint flag.
func (tx *Transaction) HasFirstPet(holder string) bool { return tx.state.firstPet[holder] }

// SetFirstPet records the holder's first-mint flag.
func (tx *Transaction) SetFirstPet(holder string) { tx.state.firstPet[holder] = true }

// HasEvolved reports the holder's first-evolution flag.
func (tx *Transaction) HasEvolved(holder string) bool { return tx.state.evolved[holder] }

// SetEvolved records the holder's first-evolution flag.
func (tx *Transaction) SetEvolved(holder string) { tx.state.evolved[holder] = true }

// HasRevived reports the holder's first-revival flag.
func (tx *Transaction) HasRevived(holder string) bool { return tx.state.revived[holder] }

// SetRevived records the holder's first-revival flag.
func (tx *Transaction) SetRevived(holder string) { tx.state.revived[holder] = true }

// ReachedStage reports the per-(holder,stage) flag.
func (tx *Transaction) ReachedStage(key domain.StageKey) bool { return tx.state.reachedStages[key] }

// SetReachedStage records the per-(holder,stage) flag.
func (tx *Transaction) SetReachedStage(key domain.StageKey) { tx.state.reachedStages[key] = true }
