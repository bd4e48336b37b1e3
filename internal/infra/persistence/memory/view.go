package memory

import (
	"sort"

	"petcore/pkg/domain"
)

// TransactionView exposes a read-only snapshot of the transactional state to
// rules and queries.
type TransactionView struct {
	state *memoryState
}

var _ domain.TransactionView = TransactionView{}

func newTransactionView(state *memoryState) TransactionView {
	return TransactionView{state: state}
}

func listPets(state *memoryState) []domain.Pet {
	out := make([]domain.Pet, 0, len(state.pets))
	for _, p := range state.pets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TokenID < out[j].TokenID })
	return out
}

// ListPets returns all pets within the snapshot ordered by token id.
func (v TransactionView) ListPets() []domain.Pet { return listPets(v.state) }

// FindPet retrieves a pet by token id from the snapshot.
func (v TransactionView) FindPet(tokenID uint64) (domain.Pet, bool) {
	p, ok := v.state.pets[tokenID]
	return p, ok
}

// ListAchievements returns the catalog ordered by id.
func (v TransactionView) ListAchievements() []domain.Achievement {
	out := make([]domain.Achievement, 0, len(v.state.achievements))
	for _, a := range v.state.achievements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindAchievement retrieves a catalog entry by id.
func (v TransactionView) FindAchievement(id int) (domain.Achievement, bool) {
	a, ok := v.state.achievements[id]
	return a, ok
}

// Initialized reports whether contract-level state has been seeded.
func (v TransactionView) Initialized() bool { return v.state.initialized }

// ContractOwner returns the owning principal.
func (v TransactionView) ContractOwner() (string, bool) {
	if !v.state.initialized {
		return "", false
	}
	return v.state.contractOwner, true
}

// LifecyclePrincipal returns the registered companion-action principal.
func (v TransactionView) LifecyclePrincipal() (string, bool) {
	return v.state.lifecyclePrincipal, v.state.hasLifecycle
}

// Config returns the stored configuration.
func (v TransactionView) Config() (domain.Config, bool) {
	return v.state.config, v.state.hasConfig
}

// TokenOwner returns the holder of a token.
func (v TransactionView) TokenOwner(tokenID uint64) (string, bool) {
	holder, ok := v.state.tokenOwners[tokenID]
	return holder, ok
}

// HolderTokens returns the holder's enumeration list.
func (v TransactionView) HolderTokens(holder string) []uint64 {
	return append([]uint64(nil), v.state.holderTokens[holder]...)
}

// TokenURI returns the metadata URI of a token.
func (v TransactionView) TokenURI(tokenID uint64) (string, bool) {
	uri, ok := v.state.tokenURIs[tokenID]
	return uri, ok
}

// HasBadge reports whether the holder earned the achievement.
func (v TransactionView) HasBadge(key domain.BadgeKey) bool { return v.state.badges[key] }

// HasPetBadge reports whether the pet carries the badge.
func (v TransactionView) HasPetBadge(key domain.PetBadgeKey) bool { return v.state.petBadges[key] }

// BadgeBalance returns the holder's balance for the achievement.
func (v TransactionView) BadgeBalance(key domain.BadgeKey) uint64 { return v.state.balances[key] }

// BadgeSupply returns the global supply for the achievement.
func (v TransactionView) BadgeSupply(achievementID int) uint64 { return v.state.supplies[achievementID] }

// FeedCount returns the holder's feed counter.
func (v TransactionView) FeedCount(holder string) uint64 { return v.state.feedCounts[holder] }

// PlayCount returns the holder's play counter.
func (v TransactionView) PlayCount(holder string) uint64 { return v.state.playCounts[holder] }

// ReachedStage reports the per-(holder,stage) flag.
func (v TransactionView) ReachedStage(key domain.StageKey) bool { return v.state.reachedStages[key] }
