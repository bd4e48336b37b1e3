package memory

import (
	"fmt"

	"petcore/pkg/domain"
)

// Snapshot is the serialisable representation of the in-memory state.
// Composite keys use their deterministic string encodings so that every
// durable backend stores identical payloads.
type Snapshot struct {
	Initialized        bool          `json:"initialized"`
	ContractOwner      string        `json:"contract_owner"`
	LifecyclePrincipal string        `json:"lifecycle_principal,omitempty"`
	HasLifecycle       bool          `json:"has_lifecycle"`
	Config             domain.Config `json:"config"`
	HasConfig          bool          `json:"has_config"`
	NextTokenID        uint64        `json:"next_token_id"`

	Pets         map[uint64]domain.Pet `json:"pets"`
	TokenOwners  map[uint64]string     `json:"token_owners"`
	HolderTokens map[string][]uint64   `json:"holder_tokens"`
	TokenURIs    map[uint64]string     `json:"token_uris"`

	Achievements map[int]domain.Achievement `json:"achievements"`
	Badges       map[string]bool            `json:"badges"`
	PetBadges    map[string]bool            `json:"pet_badges"`
	Balances     map[string]uint64          `json:"balances"`
	Supplies     map[int]uint64             `json:"supplies"`

	FeedCounts    map[string]uint64 `json:"feed_counts"`
	PlayCounts    map[string]uint64 `json:"play_counts"`
	FirstPet      map[string]bool   `json:"first_pet"`
	Evolved       map[string]bool   `json:"evolved"`
	Revived       map[string]bool   `json:"revived"`
	ReachedStages map[string]bool   `json:"reached_stages"`
}

// ExportState returns a snapshot of the committed state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state.clone()
	snap := Snapshot{
		Initialized:        st.initialized,
		ContractOwner:      st.contractOwner,
		LifecyclePrincipal: st.lifecyclePrincipal,
		HasLifecycle:       st.hasLifecycle,
		Config:             st.config,
		HasConfig:          st.hasConfig,
		NextTokenID:        st.nextTokenID,
		Pets:               st.pets,
		TokenOwners:        st.tokenOwners,
		HolderTokens:       st.holderTokens,
		TokenURIs:          st.tokenURIs,
		Achievements:       st.achievements,
		Badges:             make(map[string]bool, len(st.badges)),
		PetBadges:          make(map[string]bool, len(st.petBadges)),
		Balances:           make(map[string]uint64, len(st.balances)),
		Supplies:           st.supplies,
		FeedCounts:         st.feedCounts,
		PlayCounts:         st.playCounts,
		FirstPet:           st.firstPet,
		Evolved:            st.evolved,
		Revived:            st.revived,
		ReachedStages:      make(map[string]bool, len(st.reachedStages)),
	}
	for k, v := range st.badges {
		snap.Badges[k.String()] = v
	}
	for k, v := range st.petBadges {
		snap.PetBadges[k.String()] = v
	}
	for k, v := range st.balances {
		snap.Balances[k.String()] = v
	}
	for k, v := range st.reachedStages {
		snap.ReachedStages[k.String()] = v
	}
	return snap
}

// ImportState replaces the committed state with the snapshot contents.
func (s *Store) ImportState(snap Snapshot) error {
	st := newMemoryState()
	st.initialized = snap.Initialized
	st.contractOwner = snap.ContractOwner
	st.lifecyclePrincipal = snap.LifecyclePrincipal
	st.hasLifecycle = snap.HasLifecycle
	st.config = snap.Config
	st.hasConfig = snap.HasConfig
	if snap.NextTokenID > 0 {
		st.nextTokenID = snap.NextTokenID
	}
	for k, v := range snap.Pets {
		st.pets[k] = v
	}
	for k, v := range snap.TokenOwners {
		st.tokenOwners[k] = v
	}
	for k, v := range snap.HolderTokens {
		st.holderTokens[k] = append([]uint64(nil), v...)
	}
	for k, v := range snap.TokenURIs {
		st.tokenURIs[k] = v
	}
	for k, v := range snap.Achievements {
		st.achievements[k] = v
	}
	for raw, v := range snap.Badges {
		key, err := domain.ParseBadgeKey(raw)
		if err != nil {
			return fmt.Errorf("import badges: %w", err)
		}
		st.badges[key] = v
	}
	for raw, v := range snap.PetBadges {
		key, err := domain.ParsePetBadgeKey(raw)
		if err != nil {
			return fmt.Errorf("import pet badges: %w", err)
		}
		st.petBadges[key] = v
	}
	for raw, v := range snap.Balances {
		key, err := domain.ParseBadgeKey(raw)
		if err != nil {
			return fmt.Errorf("import balances: %w", err)
		}
		st.balances[key] = v
	}
	for k, v := range snap.Supplies {
		st.supplies[k] = v
	}
	for k, v := range snap.FeedCounts {
		st.feedCounts[k] = v
	}
	for k, v := range snap.PlayCounts {
		st.playCounts[k] = v
	}
	for k, v := range snap.FirstPet {
		st.firstPet[k] = v
	}
	for k, v := range snap.Evolved {
		st.evolved[k] = v
	}
	for k, v := range snap.Revived {
		st.revived[k] = v
	}
	for raw, v := range snap.ReachedStages {
		key, err := domain.ParseStageKey(raw)
		if err != nil {
			return fmt.Errorf("import reached stages: %w", err)
		}
		st.reachedStages[key] = v
	}

	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	return nil
}
