package memory

import "petcore/pkg/domain"

type memoryState struct {
	initialized        bool
	contractOwner      string
	lifecyclePrincipal string
	hasLifecycle       bool
	config             domain.Config
	hasConfig          bool
	nextTokenID        uint64

	pets         map[uint64]domain.Pet
	tokenOwners  map[uint64]string
	holderTokens map[string][]uint64
	tokenURIs    map[uint64]string

	achievements map[int]domain.Achievement
	badges       map[domain.BadgeKey]bool
	petBadges    map[domain.PetBadgeKey]bool
	balances     map[domain.BadgeKey]uint64
	supplies     map[int]uint64

	feedCounts    map[string]uint64
	playCounts    map[string]uint64
	firstPet      map[string]bool
	evolved       map[string]bool
	revived       map[string]bool
	reachedStages map[domain.StageKey]bool
}

func newMemoryState() memoryState {
	return memoryState{
		nextTokenID:   1,
		pets:          make(map[uint64]domain.Pet),
		tokenOwners:   make(map[uint64]string),
		holderTokens:  make(map[string][]uint64),
		tokenURIs:     make(map[uint64]string),
		achievements:  make(map[int]domain.Achievement),
		badges:        make(map[domain.BadgeKey]bool),
		petBadges:     make(map[domain.PetBadgeKey]bool),
		balances:      make(map[domain.BadgeKey]uint64),
		supplies:      make(map[int]uint64),
		feedCounts:    make(map[string]uint64),
		playCounts:    make(map[string]uint64),
		firstPet:      make(map[string]bool),
		evolved:       make(map[string]bool),
		revived:       make(map[string]bool),
		reachedStages: make(map[domain.StageKey]bool),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	cloned.initialized = s.initialized
	cloned.contractOwner = s.contractOwner
	cloned.lifecyclePrincipal = s.lifecyclePrincipal
	cloned.hasLifecycle = s.hasLifecycle
	cloned.config = s.config
	cloned.hasConfig = s.hasConfig
	cloned.nextTokenID = s.nextTokenID
	for k, v := range s.pets {
		cloned.pets[k] = v
	}
	for k, v := range s.tokenOwners {
		cloned.tokenOwners[k] = v
	}
	for k, v := range s.holderTokens {
		cloned.holderTokens[k] = append([]uint64(nil), v...)
	}
	for k, v := range s.tokenURIs {
		cloned.tokenURIs[k] = v
	}
	for k, v := range s.achievements {
		cloned.achievements[k] = v
	}
	for k, v := range s.badges {
		cloned.badges[k] = v
	}
	for k, v := range s.petBadges {
		cloned.petBadges[k] = v
	}
	for k, v := range s.balances {
		cloned.balances[k] = v
	}
	for k, v := range s.supplies {
		cloned.supplies[k] = v
	}
	for k, v := range s.feedCounts {
		cloned.feedCounts[k] = v
	}
	for k, v := range s.playCounts {
		cloned.playCounts[k] = v
	}
	for k, v := range s.firstPet {
		cloned.firstPet[k] = v
	}
	for k, v := range s.evolved {
		cloned.evolved[k] = v
	}
	for k, v := range s.revived {
		cloned.revived[k] = v
	}
	for k, v := range s.reachedStages {
		cloned.reachedStages[k] = v
	}
	return cloned
}
