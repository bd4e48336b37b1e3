package memory

import (
	"encoding/json"
	"fmt"

	"petcore/pkg/domain"
)

// BucketNames enumerates the persistence buckets durable backends snapshot
// after each committed transaction.
var BucketNames = []string{"meta", "pets", "ownership", "achievements", "ledger", "milestones"}

// Buckets groups the snapshot into independently stored payloads.
type Buckets struct {
	Meta       MetaBucket
	Pets       map[uint64]domain.Pet
	Ownership  OwnershipBucket
	Catalog    map[int]domain.Achievement
	Ledger     LedgerBucket
	Milestones MilestoneBucket
}

// MetaBucket holds contract-level scalars.
type MetaBucket struct {
	Initialized        bool          `json:"initialized"`
	ContractOwner      string        `json:"contract_owner"`
	LifecyclePrincipal string        `json:"lifecycle_principal,omitempty"`
	HasLifecycle       bool          `json:"has_lifecycle"`
	Config             domain.Config `json:"config"`
	HasConfig          bool          `json:"has_config"`
	NextTokenID        uint64        `json:"next_token_id"`
}

// OwnershipBucket holds token ownership and enumeration state.
type OwnershipBucket struct {
	TokenOwners  map[uint64]string   `json:"token_owners"`
	HolderTokens map[string][]uint64 `json:"holder_tokens"`
	TokenURIs    map[uint64]string   `json:"token_uris"`
}

// LedgerBucket holds badge and balance state.
type LedgerBucket struct {
	Badges    map[string]bool   `json:"badges"`
	PetBadges map[string]bool   `json:"pet_badges"`
	Balances  map[string]uint64 `json:"balances"`
	Supplies  map[int]uint64    `json:"supplies"`
}

// MilestoneBucket holds per-holder counters and one-time flags.
type MilestoneBucket struct {
	FeedCounts    map[string]uint64 `json:"feed_counts"`
	PlayCounts    map[string]uint64 `json:"play_counts"`
	FirstPet      map[string]bool   `json:"first_pet"`
	Evolved       map[string]bool   `json:"evolved"`
	Revived       map[string]bool   `json:"revived"`
	ReachedStages map[string]bool   `json:"reached_stages"`
}

// SplitSnapshot partitions a snapshot into storage buckets.
func SplitSnapshot(snap Snapshot) Buckets {
	return Buckets{
		Meta: MetaBucket{
			Initialized:        snap.Initialized,
			ContractOwner:      snap.ContractOwner,
			LifecyclePrincipal: snap.LifecyclePrincipal,
			HasLifecycle:       snap.HasLifecycle,
			Config:             snap.Config,
			HasConfig:          snap.HasConfig,
			NextTokenID:        snap.NextTokenID,
		},
		Pets: snap.Pets,
		Ownership: OwnershipBucket{
			TokenOwners:  snap.TokenOwners,
			HolderTokens: snap.HolderTokens,
			TokenURIs:    snap.TokenURIs,
		},
		Catalog: snap.Achievements,
		Ledger: LedgerBucket{
			Badges:    snap.Badges,
			PetBadges: snap.PetBadges,
			Balances:  snap.Balances,
			Supplies:  snap.Supplies,
		},
		Milestones: MilestoneBucket{
			FeedCounts:    snap.FeedCounts,
			PlayCounts:    snap.PlayCounts,
			FirstPet:      snap.FirstPet,
			Evolved:       snap.Evolved,
			Revived:       snap.Revived,
			ReachedStages: snap.ReachedStages,
		},
	}
}

// JoinSnapshot reassembles a snapshot from storage buckets.
func JoinSnapshot(b Buckets) Snapshot {
	return Snapshot{
		Initialized:        b.Meta.Initialized,
		ContractOwner:      b.Meta.ContractOwner,
		LifecyclePrincipal: b.Meta.LifecyclePrincipal,
		HasLifecycle:       b.Meta.HasLifecycle,
		Config:             b.Meta.Config,
		HasConfig:          b.Meta.HasConfig,
		NextTokenID:        b.Meta.NextTokenID,
		Pets:               b.Pets,
		TokenOwners:        b.Ownership.TokenOwners,
		HolderTokens:       b.Ownership.HolderTokens,
		TokenURIs:          b.Ownership.TokenURIs,
		Achievements:       b.Catalog,
		Badges:             b.Ledger.Badges,
		PetBadges:          b.Ledger.PetBadges,
		Balances:           b.Ledger.Balances,
		Supplies:           b.Ledger.Supplies,
		FeedCounts:         b.Milestones.FeedCounts,
		PlayCounts:         b.Milestones.PlayCounts,
		FirstPet:           b.Milestones.FirstPet,
		Evolved:            b.Milestones.Evolved,
		Revived:            b.Milestones.Revived,
		ReachedStages:      b.Milestones.ReachedStages,
	}
}

// MarshalBucket encodes one bucket payload.
func MarshalBucket(b Buckets, name string) ([]byte, error) {
	switch name {
	case "meta":
		return json.Marshal(b.Meta)
	case "pets":
		return json.Marshal(b.Pets)
	case "ownership":
		return json.Marshal(b.Ownership)
	case "achievements":
		return json.Marshal(b.Catalog)
	case "ledger":
		return json.Marshal(b.Ledger)
	case "milestones":
		return json.Marshal(b.Milestones)
	}
	return nil, fmt.Errorf("unknown bucket %s", name)
}

// UnmarshalBucket decodes one bucket payload into the group.
func UnmarshalBucket(b *Buckets, name string, payload []byte) error {
	switch name {
	case "meta":
		return json.Unmarshal(payload, &b.Meta)
	case "pets":
		return json.Unmarshal(payload, &b.Pets)
	case "ownership":
		return json.Unmarshal(payload, &b.Ownership)
	case "achievements":
		return json.Unmarshal(payload, &b.Catalog)
	case "ledger":
		return json.Unmarshal(payload, &b.Ledger)
	case "milestones":
		return json.Unmarshal(payload, &b.Milestones)
	}
	return fmt.Errorf("unknown bucket %s", name)
}
