package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// BadgeKey identifies an earned badge or balance entry by (holder,
// achievement id). It is a single composite key rather than nested maps so
// that lookup semantics stay identical across backends.
type BadgeKey struct {
	Holder      string
	Achievement int
}

// String renders the deterministic snapshot encoding "holder/id".
func (k BadgeKey) String() string {
	return k.Holder + "/" + strconv.Itoa(k.Achievement)
}

// ParseBadgeKey decodes the snapshot encoding produced by String.
func ParseBadgeKey(s string) (BadgeKey, error) {
	idx := strings.LastIndex(s, "/")
	if idx < 0 {
		return BadgeKey{}, fmt.Errorf("malformed badge key %q", s)
	}
	id, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return BadgeKey{}, fmt.Errorf("malformed badge key %q: %w", s, err)
	}
	return BadgeKey{Holder: s[:idx], Achievement: id}, nil
}

// PetBadgeKey mirrors BadgeKey at pet granularity for provenance.
type PetBadgeKey struct {
	TokenID     uint64
	Achievement int
}

// String renders the deterministic snapshot encoding "tokenID/id".
func (k PetBadgeKey) String() string {
	return strconv.FormatUint(k.TokenID, 10) + "/" + strconv.Itoa(k.Achievement)
}

// ParsePetBadgeKey decodes the snapshot encoding produced by String.
func ParsePetBadgeKey(s string) (PetBadgeKey, error) {
	idx := strings.LastIndex(s, "/")
	if idx < 0 {
		return PetBadgeKey{}, fmt.Errorf("malformed pet badge key %q", s)
	}
	token, err := strconv.ParseUint(s[:idx], 10, 64)
	if err != nil {
		return PetBadgeKey{}, fmt.Errorf("malformed pet badge key %q: %w", s, err)
	}
	id, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return PetBadgeKey{}, fmt.Errorf("malformed pet badge key %q: %w", s, err)
	}
	return PetBadgeKey{TokenID: token, Achievement: id}, nil
}

// StageKey identifies a per-(holder,stage) reached flag.
type StageKey struct {
	Holder string
	Stage  EvolutionStage
}

// String renders the deterministic snapshot encoding "holder/stage".
func (k StageKey) String() string {
	return k.Holder + "/" + string(k.Stage)
}

// ParseStageKey decodes the snapshot encoding produced by String.
func ParseStageKey(s string) (StageKey, error) {
	idx := strings.LastIndex(s, "/")
	if idx < 0 {
		return StageKey{}, fmt.Errorf("malformed stage key %q", s)
	}
	return StageKey{Holder: s[:idx], Stage: EvolutionStage(s[idx+1:])}, nil
}
