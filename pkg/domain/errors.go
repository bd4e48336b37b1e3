package domain

import (
	"errors"
	"fmt"
)

// Fatal error kinds shared across the lifecycle service and the achievement
// ledger. Every check fails the whole operation; nothing is persisted.
var (
	// ErrAlreadyInitialized is returned when initialization is repeated.
	ErrAlreadyInitialized = errors.New("already initialized")
	// ErrNotInitialized is returned when an operation runs before initialization.
	ErrNotInitialized = errors.New("not initialized")
	// ErrUnauthorized is returned when the acting principal is not allowed
	// to perform the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidAchievementID is returned for achievement ids outside the catalog.
	ErrInvalidAchievementID = errors.New("invalid achievement id")
	// ErrAlreadyEarned is returned when a holder already earned the achievement.
	ErrAlreadyEarned = errors.New("achievement already earned")
	// ErrNotOwner is returned when the caller does not hold the pet.
	ErrNotOwner = errors.New("not the owner of this pet")
	// ErrPetDead is returned for actions that require a living pet.
	ErrPetDead = errors.New("pet is dead")
	// ErrPetNotDead is returned for revive attempts on a living pet.
	ErrPetNotDead = errors.New("pet is not dead")
	// ErrInvalidNameLength is returned when a pet name is empty or too long.
	ErrInvalidNameLength = errors.New("pet name must be 1-20 characters")
)

// ErrNotFound is returned when an entity lookup fails.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsNotFound reports whether err wraps an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
