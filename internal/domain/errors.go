package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBrandNotFound indicates the referenced brand row does not exist.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrImageNotFound indicates the referenced image record does not exist
	// or belongs to another user.
	ErrImageNotFound = errors.New("image not found")
	// ErrCreditConflict indicates the conditional balance update kept losing
	// to concurrent writers and the bounded retry budget ran out.
	ErrCreditConflict = errors.New("credit balance changed concurrently")
)

// InsufficientCreditsError is returned when a chargeable request finds a
// balance below the cost. It carries the balance observed at read time so
// handlers can echo it back to the caller.
type InsufficientCreditsError struct {
	Balance int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: balance %d", e.Balance)
}
