// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
)

// Sentinel errors shared across the repositories and services. Callers
// wrap them with fmt.Errorf("...: %w", err) and handlers branch with
// errors.Is.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNoCredit     = errors.New("no referral credit available")
)
