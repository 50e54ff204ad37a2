// Package dao provides data access objects for use in the gramq server.
package dao

import (
	"context"
	"errors"
	"time"

	"github.com/dekarrin/gramq/grammar"
	"github.com/google/uuid"
)

var (
	// ErrConstraintViolation is returned when a write would break a unique
	// column, such as a second grammar with the same name.
	ErrConstraintViolation = errors.New("unique constraint violated")

	// ErrNotFound is returned when no record matches a lookup.
	ErrNotFound = errors.New("record not found")
)

// Store holds all the repositories.
type Store interface {
	Grammars() GrammarRepository
	Close() error
}

// GrammarRepository persists Grammars. Names are unique; creating a Grammar
// with a name already in use gives ErrConstraintViolation.
type GrammarRepository interface {

	// Create creates a new Grammar. All attributes except for auto-generated
	// fields are taken from the provided Grammar.
	Create(ctx context.Context, g Grammar) (Grammar, error)
	GetAll(ctx context.Context) ([]Grammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (Grammar, error)
	GetByName(ctx context.Context, name string) (Grammar, error)
	Delete(ctx context.Context, id uuid.UUID) (Grammar, error)
	Close() error
}

// Grammar is a stored set of raw rules along with the settings used to
// normalize them and recognize input with them.
type Grammar struct {
	ID       uuid.UUID
	Name     string
	Start    string
	Splitter string
	Rules    grammar.Grammar
	Created  time.Time
	Modified time.Time
}
