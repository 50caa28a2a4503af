package transaction

import (
	"context"
	"errors"
)

// ErrNotFound keeps store-level 404s consistent across in-memory and
// postgres implementations. Services translate it into a coded domain error.
var ErrNotFound = errors.New("transaction not found")

// Store persists transaction aggregates keyed by identifier. Stores are
// interface-driven so the orchestrator stays testable and persistence can be
// swapped without rewiring business code.
//
// Implementations must return deep copies from FindByID and List; the
// orchestrator exclusively owns every aggregate it mutates.
type Store interface {
	Save(ctx context.Context, tx *Transaction) error
	FindByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context) ([]*Transaction, error)
}
