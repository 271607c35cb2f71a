package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Find when no entity exists for the key.
var ErrNotFound = errors.New("entity not found")

// Store is a keyed document store. The conversation engine and the payment
// subsystem only need get/set semantics; both the in-memory and the Mongo
// implementations satisfy this interface.
type Store[T any] interface {
	Find(ctx context.Context, key string) (T, error)
	Save(ctx context.Context, key string, entity T) error
	Delete(ctx context.Context, key string) error
	FindAll(ctx context.Context) ([]T, error)
}
