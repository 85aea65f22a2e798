package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an operation addresses an id that is not stored.
var ErrNotFound = errors.New("not found")

// Record is implemented by the pointer type of every entity kept in a MemoryStore.
type Record[T any] interface {
	*T
	RecordID() int64
	SetRecordID(id int64)
	// Clone returns a deep copy so stored values never alias caller memory
	Clone() T
	// Touch stamps timestamps; created is true only for Create
	Touch(now time.Time, created bool)
}

// RecordStore defines the create/read/update/delete contract shared by the product and order stores
type RecordStore[T any] interface {
	// All returns copies of every record in insertion order
	All(ctx context.Context) ([]T, error)

	// Get returns a copy of the record with the given id or ErrNotFound
	Get(ctx context.Context, id int64) (T, error)

	// Filter returns copies of the records matching keep, in insertion order
	Filter(ctx context.Context, keep func(T) bool) ([]T, error)

	// Create assigns the next id, stamps the record and appends it
	Create(ctx context.Context, record T) (T, error)

	// Update applies mutate to the stored record, keeping its id, or returns ErrNotFound
	Update(ctx context.Context, id int64, mutate func(*T)) (T, error)

	// Delete removes the record and returns it, or returns ErrNotFound
	Delete(ctx context.Context, id int64) (T, error)
}
