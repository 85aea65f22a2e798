package store

import (
	"context"
	"sync"
	"time"
)

type Options struct {
	// Latency defaults to Uniform(DefaultMinLatency, DefaultMaxLatency)
	Latency Latency
	// Now defaults to time.Now
	Now func() time.Time
}

// MemoryStore implements RecordStore with an in-memory slice
type MemoryStore[T any, P Record[T]] struct {
	mu      sync.RWMutex
	records []T
	lastID  int64 // highest id ever assigned, never decreases

	latency Latency
	now     func() time.Time
}

// NewMemoryStore creates a store holding copies of initial.
// Records without an id get one assigned in order.
func NewMemoryStore[T any, P Record[T]](initial []T, opts Options) *MemoryStore[T, P] {
	s := &MemoryStore[T, P]{
		records: make([]T, 0, len(initial)),
		latency: opts.Latency,
		now:     opts.Now,
	}
	if s.latency == nil {
		s.latency = Uniform(DefaultMinLatency, DefaultMaxLatency)
	}
	if s.now == nil {
		s.now = time.Now
	}

	for i := range initial {
		if id := P(&initial[i]).RecordID(); id > s.lastID {
			s.lastID = id
		}
	}
	for i := range initial {
		rec := P(&initial[i]).Clone()
		if P(&rec).RecordID() <= 0 {
			s.lastID++
			P(&rec).SetRecordID(s.lastID)
		}
		s.records = append(s.records, rec)
	}

	return s
}

// All returns copies of every record in insertion order
func (s *MemoryStore[T, P]) All(ctx context.Context) ([]T, error) {
	return s.Filter(ctx, nil)
}

// Get returns a copy of the record with the given id
func (s *MemoryStore[T, P]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := wait(ctx, s.latency); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}
	return P(&s.records[i]).Clone(), nil
}

// Filter returns copies of matching records; a nil keep matches everything
func (s *MemoryStore[T, P]) Filter(ctx context.Context, keep func(T) bool) ([]T, error) {
	if err := wait(ctx, s.latency); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.records))
	for i := range s.records {
		rec := P(&s.records[i]).Clone()
		if keep == nil || keep(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Create assigns the next id and appends the record
func (s *MemoryStore[T, P]) Create(ctx context.Context, record T) (T, error) {
	var zero T
	if err := wait(ctx, s.latency); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := P(&record).Clone()
	s.lastID++
	P(&rec).SetRecordID(s.lastID)
	P(&rec).Touch(s.now(), true)

	s.records = append(s.records, rec)
	return P(&rec).Clone(), nil
}

// Update merges changes into the stored record; the id cannot change
func (s *MemoryStore[T, P]) Update(ctx context.Context, id int64, mutate func(*T)) (T, error) {
	var zero T
	if err := wait(ctx, s.latency); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	next := P(&s.records[i]).Clone()
	if mutate != nil {
		mutate(&next)
	}
	P(&next).SetRecordID(id)
	P(&next).Touch(s.now(), false)

	s.records[i] = next
	return P(&next).Clone(), nil
}

// Delete removes the record and returns what was stored
func (s *MemoryStore[T, P]) Delete(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := wait(ctx, s.latency); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, ErrNotFound
	}

	removed := P(&s.records[i]).Clone()
	copy(s.records[i:], s.records[i+1:])
	s.records[len(s.records)-1] = zero
	s.records = s.records[:len(s.records)-1]
	return removed, nil
}

// indexOf must be called with mu held
func (s *MemoryStore[T, P]) indexOf(id int64) int {
	for i := range s.records {
		if P(&s.records[i]).RecordID() == id {
			return i
		}
	}
	return -1
}
