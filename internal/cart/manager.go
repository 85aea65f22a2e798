package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fjod/apna-store/internal/domain"
)

// DefaultKey is the storage key the cart snapshot is saved under
const DefaultKey = "rl-apna-store-cart"

type Option func(*Manager)

func WithKey(key string) Option {
	return func(m *Manager) { m.key = key }
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// Snapshot is a consistent view of the cart at one instant.
type Snapshot struct {
	Lines       []domain.CartLine `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
	TotalItems  int               `json:"totalItems"`
}

// Manager owns the cart lines. State changes apply synchronously and never
// wait on storage; the latest state is persisted in the background.
type Manager struct {
	mu     sync.RWMutex
	lines  []domain.CartLine
	closed bool

	key     string
	log     *slog.Logger
	persist *persister
}

// NewManager restores the cart saved in storage. A missing snapshot gives an
// empty cart; an unreadable one is removed and replaced by an empty cart.
func NewManager(ctx context.Context, storage Storage, opts ...Option) *Manager {
	m := &Manager{
		key: DefaultKey,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("component", "cart", "key", m.key)
	m.persist = newPersister(storage, m.key, m.log)

	m.load(ctx, storage)
	return m
}

func (m *Manager) load(ctx context.Context, storage Storage) {
	saved, err := storage.Get(ctx, m.key)
	if errors.Is(err, ErrKeyNotFound) {
		return
	}
	if err != nil {
		m.log.ErrorContext(ctx, "cart load failed, starting empty", "error", err)
		return
	}

	lines, err := decodeLines(saved)
	if err != nil {
		m.log.WarnContext(ctx, "discarding corrupt cart snapshot", "error", err)
		if errRemove := storage.Remove(ctx, m.key); errRemove != nil {
			m.log.ErrorContext(ctx, "cart snapshot remove failed", "error", errRemove)
		}
		m.mu.Lock()
		m.persistLocked()
		m.mu.Unlock()
		return
	}
	m.lines = lines
}

// AddToCart appends line, or adds its quantity to the existing line with the
// same product id. The existing line's other fields are kept.
func (m *Manager) AddToCart(line domain.CartLine) {
	if line.ProductID <= 0 || line.Quantity < 1 {
		m.log.Warn("ignoring malformed cart line", "product_id", line.ProductID, "quantity", line.Quantity)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(line.ProductID); i >= 0 {
		m.lines[i].Quantity += line.Quantity
	} else {
		m.lines = append(m.lines, line)
	}
	m.persistLocked()
}

// UpdateQuantity sets the quantity exactly; below 1 the line is removed.
func (m *Manager) UpdateQuantity(productID int64, quantity int) {
	if quantity < 1 {
		m.RemoveFromCart(productID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(productID); i >= 0 {
		m.lines[i].Quantity = quantity
	}
	m.persistLocked()
}

func (m *Manager) RemoveFromCart(productID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(productID); i >= 0 {
		m.lines = append(m.lines[:i], m.lines[i+1:]...)
	}
	m.persistLocked()
}

// RemoveLines subtracts each line's quantity from the matching cart line,
// dropping lines that fall below 1. Products added since lines were read stay.
func (m *Manager) RemoveLines(lines []domain.CartLine) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range lines {
		i := m.indexOf(l.ProductID)
		if i < 0 {
			continue
		}
		m.lines[i].Quantity -= l.Quantity
		if m.lines[i].Quantity < 1 {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
		}
	}
	m.persistLocked()
}

func (m *Manager) ClearCart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = nil
	m.persistLocked()
}

func (m *Manager) TotalAmount() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.TotalAmount(m.lines)
}

func (m *Manager) TotalItems() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.TotalItems(m.lines)
}

func (m *Manager) IsInCart(productID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOf(productID) >= 0
}

// ItemQuantity returns 0 for products not in the cart.
func (m *Manager) ItemQuantity(productID int64) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(productID); i >= 0 {
		return m.lines[i].Quantity
	}
	return 0
}

// Lines returns a copy of the lines in insertion order.
func (m *Manager) Lines() []domain.CartLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return nonNil(domain.CloneLines(m.lines))
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Lines:       nonNil(domain.CloneLines(m.lines)),
		TotalAmount: domain.TotalAmount(m.lines),
		TotalItems:  domain.TotalItems(m.lines),
	}
}

// Flush waits until the latest snapshot queued so far has been written.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.RLock()
	closed := m.closed
	m.mu.RUnlock()
	if closed {
		return nil
	}
	return m.persist.flush(ctx)
}

// Close writes pending snapshots and stops the writer. Later mutations are
// kept in memory only.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return m.persist.stop(ctx)
}

// indexOf must be called with mu held
func (m *Manager) indexOf(productID int64) int {
	for i := range m.lines {
		if m.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// persistLocked must be called with mu held so the newest pending snapshot is the latest state
func (m *Manager) persistLocked() {
	if m.closed {
		m.log.Warn("cart closed, change not persisted")
		return
	}
	encoded, err := json.Marshal(nonNil(m.lines))
	if err != nil {
		m.log.Error("cart encode failed", "error", err)
		return
	}
	m.persist.enqueue(string(encoded))
}

func decodeLines(saved string) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(saved), &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.ProductID <= 0 || l.Quantity < 1 {
			return nil, fmt.Errorf("invalid cart line for product %d with quantity %d", l.ProductID, l.Quantity)
		}
		if seen[l.ProductID] {
			return nil, fmt.Errorf("duplicate cart line for product %d", l.ProductID)
		}
		seen[l.ProductID] = true
	}
	return lines, nil
}

func nonNil(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return []domain.CartLine{}
	}
	return lines
}
