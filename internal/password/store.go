package password

import (
	"context"
	"sync"
	"time"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Pattern records which candidate rule decrypted a bank's statements before,
// so later runs can try it first.
type Pattern struct {
	// Source is the builder provenance tag, e.g. "ddmmyy+card6".
	Source string

	// Hits counts how many statements this pattern has decrypted.
	Hits int

	UpdatedAt time.Time
}

// PatternStore is the pluggable cache of learned password patterns. The
// pipeline never assumes a particular backend; hosts may persist patterns
// wherever they like.
type PatternStore interface {
	Get(ctx context.Context, bank statement.BankCode) (Pattern, bool)
	Put(ctx context.Context, bank statement.BankCode, p Pattern)
}

// MemoryStore is an in-memory PatternStore safe for concurrent use. Data is
// lost on restart; hosts wanting persistence wrap their own backend.
type MemoryStore struct {
	mu       sync.RWMutex
	patterns map[statement.BankCode]Pattern
}

// NewMemoryStore creates an empty in-memory pattern store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patterns: make(map[statement.BankCode]Pattern)}
}

// Get returns the learned pattern for a bank, if any.
func (s *MemoryStore) Get(_ context.Context, bank statement.BankCode) (Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[bank]
	return p, ok
}

// Put records a pattern for a bank. A repeat of the already-stored source
// increments its hit count instead of resetting it.
func (s *MemoryStore) Put(_ context.Context, bank statement.BankCode, p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.patterns[bank]
	if ok && existing.Source == p.Source {
		existing.Hits++
		existing.UpdatedAt = time.Now()
		s.patterns[bank] = existing
		return
	}

	if p.Hits == 0 {
		p.Hits = 1
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	s.patterns[bank] = p
}

var _ PatternStore = (*MemoryStore)(nil)
