package instruments

import (
	"errors"
	"sort"
	"sync"

	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

var ErrInstrumentNotFound = errors.New("instrument not found")

// Registry is an immutable in-memory symbol metadata table. It is built once
// at startup, either from the database or from the built-in seed, and shared
// read-only across workers.
type Registry struct {
	mu          sync.RWMutex
	instruments map[string]domain.Instrument
}

// NewRegistry builds a registry from a metadata slice.
func NewRegistry(instruments []domain.Instrument) *Registry {
	table := make(map[string]domain.Instrument, len(instruments))
	for _, instrument := range instruments {
		table[instrument.Symbol] = instrument
	}
	return &Registry{instruments: table}
}

// NewStaticRegistry builds a registry from the built-in seed table, for
// environments without a metadata database.
func NewStaticRegistry() *Registry {
	return NewRegistry(Seed())
}

// Instrument looks up one symbol's metadata.
func (r *Registry) Instrument(symbol string) (domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instrument, ok := r.instruments[symbol]
	if !ok {
		return domain.Instrument{}, ErrInstrumentNotFound
	}
	return instrument, nil
}

// Symbols returns all known symbols in sorted order.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	symbols := make([]string, 0, len(r.instruments))
	for symbol := range r.instruments {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
