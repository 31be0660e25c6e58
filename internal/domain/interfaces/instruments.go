package interfaces

import (
	domain "github.com/rosasurfer/fx-history-tools/internal/domain/entity/instruments"
)

// InstrumentsRegistry is a read-only view of instrument metadata, loaded once
// at startup. Lookups happen inside per-minute loops, so implementations are
// expected to serve from memory.
type InstrumentsRegistry interface {
	Instrument(symbol string) (domain.Instrument, error)
	Symbols() []string
}
