package barstore

import (
	"errors"
	"fmt"

	"github.com/rosasurfer/fx-history-tools/internal/domain/entity/bars"
)

// ErrUnsupported marks an intentionally unimplemented combination, such as
// reading a compressed history file. Callers branch on it instead of treating
// it as a crash.
var ErrUnsupported = errors.New("operation not supported")

// FormatError reports malformed binary input. Fatal to the current file.
type FormatError struct {
	Symbol string
	Length int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: odd buffer length %d, not a multiple of the %d-byte bar struct", e.Symbol, e.Length, BarBytes)
}

// DataError reports a structurally valid but logically impossible bar.
type DataError struct {
	Symbol string
	Bar    bars.PointBar
	Reason error
}

func (e *DataError) Error() string {
	b := e.Bar
	return fmt.Sprintf("%s: invalid bar at %s (O=%d H=%d L=%d C=%d V=%d): %v",
		e.Symbol, bars.FormatTime(b.Time), b.Open, b.High, b.Low, b.Close, b.Ticks, e.Reason)
}

func (e *DataError) Unwrap() error {
	return e.Reason
}

// ValidationError reports a save precondition violation (wrong day boundary,
// wrong bar count).
type ValidationError struct {
	Symbol string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Symbol, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}
