package instruments

import (
	"fmt"
	"math"
	"time"
)

type InstrumentType string

const (
	TypeForex     InstrumentType = "forex"
	TypeMetals    InstrumentType = "metals"
	TypeSynthetic InstrumentType = "synthetic"
	TypeIndex     InstrumentType = "index"
)

func (t InstrumentType) String() string {
	return string(t)
}

func (t InstrumentType) IsValid() bool {
	switch t {
	case TypeForex, TypeMetals, TypeSynthetic, TypeIndex:
		return true
	default:
		return false
	}
}

func NewInstrumentType(s string) (InstrumentType, error) {
	t := InstrumentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid instrument type: %s", s)
	}
	return t, nil
}

// Instrument carries the metadata needed to store and derive bars for one
// symbol. Real instruments have externally supplied history; synthetic
// instruments are always derived from their components.
type Instrument struct {
	Symbol    string
	Type      InstrumentType
	PointSize float64 // smallest price increment, e.g. 0.00001
	Digits    int     // decimal places for rounding

	// HistoryStart is the first day with available M1 data. Zero means unknown.
	HistoryStart time.Time
}

// IsSynthetic reports whether the instrument's history is derived.
func (i Instrument) IsSynthetic() bool {
	return i.Type == TypeSynthetic || i.Type == TypeIndex
}

// Round rounds a decimal price to the instrument's digits.
func (i Instrument) Round(price float64) float64 {
	factor := math.Pow10(i.Digits)
	return math.Round(price*factor) / factor
}

// ComponentGroup is a named, ordered list of component symbols describing one
// way to compute a synthetic instrument. Groups are tried in declaration order.
type ComponentGroup struct {
	Name    string
	Symbols []string
}
