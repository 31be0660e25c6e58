package bars

import (
	"fmt"
	"math"
)

// PointBar is one minute bar in fixed-point form: prices are integer multiples
// of the instrument's point size. This is the on-disk representation.
type PointBar struct {
	Time  int64 // FXT seconds, bar open, minute-aligned
	Open  uint32
	High  uint32
	Low   uint32
	Close uint32
	Ticks uint32
}

// OpenTime returns the bar's open timestamp.
func (b PointBar) OpenTime() int64 {
	return b.Time
}

// Validate checks the bar against the storage invariants: the range must
// contain open and close, and the tick count must be positive.
func (b PointBar) Validate() error {
	switch {
	case b.Open > b.High, b.Open < b.Low:
		return fmt.Errorf("open %d outside range [%d, %d]", b.Open, b.Low, b.High)
	case b.Close > b.High, b.Close < b.Low:
		return fmt.Errorf("close %d outside range [%d, %d]", b.Close, b.Low, b.High)
	case b.Ticks == 0:
		return fmt.Errorf("ticks must be positive")
	}
	return nil
}

// PriceBar is the same bar with decimal prices, used for in-memory calculation.
type PriceBar struct {
	Time  int64
	Open  float64
	High  float64
	Low   float64
	Close float64
	Ticks uint32
}

// OpenTime returns the bar's open timestamp.
func (b PriceBar) OpenTime() int64 {
	return b.Time
}

// ToPrice converts a point bar to decimal prices using the instrument's point size.
func (b PointBar) ToPrice(pointSize float64) PriceBar {
	return PriceBar{
		Time:  b.Time,
		Open:  float64(b.Open) * pointSize,
		High:  float64(b.High) * pointSize,
		Low:   float64(b.Low) * pointSize,
		Close: float64(b.Close) * pointSize,
		Ticks: b.Ticks,
	}
}

// ToPoints converts a decimal bar back to fixed-point form.
func (b PriceBar) ToPoints(pointSize float64) PointBar {
	return PointBar{
		Time:  b.Time,
		Open:  PriceToPoints(b.Open, pointSize),
		High:  PriceToPoints(b.High, pointSize),
		Low:   PriceToPoints(b.Low, pointSize),
		Close: PriceToPoints(b.Close, pointSize),
		Ticks: b.Ticks,
	}
}

// PriceToPoints converts a decimal price to integer points.
func PriceToPoints(price, pointSize float64) uint32 {
	return uint32(math.Round(price / pointSize))
}

// PointsToPrice converts integer points to a decimal price.
func PointsToPrice(points uint32, pointSize float64) float64 {
	return float64(points) * pointSize
}
