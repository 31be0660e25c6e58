package bars

import (
	"fmt"
	"time"
)

const (
	// MinutesPerDay is the number of M1 bars in one stored day.
	MinutesPerDay = 1440

	// SecondsPerDay is the length of a calendar day in seconds.
	SecondsPerDay = 86400

	// lastBarOffset is 23:59:00 expressed in seconds since midnight.
	lastBarOffset = SecondsPerDay - 60
)

// DaySeries is one calendar day of minute bars: exactly 1440 bars, strictly
// increasing by 60 seconds, the first bar opening at midnight.
type DaySeries []PointBar

// Day returns the midnight timestamp of the day the series covers.
func (s DaySeries) Day() int64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Time - s[0].Time%SecondsPerDay
}

// Validate checks the day-boundary invariants. Per-bar price invariants are a
// separate concern, checked by the store before encoding.
func (s DaySeries) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("series is empty")
	}
	if s[0].Time%SecondsPerDay != 0 {
		return fmt.Errorf("first bar %s does not open at midnight", FormatTime(s[0].Time))
	}
	if len(s) != MinutesPerDay {
		return fmt.Errorf("series of %s has %d bars, expected %d", FormatDay(s[0].Time), len(s), MinutesPerDay)
	}
	last := s[len(s)-1].Time
	if last%SecondsPerDay != lastBarOffset {
		return fmt.Errorf("last bar of %s opens at %s, expected 23:59", FormatDay(s[0].Time), FormatTime(last))
	}
	for i := 1; i < len(s); i++ {
		if s[i].Time != s[0].Time+int64(i)*60 {
			return fmt.Errorf("bar %d of %s opens at %s, expected a 60s step", i, FormatDay(s[0].Time), FormatTime(s[i].Time))
		}
	}
	return nil
}

// ToPrices converts the whole day to decimal bars.
func (s DaySeries) ToPrices(pointSize float64) []PriceBar {
	prices := make([]PriceBar, len(s))
	for i, b := range s {
		prices[i] = b.ToPrice(pointSize)
	}
	return prices
}

// FormatTime renders an FXT timestamp for log and error messages.
func FormatTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05")
}

// FormatDay renders the date part of an FXT timestamp.
func FormatDay(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02")
}
