// Package calendar implements the FXT clock: a fixed synthetic timezone
// defined as America/New_York civil time shifted by +7 hours, used as the
// canonical clock for bar timestamps.
package calendar

import (
	"fmt"
	"time"
)

const fxtShift = 7 * 3600

// FXTClock converts between Unix and FXT timestamps and answers trading-day
// questions for the FX market.
type FXTClock struct {
	loc *time.Location
}

// New loads the America/New_York zone the FXT definition is anchored to.
func New() (*FXTClock, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("load America/New_York: %w", err)
	}
	return &FXTClock{loc: loc}, nil
}

// ToFXT converts a Unix timestamp to FXT seconds.
func (c *FXTClock) ToFXT(unixTime int64) int64 {
	_, offset := time.Unix(unixTime, 0).In(c.loc).Zone()
	return unixTime + int64(offset) + fxtShift
}

// ToUnix converts FXT seconds back to a Unix timestamp. The zone offset
// depends on the instant itself, so the conversion refines an initial guess;
// two rounds settle even across DST transitions.
func (c *FXTClock) ToUnix(fxTime int64) int64 {
	guess := fxTime - fxtShift
	for i := 0; i < 2; i++ {
		_, offset := time.Unix(guess, 0).In(c.loc).Zone()
		guess = fxTime - fxtShift - int64(offset)
	}
	return guess
}

// IsWeekend reports whether the FXT timestamp falls on Saturday or Sunday.
// FXT is constructed so that weekends align with the FX market's closed days.
func (c *FXTClock) IsWeekend(fxTime int64) bool {
	switch time.Unix(fxTime, 0).UTC().Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// IsHoliday reports whether the FXT timestamp falls on a market holiday.
// The FX market observes only New Year's Day and Christmas globally.
func (c *FXTClock) IsHoliday(fxTime int64) bool {
	date := time.Unix(fxTime, 0).UTC()
	switch {
	case date.Month() == time.January && date.Day() == 1:
		return true
	case date.Month() == time.December && date.Day() == 25:
		return true
	default:
		return false
	}
}

// IsTradingDay reports whether the FXT timestamp falls on a regular trading day.
func (c *FXTClock) IsTradingDay(fxTime int64) bool {
	return !c.IsWeekend(fxTime) && !c.IsHoliday(fxTime)
}
