package series

import (
	"errors"
	"time"
)

// ErrUnsupportedPeriod is returned when a period outside the enumerated
// standard set is requested.
var ErrUnsupportedPeriod = errors.New("unsupported period")

// Period is a standard bar period in minutes.
type Period int

const (
	PeriodM1  Period = 1
	PeriodM5  Period = 5
	PeriodM15 Period = 15
	PeriodM30 Period = 30
	PeriodH1  Period = 60
	PeriodH4  Period = 240
	PeriodD1  Period = 1440
	PeriodW1  Period = 10080
	PeriodMN1 Period = 43200
)

// IsStandard reports whether the period belongs to the enumerated set.
func (p Period) IsStandard() bool {
	switch p {
	case PeriodM1, PeriodM5, PeriodM15, PeriodM30, PeriodH1, PeriodH4, PeriodD1, PeriodW1, PeriodMN1:
		return true
	default:
		return false
	}
}

// Seconds returns the period length in seconds. Weekly and monthly periods
// have no fixed second length used by close-time math; their nominal minute
// counts are placeholders for identification only.
func (p Period) Seconds() int64 {
	return int64(p) * 60
}

// CloseTime computes the close timestamp of the bar covering t.
//
// Intraday and daily bars close one period after their aligned open. Weekly
// bars open Monday 00:00 and close seven days later. Monthly bars close at
// midnight of the first day of the next calendar month.
func (p Period) CloseTime(t int64) (int64, error) {
	if !p.IsStandard() {
		return 0, ErrUnsupportedPeriod
	}
	switch p {
	case PeriodW1:
		midnight := t - mod(t, secondsPerDay)
		daysSinceMonday := (dayOfWeek(t) + 6) % 7
		weekOpen := midnight - int64(daysSinceMonday)*secondsPerDay
		return weekOpen + 7*secondsPerDay, nil
	case PeriodMN1:
		date := time.Unix(t, 0).UTC()
		next := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
		return next.Unix(), nil
	default:
		sec := p.Seconds()
		open := t - mod(t, sec)
		return open + sec, nil
	}
}

const secondsPerDay = 86400

// dayOfWeek returns 0=Sunday..6=Saturday for a timestamp. The Unix epoch was
// a Thursday.
func dayOfWeek(t int64) int {
	return int(mod(t/secondsPerDay+4, 7))
}

// mod is the floored modulus, correct for pre-epoch timestamps too.
func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
