package series

// NotFound is the sentinel offset for "no matching bar".
const NotFound = -1

// Timed is anything carrying a bar open time: point bars, price bars, or
// plain timestamp wrappers.
type Timed interface {
	OpenTime() int64
}

// Timestamp adapts a bare timestamp slice to the search functions.
type Timestamp int64

func (t Timestamp) OpenTime() int64 {
	return int64(t)
}

// FindTimeOffset returns the smallest index whose time is at or after target,
// or NotFound when the whole series lies before it.
//
// The series is sorted ascending and gap-free in index order, but not in time
// (weekends). The loop halves the window between from and to, checking both
// boundaries before computing a midpoint; plain equality-based bisection would
// misbehave on time gaps, so the boundary-first order is load-bearing.
func FindTimeOffset[T Timed](s []T, target int64) int {
	n := len(s)
	if n == 0 || s[n-1].OpenTime() < target {
		return NotFound
	}
	from, to := 0, n-1
	for {
		if s[from].OpenTime() >= target {
			return from
		}
		if s[to].OpenTime() == target {
			return to
		}
		if to-from <= 1 {
			return to
		}
		mid := (from + to) / 2
		if s[mid].OpenTime() < target {
			from = mid
		} else {
			to = mid
		}
	}
}

// FindBarOffset returns the index of the bar exactly covering t, i.e. with
// openTime <= t < closeTime, or NotFound when t falls into a gap.
func FindBarOffset[T Timed](s []T, period Period, t int64) (int, error) {
	if !period.IsStandard() {
		return NotFound, ErrUnsupportedPeriod
	}
	offset := FindTimeOffset(s, t)
	if offset == NotFound {
		// t is after the last bar's open; it may still fall inside that bar.
		if len(s) == 0 {
			return NotFound, nil
		}
		return coveringOffset(s, period, len(s)-1, t)
	}
	if s[offset].OpenTime() == t {
		return offset, nil
	}
	if offset == 0 {
		return NotFound, nil
	}
	return coveringOffset(s, period, offset-1, t)
}

// FindBarOffsetPrevious returns the nearest bar opening at or before t, or
// NotFound when t precedes the first bar.
func FindBarOffsetPrevious[T Timed](s []T, t int64) int {
	offset := FindTimeOffset(s, t)
	if offset == NotFound {
		if len(s) == 0 {
			return NotFound
		}
		return len(s) - 1
	}
	if s[offset].OpenTime() == t {
		return offset
	}
	return offset - 1 // NotFound when t precedes the first bar
}

// FindBarOffsetNext returns the nearest bar covering or following t, or
// NotFound when t is past the close of the last bar.
func FindBarOffsetNext[T Timed](s []T, period Period, t int64) (int, error) {
	if !period.IsStandard() {
		return NotFound, ErrUnsupportedPeriod
	}
	offset := FindTimeOffset(s, t)
	if offset != NotFound {
		return offset, nil
	}
	if len(s) == 0 {
		return NotFound, nil
	}
	return coveringOffset(s, period, len(s)-1, t)
}

func coveringOffset[T Timed](s []T, period Period, i int, t int64) (int, error) {
	closeTime, err := period.CloseTime(s[i].OpenTime())
	if err != nil {
		return NotFound, err
	}
	if t < closeTime {
		return i, nil
	}
	return NotFound, nil
}
