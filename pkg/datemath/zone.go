package datemath

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo
)

// Zone converts between absolute instants and wall-clock time in one IANA zone.
type Zone struct {
	name     string
	location *time.Location
}

// ValidateTimeZone reports whether name is a recognised IANA zone identifier.
func ValidateTimeZone(name string) bool {
	_, err := NewZone(name)
	return err == nil
}

// NewZone loads the IANA zone, e.g. "Europe/Moscow".
func NewZone(name string) (*Zone, error) {
	name = strings.TrimSpace(name)
	// LoadLocation maps "" to UTC and "Local" to the host zone; neither is a user zone.
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, name)
	}
	return &Zone{name: name, location: loc}, nil
}

// Name returns the zone identifier.
func (z *Zone) Name() string { return z.name }

// Location returns the loaded location.
func (z *Zone) Location() *time.Location { return z.location }

// ToLocal converts an instant to the zone's wall clock.
func (z *Zone) ToLocal(instant time.Time) time.Time {
	return instant.In(z.location)
}

// ToAbsolute interprets the wall-clock fields of wall (its own location is
// ignored) in the zone and returns the UTC instant.
// Ambiguous wall times resolve to the earlier instant; wall times inside a
// spring-forward gap resolve to the first instant after the gap.
func (z *Zone) ToAbsolute(wall time.Time) time.Time {
	naive := naiveOf(wall)

	var (
		best  time.Time
		found bool
	)
	for _, shift := range []time.Duration{-24 * time.Hour, 0, 24 * time.Hour} {
		cand := naive.Add(-z.offsetAt(naive.Add(shift)))
		if !z.wallOf(cand).Equal(naive) {
			continue
		}
		if !found || cand.Before(best) {
			best, found = cand, true
		}
	}
	if found {
		return best.UTC()
	}
	return z.afterGap(naive)
}

// afterGap finds the first instant whose wall clock is not before naive.
func (z *Zone) afterGap(naive time.Time) time.Time {
	before := z.offsetAt(naive.Add(-24 * time.Hour))
	after := z.offsetAt(naive.Add(24 * time.Hour))
	if after <= before {
		return naive.Add(-before).UTC()
	}

	lo := naive.Add(-after).Unix()
	hi := naive.Add(-before).Unix() + 1
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if z.wallOf(time.Unix(mid, 0)).Before(naive) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return time.Unix(hi, 0).UTC()
}

// AtTimeOfDay combines tod with the calendar date of reference as observed
// in the zone.
func (z *Zone) AtTimeOfDay(tod TimeOfDay, reference time.Time) time.Time {
	local := z.ToLocal(reference)
	wall := time.Date(local.Year(), local.Month(), local.Day(), tod.Hour, tod.Minute, 0, 0, time.UTC)
	return z.ToAbsolute(wall)
}

// StartOfDay returns the wall-clock midnight of instant's local date, in the zone.
func (z *Zone) StartOfDay(instant time.Time) time.Time {
	local := z.ToLocal(instant)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, z.location)
}

// DayBounds returns the instants of 00:00:00 and 23:59:59.999 local for the
// calendar date of day (its wall fields are used as-is).
func (z *Zone) DayBounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := z.ToAbsolute(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	end := z.ToAbsolute(time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC))
	return start, end
}

// ShouldAutoClose decides whether a task started at taskStart has run past
// workdayEnd. Both checks use the task's own local start date.
func (z *Zone) ShouldAutoClose(workdayEnd TimeOfDay, taskStart, now time.Time) (bool, time.Time) {
	startLocal := z.ToLocal(taskStart)
	y, m, d := startLocal.Date()

	sinceMidnight := naiveOf(startLocal).Sub(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	if sinceMidnight > workdayEnd.Offset() {
		closeAt := z.ToAbsolute(time.Date(y, m, d, 23, 59, 0, 0, time.UTC))
		if closeAt.Before(taskStart) {
			closeAt = taskStart.UTC()
		}
		return true, closeAt
	}

	endOfWorkday := z.ToAbsolute(time.Date(y, m, d, workdayEnd.Hour, workdayEnd.Minute, 0, 0, time.UTC))
	if !now.Before(endOfWorkday) {
		return true, endOfWorkday
	}
	return false, time.Time{}
}

func (z *Zone) offsetAt(instant time.Time) time.Duration {
	_, offset := instant.In(z.location).Zone()
	return time.Duration(offset) * time.Second
}

// wallOf returns the zone wall clock of instant re-labelled as UTC, so wall
// clocks can be compared with plain time arithmetic.
func (z *Zone) wallOf(instant time.Time) time.Time {
	return naiveOf(instant.In(z.location))
}

func naiveOf(t time.Time) time.Time {
	y, m, d := t.Date()
	h, mi, s := t.Clock()
	return time.Date(y, m, d, h, mi, s, t.Nanosecond(), time.UTC)
}
