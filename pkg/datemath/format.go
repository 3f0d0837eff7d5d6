package datemath

import (
	"fmt"
	"time"
)

// FormatDuration renders d as "{H} ч {M} мин", or "{M} мин" under an hour.
// Seconds are truncated; negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d ч %d мин", hours, minutes)
	}
	return fmt.Sprintf("%d мин", minutes)
}

// FormatClock renders the wall clock of t as HH:MM.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
