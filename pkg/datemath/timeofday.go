package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseTimeOfDay parses an "HH:MM" token as used by /set_workday.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	matches := clockRe.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	return NewTimeOfDay(hour, minute)
}
