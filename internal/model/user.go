package model

import (
	"time-tracking-bot/pkg/datemath"
)

// User holds per-user tracking settings. Created lazily on first contact.
type User struct {
	ID           int64
	Timezone     string
	WorkdayStart datemath.TimeOfDay
	WorkdayEnd   datemath.TimeOfDay
}

// Zone resolves the stored timezone. A failure means the stored value is no
// longer resolvable and surfaces as datemath.ErrInvalidTimeZone.
func (u User) Zone() (*datemath.Zone, error) {
	return datemath.NewZone(u.Timezone)
}
