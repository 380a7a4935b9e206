package timezone

import "time"

const DefaultTimezone = "America/Argentina/Buenos_Aires"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, and to UTC when the host has no
// zone database.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Clock yields the current calendar day of the clinic. Tests swap Now.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func NewClock(tz string) *Clock {
	return &Clock{Loc: Location(tz), Now: time.Now}
}

// Today returns the clinic's current date formatted as 2006-01-02.
func (c *Clock) Today() string {
	return c.Now().In(c.Loc).Format("2006-01-02")
}
