package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBack(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))

	loc := Location("Mars/Olympus")
	assert.NotNil(t, loc)
}

func TestClockToday(t *testing.T) {
	c := &Clock{
		Loc: time.FixedZone("UTC-3", -3*60*60),
		Now: func() time.Time {
			return time.Date(2025, 10, 7, 1, 30, 0, 0, time.UTC)
		},
	}

	// 01:30 UTC is still the previous evening three hours west
	assert.Equal(t, "2025-10-06", c.Today())
}
