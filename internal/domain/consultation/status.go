package consultation

import (
	"strings"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

// ===============================
// Consultation Status
// ===============================

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var knownStatuses = map[Status]bool{
	StatusScheduled: true,
	StatusCompleted: true,
	StatusCancelled: true,
}

// ParseStatus accepts the enumerated names in any letter case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !knownStatuses[s] {
		return "", httperr.Validation("invalid_status", "The consultation status is not valid.")
	}
	return s, nil
}

