package models

// State is the soft-delete marker shared by every entity that is never
// physically removed.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
)

func (s State) IsActive() bool {
	return s == StateActive
}
