package models

// Status is the lifecycle state of a ticket.
type Status string

const (
	// StatusWaiting: created, queued, possibly reserved for a counter.
	StatusWaiting Status = "waiting"
	// StatusServing: an operator accepted the ticket and is attending it.
	StatusServing Status = "serving"
	// StatusCompleted: service finished. Terminal.
	StatusCompleted Status = "completed"
	// StatusCancelled: abandoned before service. Terminal.
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusWaiting: {StatusServing, StatusCancelled},
	StatusServing: {StatusCompleted},
	// terminal states transition nowhere
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the ticket is immutable.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}
