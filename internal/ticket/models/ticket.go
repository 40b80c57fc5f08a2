package models

import (
	"strings"
	"time"

	id "turnero/pkg/domain"
	dErrors "turnero/pkg/domain-errors"
)

// Ticket is the aggregate for one client's service request.
//
// Invariants:
//   - Number is unique system-wide; per prefix it is dense and strictly
//     increasing in creation order
//   - CounterID may only reference a counter of the same branch whose
//     capability set contains ServiceID (enforced at binding time)
//   - At most one ticket per counter is in serving status at any instant
//   - Completed and cancelled tickets are immutable
type Ticket struct {
	ID              id.TicketID  `json:"id"`
	Number          string       `json:"number"`
	ClientFirstName string       `json:"client_first_name"`
	ClientLastName  string       `json:"client_last_name"`
	ClientLastName2 string       `json:"client_last_name_2,omitempty"`
	ServiceID       id.ServiceID `json:"service_id"`
	BranchID        id.BranchID  `json:"branch_id"`
	CounterID       id.CounterID `json:"counter_id,omitzero"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewTicket builds a waiting ticket. The number and counter binding are
// assigned by the lifecycle service inside its transaction, not here.
func NewTicket(ticketID id.TicketID, firstName, lastName, lastName2 string, serviceID id.ServiceID, branchID id.BranchID, now time.Time) (*Ticket, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	lastName2 = strings.TrimSpace(lastName2)

	if firstName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client first name is required")
	}
	if lastName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client paternal surname is required")
	}
	if serviceID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "service id is required")
	}
	if branchID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "branch id is required")
	}

	return &Ticket{
		ID:              ticketID,
		ClientFirstName: firstName,
		ClientLastName:  lastName,
		ClientLastName2: lastName2,
		ServiceID:       serviceID,
		BranchID:        branchID,
		Status:          StatusWaiting,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Assigned reports whether the ticket is reserved for some counter.
func (t *Ticket) Assigned() bool {
	return !t.CounterID.IsZero()
}

// CanAccept checks the waiting → serving transition for the given counter.
// The counter-busy check is the caller's job; this validates only what the
// ticket itself knows.
func (t *Ticket) CanAccept(counterID id.CounterID) error {
	if t.CounterID != counterID {
		return dErrors.New(dErrors.CodeNotAssigned, "ticket is not assigned to this counter")
	}
	if !t.Status.CanTransitionTo(StatusServing) {
		return dErrors.New(dErrors.CodeConflict, "ticket is not waiting")
	}
	return nil
}

// ApplyAccept moves the ticket to serving. Call CanAccept first.
func (t *Ticket) ApplyAccept(now time.Time) {
	t.Status = StatusServing
	t.UpdatedAt = now
}

// CanFinalize checks the serving → completed transition for the given
// counter. A ticket that is not currently serving on that counter cannot be
// finalized, including one already completed.
func (t *Ticket) CanFinalize(counterID id.CounterID) error {
	if t.Status != StatusServing || t.CounterID != counterID {
		return dErrors.New(dErrors.CodeNotAssigned, "ticket is not being served at this counter")
	}
	return nil
}

// ApplyFinalize moves the ticket to completed. Call CanFinalize first.
func (t *Ticket) ApplyFinalize(now time.Time) {
	t.Status = StatusCompleted
	t.UpdatedAt = now
}

// CanCancel checks the waiting → cancelled transition.
func (t *Ticket) CanCancel() error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return dErrors.New(dErrors.CodeConflict, "only waiting tickets can be cancelled")
	}
	return nil
}

// ApplyCancel moves the ticket to cancelled. Call CanCancel first.
func (t *Ticket) ApplyCancel(now time.Time) {
	t.Status = StatusCancelled
	t.UpdatedAt = now
}

// Bind reserves the ticket for a counter without starting service.
func (t *Ticket) Bind(counterID id.CounterID, now time.Time) {
	t.CounterID = counterID
	t.UpdatedAt = now
}
