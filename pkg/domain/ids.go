// Package domain defines the typed identifiers shared across the engine.
//
// Wrapping uuid.UUID in distinct named types keeps a ServiceID from being
// passed where a CounterID is expected; the compiler does the checking that
// string ids would push to runtime.
package domain

import "github.com/google/uuid"

type (
	// ServiceID identifies a service from the external catalog.
	ServiceID uuid.UUID
	// BranchID identifies a branch location from the external catalog.
	BranchID uuid.UUID
	// CounterID identifies an operator-staffed service counter.
	CounterID uuid.UUID
	// TicketID identifies a single service ticket.
	TicketID uuid.UUID
)

func NewServiceID() ServiceID { return ServiceID(uuid.New()) }
func NewBranchID() BranchID   { return BranchID(uuid.New()) }
func NewCounterID() CounterID { return CounterID(uuid.New()) }
func NewTicketID() TicketID   { return TicketID(uuid.New()) }

func (id ServiceID) String() string { return uuid.UUID(id).String() }
func (id BranchID) String() string  { return uuid.UUID(id).String() }
func (id CounterID) String() string { return uuid.UUID(id).String() }
func (id TicketID) String() string  { return uuid.UUID(id).String() }

func (id ServiceID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id BranchID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id CounterID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id TicketID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// ParseServiceID parses a textual UUID into a ServiceID.
func ParseServiceID(s string) (ServiceID, error) {
	u, err := uuid.Parse(s)
	return ServiceID(u), err
}

// ParseBranchID parses a textual UUID into a BranchID.
func ParseBranchID(s string) (BranchID, error) {
	u, err := uuid.Parse(s)
	return BranchID(u), err
}

// ParseCounterID parses a textual UUID into a CounterID.
func ParseCounterID(s string) (CounterID, error) {
	u, err := uuid.Parse(s)
	return CounterID(u), err
}

// ParseTicketID parses a textual UUID into a TicketID.
func ParseTicketID(s string) (TicketID, error) {
	u, err := uuid.Parse(s)
	return TicketID(u), err
}

// MarshalText/UnmarshalText keep the typed ids JSON-friendly as plain UUID
// strings instead of uuid.UUID's byte-array default for wrapped types.

func (id ServiceID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id BranchID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id CounterID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id TicketID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *ServiceID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ServiceID(u)
	return nil
}

func (id *BranchID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = BranchID(u)
	return nil
}

func (id *CounterID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = CounterID(u)
	return nil
}

func (id *TicketID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = TicketID(u)
	return nil
}
