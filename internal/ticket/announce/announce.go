// Package announce publishes ticket lifecycle events for display boards.
//
// Branch lobbies show a "now serving" board; rather than having every board
// poll the API, the engine publishes each transition to a per-branch Redis
// channel and boards subscribe. Publishing is best-effort: a lost
// announcement never fails the ticket operation that produced it.
package announce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"turnero/internal/ticket/models"
)

// Event types mirror the lifecycle transitions.
const (
	EventTicketCreated   = "ticket.created"
	EventTicketAccepted  = "ticket.accepted"
	EventTicketCompleted = "ticket.completed"
	EventTicketRequeued  = "ticket.requeued"
)

// Event is the published payload.
type Event struct {
	Type      string    `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Number    string    `json:"number"`
	BranchID  string    `json:"branch_id"`
	CounterID string    `json:"counter_id,omitempty"`
	At        time.Time `json:"at"`
}

// NewEvent builds an event from a ticket snapshot.
func NewEvent(eventType string, t *models.Ticket, at time.Time) Event {
	e := Event{
		Type:     eventType,
		TicketID: t.ID.String(),
		Number:   t.Number,
		BranchID: t.BranchID.String(),
		At:       at,
	}
	if t.Assigned() {
		e.CounterID = t.CounterID.String()
	}
	return e
}

// Announcer publishes lifecycle events.
type Announcer interface {
	Announce(ctx context.Context, event Event) error
}

// Redis publishes events on a per-branch pub/sub channel.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func channelFor(branchID string) string {
	return "turnero:events:" + branchID
}

func (r *Redis) Announce(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal announcement: %w", err)
	}
	if err := r.client.Publish(ctx, channelFor(event.BranchID), payload).Err(); err != nil {
		return fmt.Errorf("publish announcement: %w", err)
	}
	return nil
}

// Noop drops events; used when Redis is not configured.
type Noop struct{}

func (Noop) Announce(context.Context, Event) error { return nil }
