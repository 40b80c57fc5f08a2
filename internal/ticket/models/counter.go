package models

import (
	"time"

	id "turnero/pkg/domain"
)

// Counter is an operator-staffed service point. Its identity, branch, and
// capability set are administrative reference data; the engine only bumps
// UpdatedAt when it binds or releases a ticket, which doubles as the idle
// clock for the longest-idle tie-break.
type Counter struct {
	ID        id.CounterID   `json:"id"`
	Label     string         `json:"label"`
	BranchID  id.BranchID    `json:"branch_id"`
	Services  []id.ServiceID `json:"services"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Serves reports whether the counter is capable of serving the service.
func (c *Counter) Serves(serviceID id.ServiceID) bool {
	for _, s := range c.Services {
		if s == serviceID {
			return true
		}
	}
	return false
}
