// Package catalog holds the read-only Service and Branch reference data.
//
// The catalog is owned by an external administrative system; the engine
// consumes it to validate ticket requests and to derive number prefixes.
// Nothing here is ever written by ticket operations.
package catalog

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	id "turnero/pkg/domain"
)

// Service is a kind of attention a client can request, e.g. a credit
// application or a refund.
type Service struct {
	ID          id.ServiceID `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Prefix derives the ticket-number prefix for this service: the first letter
// of its name, uppercased. Unicode-aware so "Électronique" yields "É", not a
// mangled byte.
func (s *Service) Prefix() string {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Branch is a physical location with its own counters and its own queue.
type Branch struct {
	ID        id.BranchID `json:"id"`
	Name      string      `json:"name"`
	Code      string      `json:"code"`
	CreatedAt time.Time   `json:"created_at"`
}
