// Package allocator mints ticket display numbers.
//
// Numbers for one prefix form the dense sequence 1, 2, 3, ... in creation
// order. The allocator only computes the next candidate; atomicity with the
// ticket insert is the caller's job: Next must run inside the same
// serializable transaction as the insert that uses its result.
package allocator

import (
	"context"
	"fmt"

	dErrors "turnero/pkg/domain-errors"
)

// SequenceReader is the slice of the ticket store the allocator needs.
type SequenceReader interface {
	MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error)
}

// Allocator computes the next ticket number for a prefix.
type Allocator struct {
	sequences SequenceReader
}

func New(sequences SequenceReader) *Allocator {
	return &Allocator{sequences: sequences}
}

// Next returns the formatted next number for the prefix, e.g. "S004".
func (a *Allocator) Next(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "ticket number prefix cannot be empty")
	}
	maxSeq, err := a.sequences.MaxSequenceForPrefix(ctx, prefix)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ticket sequence")
	}
	return Format(prefix, maxSeq+1), nil
}

// Format renders a sequence number with its prefix, zero-padded to at least
// three digits. Sequences past 999 grow extra digits; nothing wraps or
// truncates.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}
