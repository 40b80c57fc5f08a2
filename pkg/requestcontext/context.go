// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// Middleware sets the acting operator's counter and branch identity after
// validating their token; services read them back without importing net/http.
// The request time is injected the same way so tests can pin the clock.
//
// Usage in services:
//
//	counterID := requestcontext.CounterID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware:
//
//	ctx = requestcontext.WithOperator(ctx, counterID, branchID)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "turnero/pkg/domain"
)

type (
	counterIDKey   struct{}
	branchIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

var (
	ContextKeyCounterID   = counterIDKey{}
	ContextKeyBranchID    = branchIDKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// CounterID retrieves the acting operator's counter identity.
// Returns the zero id when the caller has no counter.
func CounterID(ctx context.Context) id.CounterID {
	if counterID, ok := ctx.Value(ContextKeyCounterID).(id.CounterID); ok {
		return counterID
	}
	return id.CounterID{}
}

// BranchID retrieves the acting operator's branch identity.
func BranchID(ctx context.Context) id.BranchID {
	if branchID, ok := ctx.Value(ContextKeyBranchID).(id.BranchID); ok {
		return branchID
	}
	return id.BranchID{}
}

// WithOperator injects the acting operator's counter and branch identity.
func WithOperator(ctx context.Context, counterID id.CounterID, branchID id.BranchID) context.Context {
	ctx = context.WithValue(ctx, ContextKeyCounterID, counterID)
	return context.WithValue(ctx, ContextKeyBranchID, branchID)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, CLI, tests that
// do not pin the clock).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
