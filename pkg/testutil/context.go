package testutil

import (
	"net/http"
	"time"

	id "turnero/pkg/domain"
	"turnero/pkg/requestcontext"
)

// WithOperator adds a counter and branch identity to the request context.
// This simulates what the operator auth middleware would do for requests
// carrying a valid token.
func WithOperator(req *http.Request, counterID id.CounterID, branchID id.BranchID) *http.Request {
	ctx := requestcontext.WithOperator(req.Context(), counterID, branchID)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
