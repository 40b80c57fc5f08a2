package service

import (
	"context"
	"errors"

	"turnero/internal/platform/metrics"
	dErrors "turnero/pkg/domain-errors"
	"turnero/pkg/platform/sentinel"
	"turnero/pkg/requestcontext"
)

// maxTxAttempts bounds retries of a lifecycle transaction that lost a
// serialization race (Postgres 40001/40P01 or a duplicate ticket number).
const maxTxAttempts = 3

// runLifecycleTx runs fn in a transaction, retrying on sentinel.ErrRetry.
// Domain errors pass through untouched; exhausting the budget surfaces
// CodeInternal because the caller did nothing wrong.
func (s *Service) runLifecycleTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.tx.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrRetry) {
			return err
		}
		lastErr = err
		s.count(func(m *metrics.Metrics) { m.AllocationRetries.Inc() })
		s.logger.WarnContext(ctx, "retrying lifecycle transaction",
			"attempt", attempt,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return dErrors.Wrap(lastErr, dErrors.CodeInternal, "operation did not complete after retries")
}
