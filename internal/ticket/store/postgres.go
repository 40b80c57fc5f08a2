package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"turnero/internal/ticket/models"
	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
	"turnero/pkg/platform/tx"
)

// Postgres persists tickets and counters in PostgreSQL via lib/pq. Methods
// route through tx.Querier so they join the context transaction opened by
// PostgresTx.RunInTx when one is active.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const ticketColumns = `id, number, client_first_name, client_last_name,
	client_last_name_2, service_id, branch_id, counter_id, status,
	created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, t *models.Ticket) error {
	q := tx.Querier(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		uuid.UUID(t.ID), t.Number, t.ClientFirstName, t.ClientLastName,
		nullString(t.ClientLastName2), uuid.UUID(t.ServiceID), uuid.UUID(t.BranchID),
		nullCounter(t.CounterID), string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		// A unique violation on the number means another allocation won the
		// race; re-reading the max yields a fresh candidate.
		if pqCode(err) == "23505" {
			return fmt.Errorf("ticket number %s already issued: %w", t.Number, sentinel.ErrRetry)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, ticketID id.TicketID) (*models.Ticket, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, uuid.UUID(ticketID))
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("ticket %s: %w", ticketID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

func (s *Postgres) Update(ctx context.Context, t *models.Ticket) error {
	q := tx.Querier(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE tickets
		SET counter_id = $2, status = $3, updated_at = $4
		WHERE id = $1
	`, uuid.UUID(t.ID), nullCounter(t.CounterID), string(t.Status), t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("ticket %s: %w", t.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Postgres) MaxSequenceForPrefix(ctx context.Context, prefix string) (int, error) {
	q := tx.Querier(ctx, s.db)
	// Numeric comparison of the digits after the prefix; MAX over the text
	// column would order S1000 before S999.
	var maxSeq int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(CAST(substr(number, char_length($1::text) + 1) AS INTEGER)), 0)
		FROM tickets
		WHERE left(number, char_length($1::text)) = $1
		  AND substr(number, char_length($1::text) + 1) ~ '^[0-9]+$'
	`, prefix).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("max sequence for prefix %q: %w", prefix, err)
	}
	return maxSeq, nil
}

func (s *Postgres) FindServingByCounter(ctx context.Context, counterID id.CounterID) (*models.Ticket, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE counter_id = $1 AND status = 'serving'
		LIMIT 1
	`, uuid.UUID(counterID))
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no serving ticket at counter %s: %w", counterID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find serving ticket: %w", err)
	}
	return t, nil
}

func (s *Postgres) FindOldestWaitingBound(ctx context.Context, counterID id.CounterID) (*models.Ticket, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE counter_id = $1 AND status = 'waiting'
		ORDER BY created_at, id
		LIMIT 1
	`, uuid.UUID(counterID))
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no waiting ticket bound to counter %s: %w", counterID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find bound waiting ticket: %w", err)
	}
	return t, nil
}

func (s *Postgres) FindOldestWaitingUnbound(ctx context.Context, branchID id.BranchID, serviceIDs []id.ServiceID) (*models.Ticket, error) {
	raw := make([]uuid.UUID, len(serviceIDs))
	for i, serviceID := range serviceIDs {
		raw[i] = uuid.UUID(serviceID)
	}

	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE branch_id = $1
		  AND status = 'waiting'
		  AND counter_id IS NULL
		  AND service_id = ANY($2)
		ORDER BY created_at, id
		LIMIT 1
	`, uuid.UUID(branchID), pq.Array(raw))
	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no unassigned waiting ticket in branch %s: %w", branchID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find unassigned waiting ticket: %w", err)
	}
	return t, nil
}

// PostgresCounters persists counters.
type PostgresCounters struct {
	db *sql.DB
}

func NewPostgresCounters(db *sql.DB) *PostgresCounters {
	return &PostgresCounters{db: db}
}

func (s *PostgresCounters) Insert(ctx context.Context, c *models.Counter) error {
	q := tx.Querier(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO counters (id, label, branch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(c.ID), c.Label, uuid.UUID(c.BranchID), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if pqCode(err) == "23505" {
			return fmt.Errorf("counter %s already exists: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert counter: %w", err)
	}
	for _, serviceID := range c.Services {
		_, err := q.ExecContext(ctx, `
			INSERT INTO counter_services (counter_id, service_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, uuid.UUID(c.ID), uuid.UUID(serviceID))
		if err != nil {
			return fmt.Errorf("insert counter capability: %w", err)
		}
	}
	return nil
}

func (s *PostgresCounters) FindByID(ctx context.Context, counterID id.CounterID) (*models.Counter, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT c.id, c.label, c.branch_id, c.created_at, c.updated_at,
		       COALESCE(array_agg(cs.service_id) FILTER (WHERE cs.service_id IS NOT NULL), '{}')
		FROM counters c
		LEFT JOIN counter_services cs ON cs.counter_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`, uuid.UUID(counterID))
	c, err := scanCounter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("counter %s: %w", counterID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find counter: %w", err)
	}
	return c, nil
}

func (s *PostgresCounters) ListByBranch(ctx context.Context, branchID id.BranchID) ([]*models.Counter, error) {
	q := tx.Querier(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT c.id, c.label, c.branch_id, c.created_at, c.updated_at,
		       COALESCE(array_agg(cs.service_id) FILTER (WHERE cs.service_id IS NOT NULL), '{}')
		FROM counters c
		LEFT JOIN counter_services cs ON cs.counter_id = c.id
		WHERE c.branch_id = $1
		GROUP BY c.id
	`, uuid.UUID(branchID))
	if err != nil {
		return nil, fmt.Errorf("list counters: %w", err)
	}
	defer rows.Close()

	var out []*models.Counter
	for rows.Next() {
		c, err := scanCounter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan counter: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCounters) Touch(ctx context.Context, counterID id.CounterID, now time.Time) error {
	q := tx.Querier(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`UPDATE counters SET updated_at = $2 WHERE id = $1`,
		uuid.UUID(counterID), now)
	if err != nil {
		return fmt.Errorf("touch counter: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch counter: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("counter %s: %w", counterID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var t models.Ticket
	var rawID, rawService, rawBranch uuid.UUID
	var rawCounter uuid.NullUUID
	var lastName2 sql.NullString
	var status string
	err := row.Scan(&rawID, &t.Number, &t.ClientFirstName, &t.ClientLastName,
		&lastName2, &rawService, &rawBranch, &rawCounter, &status,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ID = id.TicketID(rawID)
	t.ServiceID = id.ServiceID(rawService)
	t.BranchID = id.BranchID(rawBranch)
	if rawCounter.Valid {
		t.CounterID = id.CounterID(rawCounter.UUID)
	}
	t.ClientLastName2 = lastName2.String
	t.Status = models.Status(status)
	return &t, nil
}

func scanCounter(row rowScanner) (*models.Counter, error) {
	var c models.Counter
	var rawID, rawBranch uuid.UUID
	var rawServices []uuid.UUID
	err := row.Scan(&rawID, &c.Label, &rawBranch, &c.CreatedAt, &c.UpdatedAt,
		pq.Array(&rawServices))
	if err != nil {
		return nil, err
	}
	c.ID = id.CounterID(rawID)
	c.BranchID = id.BranchID(rawBranch)
	c.Services = make([]id.ServiceID, len(rawServices))
	for i, raw := range rawServices {
		c.Services[i] = id.ServiceID(raw)
	}
	return &c, nil
}

func nullCounter(counterID id.CounterID) uuid.NullUUID {
	if counterID.IsZero() {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(counterID), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}
