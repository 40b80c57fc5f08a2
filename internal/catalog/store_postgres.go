package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "turnero/pkg/domain"
	"turnero/pkg/platform/sentinel"
	"turnero/pkg/platform/tx"
)

// Postgres reads the catalog tables maintained by the administrative system.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindService(ctx context.Context, serviceID id.ServiceID) (*Service, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT id, name, description, created_at FROM services WHERE id = $1`,
		uuid.UUID(serviceID))
	svc, err := scanService(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("service %s: %w", serviceID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	return svc, nil
}

func (s *Postgres) FindBranch(ctx context.Context, branchID id.BranchID) (*Branch, error) {
	q := tx.Querier(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT id, name, code, created_at FROM branches WHERE id = $1`,
		uuid.UUID(branchID))
	b, err := scanBranch(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("branch %s: %w", branchID, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return b, nil
}

func (s *Postgres) ListServices(ctx context.Context) ([]*Service, error) {
	q := tx.Querier(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, description, created_at FROM services ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []*Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func (s *Postgres) ListBranches(ctx context.Context) ([]*Branch, error) {
	q := tx.Querier(ctx, s.db)
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, code, created_at FROM branches ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var out []*Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanService(row rowScanner) (*Service, error) {
	var svc Service
	var rawID uuid.UUID
	if err := row.Scan(&rawID, &svc.Name, &svc.Description, &svc.CreatedAt); err != nil {
		return nil, err
	}
	svc.ID = id.ServiceID(rawID)
	return &svc, nil
}

func scanBranch(row rowScanner) (*Branch, error) {
	var b Branch
	var rawID uuid.UUID
	if err := row.Scan(&rawID, &b.Name, &b.Code, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.ID = id.BranchID(rawID)
	return &b, nil
}
