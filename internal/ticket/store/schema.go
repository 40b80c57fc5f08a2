package store

// Schema creates the tables the engine owns plus the read-only catalog
// tables it consumes. Kept here so integration tests and dev bootstrap share
// one definition; production migrations live in migrations/.
const Schema = `
CREATE TABLE IF NOT EXISTS services (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS branches (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	code       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS counters (
	id         UUID PRIMARY KEY,
	label      TEXT NOT NULL,
	branch_id  UUID NOT NULL REFERENCES branches(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS counter_services (
	counter_id UUID NOT NULL REFERENCES counters(id),
	service_id UUID NOT NULL REFERENCES services(id),
	PRIMARY KEY (counter_id, service_id)
);

CREATE TABLE IF NOT EXISTS tickets (
	id                 UUID PRIMARY KEY,
	number             TEXT NOT NULL UNIQUE,
	client_first_name  TEXT NOT NULL,
	client_last_name   TEXT NOT NULL,
	client_last_name_2 TEXT,
	service_id         UUID NOT NULL REFERENCES services(id),
	branch_id          UUID NOT NULL REFERENCES branches(id),
	counter_id         UUID REFERENCES counters(id),
	status             TEXT NOT NULL CHECK (status IN ('waiting', 'serving', 'completed', 'cancelled')),
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS tickets_counter_status_idx ON tickets (counter_id, status);
CREATE INDEX IF NOT EXISTS tickets_branch_waiting_idx ON tickets (branch_id, created_at) WHERE status = 'waiting';
`
