package db

type migration struct {
	version int
	sql     string
}

var postgresMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS employees (
	id              UUID PRIMARY KEY,
	employee_number TEXT NOT NULL UNIQUE,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL UNIQUE,
	role            TEXT NOT NULL DEFAULT 'employee'
		CHECK (role IN ('hr_admin', 'hr_manager', 'manager', 'employee')),
	department_id   UUID,
	manager_id      UUID REFERENCES employees(id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS lifecycle_cases (
	id                       UUID PRIMARY KEY,
	kind                     TEXT NOT NULL CHECK (kind IN ('onboarding', 'offboarding')),
	subject_id               UUID NOT NULL REFERENCES employees(id),
	start_date               TIMESTAMPTZ NOT NULL,
	expected_completion_date TIMESTAMPTZ,
	actual_completion_date   TIMESTAMPTZ,
	status                   TEXT NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In_Progress', 'Completed', 'Cancelled')),
	notes                    TEXT,
	last_working_date        TIMESTAMPTZ,
	reason                   TEXT,
	version                  BIGINT NOT NULL DEFAULT 1,
	created_by               UUID NOT NULL,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_cases_subject ON lifecycle_cases (subject_id, kind, status);

CREATE TABLE IF NOT EXISTS lifecycle_tasks (
	id               UUID PRIMARY KEY,
	case_id          UUID NOT NULL REFERENCES lifecycle_cases(id) ON DELETE CASCADE,
	label            TEXT NOT NULL CHECK (label <> ''),
	description      TEXT,
	due_date         TIMESTAMPTZ,
	completed_at     TIMESTAMPTZ,
	status           TEXT NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In_Progress', 'Completed')),
	assignee_id      UUID,
	notes            TEXT,
	position         INTEGER NOT NULL DEFAULT 0,
	last_reminder_at TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ,
	CHECK (completed_at IS NULL OR status = 'Completed')
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_tasks_case ON lifecycle_tasks (case_id, position);
CREATE INDEX IF NOT EXISTS idx_lifecycle_tasks_overdue ON lifecycle_tasks (due_date) WHERE status <> 'Completed';

CREATE TABLE IF NOT EXISTS lifecycle_audit_log (
	id            UUID PRIMARY KEY,
	actor_id      UUID NOT NULL,
	action        TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   UUID NOT NULL,
	changes       JSONB NOT NULL DEFAULT '{}'::jsonb,
	occurred_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_audit_resource ON lifecycle_audit_log (resource_id, occurred_at);
`,
	},
}

var sqliteMigrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS employees (
	id              TEXT PRIMARY KEY,
	employee_number TEXT NOT NULL UNIQUE,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL UNIQUE,
	role            TEXT NOT NULL DEFAULT 'employee'
		CHECK (role IN ('hr_admin', 'hr_manager', 'manager', 'employee')),
	department_id   TEXT,
	manager_id      TEXT REFERENCES employees(id),
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	deleted_at      DATETIME
);

CREATE TABLE IF NOT EXISTS lifecycle_cases (
	id                       TEXT PRIMARY KEY,
	kind                     TEXT NOT NULL CHECK (kind IN ('onboarding', 'offboarding')),
	subject_id               TEXT NOT NULL REFERENCES employees(id),
	start_date               DATETIME NOT NULL,
	expected_completion_date DATETIME,
	actual_completion_date   DATETIME,
	status                   TEXT NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In_Progress', 'Completed', 'Cancelled')),
	notes                    TEXT,
	last_working_date        DATETIME,
	reason                   TEXT,
	version                  INTEGER NOT NULL DEFAULT 1,
	created_by               TEXT NOT NULL,
	created_at               DATETIME NOT NULL,
	updated_at               DATETIME
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_cases_subject ON lifecycle_cases (subject_id, kind, status);

CREATE TABLE IF NOT EXISTS lifecycle_tasks (
	id               TEXT PRIMARY KEY,
	case_id          TEXT NOT NULL REFERENCES lifecycle_cases(id) ON DELETE CASCADE,
	label            TEXT NOT NULL CHECK (label <> ''),
	description      TEXT,
	due_date         DATETIME,
	completed_at     DATETIME,
	status           TEXT NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In_Progress', 'Completed')),
	assignee_id      TEXT,
	notes            TEXT,
	position         INTEGER NOT NULL DEFAULT 0,
	last_reminder_at DATETIME,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME,
	CHECK (completed_at IS NULL OR status = 'Completed')
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_tasks_case ON lifecycle_tasks (case_id, position);

CREATE TABLE IF NOT EXISTS lifecycle_audit_log (
	id            TEXT PRIMARY KEY,
	actor_id      TEXT NOT NULL,
	action        TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	changes       TEXT NOT NULL DEFAULT '{}',
	occurred_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lifecycle_audit_resource ON lifecycle_audit_log (resource_id, occurred_at);
`,
	},
}
