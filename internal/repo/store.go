package repo

import (
	"context"
	"fmt"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/tx"
	"github.com/emamhosenCSE/aeos365-hrm/internal/config"
	"github.com/emamhosenCSE/aeos365-hrm/internal/db"
	audit_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/audit-repo"
	employee_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/employee-repo"
	lifecycle_repo "github.com/emamhosenCSE/aeos365-hrm/internal/repo/lifecycle-repo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Store bündelt die Repositories eines Persistenz-Adapters samt TxManager.
type Store struct {
	Lifecycle lifecycle_repo.LifecycleRepoContract
	Employees employee_repo.EmployeeRepoContract
	Audit     audit_repo.AuditRepoContract
	TxManager tx.TxManager

	ping  func(ctx context.Context) error
	close func()
}

func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Lifecycle: lifecycle_repo.NewLifecycleRepo(pool),
		Employees: employee_repo.NewEmployeeRepo(pool),
		Audit:     audit_repo.NewAuditRepo(pool),
		TxManager: tx.NewPgxTxManager(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}
}

func NewSQLiteStore(conn *sqlx.DB) *Store {
	return &Store{
		Lifecycle: lifecycle_repo.NewLifecycleSQLiteRepo(conn),
		Employees: employee_repo.NewEmployeeSQLiteRepo(conn),
		Audit:     audit_repo.NewAuditSQLiteRepo(conn),
		TxManager: tx.NewSqlxTxManager(conn),
		ping:      conn.PingContext,
		close:     func() { _ = conn.Close() },
	}
}

// Open verbindet den in DATABASE.DRIVER gewählten Adapter und migriert das Schema.
func Open(ctx context.Context, cfg *config.AppConfig) (*Store, error) {
	switch cfg.DATABASE.Driver {
	case config.DriverPostgres:
		pool, err := db.ConnectPool(ctx, cfg.DATABASE.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("Postgres-Store bereit")
		return NewPostgresStore(pool), nil
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.DATABASE.SQLite.Path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.DATABASE.SQLite.Path).Msg("SQLite-Store bereit")
		return NewSQLiteStore(conn), nil
	default:
		return nil, fmt.Errorf("repo: unknown driver %q", cfg.DATABASE.Driver)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}
