package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Backend dialects. The DSN alone selects the backend; no caller ever
// branches on it.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

type Config struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// DB is an open backend: either a pgx pool wrapped as database/sql, or a local
// sqlite file. Every repository runs the same SQL against either one.
type DB struct {
	SQL     *sql.DB
	Dialect string

	pool *pgxpool.Pool // nil for sqlite
}

// Open connects to the backend named by the DSN. A postgres:// or
// postgresql:// URL opens the remote transactional store through a pgx pool;
// anything else is treated as a local sqlite path (":memory:" included).
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return openPostgres(ctx, cfg, logger)
	}
	return openSQLite(cfg, logger)
}

func openPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("connecting to database", "dialect", DialectPostgres)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database DSN", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "finledger"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	// Wrap pool as *sql.DB so repositories stay backend-agnostic
	db := stdlib.OpenDBFromPool(pool)

	logger.Info("successfully connected to database", "dialect", DialectPostgres)
	return &DB{SQL: db, Dialect: DialectPostgres, pool: pool}, nil
}

func openSQLite(cfg Config, logger *slog.Logger) (*DB, error) {
	logger.Info("opening local database", "dialect", DialectSQLite, "path", cfg.DSN)

	dsn := "file:" + cfg.DSN + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("failed to open local database", "error", err)
		return nil, err
	}

	// sqlite is a single-writer store; one pooled connection also keeps
	// :memory: databases from being opened once per connection.
	db.SetMaxOpenConns(1)

	return &DB{SQL: db, Dialect: DialectSQLite}, nil
}

// Close closes the database connections gracefully
func (d *DB) Close(logger *slog.Logger) {
	logger.Info("closing database connections")
	if d.pool != nil {
		d.pool.Close()
	}
	if d.SQL != nil {
		if err := d.SQL.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
	logger.Info("database connections closed")
}

// HealthCheck pings the backend to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	return d.SQL.PingContext(ctx)
}

// NewStore wires every repository over one open backend.
func NewStore(db *DB, logger *slog.Logger) *Store {
	return &Store{
		Transactions: NewTransactionRepository(db, logger),
		Categories:   NewCategoryRepository(db, logger),
		Accounts:     NewAccountRepository(db, logger),
		Invoices:     NewInvoiceRepository(db, logger),
		Budgets:      NewBudgetRepository(db, logger),
		Projects:     NewProjectRepository(db, logger),
		Reporting:    NewReportingRepository(db, logger),
	}
}
