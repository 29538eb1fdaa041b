// Package store owns the database pool shared by the gorm repositories and the
// sqlx reporting queries, and the transaction scope used by the mutation handlers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const driverName = "pgx"

// pgUniqueViolation is the SQLSTATE postgres raises for a unique index conflict.
const pgUniqueViolation = "23505"

type DB struct {
	Gorm *gorm.DB
	SQLX *sqlx.DB
	raw  *sql.DB
}

// Open connects to postgres through the pgx stdlib driver and shares the pool
// between gorm and sqlx.
func Open(ctx context.Context, cfg internal.DatabaseConfig) (*DB, error) {
	raw, err := sql.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	raw.SetMaxOpenConns(cfg.MaxOpenConns)
	raw.SetMaxIdleConns(cfg.MaxIdleConns)
	raw.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	raw.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := internal.WithTimeout(ctx, 0)
	defer cancel()
	if err := raw.PingContext(pingCtx); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logMode := gormlogger.Silent
	if cfg.LogQueries {
		logMode = gormlogger.Info
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: raw}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &DB{
		Gorm: gdb,
		SQLX: sqlx.NewDb(raw, driverName),
		raw:  raw,
	}, nil
}

func (d *DB) SQL() *sql.DB {
	return d.raw
}

func (d *DB) Close() error {
	return d.raw.Close()
}

// TxManager scopes a unit of work to one transaction.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Transactor runs a unit of work on a single pooled connection. The connection
// is returned to the pool on commit, rollback and panic alike.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// The error returned by fn is passed through unchanged.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
