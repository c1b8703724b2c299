// Package iodb implements database operations using GORM over pgxpool
// (PostgreSQL) or modernc sqlite (SQLite).
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/eduregistry/edureg/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers pure Go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

// operator implements db.Operator interface.
type operator struct {
	driver string
	pool   *pgxpool.Pool
	db     *gorm.DB
}

// NewOperator creates a new database operator
// (without connecting).
func NewOperator() db.Operator {
	return &operator{}
}

// Connect opens PostgreSQL or SQLite database according to
// cfg.Database.Driver.
func (o *operator) Connect(
	ctx context.Context,
	cfg *config.Config,
) error {
	var err error
	switch cfg.Database.Driver {
	case "postgres":
		err = o.connectPostgres(ctx, &cfg.Database)
	case "sqlite":
		err = o.connectSQLite(ctx, cfg.SQLitePath())
	default:
		err = UnknownDriverError(cfg.Database.Driver)
	}
	if err != nil {
		return err
	}

	o.driver = cfg.Database.Driver
	slog.Info("Connected to database", "driver", o.driver)
	return nil
}

func (o *operator) connectPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		gormConfig(),
	)
	if err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	o.pool = pool
	o.db = gormDB
	return nil
}

func (o *operator) connectSQLite(ctx context.Context, path string) error {
	dsn := "file:" + path +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	gormDB, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormConfig(),
	)
	if err != nil {
		return SQLiteOpenError(path, err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return SQLiteOpenError(path, err)
	}
	// one writer at a time, pragmas are per connection
	sqlDB.SetMaxOpenConns(1)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return SQLiteOpenError(path, err)
	}

	o.db = gormDB
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// Close releases all database connections.
func (o *operator) Close() error {
	if o.db != nil {
		if sqlDB, err := o.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		o.db = nil
	}
	if o.pool != nil {
		o.pool.Close()
		o.pool = nil
	}
	return nil
}

// DB returns the GORM handle.
func (o *operator) DB() *gorm.DB {
	return o.db
}

// Driver returns the name of the connected backend.
func (o *operator) Driver() string {
	return o.driver
}

// TableExists checks if a table exists in the current
// database.
func (o *operator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}
	tables, err := o.tables(ctx)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return slices.Contains(tables, tableName), nil
}

// HasTables checks if the database has any tables.
func (o *operator) HasTables(
	ctx context.Context,
) (bool, error) {
	if o.db == nil {
		return false, NotConnectedError()
	}
	tables, err := o.tables(ctx)
	if err != nil {
		return false, QueryTablesError(err)
	}
	return len(tables) > 0, nil
}

// DropAllTables drops all tables. Registry tables go first, dependent
// tables before the tables they reference.
func (o *operator) DropAllTables(ctx context.Context) error {
	if o.db == nil {
		return NotConnectedError()
	}

	tables, err := o.tables(ctx)
	if err != nil {
		return QueryTablesError(err)
	}

	known := schema.TableNames()
	slices.Reverse(known)
	var order []string
	for _, t := range known {
		if slices.Contains(tables, t) {
			order = append(order, t)
		}
	}
	for _, t := range tables {
		if !slices.Contains(order, t) {
			order = append(order, t)
		}
	}

	m := o.db.WithContext(ctx).Migrator()
	for _, table := range order {
		if err := m.DropTable(table); err != nil {
			return DropTableError(table, err)
		}
	}

	slog.Info("Dropped all tables", "count", len(order))
	return nil
}

// tables lists user tables. SQLite keeps its own bookkeeping tables
// (sqlite_sequence, sqlite_stat1) in the same catalog, they cannot be
// dropped and are left out.
func (o *operator) tables(ctx context.Context) ([]string, error) {
	tables, err := o.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(tables, func(t string) bool {
		return strings.HasPrefix(t, "sqlite_")
	}), nil
}
