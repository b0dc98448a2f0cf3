package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/syssam/relmap/dialect"
)

// Driver runs generated statements on a database/sql pool. Statements are
// rebound to the placeholder style of the dialect before execution.
type Driver struct {
	Conn
	db *sql.DB
}

// Open opens a pool for the dialect's database/sql driver. MySQL DSNs are
// parsed and reopened with parseTime enabled, so DATETIME columns scan into
// time.Time.
//
// The database/sql driver must be registered by the caller, except for
// PostgreSQL (lib/pq) and MySQL.
func Open(d dialect.Dialect, source string, opts ...Option) (*Driver, error) {
	var (
		db  *sql.DB
		err error
	)
	switch d.Name() {
	case dialect.NameMySQL:
		cfg, perr := mysql.ParseDSN(source)
		if perr != nil {
			return nil, fmt.Errorf("dialect/sql: parse mysql dsn: %w", perr)
		}
		cfg.ParseTime = true
		conn, cerr := mysql.NewConnector(cfg)
		if cerr != nil {
			return nil, fmt.Errorf("dialect/sql: mysql connector: %w", cerr)
		}
		db = sql.OpenDB(conn)
	default:
		db, err = sql.Open(DriverName(d), source)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: open %s: %w", d.Name(), err)
		}
	}
	return OpenDB(d, db, opts...), nil
}

// OpenDB wraps an existing pool.
func OpenDB(d dialect.Dialect, db *sql.DB, opts ...Option) *Driver {
	o := &options{
		logger:        slog.Default(),
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Driver{Conn: Conn{ExecQuerier: db, dialect: d, opts: o}, db: db}
}

// DriverName returns the database/sql driver name conventionally registered
// for d.
func DriverName(d dialect.Dialect) string {
	switch d.Name() {
	case dialect.NamePostgres:
		return "postgres"
	case dialect.NameSQLite:
		return "sqlite"
	default:
		return d.Name()
	}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// BeginTx starts a transaction with options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	return &Tx{
		Conn: Conn{ExecQuerier: tx, dialect: d.dialect, opts: d.opts},
		Tx:   tx,
	}, nil
}

// Close closes the underlying pool.
func (d *Driver) Close() error { return d.db.Close() }

// Tx is a transaction. Exec and Query run inside it.
type Tx struct {
	Conn
	driver.Tx
}

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn executes statements on an ExecQuerier in one dialect.
type Conn struct {
	ExecQuerier
	dialect dialect.Dialect
	opts    *options
}

// Dialect returns the dialect statements are bound for.
func (c Conn) Dialect() dialect.Dialect { return c.dialect }

// Exec binds params into query and executes it.
func (c Conn) Exec(ctx context.Context, query string, params *Params) (Result, error) {
	q, args := Bind(c.dialect, query, params)
	start := time.Now()
	res, err := c.ExecContext(ctx, q, args...)
	c.record(ctx, q, args, start, err, false)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return res, nil
}

// Query binds params into query and runs it. The caller closes the rows.
func (c Conn) Query(ctx context.Context, query string, params *Params) (*Rows, error) {
	q, args := Bind(c.dialect, query, params)
	start := time.Now()
	rows, err := c.QueryContext(ctx, q, args...)
	c.record(ctx, q, args, start, err, true)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return &Rows{rows}, nil
}

func (c Conn) record(ctx context.Context, query string, args []any, start time.Time, err error, isQuery bool) {
	o := c.opts
	if o == nil {
		return
	}
	duration := time.Since(start)
	if o.stats != nil {
		o.stats.add(duration, err, isQuery)
	}
	if err != nil && o.logger != nil {
		o.logger.DebugContext(ctx, "relmap: statement failed", "query", query, "error", err)
	}
	if duration > o.slowThreshold {
		if o.stats != nil {
			o.stats.SlowQueries.Add(1)
		}
		if o.slowHook != nil {
			o.slowHook(ctx, query, args, duration)
		}
	}
}

type (
	// Rows wraps the sql.Rows to avoid locks copy.
	Rows struct{ ColumnScanner }
	// Result is an alias to sql.Result.
	Result = sql.Result
	// NullBool is an alias to sql.NullBool.
	NullBool = sql.NullBool
	// NullInt64 is an alias to sql.NullInt64.
	NullInt64 = sql.NullInt64
	// NullString is an alias to sql.NullString.
	NullString = sql.NullString
	// NullFloat64 is an alias to sql.NullFloat64.
	NullFloat64 = sql.NullFloat64
	// NullTime represents a time.Time that may be null.
	NullTime = sql.NullTime
	// TxOptions holds the transaction options to be used in DB.BeginTx.
	TxOptions = sql.TxOptions
)

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}
