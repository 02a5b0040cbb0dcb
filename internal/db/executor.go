package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// ErrNotConnected is returned by Execute when no connection is open. Callers
// must Connect first and check the error rather than assume a connection exists.
var ErrNotConnected = errors.New("database connection is not open")

// Conn is the minimal connection surface the executor needs. *pgx.Conn
// satisfies it; tests substitute a mock.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DialFunc opens a database connection for the executor.
type DialFunc func(ctx context.Context, connString string) (Conn, error)

func pgxDial(ctx context.Context, connString string) (Conn, error) {
	return pgx.Connect(ctx, connString)
}

// Row is a single result row keyed by column name.
type Row map[string]any

// Int64 returns the named column as an int64. Smaller integer widths are
// widened; missing columns and non-integer values yield zero.
func (r Row) Int64(col string) int64 {
	switch v := r[col].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}

// Int returns the named column as an int.
func (r Row) Int(col string) int {
	return int(r.Int64(col))
}

// Float64 returns the named column as a float64, or zero.
func (r Row) Float64(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	}
	return 0
}

// String returns the named column as a string, or empty.
func (r Row) String(col string) string {
	if s, ok := r[col].(string); ok {
		return s
	}
	return ""
}

// Time returns the named column as a time.Time, or the zero time.
func (r Row) Time(col string) time.Time {
	if t, ok := r[col].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Result is the uniform shape of an executed statement. Rows is populated for
// reads and nil for writes; RowsAffected is populated for writes.
type Result struct {
	Rows         []Row
	RowsAffected int64
}

// Executor owns a single database connection and executes one parameterized
// statement at a time. It is safe for concurrent use: statements are
// serialized on the one connection, so callers queue rather than interleave.
type Executor struct {
	connString string
	dial       DialFunc
	logger     zerolog.Logger

	mu   sync.Mutex
	conn Conn
}

// Option configures an Executor.
type Option func(*Executor)

// WithDial overrides how the executor opens connections. Tests use this to
// inject a mock connection.
func WithDial(dial DialFunc) Option {
	return func(e *Executor) {
		e.dial = dial
	}
}

// NewExecutor creates an executor for the given connection string. No
// connection is opened until Connect is called.
func NewExecutor(connString string, logger zerolog.Logger, opts ...Option) *Executor {
	e := &Executor{
		connString: connString,
		dial:       pgxDial,
		logger:     logger.With().Str("component", "executor").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Connect establishes the database connection. Calling it again on a live
// executor closes the existing connection and re-dials. A failure leaves the
// executor disconnected.
func (e *Executor) Connect(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != nil {
		if err := e.conn.Close(ctx); err != nil {
			e.logger.Warn().Err(err).Msg("failed to close previous connection before re-dial")
		}
		e.conn = nil
	}

	conn, err := e.dial(ctx, e.connString)
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to connect to database")
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.conn = conn
	e.logger.Info().Msg("database connection established")
	return nil
}

// Disconnect releases the connection if one is open. It is safe to call
// multiple times and after a failed Connect.
func (e *Executor) Disconnect(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		return
	}
	if err := e.conn.Close(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("error closing database connection")
	}
	e.conn = nil
	e.logger.Info().Msg("database connection closed")
}

// Connected reports whether a connection is currently open.
func (e *Executor) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.conn != nil
}

// Execute runs a single parameterized statement. Parameters are always bound
// by the driver, never interpolated into the statement text. Reads return
// ordered rows keyed by column name; writes are committed and return the
// affected row count. All failures surface as returned errors.
func (e *Executor) Execute(ctx context.Context, statement string, params ...any) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn == nil {
		e.logger.Error().Msg("execute called without an active database connection")
		return nil, ErrNotConnected
	}

	if isReadStatement(statement) {
		return e.query(ctx, statement, params)
	}
	return e.exec(ctx, statement, params)
}

func (e *Executor) query(ctx context.Context, statement string, params []any) (*Result, error) {
	rows, err := e.conn.Query(ctx, statement, params...)
	if err != nil {
		e.logger.Error().Err(err).Str("statement", statement).Msg("failed to execute query")
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &Result{Rows: []Row{}}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			e.logger.Error().Err(err).Msg("failed to read row values")
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}

		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		e.logger.Error().Err(err).Str("statement", statement).Msg("error iterating rows")
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func (e *Executor) exec(ctx context.Context, statement string, params []any) (*Result, error) {
	tag, err := e.conn.Exec(ctx, statement, params...)
	if err != nil {
		e.logger.Error().Err(err).Str("statement", statement).Msg("failed to execute statement")
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}

	return &Result{RowsAffected: tag.RowsAffected()}, nil
}

// isReadStatement classifies a statement as a read when it starts with
// SELECT after trimming, case-insensitively. This is a prefix heuristic, not
// a parser: it misclassifies CTEs ("WITH ... SELECT") and statements with
// leading comments. Kept isolated here so a stricter classifier can be
// swapped in without touching callers.
func isReadStatement(statement string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(statement)), "SELECT")
}
