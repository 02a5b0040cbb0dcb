package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRows implements pgx.Rows over in-memory data and tracks Close calls so
// tests can verify the executor never leaks row handles.
type fakeRows struct {
	fields  []pgconn.FieldDescription
	data    [][]any
	idx     int
	closed  bool
	rowsErr error
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.rowsErr }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}
func (r *fakeRows) Scan(dest ...any) error  { return nil }
func (r *fakeRows) Values() ([]any, error)  { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte     { return nil }
func (r *fakeRows) Conn() *pgx.Conn         { return nil }

// fakeConn implements Conn and records every statement and its parameters.
type fakeConn struct {
	mu              sync.Mutex
	execStatements  []string
	execParams      [][]any
	queryStatements []string
	queryParams     [][]any
	rows            *fakeRows
	openRows        []*fakeRows
	execErr         error
	queryErr        error
	closed          int
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execStatements = append(c.execStatements, sql)
	c.execParams = append(c.execParams, args)
	if c.execErr != nil {
		return pgconn.CommandTag{}, c.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryStatements = append(c.queryStatements, sql)
	c.queryParams = append(c.queryParams, args)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	rows := c.rows
	if rows == nil {
		rows = &fakeRows{}
	}
	c.openRows = append(c.openRows, rows)
	return rows, nil
}

func (c *fakeConn) Ping(ctx context.Context) error { return nil }

func (c *fakeConn) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func newTestExecutor(conn *fakeConn, dialErr error) (*Executor, *int) {
	dials := 0
	dial := func(ctx context.Context, connString string) (Conn, error) {
		dials++
		if dialErr != nil {
			return nil, dialErr
		}
		return conn, nil
	}
	return NewExecutor("postgres://test", zerolog.Nop(), WithDial(dial)), &dials
}

func TestExecutor_ExecuteWithoutConnect(t *testing.T) {
	exec, _ := newTestExecutor(&fakeConn{}, nil)

	result, err := exec.Execute(context.Background(), "SELECT 1")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Nil(t, result)
}

func TestExecutor_ConnectFailure(t *testing.T) {
	exec, _ := newTestExecutor(nil, errors.New("connection refused"))
	ctx := context.Background()

	err := exec.Connect(ctx)
	require.Error(t, err)
	assert.False(t, exec.Connected())

	// Execute after a failed connect reports the missing connection.
	_, err = exec.Execute(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)

	// Disconnect after a failed connect is a safe no-op.
	exec.Disconnect(ctx)
}

func TestExecutor_ConnectRedials(t *testing.T) {
	conn := &fakeConn{}
	exec, dials := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))
	require.NoError(t, exec.Connect(ctx))

	assert.Equal(t, 2, *dials)
	// Re-dialing closes the previous connection first.
	assert.Equal(t, 1, conn.closed)
}

func TestExecutor_DisconnectIdempotent(t *testing.T) {
	conn := &fakeConn{}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	exec.Disconnect(ctx)
	exec.Disconnect(ctx)
	exec.Disconnect(ctx)

	assert.Equal(t, 1, conn.closed)
	assert.False(t, exec.Connected())
}

func TestExecutor_ExecuteSelect(t *testing.T) {
	conn := &fakeConn{
		rows: &fakeRows{
			fields: []pgconn.FieldDescription{{Name: "order_id"}, {Name: "status"}},
			data: [][]any{
				{int64(3), "pending"},
				{int64(2), "delivered"},
				{int64(1), "delivered"},
			},
		},
	}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	result, err := exec.Execute(ctx, "SELECT order_id, status FROM orders WHERE user_id = $1", int64(7))

	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Rows, 3)

	// Rows come back as column-name maps, preserving storage order.
	assert.Equal(t, int64(3), result.Rows[0]["order_id"])
	assert.Equal(t, "pending", result.Rows[0]["status"])
	assert.Equal(t, int64(1), result.Rows[2]["order_id"])

	// Parameters are passed through for driver binding, never interpolated.
	require.Len(t, conn.queryParams, 1)
	assert.Equal(t, []any{int64(7)}, conn.queryParams[0])
	assert.Contains(t, conn.queryStatements[0], "$1")
}

func TestExecutor_ExecuteSelectEmpty(t *testing.T) {
	conn := &fakeConn{rows: &fakeRows{fields: []pgconn.FieldDescription{{Name: "order_id"}}}}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	result, err := exec.Execute(ctx, "SELECT order_id FROM orders WHERE user_id = $1", int64(99))

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Rows)
	assert.True(t, conn.rows.closed)
}

func TestExecutor_ExecuteWrite(t *testing.T) {
	conn := &fakeConn{}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	result, err := exec.Execute(ctx,
		"INSERT INTO order_items (order_id, item_id, quantity, item_price) VALUES ($1, $2, $3, $4)",
		int64(1), int64(2), 3, 9.99)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Nil(t, result.Rows)
	assert.Equal(t, int64(1), result.RowsAffected)

	require.Len(t, conn.execParams, 1)
	assert.Equal(t, []any{int64(1), int64(2), 3, 9.99}, conn.execParams[0])
}

func TestExecutor_ExecuteErrors(t *testing.T) {
	tests := []struct {
		name      string
		conn      *fakeConn
		statement string
	}{
		{
			name:      "query error",
			conn:      &fakeConn{queryErr: errors.New("relation does not exist")},
			statement: "SELECT * FROM missing",
		},
		{
			name:      "write error",
			conn:      &fakeConn{execErr: errors.New("constraint violation")},
			statement: "INSERT INTO orders DEFAULT VALUES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, _ := newTestExecutor(tt.conn, nil)
			ctx := context.Background()
			require.NoError(t, exec.Connect(ctx))

			result, err := exec.Execute(ctx, tt.statement)

			require.Error(t, err)
			assert.Nil(t, result)
			// The connection survives statement failures.
			assert.True(t, exec.Connected())
		})
	}
}

func TestExecutor_RowsErrPropagated(t *testing.T) {
	conn := &fakeConn{
		rows: &fakeRows{
			fields:  []pgconn.FieldDescription{{Name: "order_id"}},
			rowsErr: errors.New("connection reset"),
		},
	}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	result, err := exec.Execute(ctx, "SELECT order_id FROM orders")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, conn.rows.closed)
}

func TestExecutor_NoHandleLeaks(t *testing.T) {
	conn := &fakeConn{}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	// N sequential calls on one connection: every row handle is released on
	// every exit path, including empty results.
	for i := 0; i < 50; i++ {
		conn.rows = &fakeRows{fields: []pgconn.FieldDescription{{Name: "n"}}, data: [][]any{{int64(i)}}}
		_, err := exec.Execute(ctx, "SELECT n FROM counters")
		require.NoError(t, err)
	}

	require.Len(t, conn.openRows, 50)
	for i, rows := range conn.openRows {
		assert.True(t, rows.closed, "row handle %d left open", i)
	}
}

func TestExecutor_ConcurrentExecute(t *testing.T) {
	conn := &fakeConn{}
	exec, _ := newTestExecutor(conn, nil)
	ctx := context.Background()

	require.NoError(t, exec.Connect(ctx))

	// Concurrent callers serialize on the single connection; every statement
	// completes and every row handle is released.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exec.Execute(ctx, "SELECT order_id FROM orders")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, conn.openRows, 20)
	for i, rows := range conn.openRows {
		assert.True(t, rows.closed, "row handle %d left open", i)
	}
}

func TestRow_Accessors(t *testing.T) {
	when := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	row := Row{
		"order_id":   int64(42),
		"quantity":   int32(3),
		"total":      19.99,
		"status":     "pending",
		"order_date": when,
	}

	assert.Equal(t, int64(42), row.Int64("order_id"))
	assert.Equal(t, 3, row.Int("quantity"))
	assert.Equal(t, 19.99, row.Float64("total"))
	assert.Equal(t, "pending", row.String("status"))
	assert.True(t, row.Time("order_date").Equal(when))

	// Missing and mistyped columns yield zero values.
	assert.Equal(t, int64(0), row.Int64("missing"))
	assert.Equal(t, float64(0), row.Float64("status"))
	assert.Equal(t, "", row.String("order_id"))
	assert.True(t, row.Time("status").IsZero())
}

func TestIsReadStatement(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		want      bool
	}{
		{"plain select", "SELECT * FROM orders", true},
		{"lowercase select", "select 1", true},
		{"leading whitespace", "   \n\tSELECT 1", true},
		{"insert", "INSERT INTO orders DEFAULT VALUES", false},
		{"update", "UPDATE orders SET status = $1", false},
		{"delete", "DELETE FROM orders", false},
		// Known limitations of the prefix heuristic, preserved deliberately.
		{"cte select", "WITH recent AS (SELECT 1) SELECT * FROM recent", false},
		{"leading comment", "/* read */ SELECT 1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isReadStatement(tt.statement))
		})
	}
}
