package repository

import (
	"context"
	"testing"
	"time"

	"food-delivery/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and returns a connected pool and
// its connection string along with a cleanup function.
func setupTestDB(t *testing.T) (*pgxpool.Pool, string, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, connStr, cleanup
}

// createSchema creates the order-domain tables.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS users (
			user_id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			cuisine_type TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS menu_items (
			item_id BIGSERIAL PRIMARY KEY,
			restaurant_id BIGINT NOT NULL REFERENCES restaurants(restaurant_id),
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			is_available BOOLEAN NOT NULL DEFAULT TRUE
		);

		CREATE TABLE IF NOT EXISTS orders (
			order_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			restaurant_id BIGINT NOT NULL REFERENCES restaurants(restaurant_id),
			total_amount DOUBLE PRECISION NOT NULL CHECK (total_amount >= 0),
			delivery_address TEXT NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'cash',
			status TEXT NOT NULL DEFAULT 'pending',
			order_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			order_id BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
			item_id BIGINT NOT NULL REFERENCES menu_items(item_id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			item_price DOUBLE PRECISION NOT NULL CHECK (item_price >= 0)
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedCatalogue inserts a user, a restaurant, and two menu items with fixed
// ids so tests can reference them directly.
func seedCatalogue(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	seed := `
		INSERT INTO users (user_id, username, email, password_hash)
		VALUES (7, 'alice', 'alice@example.com', 'not-a-real-hash');

		INSERT INTO restaurants (restaurant_id, name, cuisine_type, address, rating)
		VALUES (3, 'Spice Garden', 'indian', '42 Curry Lane', 4.5);

		INSERT INTO menu_items (item_id, restaurant_id, name, price)
		VALUES (1, 3, 'Paneer Tikka', 10.00),
		       (2, 3, 'Garlic Naan', 5.00);
	`

	_, err := pool.Exec(ctx, seed)
	require.NoError(t, err)
}

// setupOrderTestDB creates a test database with schema and catalogue seed
// data, plus a connected statement executor for the order repository.
func setupOrderTestDB(t *testing.T) (*pgxpool.Pool, *db.Executor, func()) {
	t.Helper()

	pool, connStr, cleanup := setupTestDB(t)
	createSchema(t, pool)
	seedCatalogue(t, pool)

	exec := db.NewExecutor(connStr, zerolog.Nop())
	require.NoError(t, exec.Connect(context.Background()))

	teardown := func() {
		exec.Disconnect(context.Background())
		cleanup()
	}
	return pool, exec, teardown
}
