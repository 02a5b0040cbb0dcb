package repository

import (
	"context"
	"errors"
	"fmt"

	"food-delivery/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// GetByRestaurant retrieves the available menu items of a restaurant.
func (r *menuRepository) GetByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	query := `
		SELECT item_id, restaurant_id, name, description, price, is_available
		FROM menu_items
		WHERE restaurant_id = $1 AND is_available
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		var item model.MenuItem
		err := rows.Scan(&item.ItemID, &item.RestaurantID, &item.Name, &item.Description, &item.Price, &item.IsAvailable)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	query := `
		SELECT item_id, restaurant_id, name, description, price, is_available
		FROM menu_items
		WHERE item_id = $1
	`

	var item model.MenuItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ItemID,
		&item.RestaurantID,
		&item.Name,
		&item.Description,
		&item.Price,
		&item.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	return &item, nil
}
