package service

import (
	"context"
	"fmt"

	"food-delivery/internal/cache"
	"food-delivery/internal/model"
	"food-delivery/internal/repository"

	"github.com/rs/zerolog"
)

// menuService implements MenuService with a best-effort Redis cache in front
// of the catalogue reads. Cache misses and Redis failures fall through to the
// database; a nil cache disables caching entirely.
type menuService struct {
	restaurantRepo repository.RestaurantRepository
	menuRepo       repository.MenuRepository
	cache          *cache.Cache
	logger         zerolog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(
	restaurantRepo repository.RestaurantRepository,
	menuRepo repository.MenuRepository,
	c *cache.Cache,
	logger zerolog.Logger,
) MenuService {
	return &menuService{
		restaurantRepo: restaurantRepo,
		menuRepo:       menuRepo,
		cache:          c,
		logger:         logger.With().Str("service", "menu").Logger(),
	}
}

// Restaurants retrieves all restaurants.
func (s *menuService) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	var cached []model.Restaurant
	if s.cache.Get(ctx, cache.KeyRestaurants, &cached) {
		return cached, nil
	}

	restaurants, err := s.restaurantRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get restaurants")
		return nil, fmt.Errorf("failed to get restaurants: %w", err)
	}

	s.cache.Set(ctx, cache.KeyRestaurants, restaurants)
	return restaurants, nil
}

// Restaurant retrieves a single restaurant, or nil when absent. Absent
// restaurants are not cached.
func (s *menuService) Restaurant(ctx context.Context, id int64) (*model.Restaurant, error) {
	key := fmt.Sprintf(cache.KeyRestaurant, id)

	var cached model.Restaurant
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("restaurant_id", id).Msg("failed to get restaurant")
		return nil, fmt.Errorf("failed to get restaurant: %w", err)
	}

	if restaurant != nil {
		s.cache.Set(ctx, key, restaurant)
	}
	return restaurant, nil
}

// Menu retrieves the available menu items of a restaurant.
func (s *menuService) Menu(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	key := fmt.Sprintf(cache.KeyRestaurantMenu, restaurantID)

	var cached []model.MenuItem
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	items, err := s.menuRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		s.logger.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("failed to get menu")
		return nil, fmt.Errorf("failed to get menu: %w", err)
	}

	s.cache.Set(ctx, key, items)
	return items, nil
}
