package model

// Restaurant represents a restaurant in the catalogue.
type Restaurant struct {
	RestaurantID int64   `json:"restaurantId" db:"restaurant_id"`
	Name         string  `json:"name" db:"name"`
	CuisineType  string  `json:"cuisineType" db:"cuisine_type"`
	Address      string  `json:"address" db:"address"`
	Rating       float64 `json:"rating" db:"rating"`
}

// MenuItem represents a dish offered by a restaurant. Price is the live
// catalogue price; orders snapshot it into OrderItem.ItemPrice at order time.
type MenuItem struct {
	ItemID       int64   `json:"itemId" db:"item_id"`
	RestaurantID int64   `json:"restaurantId" db:"restaurant_id"`
	Name         string  `json:"name" db:"name"`
	Description  string  `json:"description,omitempty" db:"description"`
	Price        float64 `json:"price" db:"price"`
	IsAvailable  bool    `json:"isAvailable" db:"is_available"`
}
