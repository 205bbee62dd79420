package models

// RestaurantPhoto is a reference to a provider-hosted photo.
type RestaurantPhoto struct {
	Reference string `json:"reference"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Restaurant is a candidate fetched from the search provider. Immutable for
// the lifetime of a session once fetched.
type Restaurant struct {
	PlaceID     string            `json:"place_id"`
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Rating      float64           `json:"rating,omitempty"`       // 0-5, 0 when unrated
	RatingCount int               `json:"rating_count,omitempty"` // number of user ratings
	PriceLevel  int               `json:"price_level,omitempty"`  // 0-4
	Types       []string          `json:"types,omitempty"`
	Photos      []RestaurantPhoto `json:"photos,omitempty"`
	Latitude    float64           `json:"latitude"`
	Longitude   float64           `json:"longitude"`
	OpenNow     *bool             `json:"open_now,omitempty"`
}

// HasType reports whether the restaurant carries the given category tag.
func (r *Restaurant) HasType(categoryType string) bool {
	for _, t := range r.Types {
		if t == categoryType {
			return true
		}
	}
	return false
}

// SlimRestaurant is the projection persisted on the session record for
// group-wide sharing. Keeping only scoring-relevant fields bounds the
// document size regardless of how much the provider returns.
type SlimRestaurant struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
	Types       []string `json:"types,omitempty"`
}

// Slim returns the persistable projection of the restaurant.
func (r *Restaurant) Slim() SlimRestaurant {
	return SlimRestaurant{
		PlaceID:     r.PlaceID,
		Name:        r.Name,
		Address:     r.Address,
		Rating:      r.Rating,
		RatingCount: r.RatingCount,
		Types:       r.Types,
	}
}

// Restaurant rehydrates the projection into a Restaurant with the fields
// that were not persisted left zero.
func (s SlimRestaurant) Restaurant() Restaurant {
	return Restaurant{
		PlaceID:     s.PlaceID,
		Name:        s.Name,
		Address:     s.Address,
		Rating:      s.Rating,
		RatingCount: s.RatingCount,
		Types:       s.Types,
	}
}
