package models

import "strings"

type CategoryKind string

const (
	CategoryCuisine CategoryKind = "cuisine"
	CategoryVenue   CategoryKind = "venue"
)

// Category is one eliminable entry in the stage 1 / stage 2 grids. Type is
// the search provider's category tag.
type Category struct {
	Type        string       `json:"type"`
	DisplayName string       `json:"display_name"`
	Kind        CategoryKind `json:"kind"`
}

// CuisineCategories are the stage 1 (cuisine) elimination options.
var CuisineCategories = []Category{
	{Type: "american_restaurant", DisplayName: "American", Kind: CategoryCuisine},
	{Type: "italian_restaurant", DisplayName: "Italian", Kind: CategoryCuisine},
	{Type: "mexican_restaurant", DisplayName: "Mexican", Kind: CategoryCuisine},
	{Type: "chinese_restaurant", DisplayName: "Chinese", Kind: CategoryCuisine},
	{Type: "japanese_restaurant", DisplayName: "Japanese", Kind: CategoryCuisine},
	{Type: "thai_restaurant", DisplayName: "Thai", Kind: CategoryCuisine},
	{Type: "indian_restaurant", DisplayName: "Indian", Kind: CategoryCuisine},
	{Type: "pizza_restaurant", DisplayName: "Pizza", Kind: CategoryCuisine},
	{Type: "sushi_restaurant", DisplayName: "Sushi", Kind: CategoryCuisine},
	{Type: "seafood_restaurant", DisplayName: "Seafood", Kind: CategoryCuisine},
	{Type: "steak_house", DisplayName: "Steakhouse", Kind: CategoryCuisine},
	{Type: "barbecue_restaurant", DisplayName: "BBQ", Kind: CategoryCuisine},
	{Type: "mediterranean_restaurant", DisplayName: "Mediterranean", Kind: CategoryCuisine},
	{Type: "korean_restaurant", DisplayName: "Korean", Kind: CategoryCuisine},
	{Type: "vietnamese_restaurant", DisplayName: "Vietnamese", Kind: CategoryCuisine},
	{Type: "french_restaurant", DisplayName: "French", Kind: CategoryCuisine},
	{Type: "greek_restaurant", DisplayName: "Greek", Kind: CategoryCuisine},
	{Type: "spanish_restaurant", DisplayName: "Spanish", Kind: CategoryCuisine},
	{Type: "middle_eastern_restaurant", DisplayName: "Middle Eastern", Kind: CategoryCuisine},
	{Type: "latin_american_restaurant", DisplayName: "Latin American", Kind: CategoryCuisine},
}

// VenueCategories are the stage 2 (venue type) elimination options.
var VenueCategories = []Category{
	{Type: "fast_food_restaurant", DisplayName: "Fast Food", Kind: CategoryVenue},
	{Type: "cafe", DisplayName: "Cafe", Kind: CategoryVenue},
	{Type: "bar", DisplayName: "Bar/Pub", Kind: CategoryVenue},
	{Type: "bakery", DisplayName: "Bakery", Kind: CategoryVenue},
	{Type: "sandwich_shop", DisplayName: "Sandwich Shop", Kind: CategoryVenue},
	{Type: "breakfast_restaurant", DisplayName: "Breakfast", Kind: CategoryVenue},
	{Type: "brunch_restaurant", DisplayName: "Brunch", Kind: CategoryVenue},
	{Type: "ice_cream_shop", DisplayName: "Dessert", Kind: CategoryVenue},
	{Type: "fine_dining_restaurant", DisplayName: "Fine Dining", Kind: CategoryVenue},
	{Type: "casual_dining_restaurant", DisplayName: "Casual Dining", Kind: CategoryVenue},
}

// CategoryTypes returns just the provider tags of the given categories.
func CategoryTypes(categories []Category) []string {
	types := make([]string, len(categories))
	for i, c := range categories {
		types[i] = c.Type
	}
	return types
}

// DefaultSearchTypes is the catalog searched when a caller supplies no type
// filter. latin_american_restaurant is omitted: the search provider rejects
// it as an includedTypes value.
var DefaultSearchTypes = []string{
	"american_restaurant",
	"italian_restaurant",
	"mexican_restaurant",
	"chinese_restaurant",
	"japanese_restaurant",
	"thai_restaurant",
	"indian_restaurant",
	"french_restaurant",
	"mediterranean_restaurant",
	"greek_restaurant",
	"spanish_restaurant",
	"korean_restaurant",
	"vietnamese_restaurant",
	"middle_eastern_restaurant",
	"fast_food_restaurant",
	"cafe",
	"pizza_restaurant",
	"sandwich_shop",
	"seafood_restaurant",
	"steak_house",
	"barbecue_restaurant",
	"bakery",
	"bar",
	"breakfast_restaurant",
}

// CategoryDisplayName returns the friendly name for a provider tag, falling
// back to title-cased words with a trailing "Restaurant" stripped.
func CategoryDisplayName(categoryType string) string {
	for _, c := range CuisineCategories {
		if c.Type == categoryType {
			return c.DisplayName
		}
	}
	for _, c := range VenueCategories {
		if c.Type == categoryType {
			return c.DisplayName
		}
	}

	words := strings.Split(strings.ReplaceAll(categoryType, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	name := strings.Join(words, " ")
	return strings.TrimSuffix(name, " Restaurant")
}
