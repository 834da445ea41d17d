package models

import (
	"sort"
	"strings"
	"time"
)

// Canonical wardrobe categories. Other category strings are accepted and
// compared case-insensitively.
const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryShoes       = "shoes"
	CategoryOuterwear   = "outerwear"
	CategoryAccessories = "accessories"
)

// Versatile is the sentinel occasion/style tag that fits any context.
const Versatile = "versatile"

type WardrobeItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Color    []string `json:"color"`
	Style    string   `json:"style"`
	Occasion []string `json:"occasion,omitempty"`
	Season   []string `json:"season,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type WeatherData struct {
	Temperature float64 `json:"temperature"` // Celsius
	Condition   string  `json:"condition,omitempty"`
	Humidity    float64 `json:"humidity,omitempty"`
}

type StyleProfile struct {
	ID                 string   `json:"id"`
	PreferredStyle     string   `json:"preferred_style"`
	FavoriteColors     []string `json:"favorite_colors,omitempty"`
	ColorPaletteColors []string `json:"color_palette_colors,omitempty"`
	Goals              []string `json:"goals,omitempty"`
}

type StyleContext struct {
	Occasion  string       `json:"occasion"`
	TimeOfDay string       `json:"timeOfDay,omitempty"`
	Season    string       `json:"season,omitempty"`
	Weather   *WeatherData `json:"weather,omitempty"`
}

type OutfitRecommendation struct {
	ID          string         `json:"id"`
	Items       []WardrobeItem `json:"items"`
	Occasion    string         `json:"occasion"`
	Style       string         `json:"style"`
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description"`
	Reasoning   []string       `json:"reasoning"`
}

// OutfitID derives a stable identifier from the member item ids, so the same
// set of items always yields the same id regardless of order.
func OutfitID(items []WardrobeItem) string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}

// OutfitRequest is the body of POST /api/v1/outfits/recommendations.
type OutfitRequest struct {
	SessionID          string         `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Inventory          []WardrobeItem `json:"inventory"`
	Profile            *StyleProfile  `json:"profile"`
	Context            *StyleContext  `json:"context"`
	IncludeAccessories bool           `json:"include_accessories"`
}

type OutfitResponse struct {
	SessionID       string                 `json:"session_id"`
	RequestID       string                 `json:"request_id"`
	Recommendations []OutfitRecommendation `json:"recommendations"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// UserOutfitQuery holds the query parameters of GET /api/v1/users/:userId/outfits.
type UserOutfitQuery struct {
	Occasion    string   `form:"occasion" validate:"required,max=64"`
	TimeOfDay   string   `form:"time_of_day" validate:"omitempty,max=32"`
	Season      string   `form:"season" validate:"omitempty,oneof=spring summer autumn fall winter"`
	Temperature *float64 `form:"temperature" validate:"omitempty,min=-60,max=60"`
	Condition   string   `form:"condition" validate:"omitempty,max=32"`
	Humidity    *float64 `form:"humidity" validate:"omitempty,min=0,max=100"`
	Accessories bool     `form:"accessories"`
}

// OutfitRecommendedEvent is published after each successful recommendation call.
type OutfitRecommendedEvent struct {
	EventID       string    `json:"event_id"`
	SessionID     string    `json:"session_id"`
	RequestID     string    `json:"request_id"`
	Occasion      string    `json:"occasion"`
	OutfitIDs     []string  `json:"outfit_ids"`
	ItemIDs       []string  `json:"item_ids"`
	TopConfidence float64   `json:"top_confidence"`
	Timestamp     time.Time `json:"timestamp"`
}

// StyleContext converts the query into the engine's styling context. Weather
// is set only when a temperature was given.
func (q *UserOutfitQuery) StyleContext() *StyleContext {
	ctx := &StyleContext{
		Occasion:  q.Occasion,
		TimeOfDay: q.TimeOfDay,
		Season:    q.Season,
	}
	if q.Temperature != nil {
		ctx.Weather = &WeatherData{
			Temperature: *q.Temperature,
			Condition:   q.Condition,
		}
		if q.Humidity != nil {
			ctx.Weather.Humidity = *q.Humidity
		}
	}
	return ctx
}
