package services

import (
	"strings"

	"github.com/temcen/wardrobe/pkg/models"
)

const (
	coldThreshold = 10.0
	heatThreshold = 25.0
)

var formalOccasions = newTagSet([]string{"formal", "business"})
var informalStyles = newTagSet([]string{"casual", "streetwear"})

// categorySynonyms maps common category spellings onto the canonical set.
var categorySynonyms = map[string]string{
	"top": models.CategoryTops, "tops": models.CategoryTops, "shirt": models.CategoryTops,
	"shirts": models.CategoryTops, "blouse": models.CategoryTops, "t-shirt": models.CategoryTops,
	"sweater": models.CategoryTops, "knitwear": models.CategoryTops,
	"bottom": models.CategoryBottoms, "bottoms": models.CategoryBottoms, "pants": models.CategoryBottoms,
	"trousers": models.CategoryBottoms, "jeans": models.CategoryBottoms, "skirt": models.CategoryBottoms,
	"skirts": models.CategoryBottoms, "shorts": models.CategoryBottoms,
	"dress": models.CategoryDresses, "dresses": models.CategoryDresses, "jumpsuit": models.CategoryDresses,
	"shoe": models.CategoryShoes, "shoes": models.CategoryShoes, "footwear": models.CategoryShoes,
	"boots": models.CategoryShoes, "sneakers": models.CategoryShoes,
	"outerwear": models.CategoryOuterwear, "jacket": models.CategoryOuterwear, "jackets": models.CategoryOuterwear,
	"coat": models.CategoryOuterwear, "coats": models.CategoryOuterwear, "blazer": models.CategoryOuterwear,
	"accessory": models.CategoryAccessories, "accessories": models.CategoryAccessories,
	"jewelry": models.CategoryAccessories, "bag": models.CategoryAccessories, "bags": models.CategoryAccessories,
}

// normalizeCategory folds a category and maps known synonyms to the canonical
// name. Unknown categories are returned folded.
func normalizeCategory(category string) string {
	c := normalizeTag(category)
	if canonical, ok := categorySynonyms[c]; ok {
		return canonical
	}
	return c
}

func itemTags(item models.WardrobeItem) tagSet {
	return newTagSet(item.Tags)
}

func isCategory(item models.WardrobeItem, category string) bool {
	return normalizeCategory(item.Category) == category
}

// IsOccasionAppropriate reports whether an item suits the target occasion.
// For formal and business occasions casual and streetwear items are vetoed
// before any tag match is considered.
func IsOccasionAppropriate(item models.WardrobeItem, occasion, preferredStyle string) bool {
	occ := normalizeTag(occasion)
	style := normalizeTag(item.Style)

	if formalOccasions.has(occ) && informalStyles.has(style) {
		return false
	}

	occasions := newTagSet(item.Occasion)
	if occasions.has(occ) || occasions.has(models.Versatile) {
		return true
	}

	if occ == "casual" && (itemTags(item).has("casual") || style == "casual") {
		return true
	}

	preferred := normalizeTag(preferredStyle)
	return preferred != "" && style == preferred
}

// IsWeatherAppropriate applies the temperature and condition exclusions.
// Above 25°C outerwear is always excluded. A nil weather passes every item.
func IsWeatherAppropriate(item models.WardrobeItem, weather *models.WeatherData) bool {
	if weather == nil {
		return true
	}

	tags := itemTags(item)
	temp := weather.Temperature

	if temp < coldThreshold && tags.hasAny("summer", "shorts") {
		return false
	}

	if temp > heatThreshold {
		if isCategory(item, models.CategoryOuterwear) {
			return false
		}
		if tags.hasAny("heavy", "wool", "winter", "warm") {
			return false
		}
	}

	condition := normalizeTag(weather.Condition)
	if isRainy(condition) && tags.has("delicate") {
		return false
	}
	if isSnowy(condition) && tags.hasAny("summer", "open-toe") {
		return false
	}

	return true
}

// outerwearExcluded reports whether the heat rule bans outerwear outright.
func outerwearExcluded(weather *models.WeatherData) bool {
	return weather != nil && weather.Temperature > heatThreshold
}

func isRainy(condition string) bool {
	return strings.Contains(condition, "rain") || strings.Contains(condition, "drizzle") ||
		strings.Contains(condition, "shower")
}

func isSnowy(condition string) bool {
	return strings.Contains(condition, "snow") || strings.Contains(condition, "sleet")
}

func isWindy(condition string) bool {
	return strings.Contains(condition, "wind") || strings.Contains(condition, "gust")
}
