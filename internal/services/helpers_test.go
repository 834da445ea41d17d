package services

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func item(id, category, style string, colors []string, occasions ...string) models.WardrobeItem {
	return models.WardrobeItem{
		ID:       id,
		Name:     id,
		Category: category,
		Color:    colors,
		Style:    style,
		Occasion: occasions,
	}
}

func withTags(it models.WardrobeItem, tags ...string) models.WardrobeItem {
	it.Tags = append(it.Tags, tags...)
	return it
}

// casualCloset builds n neutral casual tops, bottoms and shoes.
func casualCloset(n int) []models.WardrobeItem {
	var items []models.WardrobeItem
	for i := 0; i < n; i++ {
		items = append(items,
			item(fmt.Sprintf("top-%d", i), models.CategoryTops, "casual", []string{"white"}, "casual"),
			item(fmt.Sprintf("bottom-%d", i), models.CategoryBottoms, "casual", []string{"navy"}, "casual"),
			item(fmt.Sprintf("shoes-%d", i), models.CategoryShoes, "casual", []string{"black"}, "casual"),
		)
	}
	return items
}

func casualProfile() *models.StyleProfile {
	return &models.StyleProfile{ID: "user-1", PreferredStyle: "casual"}
}

func newTestConfig() *config.StylistConfig {
	return config.DefaultStylistConfig()
}
