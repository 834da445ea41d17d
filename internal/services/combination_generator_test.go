package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/wardrobe/pkg/models"
)

func containsItem(outfit []models.WardrobeItem, id string) bool {
	for _, it := range outfit {
		if it.ID == id {
			return true
		}
	}
	return false
}

func TestCombinationGenerator_PairIterationBound(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(casualCloset(5)),
		Occasion: "casual",
		Usage:    UsageSnapshot{},
	}, testRand(1))

	require.Len(t, outfits, 15)
	seen := make(map[string]bool)
	for _, outfit := range outfits {
		seen[outfit[0].ID+"|"+outfit[1].ID] = true
		assert.True(t, isCategory(outfit[0], models.CategoryTops))
		assert.True(t, isCategory(outfit[1], models.CategoryBottoms))
		assert.True(t, isCategory(outfit[2], models.CategoryShoes))
	}
	assert.Len(t, seen, 15)
}

func TestCombinationGenerator_SmallInventoryUsesEveryPair(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(casualCloset(2)),
		Occasion: "casual",
		Usage:    UsageSnapshot{},
	}, testRand(7))

	assert.Len(t, outfits, 4)
}

func TestCombinationGenerator_DressOutfits(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	var inventory []models.WardrobeItem
	for _, id := range []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7"} {
		inventory = append(inventory, item(id, models.CategoryDresses, "formal", []string{"black"}, "formal"))
	}
	inventory = append(inventory, item("heels", models.CategoryShoes, "formal", []string{"black"}, "formal"))

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(inventory),
		Occasion: "formal",
		Usage:    UsageSnapshot{},
	}, testRand(3))

	require.Len(t, outfits, 5)
	for _, outfit := range outfits {
		assert.True(t, isCategory(outfit[0], models.CategoryDresses))
		assert.True(t, containsItem(outfit, "heels"))
	}
}

func TestCombinationGenerator_RejectsClashingPair(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	inventory := []models.WardrobeItem{
		item("red-top", models.CategoryTops, "casual", []string{"red"}, "casual"),
		item("green-skirt", models.CategoryBottoms, "casual", []string{"green"}, "casual"),
		item("sneakers", models.CategoryShoes, "casual", []string{"white"}, "casual"),
	}

	for seed := int64(0); seed < 10; seed++ {
		outfits := generator.Generate(&GenerationRequest{
			Groups:   groupByCategory(inventory),
			Occasion: "casual",
			Usage:    UsageSnapshot{},
		}, testRand(seed))
		assert.Empty(t, outfits)
	}
}

func TestCombinationGenerator_SkipsItemsAtCap(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(casualCloset(3)),
		Occasion: "casual",
		Usage:    UsageSnapshot{"top-0": 2, "shoes-1": 2},
	}, testRand(11))

	require.NotEmpty(t, outfits)
	for _, outfit := range outfits {
		assert.False(t, containsItem(outfit, "top-0"))
		assert.False(t, containsItem(outfit, "shoes-1"))
	}
}

func TestCombinationGenerator_PrefersLeastUsed(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	inventory := []models.WardrobeItem{
		item("used-top", models.CategoryTops, "casual", []string{"white"}, "casual"),
		item("fresh-top", models.CategoryTops, "casual", []string{"white"}, "casual"),
		item("jeans", models.CategoryBottoms, "casual", []string{"blue"}, "casual"),
	}

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(inventory),
		Occasion: "casual",
		Usage:    UsageSnapshot{"used-top": 1},
	}, testRand(5))

	require.Len(t, outfits, 2)
	assert.Equal(t, "fresh-top", outfits[0][0].ID)
}

func TestCombinationGenerator_NoOuterwearInHeat(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	inventory := append(casualCloset(3),
		item("dress", models.CategoryDresses, "casual", []string{"white"}, "casual"),
		item("coat", models.CategoryOuterwear, "casual", []string{"black"}, "casual"),
	)

	for seed := int64(0); seed < 20; seed++ {
		outfits := generator.Generate(&GenerationRequest{
			Groups:   groupByCategory(inventory),
			Occasion: "casual",
			Weather:  &models.WeatherData{Temperature: 30},
			Usage:    UsageSnapshot{},
		}, testRand(seed))
		for _, outfit := range outfits {
			assert.False(t, containsItem(outfit, "coat"))
		}
	}
}

func TestCombinationGenerator_AccessoriesOnlyWhenRequested(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	inventory := append(casualCloset(4),
		item("belt", models.CategoryAccessories, "casual", []string{"brown"}),
	)
	groups := groupByCategory(inventory)

	for seed := int64(0); seed < 10; seed++ {
		outfits := generator.Generate(&GenerationRequest{Groups: groups, Occasion: "casual", Usage: UsageSnapshot{}}, testRand(seed))
		for _, outfit := range outfits {
			assert.False(t, containsItem(outfit, "belt"))
		}
	}

	found := false
	for seed := int64(0); seed < 10 && !found; seed++ {
		outfits := generator.Generate(&GenerationRequest{
			Groups:             groups,
			Occasion:           "casual",
			IncludeAccessories: true,
			Usage:              UsageSnapshot{},
		}, testRand(seed))
		for _, outfit := range outfits {
			found = found || containsItem(outfit, "belt")
		}
	}
	assert.True(t, found)
}

func TestCombinationGenerator_DeterministicForSeed(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())
	inventory := append(casualCloset(4),
		item("jacket", models.CategoryOuterwear, "casual", []string{"grey"}, "casual"),
		item("scarf", models.CategoryAccessories, "casual", []string{"beige"}),
	)
	req := &GenerationRequest{
		Groups:             groupByCategory(inventory),
		Occasion:           "casual",
		IncludeAccessories: true,
		Usage:              UsageSnapshot{"top-1": 1},
	}

	first := generator.Generate(req, testRand(42))
	second := generator.Generate(req, testRand(42))
	assert.Equal(t, first, second)
}

func TestCombinationGenerator_OccasionFilter(t *testing.T) {
	generator := NewCombinationGenerator(newTestConfig(), testLogger())

	outfits := generator.Generate(&GenerationRequest{
		Groups:   groupByCategory(casualCloset(3)),
		Occasion: "formal",
		Usage:    UsageSnapshot{},
	}, testRand(1))

	assert.Empty(t, outfits)
}
