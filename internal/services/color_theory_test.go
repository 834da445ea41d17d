package services

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorsCompatible(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected bool
	}{
		{name: "neutral with anything", a: []string{"black"}, b: []string{"red"}, expected: true},
		{name: "neutral on the other side", a: []string{"fuchsia"}, b: []string{"navy"}, expected: true},
		{name: "exact match", a: []string{"Blue"}, b: []string{"BLUE"}, expected: true},
		{name: "complementary pair", a: []string{"blue"}, b: []string{"orange"}, expected: true},
		{name: "complementary pair reversed", a: []string{"orange"}, b: []string{"blue"}, expected: true},
		{name: "analogous family", a: []string{"coral"}, b: []string{"rust"}, expected: true},
		{name: "triadic triple", a: []string{"pink"}, b: []string{"mustard"}, expected: true},
		{name: "monochromatic family", a: []string{"mauve"}, b: []string{"lavender"}, expected: true},
		{name: "shade falls back to base hue", a: []string{"dark green"}, b: []string{"olive"}, expected: true},
		{name: "red and green clash", a: []string{"red"}, b: []string{"green"}, expected: false},
		{name: "unknown names", a: []string{"neon"}, b: []string{"glitter"}, expected: false},
		{name: "empty set", a: []string{}, b: []string{"black"}, expected: false},
		{name: "nil sets", a: nil, b: nil, expected: false},
		{name: "any pair in multi-color sets", a: []string{"red", "blue"}, b: []string{"green", "orange"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorsCompatible(tt.a, tt.b))
		})
	}
}

func TestIsNeutral(t *testing.T) {
	tests := []struct {
		name     string
		colors   []string
		expected bool
	}{
		{name: "exact name in a mixed set", colors: []string{"red", "White"}, expected: true},
		{name: "shade word", colors: []string{"Light Grey"}, expected: true},
		{name: "padded name", colors: []string{" beige "}, expected: true},
		{name: "hyphenated", colors: []string{"off-white"}, expected: true},
		{name: "greyish", colors: []string{"greyish"}, expected: true},
		{name: "blackish", colors: []string{"blackish"}, expected: true},
		{name: "navyblue", colors: []string{"navyblue"}, expected: true},
		{name: "beigey", colors: []string{"beigey"}, expected: true},
		{name: "charcoalgrey", colors: []string{"charcoalgrey"}, expected: true},
		{name: "whitesmoke", colors: []string{"WhiteSmoke"}, expected: true},
		{name: "tangerine is not tan", colors: []string{"tangerine"}, expected: false},
		{name: "no neutral", colors: []string{"red", "green"}, expected: false},
		{name: "nil set", colors: nil, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNeutral(tt.colors))
		})
	}
}

func TestSeasonalPalette(t *testing.T) {
	autumn := SeasonalPalette("autumn")
	require.NotEmpty(t, autumn)
	assert.Equal(t, autumn, SeasonalPalette("Fall"))
	assert.True(t, sort.StringsAreSorted(autumn))
	assert.Contains(t, autumn, "rust")

	assert.Contains(t, SeasonalPalette("winter"), "black")
	assert.Nil(t, SeasonalPalette("monsoon"))
	assert.Nil(t, SeasonalPalette(""))
}

func TestSeasonalPalette_ReturnsCopy(t *testing.T) {
	palette := SeasonalPalette("summer")
	require.NotEmpty(t, palette)
	palette[0] = "mutated"

	assert.NotContains(t, SeasonalPalette("summer"), "mutated")
}

func TestColorFamily(t *testing.T) {
	assert.Equal(t, "neutral", colorFamily("charcoal"))
	assert.Equal(t, "red", colorFamily("burgundy"))
	assert.Equal(t, "blue", colorFamily("royal blue"))
	assert.Equal(t, "blue", colorFamily("pale cobalt"))
	assert.Equal(t, "neutral", colorFamily("navy blue"))
}
