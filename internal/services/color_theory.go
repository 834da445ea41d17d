package services

import (
	"sort"
	"strings"
)

// Color compatibility is judged by lookup against named color families, not
// colorimetric distance: item colors arrive as descriptive names.

var neutralColors = newTagSet([]string{
	"black", "white", "grey", "gray", "beige", "navy", "brown", "cream", "ivory",
	"tan", "taupe", "khaki", "charcoal", "camel", "nude", "stone", "ecru", "oatmeal",
})

// neutralStems are matched inside compound names such as "greyish" or
// "whitesmoke". Three-letter names stay out so "tangerine" is not a tan.
var neutralStems = func() []string {
	stems := make([]string, 0, len(neutralColors))
	for name := range neutralColors {
		if len(name) >= 4 {
			stems = append(stems, name)
		}
	}
	sort.Strings(stems)
	return stems
}()

var complementaryPairs = [][2]string{
	{"blue", "orange"},
	{"yellow", "purple"},
	{"teal", "coral"},
	{"turquoise", "coral"},
	{"pink", "mint"},
	{"lavender", "mustard"},
	{"burgundy", "sage"},
	{"emerald", "magenta"},
	{"cobalt", "gold"},
	{"violet", "lime"},
}

var analogousFamilies = [][]string{
	{"red", "orange", "coral", "rust", "terracotta"},
	{"orange", "yellow", "gold", "mustard", "peach", "amber"},
	{"yellow", "lime", "chartreuse"},
	{"green", "teal", "turquoise", "mint", "olive", "sage", "emerald"},
	{"blue", "teal", "turquoise", "cobalt", "sky blue", "denim"},
	{"blue", "purple", "violet", "indigo", "periwinkle"},
	{"purple", "lavender", "plum", "magenta", "lilac"},
	{"pink", "red", "rose", "fuchsia", "magenta", "blush"},
}

var triadicTriples = [][]string{
	{"red", "yellow", "blue"},
	{"orange", "green", "purple"},
	{"pink", "teal", "mustard"},
	{"coral", "mint", "lavender"},
}

var monochromaticFamilies = [][]string{
	{"blue", "light blue", "sky blue", "royal blue", "cobalt", "baby blue", "denim", "indigo"},
	{"red", "burgundy", "maroon", "crimson", "wine", "scarlet", "cherry"},
	{"green", "olive", "emerald", "sage", "mint", "forest green", "khaki green", "lime"},
	{"pink", "blush", "rose", "fuchsia", "hot pink", "dusty pink", "light pink"},
	{"purple", "lavender", "lilac", "plum", "violet", "mauve"},
	{"yellow", "mustard", "lemon", "gold", "butter"},
	{"orange", "rust", "peach", "tangerine", "burnt orange", "apricot"},
}

var seasonalPalettes = map[string][]string{
	"spring": {"coral", "peach", "mint", "lavender", "yellow", "light pink", "turquoise", "sky blue", "cream"},
	"summer": {"white", "sky blue", "pink", "lavender", "mint", "coral", "yellow", "turquoise", "light blue"},
	"autumn": {"rust", "mustard", "olive", "burgundy", "brown", "camel", "orange", "gold", "terracotta"},
	"winter": {"black", "white", "navy", "burgundy", "emerald", "grey", "red", "silver", "charcoal"},
}

var warmColors = newTagSet([]string{
	"red", "orange", "yellow", "coral", "peach", "rust", "mustard", "gold", "burgundy",
	"maroon", "crimson", "terracotta", "amber", "scarlet", "tangerine", "apricot", "wine",
})

var coolColors = newTagSet([]string{
	"blue", "green", "purple", "teal", "turquoise", "lavender", "mint", "emerald",
	"cobalt", "indigo", "violet", "lilac", "periwinkle", "sky blue", "light blue", "sage",
})

var earthTones = newTagSet([]string{
	"brown", "tan", "olive", "rust", "camel", "khaki", "beige", "terracotta",
	"mustard", "sage", "taupe", "ochre", "chocolate", "copper",
})

// colorFamilies maps a color name to the family used for the palette-chaos check.
var colorFamilies = buildColorFamilies(map[string][]string{
	"red":    {"red", "burgundy", "maroon", "crimson", "wine", "scarlet", "cherry"},
	"orange": {"orange", "rust", "peach", "tangerine", "apricot", "terracotta", "coral", "amber"},
	"yellow": {"yellow", "mustard", "gold", "lemon", "butter"},
	"green":  {"green", "olive", "emerald", "sage", "mint", "lime", "teal"},
	"blue":   {"blue", "light blue", "sky blue", "cobalt", "denim", "indigo", "turquoise", "baby blue", "royal blue"},
	"purple": {"purple", "lavender", "lilac", "plum", "violet", "mauve", "periwinkle"},
	"pink":   {"pink", "blush", "rose", "fuchsia", "magenta", "hot pink", "light pink"},
})

var complementaryIndex = buildPairIndex(complementaryPairs)
var analogousIndex = buildGroupIndex(analogousFamilies)
var triadicIndex = buildGroupIndex(triadicTriples)
var monochromaticIndex = buildGroupIndex(monochromaticFamilies)

func buildColorFamilies(families map[string][]string) map[string]string {
	index := make(map[string]string)
	for family, members := range families {
		for _, member := range members {
			index[member] = family
		}
	}
	return index
}

func buildPairIndex(pairs [][2]string) map[string]tagSet {
	index := make(map[string]tagSet)
	for _, pair := range pairs {
		for i, color := range pair {
			if index[color] == nil {
				index[color] = make(tagSet)
			}
			index[color][pair[1-i]] = struct{}{}
		}
	}
	return index
}

func buildGroupIndex(groups [][]string) map[string][]int {
	index := make(map[string][]int)
	for i, group := range groups {
		for _, color := range group {
			index[color] = append(index[color], i)
		}
	}
	return index
}

// colorKeys returns the lookup keys for a color name: the full folded name and,
// for multi-word names such as "dark green", the trailing base hue.
func colorKeys(name string) []string {
	full := normalizeTag(name)
	if full == "" {
		return nil
	}
	keys := []string{full}
	words := strings.FieldsFunc(full, func(r rune) bool { return r == ' ' || r == '-' || r == '_' })
	if len(words) > 1 {
		keys = append(keys, words[len(words)-1])
	}
	return keys
}

func isNeutralColor(name string) bool {
	full := normalizeTag(name)
	if full == "" {
		return false
	}
	if neutralColors.has(full) {
		return true
	}
	for _, word := range strings.FieldsFunc(full, func(r rune) bool { return r == ' ' || r == '-' || r == '_' }) {
		if neutralColors.has(word) {
			return true
		}
	}
	for _, stem := range neutralStems {
		if strings.Contains(full, stem) {
			return true
		}
	}
	return false
}

// IsNeutral reports whether any color in the set is a neutral.
func IsNeutral(colors []string) bool {
	for _, color := range colors {
		if isNeutralColor(color) {
			return true
		}
	}
	return false
}

// ColorsCompatible reports whether two color sets work together: either side
// neutral, an exact match, a complementary pair, or a shared analogous family,
// triadic triple or monochromatic family.
func ColorsCompatible(colorsA, colorsB []string) bool {
	if len(colorsA) == 0 || len(colorsB) == 0 {
		return false
	}
	if IsNeutral(colorsA) || IsNeutral(colorsB) {
		return true
	}

	for _, a := range colorsA {
		keysA := colorKeys(a)
		for _, b := range colorsB {
			keysB := colorKeys(b)
			if len(keysA) == 0 || len(keysB) == 0 {
				continue
			}
			if keysA[0] == keysB[0] {
				return true
			}
			if pairCompatible(keysA, keysB) {
				return true
			}
		}
	}
	return false
}

func pairCompatible(keysA, keysB []string) bool {
	for _, ka := range keysA {
		for _, kb := range keysB {
			if complementaryIndex[ka].has(kb) {
				return true
			}
			if shareGroup(analogousIndex, ka, kb) ||
				shareGroup(triadicIndex, ka, kb) ||
				shareGroup(monochromaticIndex, ka, kb) {
				return true
			}
		}
	}
	return false
}

func shareGroup(index map[string][]int, a, b string) bool {
	for _, ga := range index[a] {
		for _, gb := range index[b] {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

// SeasonalPalette returns the season-appropriate color names, or nil for an
// unknown season. "fall" is accepted for autumn.
func SeasonalPalette(season string) []string {
	key := normalizeSeason(season)
	palette, ok := seasonalPalettes[key]
	if !ok {
		return nil
	}
	out := make([]string, len(palette))
	copy(out, palette)
	sort.Strings(out)
	return out
}

func normalizeSeason(season string) string {
	s := normalizeTag(season)
	if s == "fall" {
		return "autumn"
	}
	return s
}

func colorInSet(name string, set tagSet) bool {
	for _, key := range colorKeys(name) {
		if set.has(key) {
			return true
		}
	}
	return false
}

// colorFamily returns the family of a color for the chaos check. Neutrals
// share one family and unknown names form their own.
func colorFamily(name string) string {
	if isNeutralColor(name) {
		return "neutral"
	}
	keys := colorKeys(name)
	for _, key := range keys {
		if family, ok := colorFamilies[key]; ok {
			return family
		}
	}
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}
