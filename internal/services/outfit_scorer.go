package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/pkg/models"
)

var (
	ErrEmptyOutfit    = errors.New("outfit has no items")
	ErrMissingProfile = errors.New("style profile is required")
)

const weatherPenalty = 0.1

// formalityLevels is the ordinal formality scale shared by occasions and styles.
var formalityLevels = map[string]int{
	"formal": 5, "black-tie": 5, "wedding": 5, "gala": 5, "elegant": 5,
	"business": 4, "work": 4, "office": 4, "interview": 4, "cocktail": 4, "classic": 4,
	"smart-casual": 3, "date": 3, "party": 3, "dinner": 3, "minimalist": 3,
	"modern": 3, "contemporary": 3, "romantic": 3, "vintage": 3,
	"casual": 2, "weekend": 2, "brunch": 2, "travel": 2, "bohemian": 2,
	"streetwear": 2, "edgy": 2, "trendy": 2,
	"sporty": 1, "athletic": 1, "gym": 1, "outdoor": 1, "beach": 1, "athleisure": 1,
	"loungewear": 0, "lounge": 0, "home": 0, "sleep": 0,
}

// styleCompatibility lists, per preferred style, the styles that read as a
// good match for it.
var styleCompatibility = map[string][]string{
	"business":     {"formal", "smart-casual", "classic"},
	"formal":       {"business", "classic", "elegant"},
	"casual":       {"streetwear", "sporty", "bohemian", "smart-casual"},
	"smart-casual": {"casual", "business", "classic", "minimalist"},
	"bohemian":     {"casual", "vintage", "romantic"},
	"streetwear":   {"casual", "sporty", "edgy"},
	"classic":      {"formal", "business", "smart-casual", "minimalist"},
	"minimalist":   {"classic", "modern", "smart-casual"},
	"modern":       {"minimalist", "contemporary", "edgy"},
	"sporty":       {"casual", "streetwear", "athleisure"},
	"elegant":      {"formal", "classic", "romantic"},
	"vintage":      {"bohemian", "classic", "romantic"},
	"romantic":     {"bohemian", "elegant", "vintage"},
	"edgy":         {"streetwear", "modern"},
}

var compatibleStyles = func() map[string]tagSet {
	index := make(map[string]tagSet, len(styleCompatibility))
	for style, compatible := range styleCompatibility {
		index[style] = newTagSet(compatible)
	}
	return index
}()

var (
	warmWeatherTags = newTagSet([]string{"warm", "wool", "thermal", "insulated", "heavy", "fleece", "long-sleeve", "knit"})
	lightTags       = newTagSet([]string{"light", "lightweight", "breathable", "linen", "short-sleeve", "shorts", "sleeveless"})
	summerTags      = newTagSet([]string{"summer", "shorts", "sandals", "open-toe", "sleeveless"})
	layerTags       = newTagSet([]string{"long-sleeve", "layer", "layering", "sweater", "cardigan", "light-jacket"})
	heavyTags       = newTagSet([]string{"heavy", "wool", "winter", "warm", "thermal", "insulated"})
	rainTags        = newTagSet([]string{"waterproof", "water-resistant", "rain"})
	fragileTags     = newTagSet([]string{"delicate", "suede", "silk"})
	windTags        = newTagSet([]string{"windproof", "fitted"})
	flowyTags       = newTagSet([]string{"loose", "flowy"})
)

var (
	confidentGoals   = newTagSet([]string{"confident", "professional", "powerful", "polished"})
	comfortGoals     = newTagSet([]string{"comfortable", "casual", "relaxed", "cozy"})
	trendyGoals      = newTagSet([]string{"trendy", "fashionable", "modern", "stylish"})
	versatileGoals   = newTagSet([]string{"versatile"})
	elegantGoals     = newTagSet([]string{"elegant", "sophisticated", "refined"})
	expressiveGoals  = newTagSet([]string{"creative", "unique", "expressive", "bold"})
	confidentStyles  = newTagSet([]string{"business", "formal", "classic"})
	comfortStyles    = newTagSet([]string{"casual", "sporty", "athleisure", "loungewear"})
	trendyStyles     = newTagSet([]string{"modern", "contemporary", "trendy", "streetwear", "edgy"})
	elegantStyles    = newTagSet([]string{"formal", "elegant", "classic"})
	expressiveStyles = newTagSet([]string{"bohemian", "vintage", "edgy", "romantic"})
)

// ScoreBreakdown holds every sub-score of one outfit, each in [0,1].
type ScoreBreakdown struct {
	Diversity    float64 `json:"diversity"`
	Style        float64 `json:"style"`
	ColorHarmony float64 `json:"color_harmony"`
	Seasonal     float64 `json:"seasonal"`
	Occasion     float64 `json:"occasion"`
	Weather      float64 `json:"weather"`
	HasWeather   bool    `json:"has_weather"`
	Completeness float64 `json:"completeness"`
	Fashion      float64 `json:"fashion"`
	Goals        float64 `json:"goals"`
	HasGoals     bool    `json:"has_goals"`
}

// ScoredOutfit is a candidate outfit with its composite confidence.
type ScoredOutfit struct {
	Items      []models.WardrobeItem
	Breakdown  ScoreBreakdown
	Confidence float64
	Reasoning  []string
}

// ScoringContext is the read-only input shared by all candidates of one call.
type ScoringContext struct {
	Profile *models.StyleProfile
	Context *models.StyleContext
	Season  string
	Usage   UsageSnapshot
}

// OutfitScorer computes weighted confidence scores and justifications.
type OutfitScorer struct {
	config *config.StylistConfig
	logger *logrus.Logger
}

// NewOutfitScorer creates a new outfit scorer
func NewOutfitScorer(config *config.StylistConfig, logger *logrus.Logger) *OutfitScorer {
	return &OutfitScorer{
		config: config,
		logger: logger,
	}
}

// Score evaluates one outfit. It is a pure function of its inputs.
func (s *OutfitScorer) Score(items []models.WardrobeItem, sc *ScoringContext) (*ScoredOutfit, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOutfit
	}
	if sc == nil || sc.Profile == nil {
		return nil, ErrMissingProfile
	}

	var occasion string
	var weather *models.WeatherData
	if sc.Context != nil {
		occasion = sc.Context.Occasion
		weather = sc.Context.Weather
	}

	var reasons []string
	b := ScoreBreakdown{}

	b.Style = s.styleScore(items, sc.Profile.PreferredStyle)
	reasons = appendStyleReason(reasons, b.Style, sc.Profile.PreferredStyle)

	b.Occasion = s.occasionScore(items, occasion)
	reasons = appendOccasionReason(reasons, b.Occasion, occasion)

	harmony, colorReasons := s.colorHarmonyScore(items, sc.Profile.FavoriteColors)
	b.ColorHarmony = harmony
	reasons = append(reasons, colorReasons...)

	b.Seasonal = s.seasonalColorScore(items, sc.Season, sc.Profile.ColorPaletteColors)
	if b.Seasonal > 0.6 && sc.Season != "" {
		reasons = append(reasons, fmt.Sprintf("Colors and fabrics suit the %s season", sc.Season))
	}

	if weather != nil {
		b.HasWeather = true
		b.Weather = s.weatherScore(items, weather)
		reasons = appendWeatherReason(reasons, b.Weather, items, weather)
	}

	completeness, completeReasons := s.completenessScore(items)
	b.Completeness = completeness
	reasons = append(reasons, completeReasons...)

	fashion := assessFashion(items)
	b.Fashion = fashion.Score
	if fashion.Score > 0.7 {
		reasons = append(reasons, fashion.Reasons...)
	}

	b.Diversity = sc.Usage.DiversityScore(items)
	if b.Diversity >= 0.99 {
		reasons = append(reasons, "A fresh combination you haven't been shown this session")
	}

	if len(sc.Profile.Goals) > 0 {
		goals, matched := s.goalScore(items, sc.Profile.Goals)
		b.Goals = goals
		b.HasGoals = len(matched) > 0
		if goals > 0.6 {
			reasons = append(reasons, fmt.Sprintf("Supports your goal to look %s", joinWords(matched)))
		}
	}

	return &ScoredOutfit{
		Items:      items,
		Breakdown:  b,
		Confidence: s.combine(b),
		Reasoning:  reasons,
	}, nil
}

// combine applies the fixed weights and clamps the result. The weights sum
// above 1, so the clamp is authoritative.
func (s *OutfitScorer) combine(b ScoreBreakdown) float64 {
	w := s.config.Weights
	colorTerm := 0.85*b.ColorHarmony + 0.15*b.Seasonal

	terms := []float64{
		w.Base,
		w.Diversity * b.Diversity,
		w.Style * b.Style,
		w.Color * colorTerm,
		w.Occasion * b.Occasion,
		w.Completeness * b.Completeness,
		w.Fashion * b.Fashion,
	}
	if b.HasWeather {
		terms = append(terms, w.Weather*b.Weather)
	}
	if b.HasGoals {
		terms = append(terms, w.Goals*b.Goals)
	}

	confidence := floats.Sum(terms)
	if b.HasWeather && b.Weather < 0.3 {
		confidence -= weatherPenalty
	}
	return clamp01(confidence)
}

// styleScore is the max of the direct formula (exact match 0.6, versatile
// 0.4) and the compatibility-matrix average.
func (s *OutfitScorer) styleScore(items []models.WardrobeItem, preferredStyle string) float64 {
	preferred := normalizeTag(preferredStyle)
	n := float64(len(items))

	exact, versatile := 0.0, 0.0
	matrix := make([]float64, len(items))
	for i, item := range items {
		style := normalizeTag(item.Style)
		switch {
		case style == preferred && preferred != "":
			exact++
			matrix[i] = 1.0
		case style == models.Versatile:
			versatile++
			matrix[i] = 0.6
		case compatibleStyles[preferred].has(style):
			matrix[i] = 0.75
		}
	}

	direct := 0.6*(exact/n) + 0.4*(versatile/n)
	if exact == n {
		direct = 1.0
	}
	return clamp01(floats.Max([]float64{direct, stat.Mean(matrix, nil)}))
}

func appendStyleReason(reasons []string, score float64, style string) []string {
	switch {
	case score > 0.9:
		return append(reasons, fmt.Sprintf("This outfit perfectly embodies your %s style", style))
	case score > 0.7:
		return append(reasons, fmt.Sprintf("Expertly matches your %s style", style))
	case score > 0.5:
		return append(reasons, fmt.Sprintf("Complements your %s style", style))
	}
	return reasons
}

// occasionScore averages per-item suitability: 1.0 for a direct tag match,
// 0.8 for versatile, else a formality-distance credit.
func (s *OutfitScorer) occasionScore(items []models.WardrobeItem, occasion string) float64 {
	target := normalizeTag(occasion)
	targetLevel, known := formalityLevels[target]

	scores := make([]float64, len(items))
	for i, item := range items {
		occasions := newTagSet(item.Occasion)
		switch {
		case target != "" && occasions.has(target):
			scores[i] = 1.0
		case occasions.has(models.Versatile):
			scores[i] = 0.8
		case known:
			scores[i] = formalityCredit(item, targetLevel)
		}
	}
	return stat.Mean(scores, nil)
}

func formalityCredit(item models.WardrobeItem, target int) float64 {
	distance := -1
	consider := func(tag string) {
		level, ok := formalityLevels[tag]
		if !ok {
			return
		}
		d := level - target
		if d < 0 {
			d = -d
		}
		if distance == -1 || d < distance {
			distance = d
		}
	}
	for _, occ := range normalizeTags(item.Occasion) {
		consider(occ)
	}
	if distance == -1 {
		consider(normalizeTag(item.Style))
	}

	switch {
	case distance == -1:
		return 0
	case distance <= 1:
		return 0.7
	case distance <= 2:
		return 0.4
	default:
		return 0
	}
}

func appendOccasionReason(reasons []string, score float64, occasion string) []string {
	occ := normalizeTag(occasion)
	switch {
	case score >= 0.9 && formalOccasions.has(occ):
		return append(reasons, fmt.Sprintf("Meets the formality expected for a %s occasion", occasion))
	case score >= 0.9:
		return append(reasons, fmt.Sprintf("Ideal for a %s occasion", occasion))
	case score >= 0.7:
		return append(reasons, fmt.Sprintf("Appropriate for a %s occasion", occasion))
	}
	return reasons
}

// colorHarmonyScore starts at 0.5 and adjusts for temperature cohesion,
// neutral and earth-tone share, palette chaos and favorite colors.
func (s *OutfitScorer) colorHarmonyScore(items []models.WardrobeItem, favorites []string) (float64, []string) {
	var colors []string
	for _, item := range items {
		for _, c := range item.Color {
			if normalizeTag(c) != "" {
				colors = append(colors, c)
			}
		}
	}
	if len(colors) == 0 {
		return 0.5, nil
	}

	n := float64(len(colors))
	warm, cool, neutral, earth := 0.0, 0.0, 0.0, 0.0
	families := make(map[string]struct{})
	for _, c := range colors {
		if colorInSet(c, warmColors) {
			warm++
		}
		if colorInSet(c, coolColors) {
			cool++
		}
		if isNeutralColor(c) {
			neutral++
		}
		if colorInSet(c, earthTones) {
			earth++
		}
		families[colorFamily(c)] = struct{}{}
	}

	var reasons []string
	score := 0.5

	tempFrac := floats.Max([]float64{warm / n, cool / n})
	if tempFrac >= 0.7 {
		score += 0.3 * tempFrac
		if warm >= cool {
			reasons = append(reasons, "Cohesive warm-toned color palette")
		} else {
			reasons = append(reasons, "Cohesive cool-toned color palette")
		}
	}
	if neutral/n >= 0.5 {
		score += 0.3
		reasons = append(reasons, "Built on a timeless neutral base")
	}
	if earth/n >= 0.6 {
		score += 0.2
		reasons = append(reasons, "Grounded earth-tone palette")
	}
	if len(families) > 3 {
		score -= 0.2
	}

	favoriteSet := newTagSet(favorites)
	for _, c := range colors {
		if colorInSet(c, favoriteSet) {
			score += 0.15
			reasons = append(reasons, "Features your favorite colors")
			break
		}
	}

	return clamp01(score), reasons
}

// seasonalColorScore blends the share of colors in the season palette (plus
// the profile's personal palette) with the share of items tagged for the season.
func (s *OutfitScorer) seasonalColorScore(items []models.WardrobeItem, season string, personalPalette []string) float64 {
	season = normalizeSeason(season)
	palette := newTagSet(SeasonalPalette(season), personalPalette)

	colorTotal, colorHits := 0.0, 0.0
	seasonHits := 0.0
	for _, item := range items {
		for _, c := range item.Color {
			colorTotal++
			if colorInSet(c, palette) {
				colorHits++
			}
		}
		seasons := newTagSet(item.Season)
		if seasons.hasAny("all", "all-season", "all seasons", "all-seasons") ||
			(season != "" && (seasons.has(season) || (season == "autumn" && seasons.has("fall")))) {
			seasonHits++
		}
	}

	colorFrac := 0.0
	if colorTotal > 0 {
		colorFrac = colorHits / colorTotal
	}
	return clamp01(0.5*colorFrac + 0.5*(seasonHits/float64(len(items))))
}

// weatherScore averages per-item band and condition scores.
func (s *OutfitScorer) weatherScore(items []models.WardrobeItem, weather *models.WeatherData) float64 {
	scores := make([]float64, len(items))
	for i, item := range items {
		scores[i] = itemWeatherScore(item, weather)
	}
	return clamp01(stat.Mean(scores, nil))
}

func itemWeatherScore(item models.WardrobeItem, weather *models.WeatherData) float64 {
	tags := itemTags(item)
	outerwear := isCategory(item, models.CategoryOuterwear)
	shoes := isCategory(item, models.CategoryShoes)
	temp := weather.Temperature
	score := 0.5

	switch {
	case temp < 5:
		if tags.intersects(warmWeatherTags) || outerwear || tags.has("boots") {
			score += 0.4
		} else if shoes && tags.has("closed-toe") {
			score += 0.2
		}
		if tags.intersects(summerTags) || tags.intersects(lightTags) {
			score -= 0.4
		}
	case temp < 15:
		if tags.intersects(layerTags) || outerwear || tags.has("boots") {
			score += 0.3
		}
		if tags.intersects(summerTags) {
			score -= 0.3
		}
	case temp < 25:
		if !tags.intersects(heavyTags) {
			score += 0.3
		} else {
			score -= 0.2
		}
	case temp < 30:
		if tags.intersects(lightTags) {
			score += 0.3
		}
		if tags.intersects(heavyTags) || outerwear {
			score -= 0.3
		}
	default:
		if tags.intersects(lightTags) || tags.has("sandals") {
			score += 0.4
		}
		if tags.intersects(heavyTags) || tags.has("long-sleeve") || outerwear {
			score -= 0.4
		}
	}

	condition := normalizeTag(weather.Condition)
	switch {
	case isRainy(condition):
		if tags.intersects(rainTags) {
			score += 0.3
		}
		if tags.intersects(fragileTags) {
			score -= 0.3
		}
		if shoes && tags.has("open-toe") {
			score -= 0.2
		}
	case isSnowy(condition):
		if tags.hasAny("warm", "boots", "insulated") {
			score += 0.3
		}
		if tags.hasAny("open-toe", "summer") {
			score -= 0.3
		}
	case isWindy(condition):
		if tags.intersects(windTags) {
			score += 0.2
		}
		if tags.intersects(flowyTags) {
			score -= 0.1
		}
	}

	return clamp01(score)
}

func appendWeatherReason(reasons []string, score float64, items []models.WardrobeItem, weather *models.WeatherData) []string {
	condition := normalizeTag(weather.Condition)
	if weather.Temperature < coldThreshold {
		for _, item := range items {
			if isCategory(item, models.CategoryOuterwear) {
				reasons = append(reasons, "Layered with outerwear for cold-weather warmth")
				break
			}
		}
	}
	if score > 0.7 {
		if condition != "" {
			reasons = append(reasons, fmt.Sprintf("Well suited to %.0f°C %s weather", weather.Temperature, condition))
		} else {
			reasons = append(reasons, fmt.Sprintf("Well suited to %.0f°C weather", weather.Temperature))
		}
	}
	return reasons
}

// completenessScore rewards a full look: top-or-dress, bottom-or-dress and
// shoes, with credit for standalone dresses and outerwear layering.
func (s *OutfitScorer) completenessScore(items []models.WardrobeItem) (float64, []string) {
	counts := make(map[string]int)
	for _, item := range items {
		counts[normalizeCategory(item.Category)]++
	}
	dress := counts[models.CategoryDresses] > 0

	var reasons []string
	score := 0.0
	if counts[models.CategoryTops] > 0 || dress {
		score += 0.3
	}
	if counts[models.CategoryBottoms] > 0 || dress {
		score += 0.3
	}
	if counts[models.CategoryShoes] > 0 {
		score += 0.2
	}
	if dress {
		score += 0.1
		reasons = append(reasons, "The dress makes an effortless complete look")
	}
	if counts[models.CategoryOuterwear] > 0 && len(items) >= 3 {
		score += 0.1
		reasons = append(reasons, "Thoughtful layering with outerwear")
	}
	if counts[models.CategoryAccessories] > 3 {
		score -= 0.2
	}

	score = clamp01(score)
	if score >= 0.8 && !dress {
		reasons = append(reasons, "A complete head-to-toe outfit")
	}
	return score, reasons
}

// goalScore averages the alignment of each recognized goal. It returns the
// recognized goals for the reasoning text.
func (s *OutfitScorer) goalScore(items []models.WardrobeItem, goals []string) (float64, []string) {
	n := float64(len(items))
	styleShare := func(styles tagSet, tags ...string) float64 {
		hits := 0.0
		for _, item := range items {
			if styles.has(normalizeTag(item.Style)) || itemTags(item).hasAny(tags...) {
				hits++
			}
		}
		return hits / n
	}

	var scores []float64
	var matched []string
	for _, goal := range normalizeTags(goals) {
		var score float64
		switch {
		case confidentGoals.has(goal):
			score = styleShare(confidentStyles, "structured", "tailored")
		case comfortGoals.has(goal):
			score = styleShare(comfortStyles, "casual", "comfortable", "relaxed", "soft", "stretch")
		case trendyGoals.has(goal):
			score = styleShare(trendyStyles, "trendy", "statement")
		case versatileGoals.has(goal):
			versatile := 0.0
			for _, item := range items {
				if normalizeTag(item.Style) == models.Versatile || containsFolded(item.Occasion, models.Versatile) {
					versatile++
				}
			}
			score = versatile / n
		case elegantGoals.has(goal):
			score = styleShare(elegantStyles, "silk", "satin", "tailored")
		case expressiveGoals.has(goal):
			score = styleShare(expressiveStyles, keysOf(patterns)...)
		default:
			continue
		}
		scores = append(scores, score)
		matched = append(matched, goal)
	}

	if len(scores) == 0 {
		return 0, nil
	}
	return clamp01(stat.Mean(scores, nil)), matched
}

// DominantStyle returns the most common style among the items. Ties prefer
// the profile's preferred style, then the alphabetically first style.
func DominantStyle(items []models.WardrobeItem, preferredStyle string) string {
	counts := make(map[string]int)
	display := make(map[string]string)
	for _, item := range items {
		key := normalizeTag(item.Style)
		if key == "" {
			continue
		}
		counts[key]++
		if _, ok := display[key]; !ok {
			display[key] = strings.TrimSpace(item.Style)
		}
	}
	if len(counts) == 0 {
		return ""
	}

	styles := make([]string, 0, len(counts))
	for style := range counts {
		styles = append(styles, style)
	}
	preferred := normalizeTag(preferredStyle)
	sort.Slice(styles, func(i, j int) bool {
		if counts[styles[i]] != counts[styles[j]] {
			return counts[styles[i]] > counts[styles[j]]
		}
		if (styles[i] == preferred) != (styles[j] == preferred) {
			return styles[i] == preferred
		}
		return styles[i] < styles[j]
	})
	return display[styles[0]]
}

// DescribeOutfit builds the one-line description of an outfit.
func DescribeOutfit(items []models.WardrobeItem, style, occasion string) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			name = normalizeCategory(item.Category)
		}
		names = append(names, name)
	}
	lead := "An outfit"
	if style != "" {
		lead = titleCase(style) + " look"
	}
	if occasion != "" {
		lead += " for " + occasion
	}
	return fmt.Sprintf("%s: %s", lead, joinWords(names))
}

func joinWords(words []string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	default:
		return strings.Join(words[:len(words)-1], ", ") + " and " + words[len(words)-1]
	}
}

func keysOf(m map[string]patternInfo) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
