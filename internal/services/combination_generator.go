package services

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/pkg/models"
)

// Attachment probability gates. An optional piece is attached when the
// random draw exceeds the gate.
const (
	dressOuterwearGate = 0.4
	dressAccessoryGate = 0.5
	pairOuterwearGate  = 0.3
	pairAccessoryGate  = 0.4
)

// generatorCategories fixes the shuffle order so a seeded source yields the
// same candidates on every run.
var generatorCategories = []string{
	models.CategoryDresses,
	models.CategoryTops,
	models.CategoryBottoms,
	models.CategoryShoes,
	models.CategoryOuterwear,
	models.CategoryAccessories,
}

// GenerationRequest carries the inputs of one generation pass.
type GenerationRequest struct {
	Groups             map[string][]models.WardrobeItem
	Occasion           string
	PreferredStyle     string
	IncludeAccessories bool
	Weather            *models.WeatherData
	Usage              UsageSnapshot
}

// CombinationGenerator builds candidate outfits from category-partitioned
// inventory using bounded, randomized, usage-aware combination.
type CombinationGenerator struct {
	config *config.StylistConfig
	logger *logrus.Logger
}

// NewCombinationGenerator creates a new combination generator
func NewCombinationGenerator(config *config.StylistConfig, logger *logrus.Logger) *CombinationGenerator {
	return &CombinationGenerator{
		config: config,
		logger: logger,
	}
}

// generationPass tracks placements made during one Generate call so each
// slot prefers the least-used eligible item.
type generationPass struct {
	usage  UsageSnapshot
	placed map[string]int
	cap    int
}

func (p *generationPass) underCap(item models.WardrobeItem) bool {
	return p.usage.Count(item.ID) < p.cap
}

func (p *generationPass) effective(item models.WardrobeItem) int {
	return p.usage.Count(item.ID) + p.placed[item.ID]
}

func (p *generationPass) place(outfit []models.WardrobeItem) {
	for _, item := range outfit {
		p.placed[item.ID]++
	}
}

// pick returns the least-used item under the cap that satisfies accept,
// keeping the category order for ties.
func (p *generationPass) pick(items []models.WardrobeItem, accept func(models.WardrobeItem) bool) (models.WardrobeItem, bool) {
	best := -1
	for i, item := range items {
		if !p.underCap(item) || !accept(item) {
			continue
		}
		if best == -1 || p.effective(item) < p.effective(items[best]) {
			best = i
		}
	}
	if best == -1 {
		return models.WardrobeItem{}, false
	}
	return items[best], true
}

// Generate returns dress-based outfits followed by top+bottom outfits. No
// deduplication happens here; ranking collapses identical outfits.
func (g *CombinationGenerator) Generate(req *GenerationRequest, rng *rand.Rand) [][]models.WardrobeItem {
	groups := g.orderGroups(req.Groups, req.Usage, rng)
	pass := &generationPass{
		usage:  req.Usage,
		placed: make(map[string]int),
		cap:    g.config.UsageCap,
	}

	dressOutfits := g.generateDressOutfits(req, groups, pass, rng)
	pairOutfits := g.generatePairOutfits(req, groups, pass, rng)

	g.logger.WithFields(logrus.Fields{
		"dress_outfits": len(dressOutfits),
		"pair_outfits":  len(pairOutfits),
	}).Debug("Generated outfit candidates")

	return append(dressOutfits, pairOutfits...)
}

// orderGroups shuffles every category to avoid array-order bias and then
// stable-sorts it by usage so least-used items come first.
func (g *CombinationGenerator) orderGroups(
	groups map[string][]models.WardrobeItem,
	usage UsageSnapshot,
	rng *rand.Rand,
) map[string][]models.WardrobeItem {
	ordered := make(map[string][]models.WardrobeItem, len(generatorCategories))
	for _, category := range generatorCategories {
		items := append([]models.WardrobeItem(nil), groups[category]...)
		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		sort.SliceStable(items, func(i, j int) bool {
			return usage.Count(items[i].ID) < usage.Count(items[j].ID)
		})
		ordered[category] = items
	}
	return ordered
}

func (g *CombinationGenerator) generateDressOutfits(
	req *GenerationRequest,
	groups map[string][]models.WardrobeItem,
	pass *generationPass,
	rng *rand.Rand,
) [][]models.WardrobeItem {
	var outfits [][]models.WardrobeItem
	noOuterwear := outerwearExcluded(req.Weather)

	for _, dress := range groups[models.CategoryDresses] {
		if len(outfits) >= g.config.MaxDressCandidates {
			break
		}
		if !IsOccasionAppropriate(dress, req.Occasion, req.PreferredStyle) || !pass.underCap(dress) {
			continue
		}

		outfit := []models.WardrobeItem{dress}

		if shoe, ok := pass.pick(groups[models.CategoryShoes], func(item models.WardrobeItem) bool {
			return ColorsCompatible(dress.Color, item.Color)
		}); ok {
			outfit = append(outfit, shoe)
		}

		if rng.Float64() > dressOuterwearGate && !noOuterwear {
			if layer, ok := pass.pick(groups[models.CategoryOuterwear], func(item models.WardrobeItem) bool {
				return ColorsCompatible(dress.Color, item.Color)
			}); ok {
				outfit = append(outfit, layer)
			}
		}

		if req.IncludeAccessories && rng.Float64() > dressAccessoryGate {
			if accessory, ok := pass.pick(groups[models.CategoryAccessories], acceptAny); ok {
				outfit = append(outfit, accessory)
			}
		}

		pass.place(outfit)
		outfits = append(outfits, outfit)
	}

	return outfits
}

func (g *CombinationGenerator) generatePairOutfits(
	req *GenerationRequest,
	groups map[string][]models.WardrobeItem,
	pass *generationPass,
	rng *rand.Rand,
) [][]models.WardrobeItem {
	tops := groups[models.CategoryTops]
	bottoms := groups[models.CategoryBottoms]
	if len(tops) == 0 || len(bottoms) == 0 {
		return nil
	}

	iterations := len(tops) * len(bottoms)
	if iterations > g.config.MaxPairIterations {
		iterations = g.config.MaxPairIterations
	}

	var outfits [][]models.WardrobeItem
	noOuterwear := outerwearExcluded(req.Weather)

	for i := 0; i < iterations; i++ {
		top := tops[i%len(tops)]
		bottom := bottoms[(i/len(tops))%len(bottoms)]

		if !IsOccasionAppropriate(top, req.Occasion, req.PreferredStyle) ||
			!IsOccasionAppropriate(bottom, req.Occasion, req.PreferredStyle) {
			continue
		}
		if !pass.underCap(top) || !pass.underCap(bottom) {
			continue
		}
		if !ColorsCompatible(top.Color, bottom.Color) && !(IsNeutral(top.Color) && IsNeutral(bottom.Color)) {
			continue
		}

		outfit := []models.WardrobeItem{top, bottom}
		matchesPair := func(item models.WardrobeItem) bool {
			return IsNeutral(item.Color) ||
				ColorsCompatible(top.Color, item.Color) ||
				ColorsCompatible(bottom.Color, item.Color)
		}

		shoe, ok := pass.pick(groups[models.CategoryShoes], matchesPair)
		if !ok {
			shoe, ok = pass.pick(groups[models.CategoryShoes], acceptAny)
		}
		if ok {
			outfit = append(outfit, shoe)
		}

		if rng.Float64() > pairOuterwearGate && !noOuterwear {
			if layer, ok := pass.pick(groups[models.CategoryOuterwear], matchesPair); ok {
				outfit = append(outfit, layer)
			}
		}

		if req.IncludeAccessories && rng.Float64() > pairAccessoryGate {
			if accessory, ok := pass.pick(groups[models.CategoryAccessories], acceptAny); ok {
				outfit = append(outfit, accessory)
			}
		}

		pass.place(outfit)
		outfits = append(outfits, outfit)
	}

	return outfits
}

func acceptAny(models.WardrobeItem) bool { return true }
