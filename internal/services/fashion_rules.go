package services

import (
	"github.com/temcen/wardrobe/pkg/models"
)

type patternScale int

const (
	smallScale patternScale = iota
	mediumScale
	largeScale
)

type patternInfo struct {
	family string
	scale  patternScale
}

var patterns = map[string]patternInfo{
	"pinstripe":    {family: "stripes", scale: smallScale},
	"striped":      {family: "stripes", scale: mediumScale},
	"stripes":      {family: "stripes", scale: mediumScale},
	"breton":       {family: "stripes", scale: mediumScale},
	"gingham":      {family: "checks", scale: smallScale},
	"houndstooth":  {family: "checks", scale: smallScale},
	"checkered":    {family: "checks", scale: mediumScale},
	"plaid":        {family: "checks", scale: largeScale},
	"tartan":       {family: "checks", scale: largeScale},
	"polka-dot":    {family: "dots", scale: smallScale},
	"polka dot":    {family: "dots", scale: smallScale},
	"floral":       {family: "organic", scale: mediumScale},
	"paisley":      {family: "organic", scale: mediumScale},
	"botanical":    {family: "organic", scale: largeScale},
	"animal-print": {family: "animal", scale: largeScale},
	"leopard":      {family: "animal", scale: largeScale},
	"zebra":        {family: "animal", scale: largeScale},
	"snakeskin":    {family: "animal", scale: mediumScale},
	"geometric":    {family: "geometric", scale: largeScale},
	"herringbone":  {family: "geometric", scale: smallScale},
	"abstract":     {family: "abstract", scale: largeScale},
	"tie-dye":      {family: "abstract", scale: largeScale},
	"camouflage":   {family: "abstract", scale: largeScale},
}

type textureGroup string

const (
	smoothTexture     textureGroup = "smooth"
	texturedTexture   textureGroup = "textured"
	structuredTexture textureGroup = "structured"
	delicateTexture   textureGroup = "delicate"
)

var textures = map[string]textureGroup{
	"silk": smoothTexture, "satin": smoothTexture, "leather": smoothTexture,
	"cotton": smoothTexture, "jersey": smoothTexture, "polyester": smoothTexture,
	"knit": texturedTexture, "wool": texturedTexture, "tweed": texturedTexture,
	"corduroy": texturedTexture, "denim": texturedTexture, "boucle": texturedTexture,
	"suede": texturedTexture, "fleece": texturedTexture, "velvet": texturedTexture,
	"tailored": structuredTexture, "structured": structuredTexture, "canvas": structuredTexture,
	"twill": structuredTexture, "crisp": structuredTexture,
	"lace": delicateTexture, "chiffon": delicateTexture, "sheer": delicateTexture,
	"tulle": delicateTexture, "organza": delicateTexture, "mesh": delicateTexture,
}

var fittedTags = newTagSet([]string{"fitted", "slim", "slim-fit", "tailored", "skinny", "bodycon"})
var looseTags = newTagSet([]string{"loose", "oversized", "relaxed", "flowy", "wide-leg", "baggy"})
var lightFabricTags = newTagSet([]string{"light", "lightweight", "sheer", "chiffon", "linen", "breathable"})
var heavyFabricTags = newTagSet([]string{"heavy", "wool", "denim", "thick", "tweed", "fleece", "knit"})

type fashionAssessment struct {
	Score   float64
	Reasons []string
}

// assessFashion combines pattern harmony and texture balance with small
// bonuses for silhouette and fabric-weight contrast.
func assessFashion(items []models.WardrobeItem) fashionAssessment {
	var found []patternInfo
	textureCount := make(map[string]struct{})
	groups := make(map[textureGroup]int)
	hasFitted, hasLoose, hasLight, hasHeavy := false, false, false, false

	for _, item := range items {
		tags := itemTags(item)
		for tag := range tags {
			if info, ok := patterns[tag]; ok {
				found = append(found, info)
			}
			if group, ok := textures[tag]; ok {
				if _, seen := textureCount[tag]; !seen {
					textureCount[tag] = struct{}{}
					groups[group]++
				}
			}
		}
		hasFitted = hasFitted || tags.intersects(fittedTags)
		hasLoose = hasLoose || tags.intersects(looseTags)
		hasLight = hasLight || tags.intersects(lightFabricTags)
		hasHeavy = hasHeavy || tags.intersects(heavyFabricTags)
	}

	var reasons []string
	pattern, patternReason := patternHarmony(found)
	if patternReason != "" {
		reasons = append(reasons, patternReason)
	}
	texture, textureReason := textureBalance(len(textureCount), groups)
	if textureReason != "" {
		reasons = append(reasons, textureReason)
	}

	score := 0.6*pattern + 0.4*texture
	if hasFitted && hasLoose {
		score += 0.1
		reasons = append(reasons, "Fitted and relaxed silhouettes balance each other")
	}
	if hasLight && hasHeavy {
		score += 0.05
	}

	return fashionAssessment{Score: clamp01(score), Reasons: reasons}
}

func patternHarmony(found []patternInfo) (float64, string) {
	switch len(found) {
	case 0:
		return 0.8, "Clean, pattern-free pieces keep the look elegant"
	case 1:
		return 0.9, "A single patterned piece creates a focal point"
	case 2:
		a, b := found[0], found[1]
		if a.family == b.family || a.scale != b.scale {
			return 0.7, "Patterns are mixed with complementary scales"
		}
		return 0.4, ""
	default:
		return 0.2, ""
	}
}

func textureBalance(distinct int, groups map[textureGroup]int) (float64, string) {
	switch {
	case distinct == 0:
		return 0.6, ""
	case distinct == 1:
		return 0.8, "Cohesive single-texture look"
	case distinct <= 3 && len(groups) >= 2:
		return 0.9, "Balanced mix of textures adds depth"
	default:
		return 0.4, ""
	}
}
