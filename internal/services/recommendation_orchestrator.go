package services

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/pkg/models"
)

// StylingSession owns the mutable state of one user's styling session: the
// usage ledger and the random source. Sessions must not be shared across users.
type StylingSession struct {
	mu     sync.Mutex
	ledger *UsageLedger
	rng    *rand.Rand
}

// NewStylingSession creates a session with an empty ledger
func NewStylingSession(rng *rand.Rand) *StylingSession {
	return NewStylingSessionFromLedger(NewUsageLedger(), rng)
}

// NewStylingSessionFromLedger creates a session that continues an existing ledger.
func NewStylingSessionFromLedger(ledger *UsageLedger, rng *rand.Rand) *StylingSession {
	if ledger == nil {
		ledger = NewUsageLedger()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &StylingSession{ledger: ledger, rng: rng}
}

// Ledger returns a copy of the session's usage ledger.
func (s *StylingSession) Ledger() *UsageLedger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// RecommendationResult is the outcome of one orchestrator call.
type RecommendationResult struct {
	Recommendations []models.OutfitRecommendation
	Candidates      int
	Scored          int
	LedgerReset     bool
	Season          string
}

// OutfitOrchestrator runs the filter, generate, score and rank pipeline.
type OutfitOrchestrator struct {
	generator *CombinationGenerator
	scorer    *OutfitScorer
	config    *config.StylistConfig
	logger    *logrus.Logger
	now       func() time.Time
}

// NewOutfitOrchestrator creates a new outfit orchestrator
func NewOutfitOrchestrator(config *config.StylistConfig, logger *logrus.Logger) *OutfitOrchestrator {
	return &OutfitOrchestrator{
		generator: NewCombinationGenerator(config, logger),
		scorer:    NewOutfitScorer(config, logger),
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the clock used for idle-window and season decisions.
func (o *OutfitOrchestrator) WithClock(now func() time.Time) *OutfitOrchestrator {
	o.now = now
	return o
}

// GenerateRecommendations returns at most MaxResults outfits. It never fails:
// invalid input or an exhausted inventory yields an empty list.
func (o *OutfitOrchestrator) GenerateRecommendations(
	session *StylingSession,
	inventory []models.WardrobeItem,
	profile *models.StyleProfile,
	styleCtx *models.StyleContext,
	includeAccessories bool,
) []models.OutfitRecommendation {
	return o.Generate(session, inventory, profile, styleCtx, includeAccessories).Recommendations
}

// Generate is GenerateRecommendations with pipeline statistics.
func (o *OutfitOrchestrator) Generate(
	session *StylingSession,
	inventory []models.WardrobeItem,
	profile *models.StyleProfile,
	styleCtx *models.StyleContext,
	includeAccessories bool,
) *RecommendationResult {
	result := &RecommendationResult{Recommendations: []models.OutfitRecommendation{}}

	if session == nil {
		o.logger.Warn("Outfit request without a styling session")
		return result
	}
	items := validateInventory(inventory)
	if len(items) == 0 || !validProfile(profile) || !validContext(styleCtx) {
		o.logger.WithFields(logrus.Fields{
			"inventory_size": len(inventory),
			"valid_items":    len(items),
		}).Debug("Invalid outfit request, returning no recommendations")
		return result
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := o.now()
	if session.ledger.ResetIfIdle(now, o.config.IdleWindow) {
		result.LedgerReset = true
		o.logger.Debug("Styling session idle, usage ledger reset")
	}

	suitable := make([]models.WardrobeItem, 0, len(items))
	for _, item := range items {
		if IsWeatherAppropriate(item, styleCtx.Weather) {
			suitable = append(suitable, item)
		}
	}
	if len(suitable) == 0 {
		return result
	}

	usage := session.ledger.Snapshot()
	candidates := o.generator.Generate(&GenerationRequest{
		Groups:             groupByCategory(suitable),
		Occasion:           styleCtx.Occasion,
		PreferredStyle:     profile.PreferredStyle,
		IncludeAccessories: includeAccessories,
		Weather:            styleCtx.Weather,
		Usage:              usage,
	}, session.rng)
	result.Candidates = len(candidates)

	result.Season = resolveSeason(styleCtx.Season, now)
	scoring := &ScoringContext{
		Profile: profile,
		Context: styleCtx,
		Season:  result.Season,
		Usage:   usage,
	}

	scored := make([]*ScoredOutfit, 0, len(candidates))
	for _, candidate := range candidates {
		outfit, err := o.scoreCandidate(candidate, scoring)
		if err != nil {
			o.logger.WithError(err).Debug("Dropping outfit candidate")
			continue
		}
		scored = append(scored, outfit)
	}
	scored = o.aboveConfidenceFloor(scored)
	result.Scored = len(scored)

	ranked := o.rank(scored)
	chosen := o.selectWithinCap(ranked, usage)
	for _, outfit := range chosen {
		session.ledger.Increment(outfit.Items)
	}

	if len(chosen) > o.config.MaxResults {
		chosen = chosen[:o.config.MaxResults]
	}
	for _, outfit := range chosen {
		result.Recommendations = append(result.Recommendations, o.buildRecommendation(outfit, profile, styleCtx))
	}

	o.logger.WithFields(logrus.Fields{
		"candidates":      result.Candidates,
		"scored":          result.Scored,
		"recommendations": len(result.Recommendations),
		"season":          result.Season,
	}).Debug("Generated outfit recommendations")

	return result
}

// scoreCandidate isolates a single candidate so a failure drops only that outfit.
func (o *OutfitOrchestrator) scoreCandidate(items []models.WardrobeItem, sc *ScoringContext) (outfit *ScoredOutfit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()
	return o.scorer.Score(items, sc)
}

// aboveConfidenceFloor keeps outfits strictly above MinConfidence, in order.
func (o *OutfitOrchestrator) aboveConfidenceFloor(outfits []*ScoredOutfit) []*ScoredOutfit {
	kept := outfits[:0]
	for _, outfit := range outfits {
		if outfit.Confidence > o.config.MinConfidence {
			kept = append(kept, outfit)
		}
	}
	return kept
}

// outfitKey identifies an item combination. Unlike the public outfit id it
// cannot collide when item ids themselves contain dashes.
func outfitKey(items []models.WardrobeItem) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	sort.Strings(ids)
	return strings.Join(ids, "\x00")
}

// rank collapses identical outfits and orders by diversity, falling back to
// confidence when diversity scores are within the tie band.
func (o *OutfitOrchestrator) rank(outfits []*ScoredOutfit) []*ScoredOutfit {
	byKey := make(map[string]*ScoredOutfit, len(outfits))
	unique := make([]*ScoredOutfit, 0, len(outfits))
	for _, outfit := range outfits {
		key := outfitKey(outfit.Items)
		if existing, ok := byKey[key]; ok {
			if outfit.Confidence > existing.Confidence {
				*existing = *outfit
			}
			continue
		}
		byKey[key] = outfit
		unique = append(unique, outfit)
	}

	band := o.config.DiversityTieBand
	sort.SliceStable(unique, func(i, j int) bool {
		a, b := unique[i], unique[j]
		if math.Abs(a.Breakdown.Diversity-b.Breakdown.Diversity) >= band {
			return a.Breakdown.Diversity > b.Breakdown.Diversity
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return outfitKey(a.Items) < outfitKey(b.Items)
	})
	return unique
}

// selectWithinCap takes up to CandidatePool outfits in rank order, skipping
// any that would push an item past the usage cap.
func (o *OutfitOrchestrator) selectWithinCap(ranked []*ScoredOutfit, usage UsageSnapshot) []*ScoredOutfit {
	counts := make(map[string]int, len(usage))
	for id, count := range usage {
		counts[id] = count
	}

	chosen := make([]*ScoredOutfit, 0, o.config.CandidatePool)
	for _, outfit := range ranked {
		if len(chosen) >= o.config.CandidatePool {
			break
		}
		fits := true
		for _, item := range outfit.Items {
			if counts[item.ID]+1 > o.config.UsageCap {
				fits = false
				break
			}
		}
		if !fits {
			continue
		}
		for _, item := range outfit.Items {
			counts[item.ID]++
		}
		chosen = append(chosen, outfit)
	}
	return chosen
}

func (o *OutfitOrchestrator) buildRecommendation(
	outfit *ScoredOutfit,
	profile *models.StyleProfile,
	styleCtx *models.StyleContext,
) models.OutfitRecommendation {
	style := DominantStyle(outfit.Items, profile.PreferredStyle)
	reasoning := outfit.Reasoning
	if reasoning == nil {
		reasoning = []string{}
	}
	return models.OutfitRecommendation{
		ID:          models.OutfitID(outfit.Items),
		Items:       outfit.Items,
		Occasion:    styleCtx.Occasion,
		Style:       style,
		Confidence:  math.Round(outfit.Confidence*1000) / 1000,
		Description: DescribeOutfit(outfit.Items, style, styleCtx.Occasion),
		Reasoning:   reasoning,
	}
}

// validateInventory drops items missing an id, category or color and keeps
// the first occurrence of any duplicated id.
func validateInventory(inventory []models.WardrobeItem) []models.WardrobeItem {
	seen := make(map[string]struct{}, len(inventory))
	valid := make([]models.WardrobeItem, 0, len(inventory))
	for _, item := range inventory {
		if strings.TrimSpace(item.ID) == "" || normalizeCategory(item.Category) == "" {
			continue
		}
		if len(normalizeTags(item.Color)) == 0 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		valid = append(valid, item)
	}
	return valid
}

func validProfile(profile *models.StyleProfile) bool {
	return profile != nil && normalizeTag(profile.PreferredStyle) != ""
}

func validContext(styleCtx *models.StyleContext) bool {
	return styleCtx != nil && normalizeTag(styleCtx.Occasion) != ""
}

func groupByCategory(items []models.WardrobeItem) map[string][]models.WardrobeItem {
	groups := make(map[string][]models.WardrobeItem)
	for _, item := range items {
		category := normalizeCategory(item.Category)
		groups[category] = append(groups[category], item)
	}
	return groups
}

// resolveSeason prefers an explicit season and otherwise maps the month
// to a northern-hemisphere season.
func resolveSeason(explicit string, now time.Time) string {
	if season := normalizeSeason(explicit); seasonalPalettes[season] != nil {
		return season
	}
	switch now.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
