package services

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/wardrobe/internal/config"
	"github.com/temcen/wardrobe/internal/messaging"
	"github.com/temcen/wardrobe/pkg/models"
)

const sessionLockStripes = 64

// RecommendRequest is a recommendation call over a caller-supplied inventory.
type RecommendRequest struct {
	SessionKey         string
	RequestID          string
	Inventory          []models.WardrobeItem
	Profile            *models.StyleProfile
	Context            *models.StyleContext
	IncludeAccessories bool
}

// UserRecommendRequest is a recommendation call over a stored inventory.
type UserRecommendRequest struct {
	UserID             uuid.UUID
	SessionKey         string
	RequestID          string
	Context            *models.StyleContext
	IncludeAccessories bool
}

// StylistService hosts the outfit engine for many concurrent sessions. Each
// session key owns its own ledger; calls on the same key are serialized.
type StylistService struct {
	orchestrator *OutfitOrchestrator
	store        SessionStore
	inventory    InventorySource
	publisher    EventPublisher
	metrics      *MetricsCollector
	config       *config.StylistConfig
	logger       *logrus.Logger

	locks [sessionLockStripes]sync.Mutex
}

// NewStylistService creates a new stylist service. inventory, publisher and
// metrics may be nil.
func NewStylistService(
	orchestrator *OutfitOrchestrator,
	store SessionStore,
	inventory InventorySource,
	publisher EventPublisher,
	metrics *MetricsCollector,
	config *config.StylistConfig,
	logger *logrus.Logger,
) *StylistService {
	return &StylistService{
		orchestrator: orchestrator,
		store:        store,
		inventory:    inventory,
		publisher:    publisher,
		metrics:      metrics,
		config:       config,
		logger:       logger,
	}
}

// Recommend runs one recommendation call. It never fails; store and publish
// problems are logged and the call proceeds.
func (s *StylistService) Recommend(ctx context.Context, req *RecommendRequest) *models.OutfitResponse {
	if req.SessionKey == "" {
		req.SessionKey = uuid.New().String()
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	start := time.Now()
	lock := s.lockFor(req.SessionKey)
	lock.Lock()
	defer lock.Unlock()

	ledger, err := s.store.Load(ctx, req.SessionKey)
	if err != nil {
		s.logger.WithError(err).WithField("session", req.SessionKey).Warn("Failed to load session ledger, starting fresh")
		s.recordStoreError("load")
		ledger = NewUsageLedger()
	}

	session := NewStylingSessionFromLedger(ledger, s.newRand())
	result := s.orchestrator.Generate(session, req.Inventory, req.Profile, req.Context, req.IncludeAccessories)

	if err := s.store.Save(ctx, req.SessionKey, session.Ledger()); err != nil {
		s.logger.WithError(err).WithField("session", req.SessionKey).Warn("Failed to save session ledger")
		s.recordStoreError("save")
	}

	if s.metrics != nil {
		s.metrics.RecordRecommendation(result, time.Since(start))
	}

	if len(result.Recommendations) > 0 {
		s.publish(ctx, req, result.Recommendations)
	}

	s.logger.WithFields(logrus.Fields{
		"session":         req.SessionKey,
		"request_id":      req.RequestID,
		"recommendations": len(result.Recommendations),
		"latency":         time.Since(start),
	}).Info("Outfit recommendations generated")

	return &models.OutfitResponse{
		SessionID:       req.SessionKey,
		RequestID:       req.RequestID,
		Recommendations: result.Recommendations,
		GeneratedAt:     time.Now().UTC(),
	}
}

// RecommendForUser loads the user's stored inventory and profile and runs the
// same pipeline. The session key defaults to the user id.
func (s *StylistService) RecommendForUser(ctx context.Context, req *UserRecommendRequest) (*models.OutfitResponse, error) {
	if s.inventory == nil {
		s.recordRejected()
		return nil, ErrInventoryUnavailable
	}

	profile, err := s.inventory.GetProfile(ctx, req.UserID)
	if err != nil {
		s.recordRejected()
		return nil, err
	}

	items, err := s.inventory.ListItems(ctx, req.UserID)
	if err != nil {
		s.recordRejected()
		return nil, err
	}

	sessionKey := req.SessionKey
	if sessionKey == "" {
		sessionKey = req.UserID.String()
	}

	return s.Recommend(ctx, &RecommendRequest{
		SessionKey:         sessionKey,
		RequestID:          req.RequestID,
		Inventory:          items,
		Profile:            profile,
		Context:            req.Context,
		IncludeAccessories: req.IncludeAccessories,
	}), nil
}

func (s *StylistService) publish(ctx context.Context, req *RecommendRequest, recs []models.OutfitRecommendation) {
	if s.publisher == nil {
		return
	}
	var occasion string
	if req.Context != nil {
		occasion = req.Context.Occasion
	}
	event := messaging.NewOutfitRecommendedEvent(req.SessionKey, req.RequestID, occasion, recs)
	if err := s.publisher.PublishOutfitRecommended(ctx, event); err != nil {
		s.logger.WithError(err).WithField("session", req.SessionKey).Warn("Failed to publish outfit event")
	}
}

// lockFor maps a session key onto one of a fixed set of mutexes.
func (s *StylistService) lockFor(sessionKey string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionKey))
	return &s.locks[h.Sum32()%sessionLockStripes]
}

// newRand seeds from config when a seed is set, otherwise from the clock.
func (s *StylistService) newRand() *rand.Rand {
	seed := s.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (s *StylistService) recordStoreError(operation string) {
	if s.metrics != nil {
		s.metrics.RecordStoreError(operation)
	}
}

func (s *StylistService) recordRejected() {
	if s.metrics != nil {
		s.metrics.RecordRejected()
	}
}
