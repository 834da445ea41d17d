package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/wardrobe/pkg/models"
)

// MockInventorySource is a mock implementation of InventorySource
type MockInventorySource struct {
	mock.Mock
}

func (m *MockInventorySource) ListItems(ctx context.Context, userID uuid.UUID) ([]models.WardrobeItem, error) {
	args := m.Called(ctx, userID)
	if items := args.Get(0); items != nil {
		return items.([]models.WardrobeItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockInventorySource) GetProfile(ctx context.Context, userID uuid.UUID) (*models.StyleProfile, error) {
	args := m.Called(ctx, userID)
	if profile := args.Get(0); profile != nil {
		return profile.(*models.StyleProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOutfitRecommended(ctx context.Context, event *models.OutfitRecommendedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

type failingStore struct{}

func (failingStore) Load(ctx context.Context, sessionKey string) (*UsageLedger, error) {
	return nil, errors.New("store down")
}

func (failingStore) Save(ctx context.Context, sessionKey string, ledger *UsageLedger) error {
	return errors.New("store down")
}

func newTestStylist(store SessionStore, inventory InventorySource, publisher EventPublisher) (*StylistService, *MetricsCollector) {
	cfg := newTestConfig()
	cfg.Seed = 17
	metrics := NewMetricsCollector(prometheus.NewRegistry())
	orchestrator := NewOutfitOrchestrator(cfg, testLogger())
	return NewStylistService(orchestrator, store, inventory, publisher, metrics, cfg, testLogger()), metrics
}

func TestStylistService_Recommend(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("PublishOutfitRecommended", mock.Anything, mock.MatchedBy(func(e *models.OutfitRecommendedEvent) bool {
		return e.SessionID == "session-1" && e.RequestID == "req-1" && e.Occasion == "casual" && len(e.OutfitIDs) > 0
	})).Return(nil).Once()

	store := NewMemorySessionStore(0)
	stylist, metrics := newTestStylist(store, nil, publisher)

	resp := stylist.Recommend(context.Background(), &RecommendRequest{
		SessionKey: "session-1",
		RequestID:  "req-1",
		Inventory:  casualCloset(3),
		Profile:    casualProfile(),
		Context:    &models.StyleContext{Occasion: "casual"},
	})

	require.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, "session-1", resp.SessionID)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.False(t, resp.GeneratedAt.IsZero())

	ledger, err := store.Load(context.Background(), "session-1")
	require.NoError(t, err)
	assert.NotEmpty(t, ledger.Counts)

	assert.Equal(t, 1.0, counterValue(t, metrics.recommendationRequests.WithLabelValues(OutcomeRecommended)))
	publisher.AssertExpectations(t)
}

func TestStylistService_RecommendAssignsSessionKey(t *testing.T) {
	stylist, metrics := newTestStylist(NewMemorySessionStore(0), nil, nil)

	resp := stylist.Recommend(context.Background(), &RecommendRequest{
		Profile: casualProfile(),
		Context: &models.StyleContext{Occasion: "casual"},
	})

	_, err := uuid.Parse(resp.SessionID)
	assert.NoError(t, err)
	_, err = uuid.Parse(resp.RequestID)
	assert.NoError(t, err)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, 1.0, counterValue(t, metrics.recommendationRequests.WithLabelValues(OutcomeEmpty)))
}

func TestStylistService_StoreFailureDegrades(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("PublishOutfitRecommended", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	stylist, metrics := newTestStylist(failingStore{}, nil, publisher)

	resp := stylist.Recommend(context.Background(), &RecommendRequest{
		SessionKey: "session-1",
		Inventory:  casualCloset(2),
		Profile:    casualProfile(),
		Context:    &models.StyleContext{Occasion: "casual"},
	})

	assert.NotEmpty(t, resp.Recommendations)
	assert.Equal(t, 1.0, counterValue(t, metrics.storeErrors.WithLabelValues("load")))
	assert.Equal(t, 1.0, counterValue(t, metrics.storeErrors.WithLabelValues("save")))
}

func TestStylistService_LedgerPersistsAcrossCalls(t *testing.T) {
	stylist, _ := newTestStylist(NewMemorySessionStore(0), nil, nil)
	req := func() *RecommendRequest {
		return &RecommendRequest{
			SessionKey: "session-1",
			Inventory:  casualCloset(1),
			Profile:    casualProfile(),
			Context:    &models.StyleContext{Occasion: "casual"},
		}
	}

	assert.Len(t, stylist.Recommend(context.Background(), req()).Recommendations, 1)
	assert.Len(t, stylist.Recommend(context.Background(), req()).Recommendations, 1)
	assert.Empty(t, stylist.Recommend(context.Background(), req()).Recommendations)

	other := req()
	other.SessionKey = "session-2"
	assert.Len(t, stylist.Recommend(context.Background(), other).Recommendations, 1)
}

func TestStylistService_ConcurrentSessions(t *testing.T) {
	store := NewMemorySessionStore(0)
	stylist, _ := newTestStylist(store, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stylist.Recommend(context.Background(), &RecommendRequest{
				SessionKey: []string{"alice", "bob"}[i%2],
				Inventory:  casualCloset(2),
				Profile:    casualProfile(),
				Context:    &models.StyleContext{Occasion: "casual"},
			})
		}(i)
	}
	wg.Wait()

	for _, key := range []string{"alice", "bob"} {
		ledger, err := store.Load(context.Background(), key)
		require.NoError(t, err)
		for id, count := range ledger.Counts {
			assert.LessOrEqual(t, count, 2, "%s: item %s", key, id)
		}
	}
}

func TestStylistService_RecommendForUser(t *testing.T) {
	userID := uuid.New()

	t.Run("no store configured", func(t *testing.T) {
		stylist, _ := newTestStylist(NewMemorySessionStore(0), nil, nil)

		_, err := stylist.RecommendForUser(context.Background(), &UserRecommendRequest{UserID: userID})
		assert.ErrorIs(t, err, ErrInventoryUnavailable)
	})

	t.Run("profile not found", func(t *testing.T) {
		inventory := new(MockInventorySource)
		inventory.On("GetProfile", mock.Anything, userID).Return(nil, ErrProfileNotFound)
		stylist, metrics := newTestStylist(NewMemorySessionStore(0), inventory, nil)

		_, err := stylist.RecommendForUser(context.Background(), &UserRecommendRequest{UserID: userID})
		assert.ErrorIs(t, err, ErrProfileNotFound)
		assert.Equal(t, 1.0, counterValue(t, metrics.recommendationRequests.WithLabelValues(OutcomeRejected)))
		inventory.AssertExpectations(t)
	})

	t.Run("inventory query fails", func(t *testing.T) {
		inventory := new(MockInventorySource)
		inventory.On("GetProfile", mock.Anything, userID).Return(casualProfile(), nil)
		inventory.On("ListItems", mock.Anything, userID).Return(nil, errors.New("connection reset"))
		stylist, _ := newTestStylist(NewMemorySessionStore(0), inventory, nil)

		_, err := stylist.RecommendForUser(context.Background(), &UserRecommendRequest{UserID: userID})
		assert.Error(t, err)
	})

	t.Run("stored wardrobe", func(t *testing.T) {
		inventory := new(MockInventorySource)
		inventory.On("GetProfile", mock.Anything, userID).Return(casualProfile(), nil)
		inventory.On("ListItems", mock.Anything, userID).Return(casualCloset(2), nil)
		store := NewMemorySessionStore(0)
		stylist, _ := newTestStylist(store, inventory, nil)

		resp, err := stylist.RecommendForUser(context.Background(), &UserRecommendRequest{
			UserID:  userID,
			Context: &models.StyleContext{Occasion: "casual"},
		})
		require.NoError(t, err)
		assert.Equal(t, userID.String(), resp.SessionID)
		assert.NotEmpty(t, resp.Recommendations)
		inventory.AssertExpectations(t)
	})
}

func TestStylistService_LockForIsStable(t *testing.T) {
	stylist, _ := newTestStylist(NewMemorySessionStore(0), nil, nil)
	assert.Same(t, stylist.lockFor("alice"), stylist.lockFor("alice"))
}
