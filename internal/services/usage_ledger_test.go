package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/wardrobe/pkg/models"
)

func TestUsageSnapshot_DiversityScore(t *testing.T) {
	usage := UsageSnapshot{"a": 1, "b": 2, "c": 4}

	tests := []struct {
		name     string
		items    []models.WardrobeItem
		expected float64
	}{
		{name: "unused items", items: []models.WardrobeItem{{ID: "x"}, {ID: "y"}}, expected: 1.0},
		{name: "one use", items: []models.WardrobeItem{{ID: "a"}, {ID: "x"}}, expected: 0.7},
		{name: "three uses", items: []models.WardrobeItem{{ID: "a"}, {ID: "b"}}, expected: 0.1},
		{name: "floored at zero", items: []models.WardrobeItem{{ID: "c"}}, expected: 0.0},
		{name: "empty outfit", items: nil, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, usage.DiversityScore(tt.items), 1e-9)
		})
	}
}

func TestUsageLedger_ResetIfIdle(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute
	outfit := []models.WardrobeItem{{ID: "top"}, {ID: "bottom"}}

	t.Run("first call never resets", func(t *testing.T) {
		ledger := NewUsageLedger()
		assert.False(t, ledger.ResetIfIdle(start, window))
		assert.Equal(t, start, ledger.LastCall)
		assert.Equal(t, start, ledger.LastReset)
	})

	t.Run("gap equal to the window keeps counts", func(t *testing.T) {
		ledger := NewUsageLedger()
		ledger.ResetIfIdle(start, window)
		ledger.Increment(outfit)

		assert.False(t, ledger.ResetIfIdle(start.Add(window), window))
		assert.Equal(t, 1, ledger.Count("top"))
	})

	t.Run("gap beyond the window clears counts", func(t *testing.T) {
		ledger := NewUsageLedger()
		ledger.ResetIfIdle(start, window)
		ledger.Increment(outfit)

		later := start.Add(window + time.Second)
		assert.True(t, ledger.ResetIfIdle(later, window))
		assert.Equal(t, 0, ledger.Count("top"))
		assert.Equal(t, later, ledger.LastReset)
		assert.Equal(t, later, ledger.LastCall)
	})

	t.Run("consecutive calls slide the window", func(t *testing.T) {
		ledger := NewUsageLedger()
		ledger.ResetIfIdle(start, window)
		ledger.Increment(outfit)

		for i := 1; i <= 4; i++ {
			assert.False(t, ledger.ResetIfIdle(start.Add(time.Duration(i)*4*time.Minute), window))
		}
		assert.Equal(t, 1, ledger.Count("bottom"))
	})
}

func TestUsageLedger_IncrementAndCap(t *testing.T) {
	ledger := NewUsageLedger()
	outfit := []models.WardrobeItem{{ID: "dress"}, {ID: "shoes"}}

	ledger.Increment(outfit)
	assert.False(t, ledger.AtCap("dress", 2))

	ledger.Increment(outfit[:1])
	assert.Equal(t, 2, ledger.Count("dress"))
	assert.Equal(t, 1, ledger.Count("shoes"))
	assert.True(t, ledger.AtCap("dress", 2))
	assert.False(t, ledger.AtCap("unknown", 2))
}

func TestUsageLedger_SnapshotAndCloneAreIndependent(t *testing.T) {
	ledger := NewUsageLedger()
	ledger.Increment([]models.WardrobeItem{{ID: "a"}})

	snapshot := ledger.Snapshot()
	clone := ledger.Clone()
	ledger.Increment([]models.WardrobeItem{{ID: "a"}})

	assert.Equal(t, 1, snapshot.Count("a"))
	assert.Equal(t, 1, clone.Count("a"))
	assert.Equal(t, 2, ledger.Count("a"))
}

func TestUsageLedger_ZeroValue(t *testing.T) {
	var ledger UsageLedger
	ledger.Increment([]models.WardrobeItem{{ID: "a"}})
	assert.Equal(t, 1, ledger.Count("a"))
}
