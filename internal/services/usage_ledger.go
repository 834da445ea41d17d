package services

import (
	"math"
	"time"

	"github.com/temcen/wardrobe/pkg/models"
)

const diversityPenaltyPerUse = 0.3

// UsageSnapshot is a read-only view of item usage counts.
type UsageSnapshot map[string]int

// Count returns the usage count of an item id.
func (s UsageSnapshot) Count(itemID string) int {
	return s[itemID]
}

// DiversityScore is max(0, 1 - 0.3 * total usage) over the outfit's items.
func (s UsageSnapshot) DiversityScore(items []models.WardrobeItem) float64 {
	total := 0
	for _, item := range items {
		total += s[item.ID]
	}
	return math.Max(0, 1.0-diversityPenaltyPerUse*float64(total))
}

// UsageLedger records how often each item has been recommended during a live
// session. Counts only grow until the session goes idle and is reset.
// A ledger is not safe for concurrent use; StylingSession serializes access.
type UsageLedger struct {
	Counts    map[string]int `json:"counts"`
	LastCall  time.Time      `json:"last_call"`
	LastReset time.Time      `json:"last_reset"`
}

// NewUsageLedger creates an empty ledger.
func NewUsageLedger() *UsageLedger {
	return &UsageLedger{Counts: make(map[string]int)}
}

// ResetIfIdle clears the ledger when more than idleWindow has elapsed since
// the previous call, then records now as the latest call. It reports whether
// a reset happened.
func (l *UsageLedger) ResetIfIdle(now time.Time, idleWindow time.Duration) bool {
	if l.Counts == nil {
		l.Counts = make(map[string]int)
	}

	reset := false
	if !l.LastCall.IsZero() && now.Sub(l.LastCall) > idleWindow {
		l.Counts = make(map[string]int)
		l.LastReset = now
		reset = true
	}
	if l.LastReset.IsZero() {
		l.LastReset = now
	}
	l.LastCall = now
	return reset
}

// Increment adds one use for every item in the outfit.
func (l *UsageLedger) Increment(items []models.WardrobeItem) {
	if l.Counts == nil {
		l.Counts = make(map[string]int)
	}
	for _, item := range items {
		l.Counts[item.ID]++
	}
}

// Count returns the usage count of an item id.
func (l *UsageLedger) Count(itemID string) int {
	return l.Counts[itemID]
}

// AtCap reports whether an item has reached the per-session usage cap.
func (l *UsageLedger) AtCap(itemID string, cap int) bool {
	return l.Counts[itemID] >= cap
}

// Snapshot copies the counts for read-only use by the generator and scorer.
func (l *UsageLedger) Snapshot() UsageSnapshot {
	snapshot := make(UsageSnapshot, len(l.Counts))
	for id, count := range l.Counts {
		snapshot[id] = count
	}
	return snapshot
}

// Clone returns a deep copy of the ledger.
func (l *UsageLedger) Clone() *UsageLedger {
	return &UsageLedger{
		Counts:    l.Snapshot(),
		LastCall:  l.LastCall,
		LastReset: l.LastReset,
	}
}
