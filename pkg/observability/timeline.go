// Package observability — run timeline.
//
// Every jurisdiction evaluation, strategy fallback, cache hit, and skip
// appears in a queryable per-run timeline, so an operator can reconstruct
// how a run unfolded after the fact.
package observability

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// TimelineEntryType categorizes run timeline entries.
type TimelineEntryType string

const (
	EntryTypeRunStart  TimelineEntryType = "RUN_START"
	EntryTypeRunFinish TimelineEntryType = "RUN_FINISH"
	EntryTypeDispatch  TimelineEntryType = "DISPATCH"
	EntryTypeFallback  TimelineEntryType = "FALLBACK"
	EntryTypeCacheHit  TimelineEntryType = "CACHE_HIT"
	EntryTypeSkip      TimelineEntryType = "SKIP"
)

// TimelineEntry is a single recorded event.
type TimelineEntry struct {
	EntryID      string            `json:"entry_id"`
	EntryType    TimelineEntryType `json:"entry_type"`
	RunID        string            `json:"run_id"`
	Jurisdiction string            `json:"jurisdiction,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	Summary      string            `json:"summary"`
	ContentHash  string            `json:"content_hash"`
	Details      map[string]any    `json:"details,omitempty"`
}

// TimelineQuery filters timeline entries.
type TimelineQuery struct {
	RunID        string             `json:"run_id,omitempty"`
	Jurisdiction string             `json:"jurisdiction,omitempty"`
	EntryType    *TimelineEntryType `json:"entry_type,omitempty"`
	After        *time.Time         `json:"after,omitempty"`
	Before       *time.Time         `json:"before,omitempty"`
	Limit        int                `json:"limit,omitempty"`
}

// RunTimeline collects and queries run events.
type RunTimeline struct {
	mu      sync.RWMutex
	entries []TimelineEntry
	index   map[string][]int // runID → entry indices
	seq     int64
	clock   func() time.Time
}

// NewRunTimeline creates a new timeline.
func NewRunTimeline() *RunTimeline {
	return &RunTimeline{
		entries: make([]TimelineEntry, 0),
		index:   make(map[string][]int),
		clock:   time.Now,
	}
}

// WithClock overrides clock for testing.
func (t *RunTimeline) WithClock(clock func() time.Time) *RunTimeline {
	t.clock = clock
	return t
}

// Record adds an entry to the timeline.
func (t *RunTimeline) Record(entry TimelineEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	if entry.EntryID == "" {
		entry.EntryID = fmt.Sprintf("tl-%d", t.seq)
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = t.clock()
	}

	// Compute content hash
	data, err := json.Marshal(entry.Details)
	if err != nil {
		return err
	}
	h := sha256.Sum256(data)
	entry.ContentHash = "sha256:" + hex.EncodeToString(h[:])

	idx := len(t.entries)
	t.entries = append(t.entries, entry)

	if entry.RunID != "" {
		t.index[entry.RunID] = append(t.index[entry.RunID], idx)
	}

	return nil
}

// Query retrieves entries matching the query.
func (t *RunTimeline) Query(q TimelineQuery) []TimelineEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var candidates []TimelineEntry

	if q.RunID != "" {
		indices, ok := t.index[q.RunID]
		if !ok {
			return nil
		}
		for _, i := range indices {
			candidates = append(candidates, t.entries[i])
		}
	} else {
		candidates = make([]TimelineEntry, len(t.entries))
		copy(candidates, t.entries)
	}

	// Apply filters
	var results []TimelineEntry
	for _, e := range candidates {
		if q.Jurisdiction != "" && e.Jurisdiction != q.Jurisdiction {
			continue
		}
		if q.EntryType != nil && e.EntryType != *q.EntryType {
			continue
		}
		if q.After != nil && e.Timestamp.Before(*q.After) {
			continue
		}
		if q.Before != nil && e.Timestamp.After(*q.Before) {
			continue
		}
		results = append(results, e)
	}

	// Sort by timestamp
	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}

	return results
}

// Count returns total entries.
func (t *RunTimeline) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}
