package memory

import (
	"context"
	"sort"
	"sync"

	"estatedash/internal/domain/valuation"
)

// HistoryRepository keeps valuations in memory, bounded to Capacity records.
type HistoryRepository struct {
	mu       sync.RWMutex
	items    []valuation.Record
	capacity int
}

// NewHistoryRepository keeps at most capacity records; zero or less means 500.
func NewHistoryRepository(capacity int) *HistoryRepository {
	if capacity <= 0 {
		capacity = 500
	}
	return &HistoryRepository{capacity: capacity}
}

func (r *HistoryRepository) Save(ctx context.Context, rec valuation.Record) error {
	if rec.ID == "" {
		return valuation.ErrRecordInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == rec.ID {
			r.items[i] = rec
			return nil
		}
	}
	r.items = append(r.items, rec)
	if len(r.items) > r.capacity {
		sort.SliceStable(r.items, func(i, j int) bool { return r.items[i].CreatedAt.After(r.items[j].CreatedAt) })
		r.items = r.items[:r.capacity]
	}
	return nil
}

func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]valuation.Record, error) {
	r.mu.RLock()
	out := make([]valuation.Record, len(r.items))
	copy(out, r.items)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ valuation.HistoryRepository = (*HistoryRepository)(nil)
