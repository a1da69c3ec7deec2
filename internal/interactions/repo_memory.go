package interactions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores interactions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Interaction
	all  []Interaction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Interaction)}
}

// Create stores the interaction.
func (r *MemoryRepo) Create(ctx context.Context, in Interaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[in.ID] = in
	r.all = append(r.all, in)
	return nil
}

// GetByID returns an interaction by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Interaction, error) {
	if err := ctx.Err(); err != nil {
		return Interaction{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	in, ok := r.byID[id]
	if !ok {
		return Interaction{}, ErrNotFound
	}
	return in, nil
}

// List returns interactions newest first.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = ClampPage(limit, offset)
	r.mu.RLock()
	items := make([]Interaction, len(r.all))
	copy(items, r.all)
	r.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if offset >= len(items) {
		return []Interaction{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}
