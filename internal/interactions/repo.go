package interactions

import "context"

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Repo defines persistence operations for chat interactions.
type Repo interface {
	Create(ctx context.Context, in Interaction) error
	GetByID(ctx context.Context, id string) (Interaction, error)
	List(ctx context.Context, limit, offset int) ([]Interaction, error)
}

// ClampPage bounds list paging arguments.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
