package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryRepository keeps sessions in process, expiring them after ttl of
// inactivity.
type MemoryRepository struct {
	cache *cache.Cache
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{cache: cache.New(ttl, 10*time.Minute)}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Session, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*Session).Clone(), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Save(_ context.Context, s *Session) error {
	r.cache.Set(s.ID, s.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}
