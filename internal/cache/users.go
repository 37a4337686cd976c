package cache

import (
	"context"
	"time"

	"budget/internal/core"
	"budget/internal/ports"
)

// UserStore serves email lookups from an LRU in front of another
// ports.UserStore. Only hits are cached, so a user registered after a miss
// is found on the next lookup.
type UserStore struct {
	next  ports.UserStore
	cache *LRUCache[core.User]
}

var _ ports.UserStore = (*UserStore)(nil)

func NewUserStore(next ports.UserStore, size int, ttl time.Duration) *UserStore {
	return &UserStore{next: next, cache: NewLRUCache[core.User](size, ttl)}
}

// Cleaner exposes the underlying cache for registration with a Manager.
func (s *UserStore) Cleaner() Cleaner { return s.cache }

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (core.User, bool, error) {
	if u, ok := s.cache.Get(email); ok {
		return u, true, nil
	}
	u, found, err := s.next.FindUserByEmail(ctx, email)
	if err != nil || !found {
		return u, found, err
	}
	s.cache.Set(email, u)
	return u, true, nil
}

func (s *UserStore) FindUserByFullname(ctx context.Context, fullname string) (core.User, bool, error) {
	return s.next.FindUserByFullname(ctx, fullname)
}

func (s *UserStore) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	created, err := s.next.CreateUser(ctx, u)
	if err != nil {
		return created, err
	}
	s.cache.Set(created.Email, created)
	return created, nil
}
