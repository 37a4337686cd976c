// Package memory is an in-process backend implementing every storage port.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"budget/internal/core"
)

type Store struct {
	mu           sync.Mutex
	users        []core.User
	transactions []core.Transaction // insertion order
	activity     []core.Activity
	seenEvents   map[string]struct{}
	nextUserID   int64
	nextTxID     int64
}

func New() *Store {
	return &Store{seenEvents: make(map[string]struct{})}
}

// FindUserByEmail implements ports.UserDirectory.
func (s *Store) FindUserByEmail(_ context.Context, email string) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return core.User{}, false, nil
}

func (s *Store) FindUserByFullname(_ context.Context, fullname string) (core.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Fullname == fullname {
			return u, true, nil
		}
	}
	return core.User{}, false, nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return core.User{}, core.ErrEmailTaken
		}
		if existing.Fullname == u.Fullname {
			return core.User{}, core.ErrFullnameTaken
		}
	}
	s.nextUserID++
	u.ID = s.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users = append(s.users, u)
	return u, nil
}

// SaveTransaction stores the transaction and assigns the next id.
func (s *Store) SaveTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTxID++
	t.ID = s.nextTxID
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) FindTransaction(_ context.Context, id int64) (core.Transaction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

func (s *Store) ListTransactionsByOwner(_ context.Context, ownerID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(t core.Transaction) bool { return t.OwnerID == ownerID }), nil
}

func (s *Store) ListTransactionsByOwnerDateDesc(_ context.Context, ownerID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filter(func(t core.Transaction) bool { return t.OwnerID == ownerID })
	sortDateDesc(out)
	return out, nil
}

func (s *Store) ListTransactionsByOwnerInRange(_ context.Context, ownerID int64, start, end core.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.filter(func(t core.Transaction) bool {
		return t.OwnerID == ownerID && !t.Date.Before(start) && !end.Before(t.Date)
	})
	sortDateDesc(out)
	return out, nil
}

// DeleteTransaction removes the transaction only when ownerID owns it.
func (s *Store) DeleteTransaction(_ context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.transactions, func(t core.Transaction) bool {
		return t.ID == id && t.OwnerID == ownerID
	})
	if i < 0 {
		return core.ErrTransactionNotFound
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	return nil
}

// RecordActivity implements ports.ActivityLog.
func (s *Store) RecordActivity(_ context.Context, a core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seenEvents[a.EventID]; ok {
		return nil
	}
	s.seenEvents[a.EventID] = struct{}{}
	s.activity = append(s.activity, a)
	return nil
}

func (s *Store) ListActivity(_ context.Context, ownerID int64, limit int) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Activity, 0)
	for i := len(s.activity) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.activity[i].OwnerID == ownerID {
			out = append(out, s.activity[i])
		}
	}
	return out, nil
}

// filter must be called with s.mu held. The result never aliases s.transactions.
func (s *Store) filter(keep func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func sortDateDesc(txs []core.Transaction) {
	slices.SortStableFunc(txs, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
