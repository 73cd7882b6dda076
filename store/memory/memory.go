// Package memory provides an in-process UserStore used by tests and local
// development. Records are copied on the way in and out so callers never
// alias store-owned memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LiquidN2/natours/store"
)

// Store is a mutex-guarded map keyed by user ID with an email index.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*store.User
	byEmail map[string]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[string]*store.User),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u *store.User) *store.User {
	c := *u
	if u.PasswordChangedAt != nil {
		t := *u.PasswordChangedAt
		c.PasswordChangedAt = &t
	}
	if u.PasswordResetExpires != nil {
		t := *u.PasswordResetExpires
		c.PasswordResetExpires = &t
	}
	return &c
}

func (s *Store) FindByEmail(_ context.Context, email string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[store.NormalizeEmail(email)]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	if u == nil || !u.Active {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindByID(_ context.Context, id string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindByResetTokenHash(_ context.Context, hash string, now time.Time) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if !u.Active || u.PasswordResetToken == "" || u.PasswordResetToken != hash {
			continue
		}
		if u.PasswordResetExpires == nil || !u.PasswordResetExpires.After(now) {
			continue
		}
		return cloneUser(u), nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindByConfirmTokenHash(_ context.Context, hash string) (*store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Active && u.EmailConfirmToken != "" && u.EmailConfirmToken == hash {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) Create(_ context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := store.NormalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return store.ErrDuplicateEmail
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.Email = email

	s.users[user.ID] = cloneUser(user)
	s.byEmail[email] = user.ID
	return nil
}

func (s *Store) Save(_ context.Context, user *store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.users[user.ID]
	if !ok {
		return store.ErrNotFound
	}
	email := store.NormalizeEmail(user.Email)
	if email != prev.Email {
		if _, taken := s.byEmail[email]; taken {
			return store.ErrDuplicateEmail
		}
		delete(s.byEmail, prev.Email)
		s.byEmail[email] = user.ID
	}
	user.Email = email

	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) UpdateByID(_ context.Context, id string, update store.Update) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || !u.Active {
		return nil, store.ErrNotFound
	}
	if update.EmailConfirmed != nil {
		u.EmailConfirmed = *update.EmailConfirmed
	}
	if update.EmailConfirmToken != nil {
		u.EmailConfirmToken = *update.EmailConfirmToken
	}
	if update.TwoFactorEnabled != nil {
		u.TwoFactorEnabled = *update.TwoFactorEnabled
	}
	if update.TwoFactorSecret != nil {
		u.TwoFactorSecret = *update.TwoFactorSecret
	}
	return cloneUser(u), nil
}
