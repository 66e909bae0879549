// Package usertest provides an in-memory user repository for tests.
package usertest

import (
	"context"
	"sync"

	"github.com/Abraxas-365/skillpath/career/user"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
)

// Repository is an in-memory user.Repository with unique emails
type Repository struct {
	mu    sync.Mutex
	users map[kernel.UserID]user.User
}

func NewRepository() *Repository {
	return &Repository{users: make(map[kernel.UserID]user.User)}
}

func (r *Repository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u) {
		return user.ErrEmailTaken()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *Repository) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound()
	}
	if r.emailTaken(u) {
		return user.ErrEmailTaken()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *Repository) GetByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	return &u, nil
}

func (r *Repository) GetByEmail(_ context.Context, email kernel.Email) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

// Get returns the stored copy of a user
func (r *Repository) Get(id kernel.UserID) user.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

// Put overwrites a stored user
func (r *Repository) Put(u user.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *Repository) emailTaken(u *user.User) bool {
	for _, other := range r.users {
		if other.ID != u.ID && other.Email == u.Email {
			return true
		}
	}
	return false
}

var _ user.Repository = (*Repository)(nil)
