package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"event-share/internal/model"
)

// MemoryUserRepository is a process-local UserRepository used by the dev
// command and by tests. Uniqueness follows the Postgres indexes: username and
// email compare case-insensitively.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, username string, email string, passwordHash string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) || strings.EqualFold(u.Username, username) {
			return model.User{}, fmt.Errorf("create user %q: %w", email, model.ErrUserAlreadyExists)
		}
	}

	u := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.TrimSpace(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.Identity, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u.Identity())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (r *MemoryUserRepository) BumpTokenVersion(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return 0, model.ErrUserNotFound
	}
	u.TokenVersion++
	r.users[id] = u
	return u.TokenVersion, nil
}

// Delete removes a user. Tokens already issued to it stop verifying.
func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// MemoryEventRepository mirrors EventRepository in process memory. Participant
// updates are checked and applied under one lock, like the guarded Mongo
// updates.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[string]model.Event
	now    func() time.Time
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{events: map[string]model.Event{}, now: time.Now}
}

func (r *MemoryEventRepository) List(_ context.Context) ([]model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]model.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, cloneEvent(e))
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (r *MemoryEventRepository) Get(_ context.Context, id string) (model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return model.Event{}, model.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *MemoryEventRepository) Create(_ context.Context, e model.Event) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	e.ID = uuid.NewString()
	e.Participants = []string{}
	e.Comments = []model.Comment{}
	e.CreatedAt = now
	e.UpdatedAt = now
	r.events[e.ID] = e
	return cloneEvent(e), nil
}

func (r *MemoryEventRepository) Update(_ context.Context, id string, changes model.EventChanges) (model.Event, error) {
	return r.mutate(id, nil, func(e *model.Event) {
		if changes.Title != nil {
			e.Title = *changes.Title
		}
		if changes.Description != nil {
			e.Description = *changes.Description
		}
		if changes.Date != nil {
			e.Date = changes.Date.UTC()
		}
	})
}

func (r *MemoryEventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return model.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *MemoryEventRepository) AddParticipant(_ context.Context, id string, username string) (model.Event, error) {
	return r.mutate(id,
		func(e model.Event) bool { return !e.HasParticipant(username) },
		func(e *model.Event) { e.Participants = append(e.Participants, username) },
	)
}

func (r *MemoryEventRepository) RemoveParticipant(_ context.Context, id string, username string) (model.Event, error) {
	return r.mutate(id,
		func(e model.Event) bool { return e.HasParticipant(username) },
		func(e *model.Event) {
			e.Participants = slices.DeleteFunc(e.Participants, func(p string) bool { return p == username })
		},
	)
}

func (r *MemoryEventRepository) AddComment(_ context.Context, id string, c model.Comment) (model.Event, error) {
	c.ID = uuid.NewString()
	c.CreatedAt = r.now().UTC()
	return r.mutate(id, nil, func(e *model.Event) { e.Comments = append(e.Comments, c) })
}

func (r *MemoryEventRepository) mutate(id string, guard func(model.Event) bool, apply func(*model.Event)) (model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return model.Event{}, model.ErrEventNotFound
	}
	if guard != nil && !guard(e) {
		return model.Event{}, model.ErrParticipantsChanged
	}

	e = cloneEvent(e)
	apply(&e)
	e.UpdatedAt = r.now().UTC()
	r.events[id] = e
	return cloneEvent(e), nil
}

func cloneEvent(e model.Event) model.Event {
	e.Participants = append([]string{}, e.Participants...)
	e.Comments = append([]model.Comment{}, e.Comments...)
	return e
}
