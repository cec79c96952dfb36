package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"event-share/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, username string, email string, passwordHash string) (model.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.Identity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Identity), args.Error(1)
}

func (m *MockUserStore) BumpTokenVersion(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
