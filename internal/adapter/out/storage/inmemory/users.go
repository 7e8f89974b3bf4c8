package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commentboard/internal/model"
	"commentboard/internal/service"

	"github.com/google/uuid"
)

type UserStorage struct {
	mu     sync.RWMutex
	users  []model.User
	byID   map[string]int
	byName map[string]struct{}
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:   make(map[string]int),
		byName: make(map[string]struct{}),
	}
}

func (s *UserStorage) CreateUser(_ context.Context, req service.CreateUserRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[req.Name]; taken {
		return model.User{}, fmt.Errorf("%w: user name %q already exists", service.ErrInvalidRequest, req.Name)
	}

	u := model.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Age:       req.Age,
		Married:   req.Married,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	s.byID[u.ID] = len(s.users)
	s.byName[u.Name] = struct{}{}
	s.users = append(s.users, u)
	return u, nil
}

func (s *UserStorage) GetUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.byID[userID]; ok {
		return s.users[i], nil
	}
	return model.User{}, service.ErrNotFound
}
