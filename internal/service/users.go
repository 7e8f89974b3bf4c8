package service

import (
	"context"
	"fmt"

	"commentboard/internal/model"
)

//go:generate mockgen -source=users.go -destination=./user_storage_mock.go -package=service commentboard/internal/service UserStorage
type UserStorage interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
}

type UserService struct {
	userStorage UserStorage
}

func NewUserService(userStorage UserStorage) *UserService {
	return &UserService{
		userStorage: userStorage,
	}
}

func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (model.User, error) {
	if err := validate.Struct(req); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.userStorage.CreateUser(ctx, req)
}

func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	return s.userStorage.GetUsers(ctx)
}
