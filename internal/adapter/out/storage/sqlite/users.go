package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"commentboard/internal/adapter/out/storage"
	"commentboard/internal/model"
	"commentboard/internal/service"
	"commentboard/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserStorage struct {
	db *sql.DB
}

func NewUserStorage(db *sql.DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) CreateUser(ctx context.Context, req service.CreateUserRequest) (model.User, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.User{}, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}

	u := model.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Age:       req.Age,
		Married:   req.Married,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}

	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserIDColumn,
			tableinfo.UserNameColumn,
			tableinfo.UserAgeColumn,
			tableinfo.UserMarriedColumn,
			tableinfo.UserCommentColumn,
			tableinfo.UserCreatedAtColumn,
		).
		Values(u.ID, u.Name, u.Age, u.Married, u.Comment, u.CreatedAt).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return model.User{}, classify(err, "exec insert user")
	}

	return u, nil
}

func (s *UserStorage) GetUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := sq.
		Select(
			tableinfo.UserIDColumn,
			tableinfo.UserNameColumn,
			tableinfo.UserAgeColumn,
			tableinfo.UserMarriedColumn,
			tableinfo.UserCommentColumn,
			tableinfo.UserCreatedAtColumn,
		).
		From(tableinfo.UsersTableName).
		OrderBy(tableinfo.UserCreatedAtColumn+" ASC", "rowid ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "exec select users")
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age, &u.Married, &u.Comment, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
