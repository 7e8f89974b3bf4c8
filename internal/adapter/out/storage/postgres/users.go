package postgres

import (
	"context"
	"fmt"

	"commentboard/internal/adapter/out/storage"
	"commentboard/internal/model"
	"commentboard/internal/service"
	"commentboard/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/go-playground/validator/v10"
)

var userColumns = []string{
	tableinfo.UserIDColumn,
	tableinfo.UserNameColumn,
	tableinfo.UserAgeColumn,
	tableinfo.UserMarriedColumn,
	tableinfo.UserCommentColumn,
	tableinfo.UserCreatedAtColumn,
}

type UserStorage struct {
	pool   trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewUserStorage(pool trmpgx.Tr, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		pool:   pool,
		getter: getter,
	}
}

func (s *UserStorage) CreateUser(ctx context.Context, req service.CreateUserRequest) (model.User, error) {
	var out model.User

	if err := validator.New().Struct(req); err != nil {
		return out, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}

	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserNameColumn,
			tableinfo.UserAgeColumn,
			tableinfo.UserMarriedColumn,
			tableinfo.UserCommentColumn,
		).
		Values(req.Name, req.Age, req.Married, req.Comment).
		Suffix("RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Name,
		&out.Age,
		&out.Married,
		&out.Comment,
		&out.CreatedAt,
	); err != nil {
		return model.User{}, classify(err, "exec insert user")
	}

	return out, nil
}

func (s *UserStorage) GetUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := sq.
		Select(userColumns...).
		From(tableinfo.UsersTableName).
		OrderBy(
			tableinfo.UserCreatedAtColumn+" ASC",
			tableinfo.UserIDColumn+" ASC",
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "exec select users")
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID,
			&u.Name,
			&u.Age,
			&u.Married,
			&u.Comment,
			&u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}
