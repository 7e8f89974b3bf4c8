package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"commentboard/internal/adapter/out/storage"
	"commentboard/internal/model"
	"commentboard/internal/service"
	"commentboard/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

const (
	commentAlias = "c"
	userAlias    = "u"
)

type CommentStorage struct {
	pool   trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewCommentStorage(pool trmpgx.Tr, getter *trmpgx.CtxGetter) *CommentStorage {
	return &CommentStorage{pool: pool, getter: getter}
}

func (s *CommentStorage) CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	var out model.Comment

	if err := validator.New().Struct(req); err != nil {
		return out, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}

	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentCommenterColumn,
			tableinfo.CommentBodyColumn,
		).
		Values(req.Commenter, req.Comment).
		Suffix(fmt.Sprintf(
			"RETURNING %s, %s, %s, %s",
			tableinfo.CommentIDColumn,
			tableinfo.CommentCommenterColumn,
			tableinfo.CommentBodyColumn,
			tableinfo.CommentCreatedAtColumn,
		)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Commenter,
		&out.Comment,
		&out.CreatedAt,
	); err != nil {
		return model.Comment{}, classify(err, "exec insert comment")
	}

	return out, nil
}

// GetPopulatedComment joins the comment with its commenter.
func (s *CommentStorage) GetPopulatedComment(ctx context.Context, commentID string) (model.PopulatedComment, error) {
	var out model.PopulatedComment

	query, args, err := populatedSelect().
		Where(sq.Eq{tableinfo.Qualified(commentAlias, tableinfo.CommentIDColumn): commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	if err := scanPopulated(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, classify(err, "exec select populated comment")
	}

	return out, nil
}

// UpdateComment locks the row, compares and writes. Callers wrap it in a
// transaction so that the lock is held until the write.
func (s *CommentStorage) UpdateComment(ctx context.Context, req service.UpdateCommentRequest) (model.UpdateResult, error) {
	var out model.UpdateResult

	query, args, err := sq.
		Select(tableinfo.CommentBodyColumn).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: req.ID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)

	var current string
	found := true
	if err := tr.QueryRow(ctx, query, args...).Scan(&current); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return out, classify(err, "exec select comment for update")
		}
		found = false
	}

	matched, modified := storage.UpdateOutcome(found, current, req.Comment)
	out.MatchedCount = matched
	if modified == 0 {
		return out, nil
	}

	query, args, err = sq.
		Update(tableinfo.CommentsTableName).
		Set(tableinfo.CommentBodyColumn, *req.Comment).
		Where(sq.Eq{tableinfo.CommentIDColumn: req.ID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return out, classify(err, "exec update comment")
	}
	out.ModifiedCount = tag.RowsAffected()

	return out, nil
}

func (s *CommentStorage) DeleteComment(ctx context.Context, commentID string) (model.DeleteResult, error) {
	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return model.DeleteResult{}, classify(err, "exec delete comment")
	}

	return model.DeleteResult{DeletedCount: tag.RowsAffected()}, nil
}

func (s *CommentStorage) GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error) {
	query, args, err := populatedSelect().
		Where(sq.Eq{tableinfo.Qualified(commentAlias, tableinfo.CommentCommenterColumn): userID}).
		OrderBy(
			tableinfo.Qualified(commentAlias, tableinfo.CommentCreatedAtColumn)+" ASC",
			tableinfo.Qualified(commentAlias, tableinfo.CommentIDColumn)+" ASC",
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.pool)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "exec select comments by commenter")
	}
	defer rows.Close()

	out := make([]model.PopulatedComment, 0)
	for rows.Next() {
		var c model.PopulatedComment
		if err := scanPopulated(rows, &c); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return out, nil
}

func populatedSelect() sq.SelectBuilder {
	c := func(col string) string { return tableinfo.Qualified(commentAlias, col) }
	u := func(col string) string { return tableinfo.Qualified(userAlias, col) }

	return sq.
		Select(
			c(tableinfo.CommentIDColumn),
			c(tableinfo.CommentBodyColumn),
			c(tableinfo.CommentCreatedAtColumn),
			u(tableinfo.UserIDColumn),
			u(tableinfo.UserNameColumn),
			u(tableinfo.UserAgeColumn),
			u(tableinfo.UserMarriedColumn),
			u(tableinfo.UserCommentColumn),
			u(tableinfo.UserCreatedAtColumn),
		).
		From(tableinfo.CommentsTableName + " " + commentAlias).
		Join(fmt.Sprintf("%s %s ON %s = %s",
			tableinfo.UsersTableName, userAlias,
			u(tableinfo.UserIDColumn), c(tableinfo.CommentCommenterColumn),
		))
}

func scanPopulated(row pgx.Row, out *model.PopulatedComment) error {
	return row.Scan(
		&out.ID,
		&out.Comment,
		&out.CreatedAt,
		&out.Commenter.ID,
		&out.Commenter.Name,
		&out.Commenter.Age,
		&out.Commenter.Married,
		&out.Commenter.Comment,
		&out.Commenter.CreatedAt,
	)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
