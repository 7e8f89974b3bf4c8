package sqlite

import (
	"context"
	"database/sql"
	"errors"
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

type CommentStorage struct {
	db *sql.DB
}

func NewCommentStorage(db *sql.DB) *CommentStorage {
	return &CommentStorage{db: db}
}

func (s *CommentStorage) CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	if err := validator.New().Struct(req); err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}

	c := model.Comment{
		ID:        uuid.NewString(),
		Commenter: req.Commenter,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}

	query, args, err := sq.
		Insert(tableinfo.CommentsTableName).
		Columns(
			tableinfo.CommentIDColumn,
			tableinfo.CommentCommenterColumn,
			tableinfo.CommentBodyColumn,
			tableinfo.CommentCreatedAtColumn,
		).
		Values(c.ID, c.Commenter, c.Comment, c.CreatedAt).
		ToSql()
	if err != nil {
		return model.Comment{}, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return model.Comment{}, classify(err, "exec insert comment")
	}

	return c, nil
}

func (s *CommentStorage) GetPopulatedComment(ctx context.Context, commentID string) (model.PopulatedComment, error) {
	var out model.PopulatedComment

	query, args, err := populatedSelect().
		Where(sq.Eq{"c." + tableinfo.CommentIDColumn: commentID}).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	if err := scanPopulated(s.db.QueryRowContext(ctx, query, args...), &out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, classify(err, "exec select populated comment")
	}

	return out, nil
}

// UpdateComment reads and writes inside one immediate transaction, so the
// write lock is taken before the current text is read.
func (s *CommentStorage) UpdateComment(ctx context.Context, req service.UpdateCommentRequest) (out model.UpdateResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx: %w", cerr)
		}
	}()

	query, args, err := sq.
		Select(tableinfo.CommentBodyColumn).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: req.ID}).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	var current string
	found := true
	if err = tx.QueryRowContext(ctx, query, args...).Scan(&current); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return out, classify(err, "exec select comment")
		}
		err = nil
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
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return out, classify(err, "exec update comment")
	}
	out.ModifiedCount, err = res.RowsAffected()
	if err != nil {
		return out, fmt.Errorf("rows affected: %w", err)
	}

	return out, nil
}

func (s *CommentStorage) DeleteComment(ctx context.Context, commentID string) (model.DeleteResult, error) {
	query, args, err := sq.
		Delete(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		ToSql()
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.DeleteResult{}, classify(err, "exec delete comment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("rows affected: %w", err)
	}

	return model.DeleteResult{DeletedCount: n}, nil
}

func (s *CommentStorage) GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error) {
	query, args, err := populatedSelect().
		Where(sq.Eq{"c." + tableinfo.CommentCommenterColumn: userID}).
		OrderBy("c."+tableinfo.CommentCreatedAtColumn+" ASC", "c.rowid ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrBuildingQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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
	return sq.
		Select(
			"c."+tableinfo.CommentIDColumn,
			"c."+tableinfo.CommentBodyColumn,
			"c."+tableinfo.CommentCreatedAtColumn,
			"u."+tableinfo.UserIDColumn,
			"u."+tableinfo.UserNameColumn,
			"u."+tableinfo.UserAgeColumn,
			"u."+tableinfo.UserMarriedColumn,
			"u."+tableinfo.UserCommentColumn,
			"u."+tableinfo.UserCreatedAtColumn,
		).
		From(tableinfo.CommentsTableName + " c").
		Join(tableinfo.UsersTableName + " u ON u." + tableinfo.UserIDColumn + " = c." + tableinfo.CommentCommenterColumn)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPopulated(row scanner, out *model.PopulatedComment) error {
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
