package service

import (
	"context"
	"fmt"

	"commentboard/internal/model"
)

//go:generate mockgen -source=comments.go -destination=./comment_storage_mock.go -package=service commentboard/internal/service CommentStorage
type CommentStorage interface {
	CreateComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error)
	GetPopulatedComment(ctx context.Context, commentID string) (model.PopulatedComment, error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) (model.UpdateResult, error)
	DeleteComment(ctx context.Context, commentID string) (model.DeleteResult, error)
	GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error)
}

type CommentService struct {
	commentStorage CommentStorage
	txManager      TxManager
}

func NewCommentService(commentStorage CommentStorage, txManager TxManager) *CommentService {
	if txManager == nil {
		txManager = NopTxManager{}
	}
	return &CommentService{
		commentStorage: commentStorage,
		txManager:      txManager,
	}
}

// CreateComment stores the comment and returns it with the commenter populated.
func (s *CommentService) CreateComment(ctx context.Context, req CreateCommentRequest) (model.PopulatedComment, error) {
	if err := validate.Struct(req); err != nil {
		return model.PopulatedComment{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var out model.PopulatedComment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		created, err := s.commentStorage.CreateComment(ctx, req)
		if err != nil {
			return err
		}
		out, err = s.commentStorage.GetPopulatedComment(ctx, created.ID)
		return err
	})
	if err != nil {
		return model.PopulatedComment{}, err
	}
	return out, nil
}

// UpdateComment replaces the comment text. An unknown id is not an error,
// it yields a zero match count.
func (s *CommentService) UpdateComment(ctx context.Context, req UpdateCommentRequest) (model.UpdateResult, error) {
	if err := validateID("comment id", req.ID); err != nil {
		return model.UpdateResult{}, err
	}

	var out model.UpdateResult
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.commentStorage.UpdateComment(ctx, req)
		return err
	})
	if err != nil {
		return model.UpdateResult{}, err
	}
	return out, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID string) (model.DeleteResult, error) {
	if err := validateID("comment id", commentID); err != nil {
		return model.DeleteResult{}, err
	}
	return s.commentStorage.DeleteComment(ctx, commentID)
}

func (s *CommentService) GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error) {
	if err := validateID("user id", userID); err != nil {
		return nil, err
	}
	return s.commentStorage.GetCommentsByCommenter(ctx, userID)
}
