package inmemory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"commentboard/internal/adapter/out/storage"
	"commentboard/internal/model"
	"commentboard/internal/service"

	"github.com/google/uuid"
)

type CommentStorage struct {
	mu sync.RWMutex

	users    *UserStorage
	comments map[string]model.Comment
	order    []string
}

func NewCommentStorage(users *UserStorage) *CommentStorage {
	return &CommentStorage{
		users:    users,
		comments: make(map[string]model.Comment),
	}
}

func (s *CommentStorage) CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error) {
	if _, err := s.users.GetUserByID(ctx, req.Commenter); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return model.Comment{}, fmt.Errorf("%w: commenter %s does not exist", service.ErrInvalidRequest, req.Commenter)
		}
		return model.Comment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := model.Comment{
		ID:        uuid.NewString(),
		Commenter: req.Commenter,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	s.comments[c.ID] = c
	s.order = append(s.order, c.ID)
	return c, nil
}

func (s *CommentStorage) GetPopulatedComment(ctx context.Context, commentID string) (model.PopulatedComment, error) {
	s.mu.RLock()
	c, ok := s.comments[commentID]
	s.mu.RUnlock()

	if !ok {
		return model.PopulatedComment{}, service.ErrNotFound
	}
	return s.populate(ctx, c)
}

func (s *CommentStorage) UpdateComment(_ context.Context, req service.UpdateCommentRequest) (model.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[req.ID]
	matched, modified := storage.UpdateOutcome(ok, c.Comment, req.Comment)
	if modified > 0 {
		c.Comment = *req.Comment
		s.comments[req.ID] = c
	}
	return model.UpdateResult{MatchedCount: matched, ModifiedCount: modified}, nil
}

func (s *CommentStorage) DeleteComment(_ context.Context, commentID string) (model.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return model.DeleteResult{}, nil
	}
	delete(s.comments, commentID)
	if i := slices.Index(s.order, commentID); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return model.DeleteResult{DeletedCount: 1}, nil
}

func (s *CommentStorage) GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error) {
	s.mu.RLock()
	var own []model.Comment
	for _, id := range s.order {
		if c := s.comments[id]; c.Commenter == userID {
			own = append(own, c)
		}
	}
	s.mu.RUnlock()

	out := make([]model.PopulatedComment, 0, len(own))
	for _, c := range own {
		pc, err := s.populate(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

func (s *CommentStorage) populate(ctx context.Context, c model.Comment) (model.PopulatedComment, error) {
	u, err := s.users.GetUserByID(ctx, c.Commenter)
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return model.PopulatedComment{}, err
	}
	if errors.Is(err, service.ErrNotFound) {
		u = model.User{ID: c.Commenter}
	}
	return model.PopulatedComment{
		ID:        c.ID,
		Commenter: u,
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
	}, nil
}
