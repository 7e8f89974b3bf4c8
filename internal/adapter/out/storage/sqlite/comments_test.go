package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"commentboard/internal/model"
	"commentboard/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newStorages(t *testing.T) (*CommentStorage, model.User) {
	t.Helper()
	db := newDB(t)
	u, err := NewUserStorage(db).CreateUser(context.Background(), service.CreateUserRequest{Name: "zero", Age: 24})
	require.NoError(t, err)
	return NewCommentStorage(db), u
}

func TestCommentStorage_CreateAndPopulate(t *testing.T) {
	ctx := context.Background()
	st, u := newStorages(t)

	c, err := st.CreateComment(ctx, service.CreateCommentRequest{Commenter: u.ID, Comment: "hello"})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, u.ID, c.Commenter)

	got, err := st.GetPopulatedComment(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, got.ID)
	require.Equal(t, "hello", got.Comment)
	require.Equal(t, u.ID, got.Commenter.ID)
	require.Equal(t, "zero", got.Commenter.Name)
	require.Equal(t, 24, got.Commenter.Age)
}

func TestCommentStorage_CreateComment_UnknownCommenter(t *testing.T) {
	st, _ := newStorages(t)

	_, err := st.CreateComment(context.Background(), service.CreateCommentRequest{
		Commenter: uuid.NewString(),
		Comment:   "hello",
	})
	require.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestCommentStorage_GetPopulatedComment_NotFound(t *testing.T) {
	st, _ := newStorages(t)

	_, err := st.GetPopulatedComment(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentStorage_UpdateComment(t *testing.T) {
	ctx := context.Background()
	st, u := newStorages(t)

	c, err := st.CreateComment(ctx, service.CreateCommentRequest{Commenter: u.ID, Comment: "old"})
	require.NoError(t, err)

	tests := []struct {
		name         string
		id           string
		comment      *string
		wantMatched  int64
		wantModified int64
		wantText     string
	}{
		{name: "changed", id: c.ID, comment: strPtr("new"), wantMatched: 1, wantModified: 1, wantText: "new"},
		{name: "same text", id: c.ID, comment: strPtr("new"), wantMatched: 1, wantText: "new"},
		{name: "field absent", id: c.ID, wantMatched: 1, wantText: "new"},
		{name: "missing comment", id: uuid.NewString(), comment: strPtr("x"), wantText: "new"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.UpdateComment(ctx, service.UpdateCommentRequest{ID: tt.id, Comment: tt.comment})
			require.NoError(t, err)
			require.Equal(t, tt.wantMatched, got.MatchedCount)
			require.Equal(t, tt.wantModified, got.ModifiedCount)

			stored, err := st.GetPopulatedComment(ctx, c.ID)
			require.NoError(t, err)
			require.Equal(t, tt.wantText, stored.Comment)
		})
	}
}

func TestCommentStorage_DeleteComment(t *testing.T) {
	ctx := context.Background()
	st, u := newStorages(t)

	c, err := st.CreateComment(ctx, service.CreateCommentRequest{Commenter: u.ID, Comment: "bye"})
	require.NoError(t, err)

	res, err := st.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.DeletedCount)

	res, err = st.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), res.DeletedCount)

	_, err = st.GetPopulatedComment(ctx, c.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentStorage_GetCommentsByCommenter(t *testing.T) {
	ctx := context.Background()
	st, u := newStorages(t)

	empty, err := st.GetCommentsByCommenter(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	for _, text := range []string{"first", "second", "third"} {
		_, err := st.CreateComment(ctx, service.CreateCommentRequest{Commenter: u.ID, Comment: text})
		require.NoError(t, err)
	}

	got, err := st.GetCommentsByCommenter(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "first", got[0].Comment)
	require.Equal(t, "third", got[2].Comment)
	require.Equal(t, "zero", got[1].Commenter.Name)
}

func TestCommentStorage_UpdateComment_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.NewString()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT comment FROM comments WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"comment"}).AddRow("old"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET comment = ? WHERE id = ?")).
		WithArgs("new", id).
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err = NewCommentStorage(db).UpdateComment(context.Background(), service.UpdateCommentRequest{
		ID:      id,
		Comment: strPtr("new"),
	})
	require.Error(t, err)
	require.ErrorIs(t, err, service.ErrInternalError)
	require.Contains(t, err.Error(), "exec update comment")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStorage_UpdateComment_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	id := uuid.NewString()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT comment FROM comments WHERE id = ?")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"comment"}).AddRow("old"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET comment = ? WHERE id = ?")).
		WithArgs("new", id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := NewCommentStorage(db).UpdateComment(context.Background(), service.UpdateCommentRequest{
		ID:      id,
		Comment: strPtr("new"),
	})
	require.NoError(t, err)
	require.Equal(t, model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStorage_DeleteComment_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM comments WHERE id = ?")).
		WillReturnError(errors.New("boom"))

	_, err = NewCommentStorage(db).DeleteComment(context.Background(), uuid.NewString())
	require.Error(t, err)
	require.ErrorIs(t, err, service.ErrInternalError)
	require.Contains(t, err.Error(), "exec delete comment")
	require.NoError(t, mock.ExpectationsWereMet())
}
