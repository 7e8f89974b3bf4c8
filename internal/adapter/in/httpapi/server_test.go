package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"commentboard/internal/adapter/out/storage/inmemory"
	"commentboard/internal/model"
	"commentboard/internal/service"
	"commentboard/views"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestRouter(t *testing.T, production bool, public fs.FS) *gin.Engine {
	t.Helper()

	users := inmemory.NewUserStorage()
	comments := inmemory.NewCommentStorage(users)

	r, err := NewRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config{Production: production, Public: public, Views: views.FS},
		service.NewCommentService(comments, nil),
		service.NewUserService(users),
	)
	require.NoError(t, err)
	return r
}

func do(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	return do(r, method, target, "application/json", body)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createUser(t *testing.T, r http.Handler, name string) userResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/users", `{"name":"`+name+`","age":24,"married":false}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[userResponse](t, w)
}

func createComment(t *testing.T, r http.Handler, userID, text string) commentResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/comments", `{"id":"`+userID+`","comment":"`+text+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[commentResponse](t, w)
}

func TestCreateComment(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false, nil)
	u := createUser(t, r, "zero")

	t.Run("json body populates commenter", func(t *testing.T) {
		got := createComment(t, r, u.ID, "hello")
		require.NotEmpty(t, got.ID)
		require.Equal(t, "hello", got.Comment)
		require.Equal(t, u.ID, got.Commenter.ID)
		require.Equal(t, "zero", got.Commenter.Name)
		require.Equal(t, 24, got.Commenter.Age)
	})

	t.Run("url-encoded body", func(t *testing.T) {
		form := url.Values{"id": {u.ID}, "comment": {"from a form"}}
		w := do(r, http.MethodPost, "/comments", "application/x-www-form-urlencoded", form.Encode())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		got := decode[commentResponse](t, w)
		require.Equal(t, "from a form", got.Comment)
		require.Equal(t, "zero", got.Commenter.Name)
	})

	t.Run("commenter alias", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/comments", `{"commenter":"`+u.ID+`","comment":"alias"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("missing commenter", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/comments", `{"comment":"orphan"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid request")
	})

	t.Run("unknown commenter", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/comments", `{"id":"`+uuid.NewString()+`","comment":"ghost"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/comments", `{"id":`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})
}

func TestUpdateComment(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false, nil)
	u := createUser(t, r, "zero")
	c := createComment(t, r, u.ID, "old")

	tests := []struct {
		name         string
		target       string
		body         string
		wantMatched  int64
		wantModified int64
	}{
		{name: "changes text", target: "/comments/" + c.ID, body: `{"Comment":"new"}`, wantMatched: 1, wantModified: 1},
		{name: "same text", target: "/comments/" + c.ID, body: `{"Comment":"new"}`, wantMatched: 1},
		{name: "lowercase field", target: "/comments/" + c.ID, body: `{"comment":"newer"}`, wantMatched: 1, wantModified: 1},
		{name: "field absent", target: "/comments/" + c.ID, body: `{}`, wantMatched: 1},
		{name: "empty body", target: "/comments/" + c.ID, body: ``, wantMatched: 1},
		{name: "unknown id", target: "/comments/" + uuid.NewString(), body: `{"Comment":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPatch, tt.target, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			got := decode[map[string]any](t, w)
			require.Equal(t, true, got["acknowledged"])
			require.EqualValues(t, tt.wantMatched, got["matchedCount"])
			require.EqualValues(t, tt.wantModified, got["modifiedCount"])
			require.EqualValues(t, 0, got["upsertedCount"])
			require.Contains(t, got, "upsertedId")
			require.Nil(t, got["upsertedId"])
		})
	}

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(r, http.MethodPatch, "/comments/not-a-uuid", `{"Comment":"x"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false, nil)
	u := createUser(t, r, "zero")
	c := createComment(t, r, u.ID, "bye")

	for _, want := range []int64{1, 0} {
		w := do(r, http.MethodDelete, "/comments/"+c.ID, "", "")
		require.Equal(t, http.StatusOK, w.Code)

		got := decode[deleteResultResponse](t, w)
		require.True(t, got.Acknowledged)
		require.Equal(t, want, got.DeletedCount)
	}

	w := do(r, http.MethodGet, "/users/"+u.ID+"/comments", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[[]commentResponse](t, w))
}

func TestUsers(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false, nil)

	w := do(r, http.MethodGet, "/users", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	zero := createUser(t, r, "zero")
	form := url.Values{"name": {"nero"}, "age": {"32"}, "married": {"true"}}
	w = do(r, http.MethodPost, "/users", "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	nero := decode[userResponse](t, w)
	require.True(t, nero.Married)
	require.Equal(t, 32, nero.Age)

	w = do(r, http.MethodGet, "/users", "", "")
	users := decode[[]userResponse](t, w)
	require.Len(t, users, 2)
	require.Equal(t, zero.ID, users[0].ID)

	createComment(t, r, zero.ID, "first")
	createComment(t, r, zero.ID, "second")
	createComment(t, r, nero.ID, "other")

	w = do(r, http.MethodGet, "/users/"+zero.ID+"/comments", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	comments := decode[[]commentResponse](t, w)
	require.Len(t, comments, 2)
	require.Equal(t, "first", comments[0].Comment)
	require.Equal(t, "zero", comments[1].Commenter.Name)

	t.Run("duplicate name", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/users", `{"name":"zero"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("index lists users", func(t *testing.T) {
		w := do(r, http.MethodGet, "/", "", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Content-Type"), "text/html")
		require.Contains(t, w.Body.String(), "nero")
	})
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, false, nil)

	tests := []struct {
		method string
		target string
	}{
		{method: http.MethodGet, target: "/does-not-exist"},
		{method: http.MethodPost, target: "/nowhere/at/all"},
		{method: http.MethodPut, target: "/comments/" + uuid.NewString()},
		{method: http.MethodGet, target: "/comments"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := do(r, tt.method, tt.target, "", "")
			require.Equal(t, http.StatusNotFound, w.Code)
			require.Contains(t, w.Header().Get("Content-Type"), "text/html")
			require.Contains(t, w.Body.String(), tt.method+" "+tt.target)
		})
	}
}

func TestErrorDetails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		production  bool
		wantDetails bool
	}{
		{name: "development", wantDetails: true},
		{name: "production", production: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.production, nil)

			w := do(r, http.MethodGet, "/does-not-exist", "", "")
			require.Equal(t, http.StatusNotFound, w.Code)
			require.Contains(t, w.Body.String(), "GET /does-not-exist router not found")

			if tt.wantDetails {
				require.Contains(t, w.Body.String(), `class="stack"`)
				require.Contains(t, w.Body.String(), "goroutine")
			} else {
				require.NotContains(t, w.Body.String(), `class="stack"`)
				require.NotContains(t, w.Body.String(), "goroutine")
			}
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	for _, production := range []bool{false, true} {
		r := newTestRouter(t, production, nil)
		r.GET("/explode", func(*gin.Context) { panic("boom") })

		w := do(r, http.MethodGet, "/explode", "", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, w.Body.String(), "panic: boom")
		if production {
			require.NotContains(t, w.Body.String(), `class="stack"`)
		} else {
			require.Contains(t, w.Body.String(), `class="stack"`)
		}
	}
}

// failingComments fails every delete with err.
type failingComments struct {
	CommentService
	err error
}

func (f failingComments) DeleteComment(context.Context, string) (model.DeleteResult, error) {
	return model.DeleteResult{}, f.err
}

func TestServiceErrorsRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{
			name:       "store failure",
			err:        errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantText:   "connection refused",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: comment gone", service.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantText:   "comment gone",
		},
		{
			name:       "invalid request",
			err:        fmt.Errorf("%w: bad id", service.ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
			wantText:   "bad id",
		},
	}

	for _, tt := range tests {
		for _, production := range []bool{false, true} {
			t.Run(fmt.Sprintf("%s production=%v", tt.name, production), func(t *testing.T) {
				users := inmemory.NewUserStorage()
				r, err := NewRouter(
					slog.New(slog.NewTextHandler(io.Discard, nil)),
					Config{Production: production, Views: views.FS},
					failingComments{err: tt.err},
					service.NewUserService(users),
				)
				require.NoError(t, err)

				w := do(r, http.MethodDelete, "/comments/"+uuid.NewString(), "", "")
				require.Equal(t, tt.wantStatus, w.Code)
				require.Contains(t, w.Header().Get("Content-Type"), "text/html")
				require.Contains(t, w.Body.String(), tt.wantText)

				if production {
					require.NotContains(t, w.Body.String(), `class="stack"`)
					require.NotContains(t, w.Body.String(), "goroutine")
				} else {
					require.Contains(t, w.Body.String(), `class="stack"`)
					require.Contains(t, w.Body.String(), `class="cause"`)
				}
			})
		}
	}
}

func Test_responseSize(t *testing.T) {
	require.Equal(t, "-", responseSize(-1))
	require.Equal(t, 0, responseSize(0))
	require.Equal(t, 42, responseSize(42))
}

func TestStaticAndHeaders(t *testing.T) {
	t.Parallel()

	public := fstest.MapFS{
		"main.css":        {Data: []byte("body{}")},
		"img/empty/.keep": {Data: nil},
	}
	r := newTestRouter(t, false, public)

	w := do(r, http.MethodGet, "/main.css", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "body{}", w.Body.String())
	require.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = do(r, http.MethodGet, "/img/empty", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/main.css", "", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "POST /main.css")
}
