package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"

	"commentboard/internal/model"
	"commentboard/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentService interface {
	CreateComment(ctx context.Context, req service.CreateCommentRequest) (model.PopulatedComment, error)
	UpdateComment(ctx context.Context, req service.UpdateCommentRequest) (model.UpdateResult, error)
	DeleteComment(ctx context.Context, commentID string) (model.DeleteResult, error)
	GetCommentsByCommenter(ctx context.Context, userID string) ([]model.PopulatedComment, error)
}

// createCommentBody takes the commenter from "id"; "commenter" is accepted too.
type createCommentBody struct {
	ID        string `json:"id" form:"id"`
	Commenter string `json:"commenter" form:"commenter"`
	Comment   string `json:"comment" form:"comment"`
}

// updateCommentBody reads the new text from "Comment". A nil pointer means the
// field was absent and the update is empty.
type updateCommentBody struct {
	Comment      *string `json:"Comment" form:"Comment"`
	LowerComment *string `json:"comment" form:"comment"`
}

type commentHandler struct {
	comments CommentService
}

func (h *commentHandler) register(g *gin.RouterGroup) {
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *commentHandler) create(c *gin.Context) {
	var body createCommentBody
	if err := bindBody(c, &body); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	commenter := body.ID
	if commenter == "" {
		commenter = body.Commenter
	}

	comment, err := h.comments.CreateComment(c.Request.Context(), service.CreateCommentRequest{
		Commenter: commenter,
		Comment:   body.Comment,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *commentHandler) update(c *gin.Context) {
	var body updateCommentBody
	if err := bindBody(c, &body); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	text := body.Comment
	if text == nil {
		text = body.LowerComment
	}

	res, err := h.comments.UpdateComment(c.Request.Context(), service.UpdateCommentRequest{
		ID:      c.Param("id"),
		Comment: text,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUpdateResultResponse(res))
}

func (h *commentHandler) delete(c *gin.Context) {
	res, err := h.comments.DeleteComment(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDeleteResultResponse(res))
}

// bindBody decodes JSON or url-encoded bodies by content type. An empty body
// leaves obj untouched.
func bindBody(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
