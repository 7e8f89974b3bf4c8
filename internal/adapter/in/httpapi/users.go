package httpapi

import (
	"context"
	"net/http"

	"commentboard/internal/model"
	"commentboard/internal/service"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	CreateUser(ctx context.Context, req service.CreateUserRequest) (model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)
}

type createUserBody struct {
	Name    string `json:"name" form:"name"`
	Age     int    `json:"age" form:"age"`
	Married bool   `json:"married" form:"married"`
	Comment string `json:"comment" form:"comment"`
}

type userHandler struct {
	users    UserService
	comments CommentService
}

func (h *userHandler) register(g *gin.RouterGroup) {
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id/comments", h.listComments)
}

func (h *userHandler) list(c *gin.Context) {
	users, err := h.users.GetUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

func (h *userHandler) create(c *gin.Context) {
	var body createUserBody
	if err := bindBody(c, &body); err != nil {
		abortWithError(c, badRequest(err))
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), service.CreateUserRequest{
		Name:    body.Name,
		Age:     body.Age,
		Married: body.Married,
		Comment: body.Comment,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *userHandler) listComments(c *gin.Context) {
	comments, err := h.comments.GetCommentsByCommenter(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponses(comments))
}
