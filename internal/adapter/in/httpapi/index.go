package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexTemplate = "index.html"

type indexHandler struct {
	users UserService
}

func (h *indexHandler) index(c *gin.Context) {
	users, err := h.users.GetUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.HTML(http.StatusOK, indexTemplate, gin.H{"users": toUserResponses(users)})
}
