package httpapi

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveStatic answers GET and HEAD requests for files present in public and
// lets every other request through.
func serveStatic(public fs.FS) gin.HandlerFunc {
	if public == nil {
		return func(c *gin.Context) { c.Next() }
	}

	fileServer := http.FileServer(http.FS(public))

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		name := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
		if name == "" {
			c.Next()
			return
		}

		info, err := fs.Stat(public, name)
		if err != nil || info.IsDir() {
			c.Next()
			return
		}

		c.Header("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}
