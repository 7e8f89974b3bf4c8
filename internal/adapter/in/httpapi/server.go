// Package httpapi exposes the comment board over HTTP with gin.
package httpapi

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type Config struct {
	// Production hides error causes and stacks from rendered error pages.
	Production bool
	// Public is served as static files. Nil disables static serving.
	Public fs.FS
	// Views holds error.html and index.html.
	Views fs.FS
	// ViewsDir, when set, loads templates from disk instead of Views.
	ViewsDir string
}

// NewRouter assembles the middleware chain and routes.
// Order: request logger, panic recovery, error renderer, security headers,
// static files, routers, not found.
func NewRouter(log *slog.Logger, cfg Config, comments CommentService, users UserService) (*gin.Engine, error) {
	r := gin.New()

	if err := loadTemplates(r, cfg); err != nil {
		return nil, err
	}

	renderer := errorRenderer{production: cfg.Production}

	r.Use(requestLogger(log))
	r.Use(gin.CustomRecovery(renderer.recover))
	r.Use(renderer.middleware())
	r.Use(securityHeaders())
	r.Use(serveStatic(cfg.Public))

	index := &indexHandler{users: users}
	r.GET("/", index.index)

	uh := &userHandler{users: users, comments: comments}
	uh.register(r.Group("/users"))

	ch := &commentHandler{comments: comments}
	ch.register(r.Group("/comments"))

	r.NoRoute(notFound)

	return r, nil
}

func loadTemplates(r *gin.Engine, cfg Config) error {
	if cfg.ViewsDir != "" {
		pattern := filepath.Join(cfg.ViewsDir, "*.html")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("glob views: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no templates match %s", pattern)
		}
		r.LoadHTMLGlob(pattern)
		return nil
	}

	if cfg.Views == nil {
		return errors.New("no views configured")
	}
	tmpl, err := template.ParseFS(cfg.Views, "*.html")
	if err != nil {
		return fmt.Errorf("parse views: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	return nil
}
