package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"commentboard/config"
	"commentboard/internal/adapter/in/httpapi"
	memstore "commentboard/internal/adapter/out/storage/inmemory"
	pgstore "commentboard/internal/adapter/out/storage/postgres"
	sqlitestore "commentboard/internal/adapter/out/storage/sqlite"
	"commentboard/internal/service"
	"commentboard/pkg/logger"
	"commentboard/views"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg     config.Config
	srv     *http.Server
	closers []func() error
}

type storages struct {
	comments  service.CommentStorage
	users     service.UserStorage
	txManager service.TxManager
	closers   []func() error
}

// NewApp connects the configured store once and builds the HTTP server on top
// of it.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	st, err := openStorages(ctx, cfg)
	if err != nil {
		return nil, err
	}

	commentSvc := service.NewCommentService(st.comments, st.txManager)
	userSvc := service.NewUserService(st.users)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := httpapi.NewRouter(log, httpapi.Config{
		Production: cfg.Production(),
		Public:     publicFS(ctx, cfg.HTTP.PublicDir),
		Views:      views.FS,
		ViewsDir:   cfg.HTTP.ViewsDir,
	}, commentSvc, userSvc)
	if err != nil {
		closeAll(ctx, st.closers)
		return nil, fmt.Errorf("router: %w", err)
	}

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized", "addr", addr, "storage", cfg.StorageType, "env", cfg.Env)
	return &App{cfg: cfg, srv: srv, closers: st.closers}, nil
}

func openStorages(ctx context.Context, cfg config.Config) (storages, error) {
	log := logger.FromContext(ctx)

	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return storages{}, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return storages{}, fmt.Errorf("ping postgres: %w", err)
		}
		if err := pgstore.Migrate(ctx, pool); err != nil {
			pool.Close()
			return storages{}, fmt.Errorf("migrate postgres: %w", err)
		}
		log.Info("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.DB)

		return storages{
			comments:  pgstore.NewCommentStorage(pool, trmpgx.DefaultCtxGetter),
			users:     pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter),
			txManager: manager.Must(trmpgx.NewDefaultFactory(pool)),
			closers:   []func() error{func() error { pool.Close(); return nil }},
		}, nil

	case config.StorageSQLite:
		db, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return storages{}, fmt.Errorf("sqlite: %w", err)
		}
		log.Info("opened sqlite", "path", cfg.SQLite.Path)

		return storages{
			comments:  sqlitestore.NewCommentStorage(db),
			users:     sqlitestore.NewUserStorage(db),
			txManager: service.NopTxManager{},
			closers:   []func() error{db.Close},
		}, nil

	default:
		users := memstore.NewUserStorage()
		return storages{
			comments:  memstore.NewCommentStorage(users),
			users:     users,
			txManager: service.NopTxManager{},
		}, nil
	}
}

// Migrate applies the schema of the configured store without serving.
func Migrate(ctx context.Context, cfg config.Config) error {
	log := logger.FromContext(ctx)

	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return fmt.Errorf("pgxpool: %w", err)
		}
		defer pool.Close()
		if err := pgstore.Migrate(ctx, pool); err != nil {
			return err
		}

	case config.StorageSQLite:
		db, err := sqlitestore.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		if err := db.Close(); err != nil {
			return fmt.Errorf("closing sqlite: %w", err)
		}

	default:
		log.Info("nothing to migrate", "storage", cfg.StorageType)
		return nil
	}

	log.Info("migrations applied", "storage", cfg.StorageType)
	return nil
}

func publicFS(ctx context.Context, dir string) fs.FS {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.FromContext(ctx).Warn("static files disabled", "dir", dir)
		return nil
	}
	return os.DirFS(dir)
}

// Run serves until ctx is cancelled or the listener fails.
func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	defer closeAll(ctx, a.closers)

	ln, err := net.Listen("tcp", a.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.srv.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "port", ln.Addr().(*net.TCPAddr).Port)
		errCh <- a.srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shCtx)

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func closeAll(ctx context.Context, closers []func() error) {
	for _, c := range closers {
		if err := c(); err != nil {
			logger.FromContext(ctx).Warn("close failed", "error", err)
		}
	}
}
