package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gunnhildr/library-api/books/config"
	"github.com/gunnhildr/library-api/books/internal/handler"
	"github.com/gunnhildr/library-api/books/internal/repository"
	"github.com/gunnhildr/library-api/books/internal/server"
	"github.com/gunnhildr/library-api/books/internal/service"
	"github.com/gunnhildr/library-api/books/migrations"
	"github.com/gunnhildr/library-api/pkg/logger"
	"github.com/gunnhildr/library-api/pkg/postgres"
)

const shutdownTimeout = 5 * time.Second

func Run(cfg *config.Config) error {
	log, err := logger.NewLogger(cfg.Log, "books")
	if err != nil {
		return errors.Wrap(err, "logger init")
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return errors.Wrap(err, "repo")
	}
	svc := service.NewService(repo, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ", zap.String("addr", srv.Addr()))
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gctx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "server")
	}
	log.Info("Graceful shutdown finished")
	return nil
}
