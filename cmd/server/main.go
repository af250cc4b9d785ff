package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-bookshelf"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("bookshelf"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := bookshelf.LoadConfig()
	if err != nil {
		lgr.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.GetDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		lgr.Error("database unreachable", "error", err)
		os.Exit(1)
	}

	if err := bookshelf.CreateSchema(ctx, db); err != nil {
		lgr.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	repos := bookshelf.NewRepositoryManager(db)
	repos.MustValidate()

	sessions := bookshelf.NewMemorySessionStore()

	tokens, err := bookshelf.NewTokenService(cfg, sessions,
		bookshelf.WithTokenLogger(lgr.GetLogger("tokens")),
	)
	if err != nil {
		lgr.Error("token service setup failed", "error", err)
		os.Exit(1)
	}

	auther := bookshelf.NewAuthenticator(repos.Users(), sessions, tokens).
		WithLogger(lgr.GetLogger("auth"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	ctrl := bookshelf.NewHTTPController(auther, repos, bookshelf.HTTPConfig{
		Tokens: tokens,
		Logger: lgr.GetLogger("http"),
	})
	ctrl.RegisterRoutes(srv.Router())

	lgr.Info("listening", "addr", cfg.GetListenAddr())
	srv.Serve(cfg.GetListenAddr())

	sig := WaitExitSignal()
	lgr.Info("shutting down", "signal", sig.String())
}

// WaitExitSignal blocks until the process receives a termination signal.
func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
