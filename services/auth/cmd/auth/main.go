package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	pkgdb "github.com/Skotchmaster/internhub/pkg/db"
	"github.com/Skotchmaster/internhub/pkg/events"
	"github.com/Skotchmaster/internhub/pkg/logging"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/internhub/pkg/middleware/logging"
	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/pkg/tokens"

	authcfg "github.com/Skotchmaster/internhub/services/auth/internal/config"
	"github.com/Skotchmaster/internhub/services/auth/internal/httpserver"
	"github.com/Skotchmaster/internhub/services/auth/internal/models"
	"github.com/Skotchmaster/internhub/services/auth/internal/repo"
	"github.com/Skotchmaster/internhub/services/auth/internal/service"
)

func main() {
	cfg := authcfg.Load("services/auth/.env")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	codec, err := tokens.NewCodec(cfg.Tokens)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL, models.All()...)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.EventsTopic)
	defer publisher.Close()

	r := &repo.GormRepo{DB: db}
	svc := service.NewSessionService(codec, r, map[roles.Role]service.Directory{
		roles.Company: service.CompanyDirectory{Repo: r},
	}, publisher)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	authenticator := authmw.NewAuthenticator(codec, svc)
	authenticator.Skipper = httpserver.SkipAuthenticator
	e.Use(authenticator.Middleware)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: svc, CookieSecure: cfg.CookieSecure},
		Repo:             r,
		AllowMissingPost: cfg.AllowMissingPost,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("auth listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
