package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/internhub/gateway/internal/config"
	"github.com/Skotchmaster/internhub/gateway/internal/httpserver"
	"github.com/Skotchmaster/internhub/pkg/authclient"
	pkgconfig "github.com/Skotchmaster/internhub/pkg/config"
	"github.com/Skotchmaster/internhub/pkg/logging"
	authmw "github.com/Skotchmaster/internhub/pkg/middleware/auth"
	"github.com/Skotchmaster/internhub/pkg/tokens"
)

func main() {
	pkgconfig.LoadDotEnv("gateway/.env")
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", "gateway")
	slog.SetDefault(logger)

	codec, err := tokens.NewCodec(cfg.Tokens)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	if err := httpserver.Register(e, &httpserver.Deps{
		AuthURL:       cfg.AuthURL,
		APIURL:        cfg.APIURL,
		Authenticator: authmw.NewAuthenticator(codec, authclient.NewClient(cfg.AuthURL)),
		Logger:        logger,
	}); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
