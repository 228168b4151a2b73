package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"campushub/internal/cache"
	"campushub/internal/config"
	"campushub/internal/controllers"
	"campushub/internal/logger"
	"campushub/internal/middleware"
	"campushub/internal/realtime"
	"campushub/internal/routes"
	"campushub/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run() error {
	cfg := config.LoadServer()
	rotator := logger.Setup(cfg.LogFile, cfg.LogLevel, true)
	defer rotator.Close()

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		return err
	}

	hub := realtime.NewHub()
	defer hub.Close()

	opts := []controllers.Option{controllers.WithHub(hub)}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts = append(opts, controllers.WithCache(rc, cfg.CacheTTL))
	} else {
		logrus.Info("REDIS_URL not set, list caching disabled")
	}

	if cfg.S3.Enabled() {
		images, err := storage.NewS3Store(cfg.S3)
		if err != nil {
			return err
		}
		opts = append(opts, controllers.WithImages(images))
	} else {
		logrus.Info("S3 not configured, stop image uploads disabled")
	}

	ctl := controllers.New(db, middleware.NewAuth(cfg.JWTSecret, cfg.TokenTTL), opts...)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.EnableCORS(routes.SetupRouter(ctl)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("server running at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	logrus.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
