// Command transit-report signs in to a CampusHub API and prints e-hailing
// usage for the account's school, once or on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"campushub/internal/config"
	"campushub/internal/session"
	"campushub/internal/transport"
)

func main() {
	cfgPath := flag.String("config", "campushub.yml", "path to the client config")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.LoadClient(*cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.NewTokenSession()
	api := transport.NewHTTPClient(cfg.API.BaseURL, sess, &http.Client{Timeout: cfg.Timeout()})
	r := &reporter{cfg: cfg, api: api, sess: sess, store: transport.NewStore(api, sess), out: os.Stdout}

	if cfg.Schedule == "" {
		if err := r.run(ctx); err != nil {
			logrus.WithError(err).Fatal("report failed")
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		if err := r.run(ctx); err != nil {
			logrus.WithError(err).Error("report failed")
		}
	}); err != nil {
		logrus.WithError(err).Fatal("invalid schedule")
	}
	logrus.WithField("schedule", cfg.Schedule).Info("waiting for scheduled runs")
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
}

type reporter struct {
	cfg   config.ClientConfig
	api   transport.APIClient
	sess  *session.TokenSession
	store *transport.Store
	out   io.Writer
}

// run signs in when the session has lapsed, refreshes the store and prints.
func (r *reporter) run(ctx context.Context) error {
	if !r.sess.IsAuthenticated() {
		res, err := transport.Login(ctx, r.api, r.cfg.Credentials.Email, r.cfg.Credentials.Password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		r.store.Reset()
		if err := r.sess.SetToken(res.Token); err != nil {
			return fmt.Errorf("login token: %w", err)
		}
	}

	if msg := r.store.Refresh(ctx); msg != "" {
		logrus.WithField("error", msg).Warn("some collections failed to load")
	}
	return writeReport(r.out, r.store)
}
