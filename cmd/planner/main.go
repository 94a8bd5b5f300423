// Command planner drives the session core from a terminal against a running
// backend, signing in through the in-process dev identity provider.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/backendclient"
	"github.com/Overland-East-Bay/itinerary-planner/internal/adapters/badgercache"
	memidentity "github.com/Overland-East-Bay/itinerary-planner/internal/adapters/memory/identity"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/identitywatcher"
	"github.com/Overland-East-Bay/itinerary-planner/internal/app/session"
	platformclock "github.com/Overland-East-Bay/itinerary-planner/internal/platform/clock"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/config"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{stdout: stdout, stderr: stderr}
	a.runSession = a.liveSession

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// liveSession boots the session core against the configured backend and runs cmd.
func (a *app) liveSession(ctx context.Context, cmd command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logger.New(logger.Config{Writer: a.stderr, Format: logger.FormatText, Level: logger.ParseLevel(cfg.LogLevel)})
	return execute(ctx, cfg, log, a.acct, cmd, a.stdout, a.stderr)
}

type account struct {
	email    string
	password string
	name     string
}

func execute(ctx context.Context, cfg config.ClientConfig, log *slog.Logger, acct account, cmd command, stdout, stderr io.Writer) error {
	if acct.email == "" || acct.password == "" {
		return errors.New("--email and --password are required")
	}

	cache, err := badgercache.Open(cfg.CacheDir, log)
	if err != nil {
		return err
	}
	defer cache.Close()

	api, err := backendclient.New(cfg.APIBaseURL, backendclient.WithTimeout(cfg.HTTPTimeout), backendclient.WithLogger(log))
	if err != nil {
		return err
	}

	clk := platformclock.NewSystemClock()
	idp := memidentity.New(clk)
	store := session.New(session.Deps{
		Cache:       cache,
		Itineraries: api,
		Generator:   api,
		Answerer:    api,
		Profiles:    api,
		Identity:    idp,
		Clock:       clk,
		Logger:      log,
	})

	obs := newObserver()
	defer store.Subscribe(obs)()

	store.Bootstrap(ctx)
	if u := store.Snapshot().User; u != nil {
		log.Debug("restored cached user", slog.String("email", u.Email))
	}

	w := identitywatcher.New(idp, store, clk, log)
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close()

	// The dev provider starts empty in every process, so the account is created on the fly.
	if err := store.SignUp(ctx, acct.email, acct.password, acct.name); err != nil {
		return err
	}
	if err := obs.waitFor(ctx, store, func(s session.Session) bool {
		return s.User != nil && s.ListState == session.ListReady
	}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		defer close(done)
		return cmd.run(gctx, store, stdout)
	})
	g.Go(func() error {
		for {
			select {
			case werr := <-obs.warnings:
				fmt.Fprintf(stderr, "warning: %v\n", werr)
			case <-done:
				return nil
			}
		}
	})
	return g.Wait()
}

// observer turns session callbacks into channel signals for the CLI.
type observer struct {
	changed  chan struct{}
	warnings chan error
}

func newObserver() *observer {
	return &observer{changed: make(chan struct{}, 1), warnings: make(chan error, 8)}
}

func (o *observer) SessionChanged(session.Session) {
	select {
	case o.changed <- struct{}{}:
	default:
	}
}

func (o *observer) Warning(err error) {
	select {
	case o.warnings <- err:
	default:
	}
}

func (o *observer) waitFor(ctx context.Context, s *session.Store, cond func(session.Session) bool) error {
	for {
		if cond(s.Snapshot()) {
			return nil
		}
		select {
		case <-o.changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
