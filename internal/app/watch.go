package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.trai.ch/sculpt/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Debounce is the quiet period after the last file event before a pass runs.
	Debounce time.Duration
	// MetricsAddr serves Prometheus metrics on /metrics when not empty.
	MetricsAddr string
}

// Watch runs an initial pass, then re-runs a pass whenever files below the project root
// settle after a change. It returns when ctx is done.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = a.opts.Watch.Debounce
	}
	if opts.MetricsAddr == "" {
		opts.MetricsAddr = a.opts.Watch.MetricsAddr
	}

	if opts.MetricsAddr != "" {
		stop, err := a.serveMetrics(opts.MetricsAddr)
		if err != nil {
			return err
		}
		defer stop()
	}

	outcome, err := a.engine.RunPass(ctx)
	if err != nil {
		return zerr.Wrap(err, "invalidation pass failed")
	}
	newReporter(a.out).pass(outcome, nil)

	if err := a.watcher.Start(ctx, a.opts.Root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start watcher"), "root", a.opts.Root)
	}
	defer func() { _ = a.watcher.Stop() }()

	debouncer := watcher.NewDebouncer(opts.Debounce)
	defer debouncer.Stop()
	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching " + a.opts.Root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debouncer.Ready():
		}

		changed := debouncer.Take()
		if len(changed) == 0 {
			continue
		}
		a.logger.Debug(fmt.Sprintf("%d paths changed, first %s", len(changed), changed[0]))

		select {
		case <-ctx.Done():
			return nil
		case res := <-a.engine.Trigger(ctx):
			if res.Err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error(res.Err)
				continue
			}
			affected := a.engine.Project().Graph().AffectedSet(res.Outcome.Dirty)
			newReporter(a.out).pass(res.Outcome, affected)
		}
	}
}

// serveMetrics starts the metrics endpoint and returns a function shutting it down.
func (a *App) serveMetrics(addr string) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to listen for metrics"), "addr", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metricsHandler)
	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: shutdownTimeout,
	}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(zerr.With(zerr.Wrap(err, "metrics server failed"), "addr", addr))
		}
	}()
	a.logger.Info("serving metrics on " + ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
