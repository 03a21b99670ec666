// Package app assembles the cache, Gateway client, store and report service
// from configuration. Both the HTTP server and the CLI start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/advcompro/garage-dashboard/internal/cache"
	"github.com/advcompro/garage-dashboard/internal/config"
	"github.com/advcompro/garage-dashboard/internal/domain"
	"github.com/advcompro/garage-dashboard/internal/gateway"
	"github.com/advcompro/garage-dashboard/internal/metrics"
	"github.com/advcompro/garage-dashboard/internal/notify"
	"github.com/advcompro/garage-dashboard/internal/report"
	"github.com/advcompro/garage-dashboard/internal/store"
	"go.uber.org/zap"
)

type App struct {
	Config    *config.Config
	KV        cache.KV
	Snapshots *cache.SnapshotStore
	Gateway   *gateway.Client
	Store     *store.Store
	Reports   *report.Service
	// Metrics is nil when metrics are disabled
	Metrics *metrics.Metrics
	// Notifier is nil when notifications are disabled
	Notifier *notify.Notifier

	unsubscribe []func()
	logger      *zap.Logger
}

// Option adjusts assembly, mainly for tests
type Option func(*options)

type options struct {
	kv      cache.KV
	sender  notify.Sender
	gwOpts  []gateway.Option
	noHydra bool
}

// WithKV uses kv instead of opening the configured backend
func WithKV(kv cache.KV) Option {
	return func(o *options) { o.kv = kv }
}

// WithSender replaces the Twilio sender
func WithSender(s notify.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithGatewayOptions passes options through to the Gateway client
func WithGatewayOptions(opts ...gateway.Option) Option {
	return func(o *options) { o.gwOpts = append(o.gwOpts, opts...) }
}

// WithoutHydrate skips restoring the store from the snapshot
func WithoutHydrate() Option {
	return func(o *options) { o.noHydra = true }
}

// New builds the application and hydrates the store from the cache. A cache
// read failure is logged and the store starts empty.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg, logger: logger}

	kv := o.kv
	if kv == nil {
		var err error
		kv, err = cache.New(ctx, &cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	a.KV = kv
	a.Snapshots = cache.NewSnapshotStore(kv, cfg.Cache.Namespace, logger)
	logger.Info("Cache initialized",
		zap.String("mode", cfg.Cache.Mode),
		zap.String("key", a.Snapshots.Key()),
	)

	gwOpts := o.gwOpts
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New()
		gwOpts = append(gwOpts, gateway.WithObserver(a.Metrics.ObserveGateway))
	}

	client, err := gateway.NewClient(&cfg.Gateway, logger, gwOpts...)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	a.Gateway = client

	a.Store = store.New(client, a.Snapshots, logger)
	if a.Metrics != nil {
		a.unsubscribe = append(a.unsubscribe, a.Store.Subscribe(a.Metrics.ObserveStore))
	}

	if cfg.Notify.Enabled {
		sender := o.sender
		if sender == nil {
			sender, err = notify.NewTwilioSender(&cfg.Notify)
			if err != nil {
				_ = kv.Close()
				return nil, fmt.Errorf("failed to initialize notifications: %w", err)
			}
		}
		a.Notifier = notify.NewNotifier(sender, cfg.Notify.Template, logger)
		a.unsubscribe = append(a.unsubscribe, a.Store.Subscribe(a.Notifier.Handle))
		logger.Info("Ready notifications enabled")
	}

	a.Reports = report.NewService(
		client,
		a.Store,
		a.Snapshots,
		domain.ReportSource(cfg.Report.Source),
		report.Capacity{FixingCars: cfg.Shop.FixingCapacity, Mechanics: cfg.Shop.MechanicCapacity},
		logger,
	)

	if !o.noHydra {
		if err := a.Store.Hydrate(ctx); err != nil {
			logger.Warn("Failed to hydrate store from cache, starting empty", zap.Error(err))
		}
	}

	return a, nil
}

// Close waits for pending notifications and releases the cache backend
func (a *App) Close() error {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	if a.Notifier != nil {
		a.Notifier.Close()
	}
	var errs []error
	if err := a.KV.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
	}
	return errors.Join(errs...)
}
