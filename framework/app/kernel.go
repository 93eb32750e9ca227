package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/exception"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/metrics"
	"github.com/km-arc/go-inject/framework/objectmanager"
	"github.com/km-arc/go-inject/framework/provider"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/reflection"
	"github.com/km-arc/go-inject/routing"
)

// Version is the framework version reported by the CLI.
const Version = "0.1.0"

const shutdownTimeout = 5 * time.Second

// Application holds every framework component, built in dependency order by
// New.
type Application struct {
	Config    *config.Config
	Log       *slog.Logger
	Classes   *reflection.Registry
	Resolver  *container.Resolver
	Objects   *objectmanager.ObjectManager
	Providers *provider.Registry
	Metrics   *metrics.Collector

	// Gatherer is the Prometheus registry the collector is registered with.
	Gatherer *prometheus.Registry

	handlerOnce sync.Once
	handler     http.Handler
	handlerErr  error
}

type options struct {
	envFiles  []string
	logWriter io.Writer
	handler   exception.Handler
	providers []provider.ServiceProvider
}

// Option configures New.
type Option func(*options)

// WithEnvFiles sets the .env files to read. Defaults to ".env".
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithLogWriter sets where logs go. Defaults to os.Stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithHandler replaces the error handler built from configuration.
func WithHandler(h exception.Handler) Option {
	return func(o *options) { o.handler = h }
}

// WithProviders registers application providers after the framework ones.
func WithProviders(ps ...provider.ServiceProvider) Option {
	return func(o *options) { o.providers = append(o.providers, ps...) }
}

// New creates and wires the application:
//
//	config → logger → class table → metrics → resolver → handler → facade → providers
//
// Providers are registered but not booted.
func New(opts ...Option) (*Application, error) {
	o := options{logWriter: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Load(o.envFiles...)
	log := logging.New(cfg.Log, o.logWriter)

	classes := reflection.NewRegistry()
	gatherer := prometheus.NewRegistry()
	collector := metrics.New(gatherer)

	resolver := container.NewResolver(classes,
		container.WithLogger(log),
		container.WithObserver(collector),
	)

	handler := o.handler
	if handler == nil {
		handler = exception.FromConfig(cfg.Container, log)
	}
	objects := objectmanager.New(resolver, handler)

	a := &Application{
		Config:    cfg,
		Log:       log,
		Classes:   classes,
		Resolver:  resolver,
		Objects:   objects,
		Providers: provider.NewRegistry(classes, objects, log),
		Metrics:   collector,
		Gatherer:  gatherer,
	}

	core := []provider.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LogServiceProvider{Logger: log},
		&providers.ObjectManagerServiceProvider{Objects: objects},
		&providers.RoutingServiceProvider{},
	}
	for _, p := range append(core, o.providers...) {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(p provider.ServiceProvider) error {
	return a.Providers.Register(p)
}

// Boot runs the Boot phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Router returns the shared router.
func (a *Application) Router() (*routing.Router, error) {
	return objectmanager.Singleton[*routing.Router](a.Objects, providers.RouterClass)
}

// Handler boots the application if needed and returns the HTTP handler:
// the router plus /metrics and, in debug mode, /_container introspection.
// The handler is assembled once.
func (a *Application) Handler() (http.Handler, error) {
	a.handlerOnce.Do(func() {
		a.handler, a.handlerErr = a.buildHandler()
	})
	return a.handler, a.handlerErr
}

func (a *Application) buildHandler() (http.Handler, error) {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return nil, err
		}
	}
	router, err := a.Router()
	if err != nil {
		return nil, err
	}
	router.Mount("/metrics", metrics.Handler(a.Gatherer))
	if a.Config.App.Debug {
		router.Introspect("/_container", a.Resolver, a.Classes)
	}
	return router, nil
}

// Run serves HTTP on APP_PORT until ctx is cancelled, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	h, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.App.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server: listening",
			"app", a.Config.App.Name,
			"addr", srv.Addr,
			"env", a.Config.App.Env,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Config.IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config.App.Debug }
