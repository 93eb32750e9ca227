package providers

import (
	"log/slog"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/objectmanager"
	"github.com/km-arc/go-inject/framework/provider"
	"github.com/km-arc/go-inject/framework/reflection"
	"github.com/km-arc/go-inject/routing"
)

// Class names registered by the framework providers.
const (
	ConfigClass        = `Framework\Config`
	LoggerClass        = `Framework\Log\Logger`
	ObjectManagerClass = `Framework\ObjectManager`
	RouterClass        = `Framework\Routing\Router`
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider exposes the loaded configuration as a class so
// application constructors can take a *config.Config parameter.
//
// Registered classes:
//   - `Framework\Config` → *config.Config
type ConfigServiceProvider struct {
	provider.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(classes *reflection.Registry) error {
	cfg := p.Config
	return classes.Class(ConfigClass, func() *config.Config { return cfg })
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider exposes the application logger.
//
// Registered classes:
//   - `Framework\Log\Logger` → *slog.Logger
type LogServiceProvider struct {
	provider.BaseProvider
	Logger *slog.Logger
}

func (p *LogServiceProvider) Register(classes *reflection.Registry) error {
	log := p.Logger
	return classes.Class(LoggerClass, func() *slog.Logger { return log })
}

// ── ObjectManagerServiceProvider ──────────────────────────────────────────────

// ObjectManagerServiceProvider exposes the facade itself, so classes that
// build other classes on demand can depend on it.
//
// Registered classes:
//   - `Framework\ObjectManager` → *objectmanager.ObjectManager
type ObjectManagerServiceProvider struct {
	provider.BaseProvider
	Objects *objectmanager.ObjectManager
}

func (p *ObjectManagerServiceProvider) Register(classes *reflection.Registry) error {
	objects := p.Objects
	return classes.Class(ObjectManagerClass, func() *objectmanager.ObjectManager { return objects })
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. It is deferred: the
// router class only exists once something asks for it.
//
// Registered classes:
//   - `Framework\Routing\Router` → *routing.Router (built by routing.New,
//     which takes `Framework\ObjectManager`)
type RoutingServiceProvider struct {
	provider.BaseProvider
}

func (p *RoutingServiceProvider) Register(classes *reflection.Registry) error {
	return classes.Class(RouterClass, routing.New, reflection.Inject(0, ObjectManagerClass))
}

func (p *RoutingServiceProvider) IsDeferred() bool   { return true }
func (p *RoutingServiceProvider) Provides() []string { return []string{RouterClass} }
