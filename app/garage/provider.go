package garage

import (
	"fmt"
	"net/http"

	"github.com/km-arc/go-inject/framework/objectmanager"
	"github.com/km-arc/go-inject/framework/provider"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/framework/reflection"
	"github.com/km-arc/go-inject/routing"
)

// ServiceProvider registers the garage classes and, on boot, its routes:
//
//	GET /cars         → CarController, built fresh per request
//	GET /cars/shared  → CarController, the shared instance
type ServiceProvider struct {
	provider.BaseProvider

	// Horsepower is the default engine power. Zero means 150.
	Horsepower int
}

func (p *ServiceProvider) Register(classes *reflection.Registry) error {
	hp := p.Horsepower
	if hp == 0 {
		hp = 150
	}

	for _, c := range []struct {
		name   string
		target any
		opts   []reflection.Option
	}{
		{EngineClass, NewEngine, []reflection.Option{reflection.Default(0, hp)}},
		{CarClass, NewCar, []reflection.Option{reflection.Default(1, "alloy")}},
		{VehicleClass, (*Vehicle)(nil), nil},
		{GarageClass, NewGarage, []reflection.Option{reflection.Inject(1, providers.LoggerClass)}},
		{ControllerClass, NewCarController, nil},
	} {
		if err := classes.Class(c.name, c.target, c.opts...); err != nil {
			return err
		}
	}
	return nil
}

func (p *ServiceProvider) Boot(objects *objectmanager.ObjectManager) error {
	router, err := objectmanager.Singleton[*routing.Router](objects, providers.RouterClass)
	if err != nil {
		return fmt.Errorf("garage: %w", err)
	}
	router.Controller(http.MethodGet, "/cars", ControllerClass)
	router.SingletonController(http.MethodGet, "/cars/shared", ControllerClass)
	return nil
}
