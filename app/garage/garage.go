// Package garage is the sample application wired through the container: an
// Engine, a Car built around it and a controller that reports on both.
package garage

import (
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Class names.
const (
	EngineClass     = `App\Garage\Engine`
	CarClass        = `App\Garage\Car`
	VehicleClass    = `App\Garage\Vehicle`
	GarageClass     = `App\Garage\Garage`
	ControllerClass = `App\Garage\CarController`
)

var serials atomic.Int64

// Engine has no dependencies. Each instance gets the next serial number so
// callers can tell instances apart.
type Engine struct {
	Serial     int64 `json:"serial"`
	Horsepower int   `json:"horsepower"`
}

// NewEngine returns an engine with the next serial number.
func NewEngine(horsepower int) *Engine {
	return &Engine{Serial: serials.Add(1), Horsepower: horsepower}
}

// Vehicle is abstract. Resolving it fails with ErrClassNotInstantiable.
type Vehicle interface {
	Describe() string
}

// Car depends on an Engine and takes its wheel type from a default.
type Car struct {
	Engine *Engine `json:"engine"`
	Wheels string  `json:"wheels"`
}

// NewCar builds a car around e.
func NewCar(e *Engine, wheels string) *Car {
	return &Car{Engine: e, Wheels: wheels}
}

func (c *Car) Describe() string {
	return fmt.Sprintf("car #%d (%d hp, %s wheels)", c.Engine.Serial, c.Engine.Horsepower, c.Wheels)
}

// Garage holds a car and the application logger.
type Garage struct {
	Car *Car
	log *slog.Logger
}

// NewGarage builds a garage around c.
func NewGarage(c *Car, log *slog.Logger) *Garage {
	return &Garage{Car: c, log: log}
}

// Open logs the car on display and returns its description.
func (g *Garage) Open() string {
	d := g.Car.Describe()
	g.log.Info("garage: open", "car", d)
	return d
}
