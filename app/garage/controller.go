package garage

import (
	"net/http"

	gohttp "github.com/km-arc/go-inject/http"
)

// CarController serves the car it was built with.
type CarController struct {
	Car *Car
}

// NewCarController builds a controller around c.
func NewCarController(c *Car) *CarController {
	return &CarController{Car: c}
}

func (c *CarController) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(map[string]any{
		"car":         c.Car,
		"description": c.Car.Describe(),
	})
}
