package app

import (
	"github.com/km-arc/go-inject/app/garage"
	"github.com/km-arc/go-inject/framework/provider"
)

// Providers lists the application's service providers in registration order.
func Providers() []provider.ServiceProvider {
	return []provider.ServiceProvider{
		&garage.ServiceProvider{},
	}
}
