package main

import (
	"github.com/hibiken/asynq"

	countryJob "country-currency-api/internal/domains/country/job"
	"country-currency-api/internal/shared"
	"country-currency-api/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	refreshCountries *countryJob.RefreshHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		refreshCountries: countryJob.NewRefreshHandler(c.RefreshService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (r *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeRefreshCountries, r.refreshCountries)
}
