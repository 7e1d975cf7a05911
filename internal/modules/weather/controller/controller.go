package controller

import (
	"context"
	"net/http"

	"nimbus-web/internal/events"
	"nimbus-web/internal/modules/weather/service"
	"nimbus-web/internal/modules/weather/types"
	"nimbus-web/internal/modules/weather/views"
	"nimbus-web/internal/navigation"
)

const defaultZone = "norte"

type WeatherService interface {
	LoadZone(ctx context.Context, base, key string) service.ZoneResult
	LoadLocation(ctx context.Context, base, clientIP string) service.LocationResult
}

// BaseResolver maps the request host to the upstream API base URL.
type BaseResolver func(host string) string

type WeatherController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type weatherControllerImpl struct {
	service     WeatherService
	directory   *types.Directory
	entries     []navigation.Entry
	resolveBase BaseResolver
	publisher   events.Publisher
}

func NewWeatherController(svc WeatherService, directory *types.Directory, resolveBase BaseResolver, publisher events.Publisher) WeatherController {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &weatherControllerImpl{
		service:     svc,
		directory:   directory,
		entries:     views.ZoneEntries(directory),
		resolveBase: resolveBase,
		publisher:   publisher,
	}
}

func (c *weatherControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handlePage)
	mux.HandleFunc("GET /partials/clima", c.handleZonePartial)
	mux.HandleFunc("GET /partials/ubicacion", c.handleLocationPartial)
	mux.HandleFunc("GET /api/v1/zonas", c.handleZones)
}
