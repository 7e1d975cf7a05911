package weather

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"nimbus-web/internal/events"
	"nimbus-web/internal/modules/weather/controller"
	"nimbus-web/internal/modules/weather/repository"
	"nimbus-web/internal/modules/weather/service"
	"nimbus-web/internal/upstream"
)

// RegisterFeature loads the zone directory snapshot and mounts the weather
// page, its partials and the zone listing on mux.
func RegisterFeature(ctx context.Context, mux *http.ServeMux, db *sql.DB, client *upstream.Client, resolveBase controller.BaseResolver, publisher events.Publisher) error {
	directory, err := repository.NewRepository(db).LoadDirectory(ctx)
	if err != nil {
		return fmt.Errorf("load zone directory: %w", err)
	}
	zones := directory.Zones()
	cities := 0
	for _, z := range zones {
		cities += len(z.Cities)
	}
	slog.Info("zone directory loaded", "zones", len(zones), "cities", cities)

	weatherService := service.NewService(directory, client)
	weatherController := controller.NewWeatherController(weatherService, directory, resolveBase, publisher)
	weatherController.RegisterRoutes(mux)
	return nil
}
