package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"nimbus-web/internal/modules/weather/types"
)

//go:embed sql/list-zones.sql
var listZonesSQL string

//go:embed sql/list-cities.sql
var listCitiesSQL string

type DirectoryRepository interface {
	LoadDirectory(ctx context.Context) (*types.Directory, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) DirectoryRepository {
	return &repositoryImpl{db: db}
}

// LoadDirectory reads every zone with its cities, both in position order.
func (r *repositoryImpl) LoadDirectory(ctx context.Context) (*types.Directory, error) {
	zones, err := r.listZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	index := make(map[string]int, len(zones))
	for i, z := range zones {
		index[z.Key] = i
	}

	rows, err := r.db.QueryContext(ctx, listCitiesSQL)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close cities rows", "error", err)
		}
	}()
	for rows.Next() {
		var (
			zoneKey string
			c       types.City
		)
		if err := rows.Scan(&zoneKey, &c.Name, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		i, ok := index[zoneKey]
		if !ok {
			return nil, fmt.Errorf("city %q references unknown zone %q", c.Name, zoneKey)
		}
		zones[i].Cities = append(zones[i].Cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return types.NewDirectory(zones), nil
}

func (r *repositoryImpl) listZones(ctx context.Context) ([]types.Zone, error) {
	rows, err := r.db.QueryContext(ctx, listZonesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close zones rows", "error", err)
		}
	}()
	var out []types.Zone
	for rows.Next() {
		var z types.Zone
		if err := rows.Scan(&z.Key, &z.Label); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
