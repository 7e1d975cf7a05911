package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"nimbus-web/internal/modules/weather/types"
	"nimbus-web/internal/upstream"
	"nimbus-web/internal/weathercode"
)

const (
	defaultLocationName = "Tu ubicación"
	noWeatherMessage    = "No hay datos de clima"
	timeoutMessage      = "Tiempo de espera agotado"
)

type CardStatus string

const (
	CardOK          CardStatus = "ok"
	CardError       CardStatus = "error"
	CardUnavailable CardStatus = "unavailable"
)

// Card is the outcome for one city of a zone pass.
type Card struct {
	City          string
	Status        CardStatus
	Temperature   float64
	Windspeed     float64
	Winddirection float64
	Icon          string
	Description   string
	Time          string
	// Message is set for CardError.
	Message string
}

type ZoneResult struct {
	Key   string
	Found bool
	// Cards follow directory order regardless of completion order.
	Cards []Card
}

// Count returns the number of cards with status s.
func (r ZoneResult) Count(s CardStatus) int {
	n := 0
	for _, c := range r.Cards {
		if c.Status == s {
			n++
		}
	}
	return n
}

type LocationResult struct {
	OK            bool
	City          string
	Temperature   float64
	Windspeed     float64
	Winddirection float64
	Icon          string
	Description   string
	// Message explains why the location card could not be built.
	Message string
}

type WeatherClient interface {
	CoordsWeather(ctx context.Context, base string, lat, lon float64) (upstream.WeatherResponse, error)
	IPWeather(ctx context.Context, base, clientIP string) (upstream.WeatherResponse, error)
}

type Service struct {
	directory *types.Directory
	client    WeatherClient
}

func NewService(directory *types.Directory, client WeatherClient) *Service {
	return &Service{directory: directory, client: client}
}

// LoadZone fetches every city of the zone concurrently and waits for all of
// them before returning. An unknown key issues no requests.
func (s *Service) LoadZone(ctx context.Context, base, key string) ZoneResult {
	cities, ok := s.directory.Resolve(key)
	if !ok {
		return ZoneResult{Key: key}
	}

	cards := make([]Card, len(cities))
	var g errgroup.Group
	for i, city := range cities {
		i, city := i, city
		g.Go(func() error {
			resp, err := s.client.CoordsWeather(ctx, base, city.Latitude, city.Longitude)
			cards[i] = cityCard(city.Name, resp, err)
			return nil
		})
	}
	// Goroutines never return an error; Wait is only the join.
	_ = g.Wait()

	return ZoneResult{Key: key, Found: true, Cards: cards}
}

func cityCard(name string, resp upstream.WeatherResponse, err error) Card {
	if err != nil {
		return Card{City: name, Status: CardError, Message: zoneErrorMessage(err)}
	}
	cur := resp.Current
	if cur == nil || cur.Temperature == nil {
		return Card{City: name, Status: CardUnavailable}
	}
	icon, desc := weathercode.ClassifyOptional(cur.Weathercode)
	return Card{
		City:          name,
		Status:        CardOK,
		Temperature:   *cur.Temperature,
		Windspeed:     cur.Windspeed,
		Winddirection: cur.Winddirection,
		Icon:          icon,
		Description:   desc,
		Time:          cur.Time,
	}
}

func zoneErrorMessage(err error) string {
	if code, ok := upstream.StatusCode(err); ok {
		return fmt.Sprintf("HTTP %d", code)
	}
	return transportMessage(err)
}

// LoadLocation fetches the weather for the caller's IP-derived location.
func (s *Service) LoadLocation(ctx context.Context, base, clientIP string) LocationResult {
	resp, err := s.client.IPWeather(ctx, base, clientIP)
	if err != nil {
		return LocationResult{Message: locationErrorMessage(err)}
	}
	cur := resp.Current
	if cur == nil || cur.Temperature == nil {
		return LocationResult{Message: noWeatherMessage}
	}
	city := resp.City
	if city == "" {
		city = defaultLocationName
	}
	icon, desc := weathercode.ClassifyOptional(cur.Weathercode)
	return LocationResult{
		OK:            true,
		City:          city,
		Temperature:   *cur.Temperature,
		Windspeed:     cur.Windspeed,
		Winddirection: cur.Winddirection,
		Icon:          icon,
		Description:   desc,
	}
}

func locationErrorMessage(err error) string {
	if code, ok := upstream.StatusCode(err); ok {
		return fmt.Sprintf("Error: %d", code)
	}
	return transportMessage(err)
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutMessage
	}
	return err.Error()
}
