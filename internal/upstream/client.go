// Package upstream is the HTTP client for the Nimbus weather/news API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"nimbus-web/internal/config"
)

const tracerName = "nimbus-web/upstream"

// APIKeyMissing is the sentinel the news endpoint returns when the server
// has no NewsAPI key configured.
const APIKeyMissing = "API_KEY_MISSING"

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// CurrentWeather is the reading the API reports under current_weather.
type CurrentWeather struct {
	Temperature   *float64 `json:"temperature"`
	Windspeed     float64  `json:"windspeed"`
	Winddirection float64  `json:"winddirection"`
	Weathercode   *int     `json:"weathercode"`
	Time          string   `json:"time"`
}

// UnmarshalJSON accepts any JSON number for weathercode. Integral values
// such as 3.0 become the code; fractional ones decode as no code.
func (cw *CurrentWeather) UnmarshalJSON(data []byte) error {
	type reading CurrentWeather
	var raw struct {
		reading
		Weathercode *float64 `json:"weathercode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*cw = CurrentWeather(raw.reading)
	cw.Weathercode = nil
	if f := raw.Weathercode; f != nil && *f == math.Trunc(*f) && math.Abs(*f) <= math.MaxInt32 {
		code := int(*f)
		cw.Weathercode = &code
	}
	return nil
}

// WeatherResponse is a decoded weather payload. Current is nil when the
// payload has no current_weather object at either level.
type WeatherResponse struct {
	Current *CurrentWeather
	City    string
}

type weatherPayload struct {
	CurrentWeather *CurrentWeather `json:"current_weather"`
	Weather        *struct {
		CurrentWeather *CurrentWeather `json:"current_weather"`
	} `json:"weather"`
	City string `json:"city"`
}

func (p weatherPayload) response() WeatherResponse {
	cur := p.CurrentWeather
	if p.Weather != nil && p.Weather.CurrentWeather != nil {
		cur = p.Weather.CurrentWeather
	}
	return WeatherResponse{Current: cur, City: p.City}
}

type NewsItem struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Fuente      string `json:"fuente"`
	Fecha       string `json:"fecha"`
	URL         string `json:"url"`
}

// NewsResponse is a decoded news payload. Error carries the sentinel, if any.
type NewsResponse struct {
	Error    string
	Noticias []NewsItem
}

// newsPayload defers decoding so the sentinel is seen even when the other
// fields are malformed.
type newsPayload struct {
	Error    json.RawMessage `json:"error"`
	Noticias json.RawMessage `json:"noticias"`
}

func (p newsPayload) response() (NewsResponse, error) {
	var out NewsResponse
	if len(p.Error) > 0 {
		// a non-string error field is not the sentinel
		_ = json.Unmarshal(p.Error, &out.Error)
		if out.Error == APIKeyMissing {
			return out, nil
		}
	}
	if len(p.Noticias) > 0 {
		if err := json.Unmarshal(p.Noticias, &out.Noticias); err != nil {
			return NewsResponse{}, fmt.Errorf("noticias: %w", err)
		}
	}
	return out, nil
}

// Client calls the API. Every call is bounded by the caller's context and,
// when Timeout is positive, by a per-request deadline.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
}

func NewClient(httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		timeout:    timeout,
		tracer:     otel.Tracer(tracerName),
	}
}

// CoordsWeather fetches the current weather for a coordinate pair.
func (c *Client) CoordsWeather(ctx context.Context, base string, lat, lon float64) (WeatherResponse, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	var p weatherPayload
	if err := c.getJSON(ctx, base+"/api/meteo/coords?"+q.Encode(), nil, &p); err != nil {
		return WeatherResponse{}, err
	}
	return p.response(), nil
}

// IPWeather fetches the weather for the location the API derives from the
// caller's IP. clientIP, when set, is forwarded as X-Forwarded-For.
func (c *Client) IPWeather(ctx context.Context, base, clientIP string) (WeatherResponse, error) {
	var header http.Header
	if clientIP != "" {
		header = http.Header{"X-Forwarded-For": []string{clientIP}}
	}
	var p weatherPayload
	if err := c.getJSON(ctx, base+"/api/meteo/ip", header, &p); err != nil {
		return WeatherResponse{}, err
	}
	return p.response(), nil
}

// News fetches the articles for category.
func (c *Client) News(ctx context.Context, base, category string) (NewsResponse, error) {
	rawURL := base + "/api/noticias/" + url.PathEscape(category)
	var p newsPayload
	if err := c.getJSON(ctx, rawURL, nil, &p); err != nil {
		return NewsResponse{}, err
	}
	out, err := p.response()
	if err != nil {
		return NewsResponse{}, fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, header http.Header, dst any) (err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "upstream.get", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(attribute.String("http.url", rawURL))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("upstream request failed", "url", rawURL, "error", err)
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("close upstream body", "error", cerr)
		}
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	slog.Debug("upstream response",
		"url", rawURL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// StatusCode reports the HTTP status carried by err, if it wraps a StatusError.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

var remoteHostMarkers = []string{"render", "onrender", "vercel.app"}

// ResolveBase picks the API base URL for a request served on host. An
// explicit APIBaseURL always wins; otherwise hosted deployments use the
// remote base and everything else the local one.
func ResolveBase(cfg config.Config, host string) string {
	if cfg.APIBaseURL != "" {
		return cfg.APIBaseURL
	}
	h := strings.ToLower(host)
	for _, m := range remoteHostMarkers {
		if strings.Contains(h, m) {
			return cfg.APIRemoteBase
		}
	}
	return cfg.APILocalBase
}
