package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"nimbus-web/internal/events"
	"nimbus-web/internal/modules/weather/service"
	"nimbus-web/internal/modules/weather/views"
	"nimbus-web/internal/navigation"
	"nimbus-web/internal/utils"
)

func zoneKey(r *http.Request) string {
	key := navigation.Normalize(r.URL.Query().Get("zona"))
	if key == "" {
		return defaultZone
	}
	return key
}

func (c *weatherControllerImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	key := zoneKey(r)
	_, known := c.directory.Resolve(key)

	c.render(w, "weather page", func(buf io.Writer) error {
		return views.RenderPage(buf, views.NewPageData(c.entries, key, known))
	})
}

func (c *weatherControllerImpl) handleZonePartial(w http.ResponseWriter, r *http.Request) {
	key := zoneKey(r)
	start := time.Now()

	res := c.service.LoadZone(r.Context(), c.resolveBase(r.Host), key)
	if !c.render(w, "zone partial", func(buf io.Writer) error {
		return views.RenderZonePartial(buf, views.NewZoneData(c.entries, res))
	}) {
		return
	}

	outcome := "rendered"
	if !res.Found {
		outcome = "not_found"
		slog.Warn("zone not found", "zona", key)
	}
	failed := res.Count(service.CardError) + res.Count(service.CardUnavailable)
	c.publish(r.Context(), events.NewRenderEvent(events.PanelZone, key, outcome, res.Count(service.CardOK), failed, time.Since(start)))
}

func (c *weatherControllerImpl) handleLocationPartial(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res := c.service.LoadLocation(r.Context(), c.resolveBase(r.Host), utils.ClientIP(r))
	if !c.render(w, "location partial", func(buf io.Writer) error {
		return views.RenderLocationPartial(buf, res)
	}) {
		return
	}

	outcome, cards, failed := "rendered", 1, 0
	if !res.OK {
		outcome, cards, failed = "failed", 0, 1
		slog.Info("location weather unavailable", "reason", res.Message)
	}
	c.publish(r.Context(), events.NewRenderEvent(events.PanelLocation, "", outcome, cards, failed, time.Since(start)))
}

func (c *weatherControllerImpl) handleZones(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.directory.Zones())
}

// render executes fn into a buffer so a failed template never leaves a
// half-written response. It reports whether the response was written.
func (c *weatherControllerImpl) render(w http.ResponseWriter, name string, fn func(io.Writer) error) bool {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		slog.Error(name+" render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return false
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
	return true
}

func (c *weatherControllerImpl) publish(ctx context.Context, ev events.RenderEvent) {
	err := c.publisher.Publish(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, events.ErrNotConnected):
		slog.Debug("render event dropped", "panel", ev.Panel, "error", err)
	default:
		slog.Warn("render event publish failed", "panel", ev.Panel, "error", err)
	}
}
