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
	"nimbus-web/internal/modules/news/service"
	"nimbus-web/internal/modules/news/views"
	"nimbus-web/internal/navigation"
	"nimbus-web/internal/utils"
)

type NewsService interface {
	Load(ctx context.Context, base, category string) service.Result
}

type NewsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type newsControllerImpl struct {
	service     NewsService
	resolveBase func(host string) string
	publisher   events.Publisher
}

func NewNewsController(svc NewsService, resolveBase func(host string) string, publisher events.Publisher) NewsController {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &newsControllerImpl{service: svc, resolveBase: resolveBase, publisher: publisher}
}

func (c *newsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /noticias", c.handlePage)
	mux.HandleFunc("GET /partials/noticias", c.handleNewsPartial)
}

func category(r *http.Request) string {
	cat := navigation.Normalize(r.URL.Query().Get("cat"))
	if cat == "" {
		return service.DefaultCategory
	}
	return cat
}

func (c *newsControllerImpl) handlePage(w http.ResponseWriter, r *http.Request) {
	c.render(w, "news page", func(buf io.Writer) error {
		return views.RenderPage(buf, views.NewPageData(category(r)))
	})
}

func (c *newsControllerImpl) handleNewsPartial(w http.ResponseWriter, r *http.Request) {
	cat := category(r)
	start := time.Now()

	res := c.service.Load(r.Context(), c.resolveBase(r.Host), cat)
	if !c.render(w, "news partial", func(buf io.Writer) error {
		return views.RenderNewsPartial(buf, views.NewNewsData(res))
	}) {
		return
	}

	failed := 0
	if res.Outcome == service.OutcomeFailed {
		failed = 1
		slog.Warn("news load failed", "cat", cat, "reason", res.Message)
	}
	c.publish(r.Context(), events.NewRenderEvent(events.PanelNews, cat, string(res.Outcome), len(res.Items), failed, time.Since(start)))
}

func (c *newsControllerImpl) render(w http.ResponseWriter, name string, fn func(io.Writer) error) bool {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		slog.Error(name+" render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return false
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
	return true
}

func (c *newsControllerImpl) publish(ctx context.Context, ev events.RenderEvent) {
	err := c.publisher.Publish(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, events.ErrNotConnected):
		slog.Debug("render event dropped", "panel", ev.Panel, "error", err)
	default:
		slog.Warn("render event publish failed", "panel", ev.Panel, "error", err)
	}
}
