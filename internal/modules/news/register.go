package news

import (
	"net/http"

	"nimbus-web/internal/events"
	"nimbus-web/internal/modules/news/controller"
	"nimbus-web/internal/modules/news/service"
	"nimbus-web/internal/upstream"
)

func RegisterFeature(mux *http.ServeMux, client *upstream.Client, resolveBase func(host string) string, publisher events.Publisher) {
	newsService := service.NewService(client)
	newsController := controller.NewNewsController(newsService, resolveBase, publisher)
	newsController.RegisterRoutes(mux)
}
