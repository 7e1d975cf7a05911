package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nimbus-web/internal/config"
	"nimbus-web/internal/db"
	"nimbus-web/internal/events"
	"nimbus-web/internal/httpapi"
	"nimbus-web/internal/migrate"
	"nimbus-web/internal/modules/news"
	newsviews "nimbus-web/internal/modules/news/views"
	"nimbus-web/internal/modules/weather"
	weatherviews "nimbus-web/internal/modules/weather/views"
	"nimbus-web/internal/tracing"
	"nimbus-web/internal/upstream"
)

const (
	mqttConnectTimeout = 5 * time.Second
	shutdownTimeout    = 10 * time.Second
)

func Run(ctx context.Context, cfg config.Config, serviceName string) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"apiBaseURL", cfg.APIBaseURL,
		"apiRemoteBase", cfg.APIRemoteBase,
		"apiLocalBase", cfg.APILocalBase,
		"fetchTimeout", cfg.FetchTimeout,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
		"zipkinEndpoint", cfg.ZipkinEndpoint,
	)

	dbConn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	shutdownTracing, err := tracing.Setup(cfg, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("tracing shutdown", "error", err)
		}
	}()

	client := upstream.NewClient(&http.Client{}, cfg.FetchTimeout)
	resolveBase := func(host string) string {
		return upstream.ResolveBase(cfg, host)
	}

	publisher, disconnect := newPublisher(ctx, cfg)
	defer disconnect()

	if err := weatherviews.LoadTemplates(); err != nil {
		return err
	}
	if err := newsviews.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(dbConn, cfg.StaticDir)
	if err := weather.RegisterFeature(ctx, mux, dbConn, client, resolveBase, publisher); err != nil {
		return err
	}
	news.RegisterFeature(mux, client, resolveBase, publisher)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// newPublisher connects the render event publisher. A broker that is down
// at startup does not stop the server; paho keeps retrying in the background.
func newPublisher(ctx context.Context, cfg config.Config) (events.Publisher, func()) {
	if cfg.MQTTBroker == "" {
		slog.Info("render events disabled (no MQTT_BROKER)")
		return events.Nop{}, func() {}
	}

	p := events.NewMQTTPublisher(cfg, slog.Default())
	connectCtx, cancel := context.WithTimeout(ctx, mqttConnectTimeout)
	err := p.Connect(connectCtx)
	cancel()
	if err != nil {
		slog.Warn("mqtt connection failed (continuing without render events)", "error", err)
	}
	return p, func() {
		slog.Info("mqtt disconnecting")
		p.Disconnect()
	}
}
