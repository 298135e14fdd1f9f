package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	gatewayservice "matrixgate/contexts/matrix-core/gateway-service"
	"matrixgate/contexts/matrix-core/gateway-service/adapters/backendhttp"
	"matrixgate/contexts/matrix-core/gateway-service/adapters/memory"
	"matrixgate/contexts/matrix-core/gateway-service/application"
	"matrixgate/internal/platform/config"
	"matrixgate/internal/platform/httpserver"
	"matrixgate/internal/platform/messaging"
	"matrixgate/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	bus    *messaging.Bus
	logger *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	backend := backendhttp.NewClient(cfg.MatrixBaseURL, cfg.RequestTimeout, cfg.EnableVerbFallback, logger)
	bus := messaging.NewBus(logger)

	module := gatewayservice.NewModule(gatewayservice.Dependencies{
		Backend:          backend,
		Bus:              bus,
		Clock:            memory.SystemClock{},
		ServiceName:      cfg.ServiceName,
		Container:        cfg.Container,
		FallbackArtifact: cfg.FallbackArtifact,
		Logger:           logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		bus:    bus,
		logger: logger,
	}, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	if err := a.bus.Subscribe(ctx, application.OperationsTopic, a.auditOperation); err != nil {
		return err
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

// auditOperation is the one in-process consumer of operation events: it
// writes an audit line per completed operation.
func (a *APIApp) auditOperation(_ context.Context, event events.Envelope) error {
	a.logger.Info("operation completed",
		"event", "operation_audit",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"entity_id", event.EntityID,
		"occurred_at", event.OccurredAtUTC,
	)
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
