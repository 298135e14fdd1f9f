package gatewayservice

import (
	"log/slog"

	httpadapter "matrixgate/contexts/matrix-core/gateway-service/adapters/http"
	"matrixgate/contexts/matrix-core/gateway-service/adapters/memory"
	"matrixgate/contexts/matrix-core/gateway-service/application"
	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Backend *memory.Backend
}

type Dependencies struct {
	Backend          ports.BackendClient
	Bus              ports.EventBus
	Clock            ports.Clock
	ServiceName      string
	Container        string
	FallbackArtifact string
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Backend:          deps.Backend,
		Bus:              deps.Bus,
		Clock:            deps.Clock,
		Logger:           deps.Logger,
		ServiceName:      deps.ServiceName,
		Container:        deps.Container,
		FallbackArtifact: deps.FallbackArtifact,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the fake backend, primarily
// for tests and local development without a matrix backend.
func NewInMemoryModule(logger *slog.Logger) Module {
	backend := memory.NewBackend()
	module := NewModule(Dependencies{
		Backend:          backend,
		Clock:            memory.SystemClock{},
		ServiceName:      "matrixgate",
		Container:        "matrices",
		FallbackArtifact: "initial-matrix.b64",
		Logger:           logger,
	})
	module.Backend = backend
	return module
}
