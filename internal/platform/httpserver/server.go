package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	gatewayservice "matrixgate/contexts/matrix-core/gateway-service"
	gatewayerrors "matrixgate/contexts/matrix-core/gateway-service/domain/errors"
	"matrixgate/contexts/matrix-core/gateway-service/ports"
	gatewayhttp "matrixgate/contexts/matrix-core/gateway-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "matrixgate/internal/platform/httpserver/docs"
)

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	gateway gatewayservice.Module
}

func New(gateway gatewayservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		gateway: gateway,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/matrix/analyze", s.handleAnalyze)
	s.mux.HandleFunc("POST /api/matrix/cycle/find", s.handleFindCycle)
	s.mux.HandleFunc("POST /api/matrix/payment", s.handlePayment)
	s.mux.HandleFunc("GET /api/matrix/artifacts", s.handleListArtifacts)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req gatewayhttp.AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.gateway.Handler.AnalyzeHandler(r.Context(), resolvePrincipal(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFindCycle(w http.ResponseWriter, r *http.Request) {
	var req gatewayhttp.CycleFindRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.gateway.Handler.FindCycleHandler(r.Context(), resolvePrincipal(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req gatewayhttp.PaymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.gateway.Handler.PaymentHandler(r.Context(), resolvePrincipal(r), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.gateway.Handler.ListArtifactsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolvePrincipal reads the claim headers injected by the authenticating
// reverse proxy. Identity establishment is outside this process; absent
// headers resolve to the unknown identity downstream.
func resolvePrincipal(r *http.Request) ports.Principal {
	return ports.Principal{
		UPN:               r.Header.Get("X-Auth-Upn"),
		PreferredUsername: r.Header.Get("X-Auth-Preferred-Username"),
		Email:             r.Header.Get("X-Auth-Email"),
		Name:              r.Header.Get("X-Auth-Name"),
	}
}

// decodeBody decodes a JSON request body, keeping numbers raw so amount
// validation can see fractional digits. An empty body is an empty request.
func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gatewayerrors.ErrValidationFailed):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, gatewayerrors.ErrBackendRejected):
		writeError(w, http.StatusBadGateway, "backend_rejected", err.Error())
	case errors.Is(err, gatewayerrors.ErrBackendFaulted):
		writeError(w, http.StatusBadGateway, "backend_faulted", err.Error())
	case errors.Is(err, gatewayerrors.ErrBackendUnreachable):
		writeError(w, http.StatusBadGateway, "backend_unreachable", err.Error())
	case errors.Is(err, gatewayerrors.ErrContractViolation):
		writeError(w, http.StatusBadGateway, "contract_violation", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, gatewayhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
