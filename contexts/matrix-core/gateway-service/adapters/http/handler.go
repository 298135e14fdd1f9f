package httpadapter

import (
	"context"
	"log/slog"

	"matrixgate/contexts/matrix-core/gateway-service/application"
	"matrixgate/contexts/matrix-core/gateway-service/ports"
	httptransport "matrixgate/contexts/matrix-core/gateway-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// AnalyzeHandler godoc
// @Summary Analyze the current matrix artifact
// @Description Resolves the latest artifact (or the caller's pin) and proxies an analyze call to the matrix backend.
// @Tags matrix-gateway
// @Accept json
// @Produce json
// @Param X-Auth-Upn header string false "Authenticated principal UPN"
// @Param request body httptransport.AnalyzeRequest true "Analyze request"
// @Success 200 {object} httptransport.AnalyzeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/matrix/analyze [post]
func (h Handler) AnalyzeHandler(
	ctx context.Context,
	principal ports.Principal,
	req httptransport.AnalyzeRequest,
) (httptransport.AnalyzeResponse, error) {
	result, err := h.Service.Analyze(ctx, principal, ports.AnalyzeInput{
		ArtifactOverride: req.Artifact,
	})
	if err != nil {
		return httptransport.AnalyzeResponse{}, err
	}
	return httptransport.AnalyzeResponse{
		Status: "success",
		Data: httptransport.AnalyzeDTO{
			Status:    result.Status,
			BlobName:  result.BlobName,
			Container: result.Container,
			Details:   result.Details,
		},
	}, nil
}

// FindCycleHandler godoc
// @Summary Search for a payment cycle
// @Description Proxies a cycle search between the authenticated node and node_b against the latest artifact.
// @Tags matrix-gateway
// @Accept json
// @Produce json
// @Param X-Auth-Upn header string false "Authenticated principal UPN"
// @Param request body httptransport.CycleFindRequest true "Cycle search request"
// @Success 200 {object} httptransport.CycleFindResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/matrix/cycle/find [post]
func (h Handler) FindCycleHandler(
	ctx context.Context,
	principal ports.Principal,
	req httptransport.CycleFindRequest,
) (httptransport.CycleFindResponse, error) {
	result, err := h.Service.FindCycle(ctx, principal, ports.CycleFindInput{
		NodeB:           req.NodeB,
		ApplySettlement: req.ApplySettlement,
		Options:         req.Options,
	})
	if err != nil {
		return httptransport.CycleFindResponse{}, err
	}
	return httptransport.CycleFindResponse{
		Status: "success",
		Data: httptransport.CycleFindDTO{
			Found:   result.Found,
			Cycle:   result.Cycle,
			Details: result.Details,
		},
	}, nil
}

// PaymentHandler godoc
// @Summary Submit a payment
// @Description Submits a payment from the authenticated node to node_b against the latest artifact.
// @Tags matrix-gateway
// @Accept json
// @Produce json
// @Param X-Auth-Upn header string false "Authenticated principal UPN"
// @Param request body httptransport.PaymentRequest true "Payment request"
// @Success 200 {object} httptransport.PaymentResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/matrix/payment [post]
func (h Handler) PaymentHandler(
	ctx context.Context,
	principal ports.Principal,
	req httptransport.PaymentRequest,
) (httptransport.PaymentResponse, error) {
	result, err := h.Service.Pay(ctx, principal, ports.PaymentInput{
		NodeB:  req.NodeB,
		Amount: req.Amount,
	})
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status: "success",
		Data: httptransport.PaymentDTO{
			Status:      result.Status,
			WrittenBlob: result.WrittenBlob,
			Details:     result.Details,
		},
	}, nil
}

// ListArtifactsHandler godoc
// @Summary List artifacts and the resolved latest
// @Description Returns the container's current artifact listing plus the artifact the resolver picks from it.
// @Tags matrix-gateway
// @Produce json
// @Success 200 {object} httptransport.ArtifactListingResponse
// @Router /api/matrix/artifacts [get]
func (h Handler) ListArtifactsHandler(ctx context.Context) (httptransport.ArtifactListingResponse, error) {
	listing := h.Service.ListArtifacts(ctx)
	names := listing.Names
	if names == nil {
		names = []string{}
	}
	return httptransport.ArtifactListingResponse{
		Status: "success",
		Data: httptransport.ArtifactListingDTO{
			Container: listing.Container,
			Artifacts: names,
			Latest:    listing.Latest,
		},
	}, nil
}
