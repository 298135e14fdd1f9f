package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	domainerrors "matrixgate/contexts/matrix-core/gateway-service/domain/errors"
	"matrixgate/contexts/matrix-core/gateway-service/ports"
	"matrixgate/internal/shared/events"
)

const (
	// OperationsTopic carries operation-completed envelopes on the bus.
	OperationsTopic = "matrix.operations"

	remoteDetailLimit = 1000
)

var nodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Service shapes, proxies and validates matrix operations. It holds no
// per-request state; every call recomputes the authoritative fields
// (container, artifact, out_base, node_a) from configuration, the live
// listing, and the caller's principal, ignoring anything the caller sent
// for them.
type Service struct {
	Backend ports.BackendClient
	Bus     ports.EventBus
	Clock   ports.Clock
	Logger  *slog.Logger

	ServiceName      string
	Container        string
	FallbackArtifact string
}

func (s Service) Analyze(ctx context.Context, principal ports.Principal, in ports.AnalyzeInput) (ports.AnalyzeResult, error) {
	req := s.assembleBase(ctx, ports.KindAnalyze, principal, in.ArtifactOverride)

	raw, err := s.perform(ctx, ports.AnalyzeOperation, map[string]any{
		"blob_name": req.Artifact,
		"container": req.Container,
	})
	if err != nil {
		return ports.AnalyzeResult{}, err
	}

	result := toAnalyzeResult(raw)
	s.logSuccess("analyze completed", "analyze_completed", req, "status", result.Status)
	s.publish(ctx, "matrix.analyze_completed", req, map[string]any{
		"blob_name": req.Artifact,
		"status":    result.Status,
	})
	return result, nil
}

func (s Service) FindCycle(ctx context.Context, principal ports.Principal, in ports.CycleFindInput) (ports.CycleFindResult, error) {
	req := s.assembleBase(ctx, ports.KindCycleFind, principal, "")
	if err := validateNodeB(in.NodeB); err != nil {
		return ports.CycleFindResult{}, err
	}
	req.NodeB = in.NodeB
	req.ApplySettlement = in.ApplySettlement
	req.Options = in.Options

	params := map[string]any{
		"blob_name": req.Artifact,
		"node_a":    req.NodeA,
		"node_b":    req.NodeB,
		"container": req.Container,
		"out_base":  req.OutBase,
	}
	if req.ApplySettlement != nil {
		params["apply_settlement"] = *req.ApplySettlement
	}
	if len(req.Options) > 0 {
		params["options"] = req.Options
	}

	raw, err := s.perform(ctx, ports.CycleFindOperation, params)
	if err != nil {
		return ports.CycleFindResult{}, err
	}

	result := toCycleFindResult(raw)
	s.logSuccess("cycle search completed", "cycle_checked", req,
		"found", result.Found,
		"cycle_length", len(result.Cycle),
	)
	s.publish(ctx, "matrix.cycle_checked", req, map[string]any{
		"blob_name": req.Artifact,
		"node_b":    req.NodeB,
		"found":     result.Found,
	})
	return result, nil
}

func (s Service) Pay(ctx context.Context, principal ports.Principal, in ports.PaymentInput) (ports.PaymentResult, error) {
	req := s.assembleBase(ctx, ports.KindPayment, principal, "")
	if err := validateNodeB(in.NodeB); err != nil {
		return ports.PaymentResult{}, err
	}
	amount, err := validateAmount(in.Amount)
	if err != nil {
		return ports.PaymentResult{}, err
	}
	req.NodeB = in.NodeB
	req.Amount = amount

	raw, err := s.perform(ctx, ports.PaymentOperation, map[string]any{
		"blob_name": req.Artifact,
		"node_a":    req.NodeA,
		"node_b":    req.NodeB,
		"amount":    req.Amount,
		"out_base":  req.OutBase,
		"container": req.Container,
	})
	if err != nil {
		return ports.PaymentResult{}, err
	}

	result := toPaymentResult(raw)
	s.logSuccess("payment submitted", "payment_submitted", req,
		"status", result.Status,
		"written_blob", result.WrittenBlob,
	)
	s.publish(ctx, "matrix.payment_submitted", req, map[string]any{
		"blob_name": req.Artifact,
		"node_b":    req.NodeB,
		"amount":    req.Amount,
		"status":    result.Status,
	})
	return result, nil
}

// ListArtifacts returns the current listing together with the artifact the
// resolver would pick from it. A listing failure degrades to an empty
// listing plus the fallback artifact; it is never an error.
func (s Service) ListArtifacts(ctx context.Context) ports.ArtifactListing {
	names := s.safeListing(ctx)
	return ports.ArtifactListing{
		Container: s.Container,
		Names:     names,
		Latest:    ResolveLatest(names, "", s.FallbackArtifact),
	}
}

// assembleBase recomputes every trust-sensitive field. The artifact comes
// from the freshest listing (fallback on listing failure), out_base from
// stripping its timestamps, node_a from the principal claims.
func (s Service) assembleBase(ctx context.Context, kind ports.OperationKind, principal ports.Principal, artifactOverride string) ports.DomainRequest {
	artifact := ResolveLatest(s.safeListing(ctx), artifactOverride, s.FallbackArtifact)
	return ports.DomainRequest{
		Kind:      kind,
		Container: s.Container,
		Artifact:  artifact,
		OutBase:   StripTimestamps(artifact),
		NodeA:     sanitizeNode(ResolveNodeIdentity(principal)),
	}
}

// safeListing never fails the parent request: any listing error is logged
// and treated as an empty listing.
func (s Service) safeListing(ctx context.Context) []string {
	names, err := s.Backend.ListArtifacts(ctx, s.Container)
	if err != nil {
		resolveLogger(s.Logger).Warn("artifact listing failed, using fallback",
			"event", "artifact_listing_failed",
			"module", "matrix-core/gateway-service",
			"layer", "application",
			"container", s.Container,
			"error", err.Error(),
		)
		return nil
	}
	return names
}

// perform runs the send and validate half of the pipeline for one operation.
func (s Service) perform(ctx context.Context, op ports.Operation, params map[string]any) (map[string]any, error) {
	raw, err := s.Backend.Exchange(ctx, op, params)
	if err != nil {
		return nil, translateBackendError(err)
	}
	if err := validateResponseKeys(op, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// translateBackendError folds every transport outcome into the stable error
// taxonomy. Remote bodies are already length-capped by the gateway.
func translateBackendError(err error) error {
	var remote *ports.RemoteError
	if errors.As(err, &remote) {
		detail := truncate(remote.Body, remoteDetailLimit)
		if remote.StatusCode >= 500 {
			return fmt.Errorf("%w: status %d: %s", domainerrors.ErrBackendFaulted, remote.StatusCode, detail)
		}
		return fmt.Errorf("%w: status %d: %s", domainerrors.ErrBackendRejected, remote.StatusCode, detail)
	}
	if errors.Is(err, ports.ErrMalformedPayload) {
		return fmt.Errorf("%w: %v", domainerrors.ErrContractViolation, err)
	}
	return fmt.Errorf("%w: %v", domainerrors.ErrBackendUnreachable, err)
}

func validateNodeB(nodeB string) error {
	if strings.TrimSpace(nodeB) == "" {
		return fmt.Errorf("%w: node_b is required", domainerrors.ErrValidationFailed)
	}
	if !nodePattern.MatchString(nodeB) {
		return fmt.Errorf("%w: node_b must be 1-64 chars, letters/digits/_/- only", domainerrors.ErrValidationFailed)
	}
	return nil
}

// validateAmount enforces a strictly positive integer amount with zero
// fractional digits. ParseInt rejects decimals and exponent forms outright.
func validateAmount(amount json.Number) (int64, error) {
	raw := strings.TrimSpace(string(amount))
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", domainerrors.ErrValidationFailed)
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be an integer (no decimals)", domainerrors.ErrValidationFailed)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than 0", domainerrors.ErrValidationFailed)
	}
	return value, nil
}

// sanitizeNode forces a claim-derived identity into the backend node
// character class: disallowed runes become '-', the result is capped at 64
// chars, and a blank result falls back to the unknown identity.
func sanitizeNode(identity string) string {
	var b strings.Builder
	for _, r := range identity {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if len(out) > 64 {
		out = out[:64]
	}
	if strings.Trim(out, "-") == "" {
		return UnknownIdentity
	}
	return out
}

func (s Service) publish(ctx context.Context, eventType string, req ports.DomainRequest, payload map[string]any) {
	if s.Bus == nil {
		return
	}
	event := events.New(eventType, s.ServiceName, "node", req.NodeA, payload, s.now())
	if err := s.Bus.Publish(ctx, OperationsTopic, event); err != nil {
		resolveLogger(s.Logger).Warn("operation event publish failed",
			"event", "operation_event_publish_failed",
			"module", "matrix-core/gateway-service",
			"layer", "application",
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

func (s Service) logSuccess(msg, event string, req ports.DomainRequest, extra ...any) {
	args := append([]any{
		"event", event,
		"module", "matrix-core/gateway-service",
		"layer", "application",
		"container", req.Container,
		"blob_name", req.Artifact,
		"node_a", req.NodeA,
	}, extra...)
	resolveLogger(s.Logger).Info(msg, args...)
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
