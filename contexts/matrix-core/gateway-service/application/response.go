package application

import (
	"fmt"
	"strings"

	domainerrors "matrixgate/contexts/matrix-core/gateway-service/domain/errors"
	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

// validateResponseKeys enforces the per-operation response contract: every
// required key must be present and no key outside the permitted set may
// appear. Unknown keys are rejected rather than passed through so silent
// backend contract drift surfaces immediately.
func validateResponseKeys(op ports.Operation, raw map[string]any) error {
	permitted := make(map[string]struct{}, len(op.RequiredKeys)+len(op.OptionalKeys))
	for _, key := range op.RequiredKeys {
		permitted[key] = struct{}{}
	}
	for _, key := range op.OptionalKeys {
		permitted[key] = struct{}{}
	}

	for key := range raw {
		if _, ok := permitted[key]; !ok {
			return fmt.Errorf("%w: unexpected key %q in %s response",
				domainerrors.ErrContractViolation, key, op.Kind)
		}
	}
	for _, key := range op.RequiredKeys {
		if _, ok := raw[key]; !ok {
			return fmt.Errorf("%w: %s response missing required key %q",
				domainerrors.ErrContractViolation, op.Kind, key)
		}
	}
	return nil
}

func toAnalyzeResult(raw map[string]any) ports.AnalyzeResult {
	return ports.AnalyzeResult{
		Status:    coerceString(raw["status"]),
		BlobName:  coerceString(raw["blob_name"]),
		Container: coerceString(raw["container"]),
		Details:   coerceMap(raw["details"]),
	}
}

func toCycleFindResult(raw map[string]any) ports.CycleFindResult {
	return ports.CycleFindResult{
		Found:   coerceBool(raw["found"]),
		Cycle:   coerceStringList(raw["cycle"]),
		Details: coerceMap(raw["details"]),
	}
}

func toPaymentResult(raw map[string]any) ports.PaymentResult {
	return ports.PaymentResult{
		Status:      coerceString(raw["status"]),
		WrittenBlob: coerceString(raw["written_blob"]),
		Details:     coerceMap(raw["details"]),
	}
}

// Backends serialize primitives inconsistently; boolean-like and list-like
// fields are coerced leniently instead of failing the whole response.

func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return false
	}
}

func coerceStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func coerceMap(value any) map[string]any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
