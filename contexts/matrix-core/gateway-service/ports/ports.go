package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"matrixgate/internal/shared/events"
)

// ErrMalformedPayload marks a backend response whose body could not be
// decoded as a JSON object. Callers translate it into the contract-violation
// taxonomy kind.
var ErrMalformedPayload = errors.New("backend payload is not a JSON object")

// Principal carries the identity claims of the authenticated caller, already
// extracted by whatever established the session. The gateway never performs
// authentication itself; it only consumes these values.
type Principal struct {
	UPN               string
	PreferredUsername string
	Email             string
	Name              string
}

type OperationKind string

const (
	KindAnalyze   OperationKind = "analyze"
	KindCycleFind OperationKind = "cycle_find"
	KindPayment   OperationKind = "payment"
)

// Operation describes one backend endpoint: where it lives, which verb is
// primary, and the exact response key contract. The retry/validate/translate
// pipeline is parameterized by this descriptor instead of being duplicated
// per endpoint.
type Operation struct {
	Kind         OperationKind
	Path         string
	Method       string
	RequiredKeys []string
	OptionalKeys []string
}

var (
	AnalyzeOperation = Operation{
		Kind:         KindAnalyze,
		Path:         "/analyze",
		Method:       http.MethodPost,
		RequiredKeys: []string{"status"},
		OptionalKeys: []string{"details", "blob_name", "container"},
	}
	CycleFindOperation = Operation{
		Kind:         KindCycleFind,
		Path:         "/cycle/find",
		Method:       http.MethodPost,
		RequiredKeys: []string{"found"},
		OptionalKeys: []string{"cycle", "details"},
	}
	PaymentOperation = Operation{
		Kind:         KindPayment,
		Path:         "/payment",
		Method:       http.MethodPost,
		RequiredKeys: []string{"status"},
		OptionalKeys: []string{"written_blob", "details"},
	}
)

// AnalyzeInput is the caller-supplied portion of an analyze request.
// ArtifactOverride, when non-blank, pins the artifact instead of resolving
// the latest one.
type AnalyzeInput struct {
	ArtifactOverride string
}

type CycleFindInput struct {
	NodeB           string
	ApplySettlement *bool
	Options         map[string]any
}

type PaymentInput struct {
	NodeB  string
	Amount json.Number
}

// DomainRequest is a fully assembled outbound request. Container, Artifact,
// OutBase and NodeA are authoritative: recomputed by the server on every
// assembly, never taken from the caller.
type DomainRequest struct {
	Kind            OperationKind
	Container       string
	Artifact        string
	OutBase         string
	NodeA           string
	NodeB           string
	Amount          int64
	ApplySettlement *bool
	Options         map[string]any
}

type AnalyzeResult struct {
	Status    string
	BlobName  string
	Container string
	Details   map[string]any
}

type CycleFindResult struct {
	Found   bool
	Cycle   []string
	Details map[string]any
}

type PaymentResult struct {
	Status      string
	WrittenBlob string
	Details     map[string]any
}

// ArtifactListing is a point-in-time view of a container plus the artifact
// the resolver would pick from it right now.
type ArtifactListing struct {
	Container string
	Names     []string
	Latest    string
}

// BackendClient is the transport port to the matrix backend. Implementations
// must be safe for concurrent use and honor context cancellation.
type BackendClient interface {
	// ListArtifacts returns the artifact names currently present in the
	// container. A missing container or empty result is ([]string nil, nil),
	// not an error.
	ListArtifacts(ctx context.Context, container string) ([]string, error)

	// Exchange performs one logical backend call described by op, retrying
	// once with the alternate verb on a method-not-allowed signal. The
	// decoded top-level JSON object is returned untrusted.
	Exchange(ctx context.Context, op Operation, params map[string]any) (map[string]any, error)
}

type Clock interface {
	Now() time.Time
}

type EventBus interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// RemoteError carries a non-2xx backend status together with the (already
// length-capped) response body.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("matrix backend returned status %d: %s", e.StatusCode, e.Body)
}
