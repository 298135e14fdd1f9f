package memory

import (
	"context"
	"net/http"
	"sync"
	"time"

	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

// Backend is an in-memory stand-in for the matrix backend, used by
// NewInMemoryModule and by tests. It records every exchange so assertions
// can check exactly what would have gone over the wire.
type Backend struct {
	mu sync.RWMutex

	artifacts  map[string][]string
	responses  map[ports.OperationKind]map[string]any
	exchanges  []Exchange
	listingErr error
	rejectVerb string
}

// Exchange is one recorded backend call.
type Exchange struct {
	Method string
	Path   string
	Params map[string]any
}

func NewBackend() *Backend {
	return &Backend{
		artifacts: make(map[string][]string),
		responses: make(map[ports.OperationKind]map[string]any),
	}
}

func (b *Backend) SetArtifacts(container string, names ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.artifacts[container] = append([]string(nil), names...)
}

func (b *Backend) SetResponse(kind ports.OperationKind, response map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[kind] = response
}

// FailListing makes every subsequent listing fetch return err.
func (b *Backend) FailListing(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listingErr = err
}

// RejectVerb makes the named verb answer 405 so the caller's fallback path
// can be exercised.
func (b *Backend) RejectVerb(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectVerb = method
}

func (b *Backend) Exchanges() []Exchange {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Exchange(nil), b.exchanges...)
}

func (b *Backend) ListArtifacts(_ context.Context, container string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.listingErr != nil {
		return nil, b.listingErr
	}
	return append([]string(nil), b.artifacts[container]...), nil
}

func (b *Backend) Exchange(_ context.Context, op ports.Operation, params map[string]any) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	method := op.Method
	if b.rejectVerb == method {
		// Mirror the real client's fallback: one retry on the alternate verb.
		if method == http.MethodGet {
			method = http.MethodPost
		} else {
			method = http.MethodGet
		}
	}
	b.exchanges = append(b.exchanges, Exchange{Method: method, Path: op.Path, Params: params})

	response, ok := b.responses[op.Kind]
	if !ok {
		return nil, &ports.RemoteError{StatusCode: http.StatusNotFound, Body: "no response configured"}
	}
	return response, nil
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
