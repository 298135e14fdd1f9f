package backendhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

// remoteBodyLimit caps how much of a backend response body is retained for
// diagnostics. Larger bodies are cut off before they can leak into logs or
// error messages.
const remoteBodyLimit = 64 * 1024

// Client talks HTTP to the matrix backend. It is a pure transport: it
// performs the exchange, applies the single verb-fallback retry, and decodes
// the body, trusting nothing about the payload beyond it being JSON.
// Safe for concurrent use; the embedded http.Client pools connections.
type Client struct {
	baseURL      string
	http         *http.Client
	verbFallback bool
	logger       *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, verbFallback bool, logger *slog.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: timeout},
		verbFallback: verbFallback,
		logger:       logger,
	}
}

// ListArtifacts fetches the container's artifact names. A 404 means an
// empty container, not a failure. The backend answers either with a bare
// JSON array or with the array wrapped under "artifacts"/"blobs".
func (c *Client) ListArtifacts(ctx context.Context, container string) ([]string, error) {
	endpoint := c.baseURL + "/artifacts?" + url.Values{"container": {container}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ports.RemoteError{StatusCode: resp.StatusCode, Body: readCapped(resp.Body)}
	}

	var body any
	if err := json.NewDecoder(io.LimitReader(resp.Body, remoteBodyLimit)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode artifact listing: %v", ports.ErrMalformedPayload, err)
	}
	return extractNames(body), nil
}

// Exchange performs one logical backend call. The primary verb comes from
// the descriptor; a 405 triggers exactly one retry with the alternate verb,
// carrying the same parameters as query values instead of a JSON body (or
// vice versa). Any further 405 is surfaced as a remote error.
func (c *Client) Exchange(ctx context.Context, op ports.Operation, params map[string]any) (map[string]any, error) {
	result, status, err := c.attempt(ctx, op.Method, op.Path, params)
	if err == nil || status != http.StatusMethodNotAllowed || !c.verbFallback {
		return result, err
	}

	alternate := alternateVerb(op.Method)
	if c.logger != nil {
		c.logger.Info("retrying with alternate verb",
			"event", "backend_verb_fallback",
			"module", "matrix-core/gateway-service",
			"layer", "adapter",
			"path", op.Path,
			"primary", op.Method,
			"alternate", alternate,
		)
	}
	result, _, err = c.attempt(ctx, alternate, op.Path, params)
	return result, err
}

// attempt issues a single HTTP call and decodes a 2xx JSON object body.
// The returned status is zero when the request never reached the backend.
func (c *Client) attempt(ctx context.Context, method, path string, params map[string]any) (map[string]any, int, error) {
	var req *http.Request
	var err error

	if method == http.MethodGet {
		endpoint := c.baseURL + path + "?" + queryValues(params).Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	} else {
		var encoded []byte
		encoded, err = json.Marshal(params)
		if err == nil {
			req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(encoded))
			if req != nil {
				req.Header.Set("Content-Type", "application/json")
			}
		}
	}
	if err != nil {
		return nil, 0, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &ports.RemoteError{StatusCode: resp.StatusCode, Body: readCapped(resp.Body)}
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(resp.Body, remoteBodyLimit)).Decode(&payload); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: decode %s response: %v", ports.ErrMalformedPayload, path, err)
	}
	if payload == nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: empty %s response", ports.ErrMalformedPayload, path)
	}
	return payload, resp.StatusCode, nil
}

func alternateVerb(method string) string {
	if method == http.MethodGet {
		return http.MethodPost
	}
	return http.MethodGet
}

// queryValues flattens the JSON body parameters into query form for the
// fallback verb. Structured values (options maps, lists) are carried as
// their JSON encoding.
func queryValues(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range params {
		switch v := value.(type) {
		case string:
			values.Set(key, v)
		case bool:
			values.Set(key, strconv.FormatBool(v))
		case int64:
			values.Set(key, strconv.FormatInt(v, 10))
		case float64:
			values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				values.Set(key, fmt.Sprint(v))
				continue
			}
			values.Set(key, string(encoded))
		}
	}
	return values
}

func readCapped(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, remoteBodyLimit))
	if err != nil {
		return ""
	}
	return string(body)
}

func extractNames(body any) []string {
	switch v := body.(type) {
	case []any:
		return stringify(v)
	case map[string]any:
		for _, key := range []string{"artifacts", "blobs"} {
			if wrapped, ok := v[key].([]any); ok {
				return stringify(wrapped)
			}
		}
	}
	return nil
}

func stringify(items []any) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		names = append(names, fmt.Sprint(item))
	}
	return names
}
