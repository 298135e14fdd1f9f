package http

import "encoding/json"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyzeRequest carries only non-authoritative fields. Artifact, when set,
// pins the analyzed artifact instead of resolving the latest one; container
// and node identity are always server-computed.
type AnalyzeRequest struct {
	Artifact string `json:"artifact,omitempty"`
}

type AnalyzeResponse struct {
	Status string     `json:"status"`
	Data   AnalyzeDTO `json:"data"`
}

type AnalyzeDTO struct {
	Status    string         `json:"status"`
	BlobName  string         `json:"blob_name,omitempty"`
	Container string         `json:"container,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

type CycleFindRequest struct {
	NodeB           string         `json:"node_b"`
	ApplySettlement *bool          `json:"apply_settlement,omitempty"`
	Options         map[string]any `json:"options,omitempty"`
}

type CycleFindResponse struct {
	Status string       `json:"status"`
	Data   CycleFindDTO `json:"data"`
}

type CycleFindDTO struct {
	Found   bool           `json:"found"`
	Cycle   []string       `json:"cycle,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// PaymentRequest keeps the amount as a raw JSON number so the
// no-fractional-digits rule stays checkable after decoding.
type PaymentRequest struct {
	NodeB  string      `json:"node_b"`
	Amount json.Number `json:"amount"`
}

type PaymentResponse struct {
	Status string     `json:"status"`
	Data   PaymentDTO `json:"data"`
}

type PaymentDTO struct {
	Status      string         `json:"status"`
	WrittenBlob string         `json:"written_blob,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

type ArtifactListingResponse struct {
	Status string             `json:"status"`
	Data   ArtifactListingDTO `json:"data"`
}

type ArtifactListingDTO struct {
	Container string   `json:"container"`
	Artifacts []string `json:"artifacts"`
	Latest    string   `json:"latest"`
}
