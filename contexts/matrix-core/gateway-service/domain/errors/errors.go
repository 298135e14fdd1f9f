package errors

import "errors"

var (
	// ErrValidationFailed means the caller-supplied fields were rejected
	// locally. Requests carrying it never reach the backend.
	ErrValidationFailed = errors.New("request failed local validation")

	// ErrBackendUnreachable covers connection failures and timeouts. Safe
	// for the caller to retry later.
	ErrBackendUnreachable = errors.New("matrix backend unreachable")

	// ErrBackendRejected is a backend 4xx, surfaced with backend detail.
	ErrBackendRejected = errors.New("matrix backend rejected the request")

	// ErrBackendFaulted is a backend 5xx.
	ErrBackendFaulted = errors.New("matrix backend failed")

	// ErrContractViolation means the backend response shape is untrusted:
	// a required key is missing, an unknown key is present, or the body is
	// not a JSON object.
	ErrContractViolation = errors.New("matrix backend response violates the expected contract")
)
