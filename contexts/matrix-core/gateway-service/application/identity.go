package application

import (
	"strings"

	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

// UnknownIdentity is used when no principal claim carries a usable value.
const UnknownIdentity = "unknown"

// ResolveNodeIdentity derives the backend node identifier from principal
// claims in priority order: UPN, preferred username, email, display name.
// The local part of a UPN/email wins over the full address. The result is
// not guaranteed to satisfy backend naming rules; the request builder
// sanitizes it.
func ResolveNodeIdentity(principal ports.Principal) string {
	value := firstNonBlank(
		principal.UPN,
		principal.PreferredUsername,
		principal.Email,
		principal.Name,
	)
	if value == "" {
		return UnknownIdentity
	}
	return localPart(value)
}

func localPart(value string) string {
	at := strings.Index(value, "@")
	if at > 0 {
		return value[:at]
	}
	return value
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
