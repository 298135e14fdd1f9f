package application

import (
	"testing"

	"matrixgate/contexts/matrix-core/gateway-service/ports"
)

func TestResolveNodeIdentityUPNLocalPart(t *testing.T) {
	got := ResolveNodeIdentity(ports.Principal{UPN: "alice@example.com"})
	if got != "alice" {
		t.Fatalf("expected alice, got %s", got)
	}
}

func TestResolveNodeIdentityNoClaims(t *testing.T) {
	got := ResolveNodeIdentity(ports.Principal{})
	if got != "unknown" {
		t.Fatalf("expected unknown, got %s", got)
	}
}

func TestResolveNodeIdentityClaimPriority(t *testing.T) {
	principal := ports.Principal{
		PreferredUsername: "bob.builder",
		Email:             "carol@example.com",
		Name:              "Carol",
	}
	if got := ResolveNodeIdentity(principal); got != "bob.builder" {
		t.Fatalf("expected preferred username to win, got %s", got)
	}

	principal.PreferredUsername = "  "
	if got := ResolveNodeIdentity(principal); got != "carol" {
		t.Fatalf("expected email local part, got %s", got)
	}
}

func TestResolveNodeIdentityKeepsValueWithoutAt(t *testing.T) {
	if got := ResolveNodeIdentity(ports.Principal{Name: "service-account"}); got != "service-account" {
		t.Fatalf("expected value unchanged, got %s", got)
	}
}
