package cognito_test

import (
	"testing"

	"github.com/taskpad/taskpad-api/internal/cognito"
)

func TestComputeSecretHash(t *testing.T) {
	// Deterministic for fixed inputs; differs when any input changes.
	h1 := cognito.ComputeSecretHash("ann@x.com", "client-id", "secret")
	h2 := cognito.ComputeSecretHash("ann@x.com", "client-id", "secret")
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %q vs %q", h1, h2)
	}

	h3 := cognito.ComputeSecretHash("bob@x.com", "client-id", "secret")
	if h1 == h3 {
		t.Error("different usernames produced the same hash")
	}

	h4 := cognito.ComputeSecretHash("ann@x.com", "client-id", "other-secret")
	if h1 == h4 {
		t.Error("different secrets produced the same hash")
	}

	if h1 == "" {
		t.Error("hash is empty")
	}
}
