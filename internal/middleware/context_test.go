package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/taskpad/taskpad-api/internal/middleware"
)

func TestIdentityFrom_RoundTrip(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	id := middleware.Identity{UserID: "user-1", CognitoSub: "sub-1"}
	req = req.WithContext(middleware.SetIdentity(req.Context(), id))

	got := middleware.IdentityFrom(req)
	if got != id {
		t.Errorf("expected %+v, got %+v", id, got)
	}
	if middleware.GetUserID(req) != "user-1" {
		t.Errorf("expected user-1, got %q", middleware.GetUserID(req))
	}
}

// TestCapturedIdentity_SeenAcrossDerivedContexts mimics the middleware
// nesting: the holder is installed on an outer context, the identity is set
// on a derived one, and the outer context must still see it.
func TestCapturedIdentity_SeenAcrossDerivedContexts(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	outer := middleware.CaptureIdentity(req.Context())

	id := middleware.Identity{UserID: "user-1", CognitoSub: "sub-1"}
	middleware.SetIdentity(outer, id) // derived context discarded, as in Require

	if got := middleware.CapturedIdentity(outer); got != id {
		t.Errorf("expected %+v, got %+v", id, got)
	}
}

func TestCapturedIdentity_NoHolder(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := middleware.CapturedIdentity(req.Context()); got != (middleware.Identity{}) {
		t.Errorf("expected zero identity without a holder, got %+v", got)
	}
}

func TestIdentityFrom_Anonymous(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := middleware.IdentityFrom(req); got != (middleware.Identity{}) {
		t.Errorf("expected zero identity, got %+v", got)
	}
	if middleware.GetUserID(req) != "" {
		t.Errorf("expected empty userID, got %q", middleware.GetUserID(req))
	}
}
