package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	taskpadhttp "github.com/taskpad/taskpad-api/internal/http"
	"github.com/taskpad/taskpad-api/internal/middleware"
	"github.com/taskpad/taskpad-api/internal/service"
	"github.com/taskpad/taskpad-api/internal/stream"
)

// TestMiddlewareChain_RecoversPanics exercises the assembled chain the
// server installs: a panicking handler must come back as a JSON 500.
func TestMiddlewareChain_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	chain := middleware.Recovery(logger)(middleware.Logging(logger)(panicking))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	chain.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 from recovered panic, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestNewServer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	auth, err := middleware.NewAuth(middleware.AuthConfig{DevMode: true})
	if err != nil {
		t.Fatalf("failed to build auth middleware: %v", err)
	}

	itemSvc := service.NewItemService(&stubItemRepo{})
	srv := taskpadhttp.NewServer("8080", logger, taskpadhttp.Deps{
		Auth:       auth,
		ItemSvc:    itemSvc,
		AuthSvc:    service.NewAuthService(&stubCognitoClient{}, &stubUserRepo{}),
		ProfileSvc: service.NewProfileService(&stubCognitoClient{}, &stubUserRepo{}, nil, logger),
		Hub:        stream.NewHub(itemSvc, logger),
	})

	if srv == nil {
		t.Fatal("expected server instance")
	}
}
