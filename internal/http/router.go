package http

import (
	"log/slog"
	"net/http"

	"github.com/taskpad/taskpad-api/internal/http/handler"
	"github.com/taskpad/taskpad-api/internal/middleware"
	"github.com/taskpad/taskpad-api/internal/service"
	"github.com/taskpad/taskpad-api/internal/stream"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth       *middleware.Auth
	ItemSvc    *service.ItemService
	AuthSvc    *service.AuthService
	ProfileSvc *service.ProfileService
	Hub        *stream.Hub
}

func NewRouter(logger *slog.Logger, deps Deps) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for ALB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Account flows stay open; anonymous callers must reach them.
	authHandler := handler.NewAuthHandler(deps.AuthSvc)
	mux.Handle("/api/v1/auth/", authHandler)

	// Session resolution attaches identity when present but never rejects,
	// so guests and anonymous callers get a resolution too.
	sessionHandler := handler.NewSessionHandler()
	mux.Handle("/api/v1/session", deps.Auth.Attach(sessionHandler))
	mux.Handle("/api/v1/session/", deps.Auth.Attach(sessionHandler))

	// Data routes require a resolved user.
	itemHandler := handler.NewItemHandler(deps.ItemSvc)
	mux.Handle("/api/v1/items", deps.Auth.Require(itemHandler))
	mux.Handle("/api/v1/items/", deps.Auth.Require(itemHandler))

	profileHandler := handler.NewProfileHandler(deps.ProfileSvc)
	mux.Handle("/api/v1/profile", deps.Auth.Require(profileHandler))
	mux.Handle("/api/v1/profile/", deps.Auth.Require(profileHandler))

	streamHandler := handler.NewStreamHandler(deps.Hub, logger)
	mux.Handle("/api/v1/stream", deps.Auth.Require(streamHandler))

	return mux
}
