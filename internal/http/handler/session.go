package handler

import (
	"net/http"
	"strings"

	"github.com/taskpad/taskpad-api/internal/middleware"
	"github.com/taskpad/taskpad-api/internal/session"
)

// guestCookieName marks the client-local guest preview. The flag lives on
// the client only; the server never persists guest sessions.
const guestCookieName = "guest_mode"

const guestCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionHandler resolves the caller's session state and page access, and
// manages the guest preview flag. It sits behind the attach-only auth
// middleware so anonymous callers reach it too.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// ServeHTTP routes /api/v1/session and /api/v1/session/guest.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/session")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleResolve(w, r)
	case "guest":
		switch r.Method {
		case http.MethodPost:
			h.handleEnterGuest(w, r)
		case http.MethodDelete:
			h.handleLeaveGuest(w, r)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

// handleResolve computes the session state for the requested page. The
// identity signal wins over the guest flag; the flag only matters when no
// valid token was attached.
func (h *SessionHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	page := session.ParsePage(r.URL.Query().Get("page"))

	WriteJSON(w, http.StatusOK, session.Resolve(userID, isGuest(r), page))
}

// handleEnterGuest sets the guest flag and returns the resolution for the
// dashboard, which is where the guest entry point lands.
func (h *SessionHandler) handleEnterGuest(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   guestCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	userID := middleware.GetUserID(r)
	WriteJSON(w, http.StatusOK, session.Resolve(userID, true, session.PageDashboard))
}

func (h *SessionHandler) handleLeaveGuest(w http.ResponseWriter, r *http.Request) {
	clearGuestCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func isGuest(r *http.Request) bool {
	c, err := r.Cookie(guestCookieName)
	return err == nil && c.Value == "true"
}

func clearGuestCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
