package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/taskpad/taskpad-api/internal/middleware"
	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/repository"
	"github.com/taskpad/taskpad-api/internal/service"
	"github.com/taskpad/taskpad-api/internal/stream"
	"github.com/taskpad/taskpad-api/internal/view"
)

type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

// ServeHTTP routes /api/v1/items and /api/v1/items/{id}
func (h *ItemHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/items")
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	itemID := parts[0]
	subPath := ""
	if len(parts) > 1 {
		subPath = parts[1]
	}

	// /api/v1/items/overview
	if itemID == "overview" && subPath == "" {
		h.handleOverview(w, r)
		return
	}

	// /api/v1/items/{id}/advance
	if itemID != "" && subPath == "advance" {
		h.handleAdvance(w, r, itemID)
		return
	}

	// /api/v1/items/{id}
	if itemID != "" {
		switch r.Method {
		case http.MethodDelete:
			h.handleDelete(w, r, itemID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	// /api/v1/items
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleCreate(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	}
}

type createItemRequest struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func (h *ItemHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	item, err := h.svc.Create(r.Context(), userID, service.CreateItemInput{
		Kind:    model.ItemKind(req.Kind),
		Content: req.Content,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) handleAdvance(w http.ResponseWriter, r *http.Request, itemID string) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	userID := getUserID(r)

	item, err := h.svc.Advance(r.Context(), userID, itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, item)
}

// handleDelete removes an item when ?confirm=true is present. Without
// confirmation the request is accepted and nothing happens, matching the
// cancel path of the delete dialog.
func (h *ItemHandler) handleDelete(w http.ResponseWriter, r *http.Request, itemID string) {
	userID := getUserID(r)
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.svc.Delete(r.Context(), userID, itemID, confirmed); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// overviewList is one projected view plus its rendered fragment.
type overviewList struct {
	Items []model.Item `json:"items"`
	HTML  string       `json:"html"`
}

type overviewResponse struct {
	ActiveTasks    overviewList `json:"active_tasks"`
	Notes          overviewList `json:"notes"`
	CompletedTasks overviewList `json:"completed_tasks"`
}

// handleOverview serves the full dashboard projection in one response,
// used for the initial page load before the live stream takes over.
func (h *ItemHandler) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	p, err := h.svc.Overview(r.Context(), getUserID(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, overviewResponse{
		ActiveTasks:    overviewList{Items: p.ActiveTasks, HTML: view.RenderTasks(p.ActiveTasks)},
		Notes:          overviewList{Items: p.Notes, HTML: view.RenderNotes(p.Notes)},
		CompletedTasks: overviewList{Items: p.CompletedTasks, HTML: view.RenderCompletedTasks(p.CompletedTasks)},
	})
}

// listResponse is one full query result: the raw items plus the rendered
// list fragment the client swaps in.
type listResponse struct {
	Query stream.Query `json:"query"`
	Items []model.Item `json:"items"`
	HTML  string       `json:"html"`
}

func (h *ItemHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	query, ok := stream.ParseQuery(r.URL.Query().Get("query"))
	if !ok {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", "query must be 'active_tasks', 'notes', or 'completed_tasks'")
		return
	}

	var (
		items []model.Item
		err   error
	)
	switch query {
	case stream.QueryActiveTasks:
		items, err = h.svc.ListActiveTasks(r.Context(), userID)
	case stream.QueryNotes:
		items, err = h.svc.ListNotes(r.Context(), userID)
	case stream.QueryCompletedTasks:
		items, err = h.svc.ListCompletedTasks(r.Context(), userID)
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := listResponse{Query: query, Items: items}
	switch query {
	case stream.QueryActiveTasks:
		resp.HTML = view.RenderTasks(items)
	case stream.QueryNotes:
		resp.HTML = view.RenderNotes(items)
	case stream.QueryCompletedTasks:
		resp.HTML = view.RenderCompletedTasks(items)
	}

	WriteJSON(w, http.StatusOK, resp)
}

func getUserID(r *http.Request) string {
	return middleware.GetUserID(r)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, http.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, repository.ErrIndexRequired):
		WriteError(w, http.StatusPreconditionFailed, "INDEX_REQUIRED", "This view requires a backend index.")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
