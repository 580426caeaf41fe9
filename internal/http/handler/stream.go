package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/taskpad/taskpad-api/internal/stream"
)

const snapshotWriteTimeout = 10 * time.Second

// StreamHandler upgrades /api/v1/stream to a websocket and forwards live
// query snapshots. Each connection subscribes once; query names come from
// repeated ?query= parameters, defaulting to all three.
type StreamHandler struct {
	hub    *stream.Hub
	logger *slog.Logger
}

func NewStreamHandler(hub *stream.Hub, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, logger: logger}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if userID == "" {
		// Guests and anonymous callers never get data subscriptions.
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	queries, ok := parseQueries(r.URL.Query()["query"])
	if !ok {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", "query must be 'active_tasks', 'notes', or 'completed_tasks'")
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	sub := h.hub.Subscribe(r.Context(), userID, queries)
	defer h.hub.Unsubscribe(sub)

	// No client->server messages are expected; CloseRead surfaces the
	// client closing the connection through ctx.
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-sub.C():
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := h.writeSnapshot(ctx, conn, snap); err != nil {
				h.logger.Debug("snapshot write failed, dropping connection",
					"subscriber_id", sub.ID, "error", err)
				return
			}
		}
	}
}

func (h *StreamHandler) writeSnapshot(ctx context.Context, conn *websocket.Conn, snap stream.Snapshot) error {
	writeCtx, cancel := context.WithTimeout(ctx, snapshotWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, snap)
}

func parseQueries(names []string) ([]stream.Query, bool) {
	if len(names) == 0 {
		return []stream.Query{stream.QueryActiveTasks, stream.QueryNotes, stream.QueryCompletedTasks}, true
	}

	queries := make([]stream.Query, 0, len(names))
	for _, name := range names {
		q, ok := stream.ParseQuery(name)
		if !ok {
			return nil, false
		}
		queries = append(queries, q)
	}
	return queries, true
}
