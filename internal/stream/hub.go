// Package stream pushes live query snapshots to subscribed clients. Each
// subscription names one of the three list queries; every item write for an
// owner triggers a re-read of that owner's queries and a full replacement
// snapshot per query, never a diff.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/repository"
	"github.com/taskpad/taskpad-api/internal/view"
)

// Query identifies one of the three live list queries.
type Query string

const (
	QueryActiveTasks    Query = "active_tasks"
	QueryNotes          Query = "notes"
	QueryCompletedTasks Query = "completed_tasks"
)

// ParseQuery validates a client-supplied query name.
func ParseQuery(name string) (Query, bool) {
	switch Query(name) {
	case QueryActiveTasks, QueryNotes, QueryCompletedTasks:
		return Query(name), true
	}
	return "", false
}

// Snapshot is one full-batch update for a single query. Each snapshot
// replaces the previous one for that query. A failed query carries an error
// code instead of items; the other queries keep flowing independently.
type Snapshot struct {
	Query Query        `json:"query"`
	Items []model.Item `json:"items,omitempty"`
	HTML  string       `json:"html,omitempty"`
	Error string       `json:"error,omitempty"`
	Code  string       `json:"code,omitempty"`
}

// Error codes carried by failed snapshots.
const (
	CodeIndexRequired = "INDEX_REQUIRED"
	CodeLoadFailed    = "LOAD_FAILED"
)

// Source supplies the three list queries. Implemented by the item service.
type Source interface {
	ListActiveTasks(ctx context.Context, ownerID string) ([]model.Item, error)
	ListNotes(ctx context.Context, ownerID string) ([]model.Item, error)
	ListCompletedTasks(ctx context.Context, ownerID string) ([]model.Item, error)
}

// Hub fans item-change notifications out to per-owner subscribers. One run
// loop rebuilds snapshots sequentially per owner, which keeps delivery per
// query in commit order; there is no ordering guarantee across queries.
type Hub struct {
	source Source
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[string]map[*Subscriber]struct{}

	changes chan string
	done    chan struct{}
}

func NewHub(source Source, logger *slog.Logger) *Hub {
	return &Hub{
		source:      source,
		logger:      logger,
		subscribers: make(map[string]map[*Subscriber]struct{}),
		changes:     make(chan string, 256),
		done:        make(chan struct{}),
	}
}

// Run processes change notifications until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ownerID := <-h.changes:
			h.push(ctx, ownerID)
		}
	}
}

// Done is closed once Run has returned, letting shutdown wait for the push
// loop to finish whatever snapshot it is building.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ItemsChanged implements service.ChangeNotifier. It never blocks the
// writing request; if the change queue is full the notification is dropped
// and the next write catches the subscribers up.
func (h *Hub) ItemsChanged(ownerID string) {
	select {
	case h.changes <- ownerID:
	default:
		h.logger.Warn("change queue full, dropping notification", "owner_id", ownerID)
	}
}

// Subscribe registers a subscriber for the given queries and queues an
// initial snapshot per query. Guests never reach this; the session resolver
// withholds subscriptions from them.
func (h *Hub) Subscribe(ctx context.Context, ownerID string, queries []Query) *Subscriber {
	sub := newSubscriber(ownerID, queries)

	h.mu.Lock()
	if h.subscribers[ownerID] == nil {
		h.subscribers[ownerID] = make(map[*Subscriber]struct{})
	}
	h.subscribers[ownerID][sub] = struct{}{}
	h.mu.Unlock()

	for _, q := range queries {
		sub.deliver(h.buildSnapshot(ctx, ownerID, q))
	}
	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if subs, ok := h.subscribers[sub.ownerID]; ok {
		if _, registered := subs[sub]; registered {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(h.subscribers, sub.ownerID)
			}
			sub.close()
		}
	}
	h.mu.Unlock()
}

func (h *Hub) push(ctx context.Context, ownerID string) {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subscribers[ownerID]))
	for sub := range h.subscribers[ownerID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	// Build each query once per owner, then fan out to the subscribers
	// that asked for it.
	snapshots := make(map[Query]Snapshot)
	for _, sub := range subs {
		for _, q := range sub.queries {
			if _, ok := snapshots[q]; !ok {
				snapshots[q] = h.buildSnapshot(ctx, ownerID, q)
			}
			sub.deliver(snapshots[q])
		}
	}
}

// buildSnapshot reads one query and renders its fragment. Failures are
// folded into the snapshot itself so one broken query never takes down the
// others; a missing index is surfaced distinctly.
func (h *Hub) buildSnapshot(ctx context.Context, ownerID string, q Query) Snapshot {
	var (
		items []model.Item
		err   error
	)
	switch q {
	case QueryActiveTasks:
		items, err = h.source.ListActiveTasks(ctx, ownerID)
	case QueryNotes:
		items, err = h.source.ListNotes(ctx, ownerID)
	case QueryCompletedTasks:
		items, err = h.source.ListCompletedTasks(ctx, ownerID)
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "snapshot query failed", "query", q, "owner_id", ownerID, "error", err)
		if errors.Is(err, repository.ErrIndexRequired) {
			return Snapshot{Query: q, Error: "This view requires a backend index.", Code: CodeIndexRequired}
		}
		return Snapshot{Query: q, Error: loadErrorMessage(q), Code: CodeLoadFailed}
	}

	snap := Snapshot{Query: q, Items: items}
	switch q {
	case QueryActiveTasks:
		snap.HTML = view.RenderTasks(items)
	case QueryNotes:
		snap.HTML = view.RenderNotes(items)
	case QueryCompletedTasks:
		snap.HTML = view.RenderCompletedTasks(items)
	}
	return snap
}

func loadErrorMessage(q Query) string {
	switch q {
	case QueryNotes:
		return "Error loading notes."
	case QueryCompletedTasks:
		return "Error loading completed tasks."
	default:
		return "Error loading tasks."
	}
}
