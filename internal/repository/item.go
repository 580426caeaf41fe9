package repository

import (
	"context"
	"errors"

	"github.com/taskpad/taskpad-api/internal/model"
)

// ErrIndexRequired is returned when a compound query cannot be satisfied
// because its supporting relation or index is missing. Callers surface it
// distinctly from other load errors, and each list query fails on its own.
var ErrIndexRequired = errors.New("index required for compound query")

type ItemRepository interface {
	Create(ctx context.Context, item model.Item) (model.Item, error)
	GetByID(ctx context.Context, ownerID, itemID string) (model.Item, error)
	UpdateStatus(ctx context.Context, ownerID, itemID, status string) (model.Item, error)
	Delete(ctx context.Context, ownerID, itemID string) error

	// ListByKind returns all of an owner's items of one kind, newest first.
	ListByKind(ctx context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error)

	// ListCompleted returns the owner's completed tasks, newest first,
	// matching both the canonical status and the legacy "done" encoding.
	ListCompleted(ctx context.Context, ownerID string) ([]model.Item, error)
}
