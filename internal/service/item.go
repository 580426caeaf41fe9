package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/projection"
	"github.com/taskpad/taskpad-api/internal/repository"
)

// ChangeNotifier is told after every successful item write so live
// subscriptions can re-read and push fresh snapshots for the owner.
type ChangeNotifier interface {
	ItemsChanged(ownerID string)
}

type CreateItemInput struct {
	Kind    model.ItemKind
	Content string
}

type ItemService struct {
	repo     repository.ItemRepository
	notifier ChangeNotifier
}

func NewItemService(repo repository.ItemRepository) *ItemService {
	return &ItemService{repo: repo}
}

// SetNotifier attaches the live-snapshot notifier. It is called once during
// startup wiring, before the server accepts traffic.
func (s *ItemService) SetNotifier(n ChangeNotifier) {
	s.notifier = n
}

func (s *ItemService) notifyChanged(ownerID string) {
	if s.notifier != nil {
		s.notifier.ItemsChanged(ownerID)
	}
}

// Create adds a task or note. Tasks start in the pending status; notes
// never carry one.
func (s *ItemService) Create(ctx context.Context, ownerID string, input CreateItemInput) (model.Item, error) {
	if !input.Kind.IsValid() {
		return model.Item{}, fmt.Errorf("%w: kind must be 'task' or 'note'", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Content) == "" {
		return model.Item{}, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	item := model.Item{
		OwnerID: ownerID,
		Kind:    input.Kind,
		Content: input.Content,
	}
	if input.Kind == model.ItemKindTask {
		item.Status = model.StatusPending
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	s.notifyChanged(ownerID)
	return created, nil
}

// Advance moves a task one step along pending -> in_progress -> completed.
// Advancing a completed or unrecognized status is a no-op that performs no
// write and returns the item unchanged.
func (s *ItemService) Advance(ctx context.Context, ownerID, itemID string) (model.Item, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Item{}, ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to get item for advance: %w", err)
	}

	if !existing.IsTask() {
		return model.Item{}, fmt.Errorf("%w: notes have no status", ErrInvalidInput)
	}

	next := model.AdvanceStatus(existing.Status)
	if next == existing.Status {
		return existing, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, ownerID, itemID, next)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to advance item status: %w", err)
	}

	s.notifyChanged(ownerID)
	return updated, nil
}

// Delete removes an item permanently. An unconfirmed delete is a silent
// no-op: no backend call, no error.
func (s *ItemService) Delete(ctx context.Context, ownerID, itemID string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	if err := s.repo.Delete(ctx, ownerID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.notifyChanged(ownerID)
	return nil
}

// ListActiveTasks returns the owner's not-yet-completed tasks, newest
// first. The store query fetches all tasks and the completed bucket is
// filtered out here, mirroring the dashboard's client-side filter.
func (s *ItemService) ListActiveTasks(ctx context.Context, ownerID string) ([]model.Item, error) {
	tasks, err := s.repo.ListByKind(ctx, ownerID, model.ItemKindTask)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	active := make([]model.Item, 0, len(tasks))
	for _, t := range tasks {
		if t.TaskBucket() == model.BucketActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *ItemService) ListNotes(ctx context.Context, ownerID string) ([]model.Item, error) {
	notes, err := s.repo.ListByKind(ctx, ownerID, model.ItemKindNote)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *ItemService) ListCompletedTasks(ctx context.Context, ownerID string) ([]model.Item, error) {
	tasks, err := s.repo.ListCompleted(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed tasks: %w", err)
	}
	return tasks, nil
}

// Overview fetches everything the owner has and partitions it into the
// three dashboard views in one shot. The projection re-checks ownership on
// every item even though the queries already filter by owner.
func (s *ItemService) Overview(ctx context.Context, ownerID string) (projection.Projection, error) {
	tasks, err := s.repo.ListByKind(ctx, ownerID, model.ItemKindTask)
	if err != nil {
		return projection.Projection{}, fmt.Errorf("failed to list tasks: %w", err)
	}
	notes, err := s.repo.ListByKind(ctx, ownerID, model.ItemKindNote)
	if err != nil {
		return projection.Projection{}, fmt.Errorf("failed to list notes: %w", err)
	}

	return projection.Project(append(tasks, notes...), ownerID), nil
}
