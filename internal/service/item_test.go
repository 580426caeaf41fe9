package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/service"
)

// mockItemRepo implements repository.ItemRepository for testing
type mockItemRepo struct {
	createFn        func(ctx context.Context, item model.Item) (model.Item, error)
	getByIDFn       func(ctx context.Context, ownerID, itemID string) (model.Item, error)
	updateStatusFn  func(ctx context.Context, ownerID, itemID, status string) (model.Item, error)
	deleteFn        func(ctx context.Context, ownerID, itemID string) error
	listByKindFn    func(ctx context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error)
	listCompletedFn func(ctx context.Context, ownerID string) ([]model.Item, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item model.Item) (model.Item, error) {
	return m.createFn(ctx, item)
}
func (m *mockItemRepo) GetByID(ctx context.Context, ownerID, itemID string) (model.Item, error) {
	return m.getByIDFn(ctx, ownerID, itemID)
}
func (m *mockItemRepo) UpdateStatus(ctx context.Context, ownerID, itemID, status string) (model.Item, error) {
	return m.updateStatusFn(ctx, ownerID, itemID, status)
}
func (m *mockItemRepo) Delete(ctx context.Context, ownerID, itemID string) error {
	return m.deleteFn(ctx, ownerID, itemID)
}
func (m *mockItemRepo) ListByKind(ctx context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error) {
	return m.listByKindFn(ctx, ownerID, kind)
}
func (m *mockItemRepo) ListCompleted(ctx context.Context, ownerID string) ([]model.Item, error) {
	return m.listCompletedFn(ctx, ownerID)
}

// recordingNotifier counts change notifications per owner
type recordingNotifier struct {
	changed []string
}

func (n *recordingNotifier) ItemsChanged(ownerID string) {
	n.changed = append(n.changed, ownerID)
}

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func sampleTask() model.Item {
	return model.Item{
		ID:        "item-1",
		OwnerID:   "user-1",
		Kind:      model.ItemKindTask,
		Content:   "Buy milk",
		Status:    model.StatusPending,
		CreatedAt: now,
	}
}

func containsStr(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestItemCreate(t *testing.T) {
	tests := []struct {
		name       string
		input      service.CreateItemInput
		repoErr    error
		wantErr    string
		wantStatus string
	}{
		{
			name:       "task gets pending status",
			input:      service.CreateItemInput{Kind: model.ItemKindTask, Content: "Buy milk"},
			wantStatus: model.StatusPending,
		},
		{
			name:       "note gets no status",
			input:      service.CreateItemInput{Kind: model.ItemKindNote, Content: "remember this"},
			wantStatus: "",
		},
		{
			name:    "invalid kind",
			input:   service.CreateItemInput{Kind: model.ItemKind("reminder"), Content: "x"},
			wantErr: "invalid input",
		},
		{
			name:    "blank content",
			input:   service.CreateItemInput{Kind: model.ItemKindTask, Content: "   "},
			wantErr: "invalid input",
		},
		{
			name:    "repo error",
			input:   service.CreateItemInput{Kind: model.ItemKindTask, Content: "Buy milk"},
			repoErr: fmt.Errorf("db error"),
			wantErr: "failed to create item",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockItemRepo{
				createFn: func(ctx context.Context, item model.Item) (model.Item, error) {
					if tt.repoErr != nil {
						return model.Item{}, tt.repoErr
					}
					item.ID = "item-1"
					item.CreatedAt = now
					return item, nil
				},
			}
			notifier := &recordingNotifier{}
			svc := service.NewItemService(repo)
			svc.SetNotifier(notifier)

			got, err := svc.Create(context.Background(), "user-1", tt.input)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !containsStr(err.Error(), tt.wantErr) {
					t.Fatalf("error %q does not contain %q", err.Error(), tt.wantErr)
				}
				if len(notifier.changed) != 0 {
					t.Error("failed create must not notify subscribers")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Content != tt.input.Content {
				t.Errorf("content = %q, want %q", got.Content, tt.input.Content)
			}
			if len(notifier.changed) != 1 || notifier.changed[0] != "user-1" {
				t.Errorf("notifier.changed = %v, want one notification for user-1", notifier.changed)
			}
		})
	}
}

func TestItemAdvance(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantStatus string
		wantWrite  bool
	}{
		{"pending starts", "pending", "in_progress", true},
		{"unset starts", "", "in_progress", true},
		{"in_progress completes", "in_progress", "completed", true},
		{"legacy in progress completes", "in progress", "completed", true},
		{"completed is a no-op", "completed", "completed", false},
		{"done is a no-op", "done", "done", false},
		{"unknown status is a no-op", "blocked", "blocked", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrote := false
			repo := &mockItemRepo{
				getByIDFn: func(ctx context.Context, ownerID, itemID string) (model.Item, error) {
					item := sampleTask()
					item.Status = tt.status
					return item, nil
				},
				updateStatusFn: func(ctx context.Context, ownerID, itemID, status string) (model.Item, error) {
					wrote = true
					item := sampleTask()
					item.Status = status
					return item, nil
				},
			}
			notifier := &recordingNotifier{}
			svc := service.NewItemService(repo)
			svc.SetNotifier(notifier)

			got, err := svc.Advance(context.Background(), "user-1", "item-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if wrote != tt.wantWrite {
				t.Errorf("wrote = %v, want %v", wrote, tt.wantWrite)
			}
			if tt.wantWrite && len(notifier.changed) != 1 {
				t.Error("expected a change notification after a real write")
			}
			if !tt.wantWrite && len(notifier.changed) != 0 {
				t.Error("no-op advance must not notify subscribers")
			}
		})
	}
}

func TestItemAdvance_NoteRejected(t *testing.T) {
	repo := &mockItemRepo{
		getByIDFn: func(ctx context.Context, ownerID, itemID string) (model.Item, error) {
			return model.Item{ID: "n1", OwnerID: "user-1", Kind: model.ItemKindNote, Content: "x"}, nil
		},
	}
	svc := service.NewItemService(repo)

	_, err := svc.Advance(context.Background(), "user-1", "n1")
	if !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestItemAdvance_NotFound(t *testing.T) {
	repo := &mockItemRepo{
		getByIDFn: func(ctx context.Context, ownerID, itemID string) (model.Item, error) {
			return model.Item{}, sql.ErrNoRows
		},
	}
	svc := service.NewItemService(repo)

	_, err := svc.Advance(context.Background(), "user-1", "missing")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestItemDelete(t *testing.T) {
	t.Run("unconfirmed is a silent no-op", func(t *testing.T) {
		called := false
		repo := &mockItemRepo{
			deleteFn: func(ctx context.Context, ownerID, itemID string) error {
				called = true
				return nil
			},
		}
		notifier := &recordingNotifier{}
		svc := service.NewItemService(repo)
		svc.SetNotifier(notifier)

		if err := svc.Delete(context.Background(), "user-1", "item-1", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if called {
			t.Error("unconfirmed delete must not reach the repository")
		}
		if len(notifier.changed) != 0 {
			t.Error("unconfirmed delete must not notify subscribers")
		}
	})

	t.Run("confirmed deletes and notifies", func(t *testing.T) {
		repo := &mockItemRepo{
			deleteFn: func(ctx context.Context, ownerID, itemID string) error { return nil },
		}
		notifier := &recordingNotifier{}
		svc := service.NewItemService(repo)
		svc.SetNotifier(notifier)

		if err := svc.Delete(context.Background(), "user-1", "item-1", true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notifier.changed) != 1 {
			t.Error("expected a change notification after delete")
		}
	})

	t.Run("missing item", func(t *testing.T) {
		repo := &mockItemRepo{
			deleteFn: func(ctx context.Context, ownerID, itemID string) error { return sql.ErrNoRows },
		}
		svc := service.NewItemService(repo)

		err := svc.Delete(context.Background(), "user-1", "missing", true)
		if !errors.Is(err, service.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListActiveTasks_FiltersCompleted(t *testing.T) {
	repo := &mockItemRepo{
		listByKindFn: func(ctx context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error) {
			return []model.Item{
				{ID: "t1", OwnerID: ownerID, Kind: model.ItemKindTask, Status: "pending"},
				{ID: "t2", OwnerID: ownerID, Kind: model.ItemKindTask, Status: "completed"},
				{ID: "t3", OwnerID: ownerID, Kind: model.ItemKindTask, Status: "done"},
				{ID: "t4", OwnerID: ownerID, Kind: model.ItemKindTask, Status: "in_progress"},
			}, nil
		},
	}
	svc := service.NewItemService(repo)

	got, err := svc.ListActiveTasks(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "t1" || got[1].ID != "t4" {
		t.Errorf("got %v, want t1 and t4", []string{got[0].ID, got[1].ID})
	}
}

func TestOverview(t *testing.T) {
	older := now.Add(-time.Hour)
	repo := &mockItemRepo{
		listByKindFn: func(_ context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error) {
			if kind == model.ItemKindTask {
				return []model.Item{
					{ID: "t-old", OwnerID: "user-1", Kind: model.ItemKindTask, Content: "old", Status: model.StatusPending, CreatedAt: older},
					{ID: "t-new", OwnerID: "user-1", Kind: model.ItemKindTask, Content: "new", Status: model.StatusInProgress, CreatedAt: now},
					{ID: "t-done", OwnerID: "user-1", Kind: model.ItemKindTask, Content: "done", Status: model.StatusCompleted, CreatedAt: now},
					{ID: "t-other", OwnerID: "user-2", Kind: model.ItemKindTask, Content: "foreign", Status: model.StatusPending, CreatedAt: now},
				}, nil
			}
			return []model.Item{
				{ID: "n-1", OwnerID: "user-1", Kind: model.ItemKindNote, Content: "idea", CreatedAt: now},
			}, nil
		},
	}
	svc := service.NewItemService(repo)

	p, err := svc.Overview(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.ActiveTasks) != 2 {
		t.Fatalf("expected 2 active tasks, got %d", len(p.ActiveTasks))
	}
	if p.ActiveTasks[0].ID != "t-new" || p.ActiveTasks[1].ID != "t-old" {
		t.Errorf("expected newest-first ordering, got %s, %s", p.ActiveTasks[0].ID, p.ActiveTasks[1].ID)
	}
	if len(p.CompletedTasks) != 1 || p.CompletedTasks[0].ID != "t-done" {
		t.Errorf("unexpected completed tasks: %+v", p.CompletedTasks)
	}
	if len(p.Notes) != 1 || p.Notes[0].ID != "n-1" {
		t.Errorf("unexpected notes: %+v", p.Notes)
	}
	for _, item := range p.ActiveTasks {
		if item.OwnerID != "user-1" {
			t.Errorf("foreign item leaked into projection: %+v", item)
		}
	}
}

func TestOverview_ListFailure(t *testing.T) {
	repo := &mockItemRepo{
		listByKindFn: func(_ context.Context, ownerID string, kind model.ItemKind) ([]model.Item, error) {
			return nil, fmt.Errorf("db down")
		},
	}
	svc := service.NewItemService(repo)

	if _, err := svc.Overview(context.Background(), "user-1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
