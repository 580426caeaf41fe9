package view_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/projection"
	"github.com/taskpad/taskpad-api/internal/view"
)

func task(id, content, status string) model.Item {
	return model.Item{
		ID:        id,
		OwnerID:   "u1",
		Kind:      model.ItemKindTask,
		Content:   content,
		Status:    status,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderTasks_EscapesContent(t *testing.T) {
	hostile := `<script>alert("x") & 'more'</script>`
	out := view.RenderTasks([]model.Item{task("t1", hostile, "pending")})

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "&amp;")
	assert.NotContains(t, out, `alert("x")`)
}

func TestRenderTasks_ActionLabels(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{"pending gets Start", "pending", view.ActionStart},
		{"unset gets Start", "", view.ActionStart},
		{"in_progress gets Mark Done", "in_progress", view.ActionMarkDone},
		{"unknown status gets Mark Done", "blocked", view.ActionMarkDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := view.RenderTasks([]model.Item{task("t1", "Buy milk", tt.status)})
			assert.Contains(t, out, ">"+tt.want+"<")
		})
	}
}

func TestRenderTasks_StatusLabel(t *testing.T) {
	out := view.RenderTasks([]model.Item{task("t1", "Buy milk", "")})
	assert.Contains(t, out, ">Pending<")

	out = view.RenderTasks([]model.Item{task("t1", "Buy milk", "in_progress")})
	assert.Contains(t, out, ">in_progress<")
}

func TestRenderNotes_DeleteOnly(t *testing.T) {
	note := model.Item{ID: "n1", Kind: model.ItemKindNote, Content: "remember"}
	out := view.RenderNotes([]model.Item{note})

	assert.Contains(t, out, "remember")
	assert.Contains(t, out, `data-action="delete"`)
	assert.NotContains(t, out, `data-action="advance"`)
}

func TestRenderCompletedTasks_Date(t *testing.T) {
	done := task("t1", "Shipped", "completed")
	out := view.RenderCompletedTasks([]model.Item{done})
	assert.Contains(t, out, "Jun 1, 2025")

	done.CreatedAt = time.Time{}
	out = view.RenderCompletedTasks([]model.Item{done})
	assert.Contains(t, out, view.DateFallback)
}

func TestRender_Placeholders(t *testing.T) {
	assert.Contains(t, view.RenderTasks(nil), projection.PlaceholderTasks)
	assert.Contains(t, view.RenderNotes(nil), projection.PlaceholderNotes)
	assert.Contains(t, view.RenderCompletedTasks(nil), projection.PlaceholderCompleted)
}

func TestRender_EmptyIsSingleRow(t *testing.T) {
	out := view.RenderTasks(nil)
	assert.Equal(t, 1, strings.Count(out, "<li"))
}
