// Package view renders projected item lists into HTML fragments. Rendering
// is a pure mapping with no I/O; all user-supplied content goes through
// html/template's contextual escaping, so raw markup in item content never
// reaches the output.
package view

import (
	"html/template"
	"strings"
	"time"

	"github.com/taskpad/taskpad-api/internal/model"
	"github.com/taskpad/taskpad-api/internal/projection"
)

const (
	// ActionStart labels the advance button for tasks that have not been
	// started yet; every other active status advances toward completion.
	ActionStart    = "Start"
	ActionMarkDone = "Mark Done"

	// DateFallback is rendered when a completed task has no resolvable
	// creation timestamp.
	DateFallback = "Just now"

	dateLayout = "Jan 2, 2006"
)

var (
	taskListTmpl = template.Must(template.New("tasks").Parse(`{{if .Rows}}{{range .Rows}}<li class="task-item" data-id="{{.ID}}">
  <div class="task-content"><span>{{.Content}}</span><span class="status-badge">{{.Label}}</span></div>
  <div class="task-actions">
    <button class="btn btn-sm btn-info" data-action="advance" data-id="{{.ID}}">{{.Action}}</button>
    <button class="btn btn-sm btn-danger" data-action="delete" data-id="{{.ID}}">Delete</button>
  </div>
</li>
{{end}}{{else}}<li class="placeholder">{{.Placeholder}}</li>
{{end}}`))

	noteListTmpl = template.Must(template.New("notes").Parse(`{{if .Rows}}{{range .Rows}}<li class="note-item" data-id="{{.ID}}">
  <span>{{.Content}}</span>
  <button class="btn btn-sm btn-danger" data-action="delete" data-id="{{.ID}}">Delete</button>
</li>
{{end}}{{else}}<li class="placeholder">{{.Placeholder}}</li>
{{end}}`))

	completedListTmpl = template.Must(template.New("completed").Parse(`{{if .Rows}}{{range .Rows}}<li class="task-item" data-id="{{.ID}}">
  <span>{{.Content}}</span>
  <span class="status-badge status-completed">Completed</span>
  <span class="task-date">{{.Date}}</span>
</li>
{{end}}{{else}}<li class="placeholder">{{.Placeholder}}</li>
{{end}}`))
)

type taskRow struct {
	ID      string
	Content string
	Label   string
	Action  string
}

type noteRow struct {
	ID      string
	Content string
}

type completedRow struct {
	ID      string
	Content string
	Date    string
}

// RenderTasks renders the active task list. Each row carries an advance
// action whose label depends on the current status and a delete action.
func RenderTasks(items []model.Item) string {
	rows := make([]taskRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, taskRow{
			ID:      item.ID,
			Content: item.Content,
			Label:   item.StatusLabel(),
			Action:  actionLabel(item.Status),
		})
	}
	return execute(taskListTmpl, rows, projection.PlaceholderTasks)
}

// RenderNotes renders the note list. Notes expose only a delete action.
func RenderNotes(items []model.Item) string {
	rows := make([]noteRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, noteRow{ID: item.ID, Content: item.Content})
	}
	return execute(noteListTmpl, rows, projection.PlaceholderNotes)
}

// RenderCompletedTasks renders the history list with a human-readable
// creation date per row.
func RenderCompletedTasks(items []model.Item) string {
	rows := make([]completedRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, completedRow{
			ID:      item.ID,
			Content: item.Content,
			Date:    formatDate(item.CreatedAt),
		})
	}
	return execute(completedListTmpl, rows, projection.PlaceholderCompleted)
}

func actionLabel(status string) string {
	switch status {
	case "", model.StatusPending:
		return ActionStart
	default:
		return ActionMarkDone
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return DateFallback
	}
	return t.Format(dateLayout)
}

func execute(tmpl *template.Template, rows any, placeholder string) string {
	var b strings.Builder
	data := struct {
		Rows        any
		Placeholder string
	}{Rows: rows, Placeholder: placeholder}
	// The templates are parsed at init and the row types are plain structs,
	// so execution cannot fail at runtime.
	if err := tmpl.Execute(&b, data); err != nil {
		panic(err)
	}
	return b.String()
}
