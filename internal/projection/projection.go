// Package projection partitions a raw batch of items into the three
// display views: active tasks, notes, and completed-task history.
package projection

import (
	"sort"

	"github.com/taskpad/taskpad-api/internal/model"
)

// Placeholder rows rendered when a view has no items.
const (
	PlaceholderTasks     = "No tasks yet. Add a task to get started!"
	PlaceholderNotes     = "No notes yet."
	PlaceholderCompleted = "No completed tasks yet."
)

type Projection struct {
	ActiveTasks    []model.Item
	Notes          []model.Item
	CompletedTasks []model.Item
}

// Project buckets an unordered batch of items for one user. Items owned by
// anyone else are dropped; the subscription query already filters by owner,
// but the legacy client double-checked on its side and that defense is kept.
// Each output list is ordered by CreatedAt descending. Ties keep whatever
// relative order the sort leaves them in, matching the backend query
// semantics which promise nothing for equal timestamps.
func Project(items []model.Item, forUser string) Projection {
	var p Projection
	for _, item := range items {
		if item.OwnerID != forUser {
			continue
		}
		switch {
		case item.Kind == model.ItemKindNote:
			p.Notes = append(p.Notes, item)
		case item.IsTask() && item.TaskBucket() == model.BucketCompleted:
			p.CompletedTasks = append(p.CompletedTasks, item)
		case item.IsTask():
			p.ActiveTasks = append(p.ActiveTasks, item)
		}
	}

	sortNewestFirst(p.ActiveTasks)
	sortNewestFirst(p.Notes)
	sortNewestFirst(p.CompletedTasks)
	return p
}

func sortNewestFirst(items []model.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
