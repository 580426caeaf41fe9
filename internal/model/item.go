package model

import (
	"strings"
	"time"
)

type ItemKind string

const (
	ItemKindTask ItemKind = "task"
	ItemKindNote ItemKind = "note"
)

func (k ItemKind) IsValid() bool {
	return k == ItemKindTask || k == ItemKindNote
}

// Status values for task items. Notes carry no status.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

	// StatusDone is a legacy encoding of completion still present in old
	// records. It must be treated as a synonym of StatusCompleted.
	StatusDone = "done"
)

// Bucket is the display classification of a task.
type Bucket string

const (
	BucketActive    Bucket = "active"
	BucketCompleted Bucket = "completed"
)

type Item struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Kind      ItemKind  `json:"kind"`
	Content   string    `json:"content"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTask reports whether the item participates in the task lifecycle.
func (i Item) IsTask() bool {
	return i.Kind == ItemKindTask
}

// TaskBucket classifies a task into its display bucket. Only the exact
// literals "completed" and "done" count as completed; every other status
// value, including an empty one, leaves the task active. Calling it on a
// note always yields BucketActive, but notes are never routed through task
// buckets by callers.
func (i Item) TaskBucket() Bucket {
	if i.Status == StatusCompleted || i.Status == StatusDone {
		return BucketCompleted
	}
	return BucketActive
}

// StatusLabel is the display label for the item's status: the literal
// status string when set, "Pending" otherwise.
func (i Item) StatusLabel() string {
	if i.Status == "" {
		return "Pending"
	}
	return i.Status
}

// AdvanceStatus computes the next status in the task lifecycle:
// pending -> in_progress -> completed. Missing status counts as pending,
// and the legacy two-word form "in progress" advances like in_progress.
// Completed and unrecognized statuses are returned unchanged, so advancing
// a terminal or unknown status is a no-op rather than an error.
func AdvanceStatus(status string) string {
	switch strings.ToLower(status) {
	case StatusPending, "":
		return StatusInProgress
	case StatusInProgress, "in progress":
		return StatusCompleted
	default:
		return status
	}
}

// Classification is the full classifier output for a single item.
type Classification struct {
	Bucket     Bucket
	NextStatus string
	Label      string
}

// Classify tags an item with its bucket, next-status transition, and
// display label. Notes are never placed in a task bucket.
func Classify(item Item) Classification {
	c := Classification{
		NextStatus: AdvanceStatus(item.Status),
		Label:      item.StatusLabel(),
	}
	if item.IsTask() {
		c.Bucket = item.TaskBucket()
	}
	return c
}
