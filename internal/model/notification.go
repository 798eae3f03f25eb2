package model

import (
	"time"
)

const (
	NotificationKindText = "text"
	NotificationKindFile = "file"
)

// NotificationFailure is one entry of the notifier's failure log.
type NotificationFailure struct {
	ID         int64     `db:"id" json:"id"`
	Kind       string    `db:"kind" json:"kind"`
	ActivityID *int64    `db:"activity_id" json:"activity_id,omitempty"`
	Target     string    `db:"target" json:"target"`
	Error      string    `db:"error" json:"error"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
