package model

import (
	"time"
)

type Attachment struct {
	ID           string    `db:"id"`
	ActivityID   int64     `db:"activity_id"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	CreatedAt    time.Time `db:"created_at"`
}
