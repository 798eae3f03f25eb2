package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/scoutreport/activityform/internal/model"
)

type AttachmentRepository interface {
	Create(attachment *model.Attachment) error
	ByActivity(activityID int64) ([]*model.Attachment, error)
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(attachment *model.Attachment) error {
	query := `INSERT INTO attachments (id, activity_id, filename, original_name, mime_type, size, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		attachment.ID,
		attachment.ActivityID,
		attachment.Filename,
		attachment.OriginalName,
		attachment.MimeType,
		attachment.Size,
		attachment.StoragePath,
		attachment.CreatedAt,
	)

	return err
}

func (r *attachmentRepository) ByActivity(activityID int64) ([]*model.Attachment, error) {
	attachments := []*model.Attachment{}
	query := `SELECT * FROM attachments WHERE activity_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&attachments, query, activityID)
	if err != nil {
		return nil, err
	}

	return attachments, nil
}
