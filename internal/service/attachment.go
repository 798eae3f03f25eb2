package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scoutreport/activityform/internal/model"
	"github.com/scoutreport/activityform/internal/repository"
	"github.com/scoutreport/activityform/internal/service/notify"
	"github.com/scoutreport/activityform/internal/storage"
)

// AttachmentService archives uploaded files to object storage. With no
// storage configured every method is a no-op.
type AttachmentService struct {
	repo    repository.AttachmentRepository
	storage storage.Storage
	now     func() time.Time
}

func NewAttachmentService(repo repository.AttachmentRepository, storage storage.Storage) *AttachmentService {
	return &AttachmentService{
		repo:    repo,
		storage: storage,
		now:     time.Now,
	}
}

func (s *AttachmentService) Enabled() bool {
	return s.storage != nil
}

// Archive stores each file under activities/{id}/ and records it. Failures
// are logged and skipped.
func (s *AttachmentService) Archive(activityID int64, files []notify.File) []*model.Attachment {
	if !s.Enabled() {
		return nil
	}

	archived := make([]*model.Attachment, 0, len(files))
	for _, file := range files {
		attachment, err := s.archive(activityID, file)
		if err != nil {
			archiveCounter.WithLabelValues("failure").Inc()
			slog.Error("failed to archive attachment", "error", err, "activity_id", activityID, "filename", file.Name)
			continue
		}
		archiveCounter.WithLabelValues("success").Inc()
		archived = append(archived, attachment)
	}

	return archived
}

func (s *AttachmentService) archive(activityID int64, file notify.File) (*model.Attachment, error) {
	id := uuid.New().String()
	filename := id + strings.ToLower(filepath.Ext(file.Name))
	storagePath := path.Join("activities", fmt.Sprint(activityID), filename)

	err := s.storage.Save(storagePath, bytes.NewReader(file.Data), file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	attachment := &model.Attachment{
		ID:           id,
		ActivityID:   activityID,
		Filename:     filename,
		OriginalName: file.Name,
		MimeType:     file.ContentType,
		Size:         int64(len(file.Data)),
		StoragePath:  storagePath,
		CreatedAt:    s.now().UTC(),
	}

	err = s.repo.Create(attachment)
	if err != nil {
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create attachment record: %w", err)
	}

	return attachment, nil
}

func (s *AttachmentService) ByActivity(activityID int64) ([]*model.Attachment, error) {
	if !s.Enabled() {
		return nil, nil
	}
	return s.repo.ByActivity(activityID)
}

// URL returns a presigned download link, or "" when archiving is off.
func (s *AttachmentService) URL(attachment *model.Attachment) string {
	if attachment == nil || !s.Enabled() {
		return ""
	}
	return s.storage.URL(attachment.StoragePath)
}

// DeleteForActivity removes archived objects. Rows go with the activity
// through the foreign key cascade.
func (s *AttachmentService) DeleteForActivity(activityID int64) {
	if !s.Enabled() {
		return
	}

	attachments, err := s.repo.ByActivity(activityID)
	if err != nil {
		slog.Error("failed to list attachments", "error", err, "activity_id", activityID)
		return
	}

	for _, attachment := range attachments {
		err = s.storage.Delete(attachment.StoragePath)
		if err != nil {
			slog.Warn("failed to delete file from storage", "storage_path", attachment.StoragePath, "error", err)
		}
	}
}
