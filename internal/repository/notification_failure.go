package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scoutreport/activityform/internal/model"
)

type NotificationFailureRepository interface {
	Create(failure *model.NotificationFailure) error
	Recent(limit int) ([]*model.NotificationFailure, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type notificationFailureRepository struct {
	db *sqlx.DB
}

func NewNotificationFailureRepository(db *sqlx.DB) NotificationFailureRepository {
	return &notificationFailureRepository{db: db}
}

func (r *notificationFailureRepository) Create(failure *model.NotificationFailure) error {
	query := `INSERT INTO notification_failures (kind, activity_id, target, error, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		failure.Kind,
		failure.ActivityID,
		failure.Target,
		failure.Error,
		failure.CreatedAt,
	)

	return err
}

func (r *notificationFailureRepository) Recent(limit int) ([]*model.NotificationFailure, error) {
	failures := []*model.NotificationFailure{}
	query := `SELECT * FROM notification_failures ORDER BY created_at DESC, id DESC LIMIT $1`

	err := r.db.Select(&failures, query, limit)
	if err != nil {
		return nil, err
	}

	return failures, nil
}

func (r *notificationFailureRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	query := `DELETE FROM notification_failures WHERE created_at < $1`

	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
