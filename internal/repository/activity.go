package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/scoutreport/activityform/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
)

// psql keeps the $N placeholders used throughout the repositories; both
// SQLite and Postgres accept them.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ActivityRepository stores timestamps in UTC so created_at sorts by instant.
type ActivityRepository interface {
	Create(activity *model.Activity) (int64, error)
	ByID(id int64) (*model.Activity, error)
	List(filter ActivityFilter) ([]*model.Activity, error)
	Groups() ([]string, error)
	Update(activity *model.Activity) error
	SetChecked(id int64, state model.CheckedState, at *time.Time) error
	Delete(id int64) error
}

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.Activity) (int64, error) {
	query, args, err := psql.Insert("activities").
		Columns(
			"date", "group_name", "activity_type", "place", "time_of_day", "occasion", "cost",
			"leaders", "cubs", "scouts", "rovers", "non_scouts",
			"paragraphs", "checked", "created_at",
		).
		Values(
			activity.Date, activity.GroupName, activity.ActivityType, activity.Place, activity.TimeOfDay, activity.Occasion, activity.Cost,
			activity.Leaders, activity.Cubs, activity.Scouts, activity.Rovers, activity.NonScouts,
			activity.Paragraphs, int(activity.Checked), activity.CreatedAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	var id int64
	err = r.db.QueryRow(query, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *activityRepository) ByID(id int64) (*model.Activity, error) {
	activity := &model.Activity{}
	query := `SELECT * FROM activities WHERE id = $1`

	err := r.db.Get(activity, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *activityRepository) List(filter ActivityFilter) ([]*model.Activity, error) {
	builder := psql.Select("*").From("activities")
	if !filter.IsZero() {
		builder = builder.Where(filter.Where())
	}

	query, args, err := builder.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build listing query: %w", err)
	}

	activities := []*model.Activity{}
	err = r.db.Select(&activities, query, args...)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

func (r *activityRepository) Groups() ([]string, error) {
	var groups []string
	query := `SELECT DISTINCT group_name FROM activities WHERE group_name <> '' ORDER BY group_name ASC`

	err := r.db.Select(&groups, query)
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Update overwrites the content fields. A reviewed activity is demoted to
// edited, stamped with the same time as updated_at.
func (r *activityRepository) Update(activity *model.Activity) error {
	if activity.UpdatedAt == nil {
		return errors.New("updated_at is required")
	}
	updatedAt := activity.UpdatedAt.UTC()

	query, args, err := psql.Update("activities").
		Set("date", activity.Date).
		Set("group_name", activity.GroupName).
		Set("activity_type", activity.ActivityType).
		Set("place", activity.Place).
		Set("time_of_day", activity.TimeOfDay).
		Set("occasion", activity.Occasion).
		Set("cost", activity.Cost).
		Set("leaders", activity.Leaders).
		Set("cubs", activity.Cubs).
		Set("scouts", activity.Scouts).
		Set("rovers", activity.Rovers).
		Set("non_scouts", activity.NonScouts).
		Set("paragraphs", activity.Paragraphs).
		Set("checked_at", squirrel.Expr("CASE WHEN checked = 1 THEN ? ELSE checked_at END", updatedAt)).
		Set("checked", squirrel.Expr("CASE WHEN checked = 1 THEN -1 ELSE checked END")).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": activity.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrActivityNotFound
	}

	return nil
}

func (r *activityRepository) SetChecked(id int64, state model.CheckedState, at *time.Time) error {
	if at != nil {
		utc := at.UTC()
		at = &utc
	}

	query := `UPDATE activities SET checked = $1, checked_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, int(state), at, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrActivityNotFound
	}

	return nil
}

// Delete removes the activity if it exists; a missing id is not an error.
func (r *activityRepository) Delete(id int64) error {
	query := `DELETE FROM activities WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
