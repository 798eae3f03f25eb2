package service

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/scoutreport/activityform/internal/model"
	"github.com/scoutreport/activityform/internal/repository"
	"github.com/scoutreport/activityform/internal/service/notify"
	"github.com/scoutreport/activityform/internal/validation"
)

var (
	ErrNoParagraphs = validation.ErrNoParagraphs
	ErrInvalidDate  = validation.ErrInvalidDate
)

// Notifier accepts notification jobs without blocking.
type Notifier interface {
	Enqueue(job notify.Job) bool
}

// ActivityInput is the submitted form, before normalization.
type ActivityInput struct {
	Date         string
	Group        string
	ActivityType string
	Place        string
	TimeOfDay    string
	Occasion     string
	Cost         int
	Leaders      int
	Cubs         int
	Scouts       int
	Rovers       int
	NonScouts    int
	Paragraphs   []string
}

// toActivity validates the date and paragraphs and copies the input onto a
// record.
func (in ActivityInput) toActivity() (*model.Activity, error) {
	date := strings.TrimSpace(in.Date)
	err := validation.ValidateDate(date)
	if err != nil {
		return nil, err
	}

	paragraphs, err := validation.Paragraphs(in.Paragraphs)
	if err != nil {
		return nil, err
	}

	occasion := strings.TrimSpace(in.Occasion)
	if occasion == "" {
		occasion = model.DefaultOccasion
	}

	return &model.Activity{
		Date:         date,
		GroupName:    strings.TrimSpace(in.Group),
		ActivityType: strings.TrimSpace(in.ActivityType),
		Place:        strings.TrimSpace(in.Place),
		TimeOfDay:    strings.TrimSpace(in.TimeOfDay),
		Occasion:     occasion,
		Cost:         in.Cost,
		Leaders:      in.Leaders,
		Cubs:         in.Cubs,
		Scouts:       in.Scouts,
		Rovers:       in.Rovers,
		NonScouts:    in.NonScouts,
		Paragraphs:   strings.Join(paragraphs, "\n"),
	}, nil
}

type ActivityService struct {
	repo        repository.ActivityRepository
	attachments *AttachmentService
	notifier    Notifier
	loc         *time.Location
	now         func() time.Time
}

func NewActivityService(
	repo repository.ActivityRepository,
	attachments *AttachmentService,
	notifier Notifier,
	loc *time.Location,
) *ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &ActivityService{
		repo:        repo,
		attachments: attachments,
		notifier:    notifier,
		loc:         loc,
		now:         time.Now,
	}
}

func (s *ActivityService) clock() time.Time {
	return s.now().In(s.loc)
}

// stamp is the current instant for stored timestamps, which are UTC.
func (s *ActivityService) stamp() time.Time {
	return s.now().UTC()
}

// localize converts stored timestamps to the configured zone for display.
func (s *ActivityService) localize(a *model.Activity) *model.Activity {
	a.CreatedAt = a.CreatedAt.In(s.loc)
	if a.CheckedAt != nil {
		t := a.CheckedAt.In(s.loc)
		a.CheckedAt = &t
	}
	if a.UpdatedAt != nil {
		t := a.UpdatedAt.In(s.loc)
		a.UpdatedAt = &t
	}
	return a
}

// Today is the current date in the configured zone, as YYYY-MM-DD.
func (s *ActivityService) Today() string {
	return s.clock().Format("2006-01-02")
}

// Submit persists a new activity and hands the summary and files to the
// notifier. Archive and notification problems never fail the submission.
func (s *ActivityService) Submit(in ActivityInput, files []notify.File) (*model.Activity, error) {
	activity, err := in.toActivity()
	if err != nil {
		submissionCounter.WithLabelValues("invalid").Inc()
		return nil, err
	}

	activity.Checked = model.CheckedNone
	activity.CreatedAt = s.stamp()

	id, err := s.repo.Create(activity)
	if err != nil {
		submissionCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}
	activity.ID = id
	submissionCounter.WithLabelValues("created").Inc()

	if s.attachments != nil {
		s.attachments.Archive(id, files)
	}

	if s.notifier != nil {
		queued := s.notifier.Enqueue(notify.Job{
			ActivityID: &id,
			Text:       notify.ActivitySummary(activity),
			Caption:    html.EscapeString(activity.ActivityType),
			Files:      files,
		})
		if !queued {
			slog.Warn("activity notification dropped", "activity_id", id)
		}
	}

	return s.localize(activity), nil
}

func (s *ActivityService) ByID(id int64) (*model.Activity, error) {
	activity, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}
	return s.localize(activity), nil
}

func (s *ActivityService) List(filter repository.ActivityFilter) ([]*model.Activity, error) {
	activities, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		s.localize(a)
	}
	return activities, nil
}

func (s *ActivityService) Groups() ([]string, error) {
	return s.repo.Groups()
}

// OpenForEdit loads an activity for the edit form. Opening a reviewed
// activity demotes it to edited.
func (s *ActivityService) OpenForEdit(id int64) (*model.Activity, error) {
	activity, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	if activity.Checked != model.CheckedReviewed {
		return s.localize(activity), nil
	}

	now := s.stamp()
	err = s.repo.SetChecked(id, model.CheckedEdited, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to demote reviewed activity: %w", err)
	}

	activity.Checked = model.CheckedEdited
	activity.CheckedAt = &now
	reviewCounter.WithLabelValues(model.CheckedEdited.String()).Inc()

	return s.localize(activity), nil
}

// Update overwrites the content fields of an existing activity.
func (s *ActivityService) Update(id int64, in ActivityInput) error {
	activity, err := in.toActivity()
	if err != nil {
		return err
	}

	now := s.stamp()
	activity.ID = id
	activity.UpdatedAt = &now

	err = s.repo.Update(activity)
	if errors.Is(err, repository.ErrActivityNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	return nil
}

// Delete removes the activity and its archived files. Deleting an id that
// does not exist succeeds.
func (s *ActivityService) Delete(id int64) error {
	if s.attachments != nil {
		s.attachments.DeleteForActivity(id)
	}

	err := s.repo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	return nil
}

// ToggleChecked flips between unchecked and checked. Edited activities
// become checked.
func (s *ActivityService) ToggleChecked(id int64) (model.CheckedState, error) {
	activity, err := s.repo.ByID(id)
	if err != nil {
		return 0, err
	}

	next := model.CheckedReviewed
	var at *time.Time
	if activity.Checked == model.CheckedReviewed {
		next = model.CheckedNone
	} else {
		now := s.stamp()
		at = &now
	}

	err = s.repo.SetChecked(id, next, at)
	if err != nil {
		return 0, err
	}
	reviewCounter.WithLabelValues(next.String()).Inc()

	return next, nil
}

// Unreviewed lists activities that are unchecked or were edited after review.
func (s *ActivityService) Unreviewed() ([]*model.Activity, error) {
	return s.repo.List(repository.ActivityFilter{Unreviewed: true})
}

// SendDigest queues a message listing unreviewed activities and returns how
// many were listed. Nothing is sent when the list is empty.
func (s *ActivityService) SendDigest() (int, error) {
	activities, err := s.Unreviewed()
	if err != nil {
		return 0, fmt.Errorf("failed to list unreviewed activities: %w", err)
	}

	if len(activities) == 0 || s.notifier == nil {
		return len(activities), nil
	}

	if !s.notifier.Enqueue(notify.Job{Text: notify.UnreviewedDigest(activities)}) {
		return 0, errors.New("digest notification dropped")
	}

	return len(activities), nil
}
