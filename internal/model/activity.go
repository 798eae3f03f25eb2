package model

import (
	"strings"
	"time"
)

// CheckedState is the review status of an activity.
type CheckedState int

const (
	CheckedNone     CheckedState = 0
	CheckedReviewed CheckedState = 1
	CheckedEdited   CheckedState = -1 // reviewed, then edited
)

const DefaultOccasion = "none"

type Activity struct {
	ID           int64        `db:"id" json:"id"`
	Date         string       `db:"date" json:"date"`
	GroupName    string       `db:"group_name" json:"group"`
	ActivityType string       `db:"activity_type" json:"activity_type"`
	Place        string       `db:"place" json:"place"`
	TimeOfDay    string       `db:"time_of_day" json:"time"`
	Occasion     string       `db:"occasion" json:"occasion"`
	Cost         int          `db:"cost" json:"cost"`
	Leaders      int          `db:"leaders" json:"leaders"`
	Cubs         int          `db:"cubs" json:"cubs"`
	Scouts       int          `db:"scouts" json:"scouts"`
	Rovers       int          `db:"rovers" json:"rovers"`
	NonScouts    int          `db:"non_scouts" json:"non_scouts"`
	Paragraphs   string       `db:"paragraphs" json:"paragraphs"`
	Checked      CheckedState `db:"checked" json:"checked"`
	CheckedAt    *time.Time   `db:"checked_at" json:"checked_at,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time   `db:"updated_at" json:"updated_at,omitempty"`
}

// ParagraphList splits the stored paragraph text back into its lines.
func (a *Activity) ParagraphList() []string {
	if a.Paragraphs == "" {
		return nil
	}
	return strings.Split(a.Paragraphs, "\n")
}

// Participants is the sum of all participant counters.
func (a *Activity) Participants() int {
	return a.Leaders + a.Cubs + a.Scouts + a.Rovers + a.NonScouts
}

func (s CheckedState) String() string {
	switch s {
	case CheckedReviewed:
		return "checked"
	case CheckedEdited:
		return "edited"
	default:
		return "unchecked"
	}
}

// ParseCheckedState accepts both the status names used by the listing
// filter and their numeric values.
func ParseCheckedState(s string) (CheckedState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unchecked", "0":
		return CheckedNone, true
	case "checked", "1":
		return CheckedReviewed, true
	case "edited", "-1":
		return CheckedEdited, true
	}
	return 0, false
}
