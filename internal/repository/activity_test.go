package repository_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutreport/activityform/internal/db/dbtest"
	"github.com/scoutreport/activityform/internal/model"
	"github.com/scoutreport/activityform/internal/repository"
)

var baseTime = time.Date(2025, time.March, 1, 18, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo repository.ActivityRepository, offset time.Duration, mutate func(a *model.Activity)) *model.Activity {
	t.Helper()

	a := &model.Activity{
		Date:         "2025-03-01",
		GroupName:    "Cedars",
		ActivityType: "Hike",
		Place:        "Jabal Moussa",
		TimeOfDay:    "09:00",
		Occasion:     model.DefaultOccasion,
		Leaders:      2,
		Scouts:       10,
		Paragraphs:   "opening circle\ntrail walk",
		CreatedAt:    baseTime.Add(offset),
	}
	if mutate != nil {
		mutate(a)
	}

	id, err := repo.Create(a)
	require.NoError(t, err)
	a.ID = id
	return a
}

func ids(activities []*model.Activity) []int64 {
	out := make([]int64, 0, len(activities))
	for _, a := range activities {
		out = append(out, a.ID)
	}
	return out
}

func TestActivityRepository_CreateAndByID(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	created := seed(t, repo, 0, func(a *model.Activity) { a.Cost = 150; a.Rovers = 3 })
	require.NotZero(t, created.ID)

	got, err := repo.ByID(created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Cedars", got.GroupName)
	assert.Equal(t, "opening circle\ntrail walk", got.Paragraphs)
	assert.Equal(t, 150, got.Cost)
	assert.Equal(t, 3, got.Rovers)
	assert.Equal(t, model.CheckedNone, got.Checked)
	assert.Nil(t, got.CheckedAt)
	assert.Nil(t, got.UpdatedAt)
	assert.True(t, baseTime.Equal(got.CreatedAt))
}

func TestActivityRepository_ByID_NotFound(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	_, err := repo.ByID(404)
	assert.ErrorIs(t, err, repository.ErrActivityNotFound)
}

func TestActivityRepository_List_OrderedByCreationDesc(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	first := seed(t, repo, 0, nil)
	second := seed(t, repo, time.Hour, nil)
	third := seed(t, repo, 2*time.Hour, nil)

	got, err := repo.List(repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, ids(got))
}

func TestActivityRepository_List_DateRangeInclusive(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	before := seed(t, repo, 0, func(a *model.Activity) { a.Date = "2025-02-28" })
	start := seed(t, repo, time.Hour, func(a *model.Activity) { a.Date = "2025-03-01" })
	middle := seed(t, repo, 2*time.Hour, func(a *model.Activity) { a.Date = "2025-03-05" })
	end := seed(t, repo, 3*time.Hour, func(a *model.Activity) { a.Date = "2025-03-10" })
	after := seed(t, repo, 4*time.Hour, func(a *model.Activity) { a.Date = "2025-03-11" })

	got, err := repo.List(repository.ActivityFilter{Start: "2025-03-01", End: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, []int64{end.ID, middle.ID, start.ID}, ids(got))

	got, err = repo.List(repository.ActivityFilter{Start: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, []int64{after.ID, end.ID}, ids(got))

	got, err = repo.List(repository.ActivityFilter{End: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, []int64{start.ID, before.ID}, ids(got))
}

func TestActivityRepository_List_Group(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	seed(t, repo, 0, nil)
	pines := seed(t, repo, time.Hour, func(a *model.Activity) { a.GroupName = "Pines" })

	got, err := repo.List(repository.ActivityFilter{Group: "Pines"})
	require.NoError(t, err)
	assert.Equal(t, []int64{pines.ID}, ids(got))
}

func TestActivityRepository_List_QueryMatchesTextOrID(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	hike := seed(t, repo, 0, nil)
	camp := seed(t, repo, time.Hour, func(a *model.Activity) {
		a.ActivityType = "Camp"
		a.Place = "Ehden"
		a.Paragraphs = "tent pitching\ncampfire"
	})

	got, err := repo.List(repository.ActivityFilter{Query: "CAMPFIRE"})
	require.NoError(t, err)
	assert.Equal(t, []int64{camp.ID}, ids(got))

	got, err = repo.List(repository.ActivityFilter{Query: "moussa"})
	require.NoError(t, err)
	assert.Equal(t, []int64{hike.ID}, ids(got))

	got, err = repo.List(repository.ActivityFilter{Query: strconv.FormatInt(hike.ID, 10)})
	require.NoError(t, err)
	assert.Equal(t, []int64{hike.ID}, ids(got))

	got, err = repo.List(repository.ActivityFilter{Query: "100%"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestActivityRepository_List_QueryFoldsNonASCII(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	school := seed(t, repo, 0, func(a *model.Activity) { a.Place = "ÉCOLE Saint-Joseph" })
	seed(t, repo, time.Hour, func(a *model.Activity) { a.Place = "Ecole publique" })

	for _, q := range []string{"école", "ÉCOLE", "École saint"} {
		got, err := repo.List(repository.ActivityFilter{Query: q})
		require.NoError(t, err)
		assert.Equal(t, []int64{school.ID}, ids(got), q)
	}
}

func TestActivityRepository_List_Status(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	unchecked := seed(t, repo, 0, nil)
	checked := seed(t, repo, time.Hour, nil)
	edited := seed(t, repo, 2*time.Hour, nil)

	now := baseTime.Add(3 * time.Hour)
	require.NoError(t, repo.SetChecked(checked.ID, model.CheckedReviewed, &now))
	require.NoError(t, repo.SetChecked(edited.ID, model.CheckedEdited, &now))

	for state, want := range map[model.CheckedState]int64{
		model.CheckedNone:     unchecked.ID,
		model.CheckedReviewed: checked.ID,
		model.CheckedEdited:   edited.ID,
	} {
		got, err := repo.List(repository.ActivityFilter{Status: &state})
		require.NoError(t, err)
		assert.Equal(t, []int64{want}, ids(got), state.String())
	}
}

func TestActivityRepository_List_Unreviewed(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	unchecked := seed(t, repo, 0, nil)
	checked := seed(t, repo, time.Hour, nil)
	edited := seed(t, repo, 2*time.Hour, nil)

	now := baseTime.Add(3 * time.Hour)
	require.NoError(t, repo.SetChecked(checked.ID, model.CheckedReviewed, &now))
	require.NoError(t, repo.SetChecked(edited.ID, model.CheckedEdited, &now))

	got, err := repo.List(repository.ActivityFilter{Unreviewed: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{edited.ID, unchecked.ID}, ids(got))
}

func TestActivityRepository_Update_DemotesReviewed(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	a := seed(t, repo, 0, nil)
	checkedAt := baseTime.Add(time.Hour)
	require.NoError(t, repo.SetChecked(a.ID, model.CheckedReviewed, &checkedAt))

	editedAt := baseTime.Add(2 * time.Hour)
	a.Place = "Qadisha"
	a.UpdatedAt = &editedAt
	require.NoError(t, repo.Update(a))

	got, err := repo.ByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Qadisha", got.Place)
	assert.Equal(t, model.CheckedEdited, got.Checked)
	require.NotNil(t, got.CheckedAt)
	assert.True(t, editedAt.Equal(*got.CheckedAt))
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, editedAt.Equal(*got.UpdatedAt))
}

func TestActivityRepository_Update_KeepsUnreviewed(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	a := seed(t, repo, 0, nil)
	editedAt := baseTime.Add(time.Hour)
	a.UpdatedAt = &editedAt
	require.NoError(t, repo.Update(a))

	got, err := repo.ByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CheckedNone, got.Checked)
	assert.Nil(t, got.CheckedAt)
}

func TestActivityRepository_Update_NotFound(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	now := baseTime
	err := repo.Update(&model.Activity{ID: 99, UpdatedAt: &now})
	assert.ErrorIs(t, err, repository.ErrActivityNotFound)
}

func TestActivityRepository_SetChecked_NotFound(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	err := repo.SetChecked(99, model.CheckedReviewed, nil)
	assert.ErrorIs(t, err, repository.ErrActivityNotFound)
}

func TestActivityRepository_Delete(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	a := seed(t, repo, 0, nil)
	require.NoError(t, repo.Delete(a.ID))

	_, err := repo.ByID(a.ID)
	assert.ErrorIs(t, err, repository.ErrActivityNotFound)

	// Deleting again is not an error
	assert.NoError(t, repo.Delete(a.ID))
}

func TestActivityRepository_Groups(t *testing.T) {
	repo := repository.NewActivityRepository(dbtest.New(t))

	seed(t, repo, 0, func(a *model.Activity) { a.GroupName = "Pines" })
	seed(t, repo, time.Hour, nil)
	seed(t, repo, 2*time.Hour, func(a *model.Activity) { a.GroupName = "Pines" })
	seed(t, repo, 3*time.Hour, func(a *model.Activity) { a.GroupName = "" })

	groups, err := repo.Groups()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cedars", "Pines"}, groups)
}
