package domain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func seedGymActivity(t *testing.T, f *fixture) string {
	t.Helper()
	svc := domain.NewGymService(f.store)
	id, err := svc.CreateGymActivity(context.Background(), coach, f.athleteID, "05-06-2025", []domain.ExerciseInput{
		{GymExerciseID: 1, Sets: []domain.SetInput{
			{Reps: 10, Weight: 60, RestTime: 90},
			{Reps: 8, Weight: 70, RestTime: 120},
		}},
		{GymExerciseID: 2, Sets: []domain.SetInput{
			{Reps: 12, Weight: 40, RestTime: 60},
		}},
	})
	require.NoError(t, err)
	return id
}

func TestCreateGymActivityTree(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)

	activity, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Equal(t, f.microID, activity.MicrocycleID)
	require.Len(t, activity.Exercises, 2)

	// Orders fall back to list positions.
	require.Equal(t, 0, activity.Exercises[0].Order)
	require.Equal(t, int64(1), activity.Exercises[0].GymExerciseID)
	require.Len(t, activity.Exercises[0].Sets, 2)
	require.Equal(t, 1, activity.Exercises[1].Order)

	events := f.store.Events()
	last := events[len(events)-1]
	require.Equal(t, "activity.reconciled", last.EventType)
	require.Equal(t, id, last.AggregateID)
}

func TestCreateGymActivityValidation(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	_, err := svc.CreateGymActivity(ctx, coach, f.athleteID, "junk", nil)
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	// Inside the mesocycle but between microcycles there is no slot.
	_, err = svc.CreateGymActivity(ctx, coach, f.athleteID, "30-06-2025", nil)
	require.ErrorIs(t, err, domain.ErrActivityWithoutMicrocycle)

	_, err = svc.CreateGymActivity(ctx, coach, f.athleteID, "05-06-2025", []domain.ExerciseInput{
		{GymExerciseID: 99},
	})
	require.ErrorIs(t, err, domain.ErrInvalidGymExercise)

	_, err = svc.CreateGymActivity(ctx, coach, f.athleteID, "05-06-2025", []domain.ExerciseInput{
		{GymExerciseID: 1, Order: ptr(3)},
		{GymExerciseID: 2, Order: ptr(3)},
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrder)

	_, err = svc.CreateGymActivity(ctx, coach, f.athleteID, "05-06-2025", []domain.ExerciseInput{
		{GymExerciseID: 1, Sets: []domain.SetInput{{Reps: -1}}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidSet)
}

func TestUpdateGymActivityReconcilesTree(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)
	before, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)

	first := before.Exercises[0]
	second := before.Exercises[1]

	patch := domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{
			// Update the first exercise: bump one set, add another.
			{ID: ptr(first.ID), Sets: []domain.SetPatch{
				{ID: ptr(first.Sets[0].ID), Reps: ptr(11)},
				{Reps: ptr(6), Weight: ptr(80.0), RestTime: ptr(150), Order: ptr(9)},
			}},
			// Delete the second exercise entirely.
			{ID: ptr(second.ID)},
			// Create a third one.
			{GymExerciseID: ptr(int64(3)), Order: ptr(5), Sets: []domain.SetPatch{
				{Reps: ptr(15), Weight: ptr(20.0), RestTime: ptr(30)},
			}},
		},
	}
	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, patch))

	after, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Len(t, after.Exercises, 2)

	// Sets keep their persisted order; the updated set index 0 resolves
	// to position 0 in the submitted list.
	updated := after.Exercises[0]
	require.Equal(t, first.ID, updated.ID)
	require.Len(t, updated.Sets, 3)
	require.Equal(t, 11, updated.Sets[0].Reps)
	require.Equal(t, 9, updated.Sets[2].Order)

	created := after.Exercises[1]
	require.Equal(t, int64(3), created.GymExerciseID)
	require.Equal(t, 5, created.Order)
	require.Len(t, created.Sets, 1)

	// The deleted exercise's sets are gone too.
	set, err := f.store.SetByID(ctx, second.Sets[0].ID)
	require.NoError(t, err)
	require.Nil(t, set)
}

func TestUpdateGymActivityNilVersusEmptyChildList(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)

	// A nil exercise list leaves children untouched.
	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{}))
	after, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Len(t, after.Exercises, 2)

	// An empty non-nil list submits zero operations: nothing is deleted.
	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{},
	}))
	after, err = svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Len(t, after.Exercises, 2)
}

func TestUpdateGymActivityIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)
	before, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)

	patch := domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{
			{ID: ptr(before.Exercises[0].ID), Sets: []domain.SetPatch{
				{ID: ptr(before.Exercises[0].Sets[0].ID), Reps: ptr(11)},
			}},
		},
	}
	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, patch))
	once, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, patch))
	twice, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestUpdateGymActivityRelocatesOnDateChange(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)

	require.NoError(t, svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Date: ptr("20-06-2025"),
	}))

	after, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Equal(t, f.secondMicro, after.MicrocycleID)
	require.Equal(t, "20-06-2025", domain.FormatDate(after.Date))

	err = svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{Date: ptr("30-06-2025")})
	require.ErrorIs(t, err, domain.ErrActivityWithoutMicrocycle)
}

func TestUpdateGymActivityReferentialErrors(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)
	otherID := seedGymActivity(t, f)
	other, err := svc.GetGymActivity(ctx, coach, otherID)
	require.NoError(t, err)

	err = svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{{ID: ptr("missing"), Order: ptr(3)}},
	})
	require.ErrorIs(t, err, domain.ErrExerciseNotFound)

	// An exercise that exists but belongs to the other activity.
	err = svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{{ID: ptr(other.Exercises[0].ID), Order: ptr(3)}},
	})
	require.ErrorIs(t, err, domain.ErrNotActivityExercise)

	// A set id nested under a brand-new exercise.
	err = svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{
			{GymExerciseID: ptr(int64(1)), Sets: []domain.SetPatch{
				{ID: ptr("set-1"), Reps: ptr(5)},
			}},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotExerciseSet)
}

func TestUpdateGymActivityAtomicity(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)
	before, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)

	boom := errors.New("storage failure")
	f.store.FailAfter(2, boom)

	err = svc.UpdateGymActivity(ctx, coach, id, domain.GymActivityPatch{
		Exercises: []domain.ExercisePatch{
			{ID: ptr(before.Exercises[0].ID)},
			{ID: ptr(before.Exercises[1].ID)},
		},
	})
	require.ErrorIs(t, err, boom)

	// The failed batch left no partial writes behind.
	after, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRemoveGymActivityDeletesTree(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewGymService(f.store)
	ctx := context.Background()

	id := seedGymActivity(t, f)
	before, err := svc.GetGymActivity(ctx, coach, id)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveGymActivity(ctx, coach, id))

	_, err = svc.GetGymActivity(ctx, coach, id)
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	ex, err := f.store.ExerciseByID(ctx, before.Exercises[0].ID)
	require.NoError(t, err)
	require.Nil(t, ex)
}

func TestGymActivityKindGuard(t *testing.T) {
	f := newFixture(t)
	gym := domain.NewGymService(f.store)
	water := domain.NewWaterService(f.store)
	ctx := context.Background()

	waterID, err := water.CreateWaterActivity(ctx, coach, f.athleteID, validWaterInput("06-06-2025"))
	require.NoError(t, err)

	_, err = gym.GetGymActivity(ctx, coach, waterID)
	require.ErrorIs(t, err, domain.ErrNotGymActivity)
}
