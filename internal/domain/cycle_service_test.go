package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func TestCreateMesocycleRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewCycleService(f.store)
	ctx := context.Background()

	// The fixture mesocycle spans June. An adjacent cycle is fine; the
	// ranges are half-open.
	id, err := svc.CreateMesocycle(ctx, coach, f.athleteID, "01-07-2025", "01-08-2025")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = svc.CreateMesocycle(ctx, coach, f.athleteID, "20-06-2025", "10-07-2025")
	require.ErrorIs(t, err, domain.ErrCycleOverlap)

	_, err = svc.CreateMesocycle(ctx, coach, f.athleteID, "10-08-2025", "05-08-2025")
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCreateMicrocycleContainment(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewCycleService(f.store)
	ctx := context.Background()

	// Inside the fixture mesocycle, after the existing microcycles.
	id, err := svc.CreateMicrocycle(ctx, coach, f.mesoID, "29-06-2025", "01-07-2025")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = svc.CreateMicrocycle(ctx, coach, f.mesoID, "28-06-2025", "05-07-2025")
	require.ErrorIs(t, err, domain.ErrCycleNotContained)

	_, err = svc.CreateMicrocycle(ctx, coach, f.mesoID, "10-06-2025", "20-06-2025")
	require.ErrorIs(t, err, domain.ErrCycleOverlap)

	_, err = svc.CreateMicrocycle(ctx, coach, "missing", "02-06-2025", "03-06-2025")
	require.ErrorIs(t, err, domain.ErrCycleNotFound)
}

func TestLockedCyclesCannotMoveOrDie(t *testing.T) {
	f := newFixture(t)
	cycles := domain.NewCycleService(f.store)
	gym := domain.NewGymService(f.store)
	ctx := context.Background()

	// An activity inside the first microcycle locks it, and transitively
	// its mesocycle.
	_, err := gym.CreateGymActivity(ctx, coach, f.athleteID, "05-06-2025", nil)
	require.NoError(t, err)

	err = cycles.UpdateMicrocycle(ctx, coach, f.microID, "02-06-2025", "15-06-2025")
	require.ErrorIs(t, err, domain.ErrCycleLocked)

	err = cycles.RemoveMicrocycle(ctx, coach, f.microID)
	require.ErrorIs(t, err, domain.ErrCycleLocked)

	err = cycles.UpdateMesocycle(ctx, coach, f.mesoID, "01-06-2025", "15-07-2025")
	require.ErrorIs(t, err, domain.ErrCycleLocked)

	err = cycles.RemoveMesocycle(ctx, coach, f.mesoID)
	require.ErrorIs(t, err, domain.ErrCycleLocked)

	// The empty second microcycle still moves freely.
	err = cycles.UpdateMicrocycle(ctx, coach, f.secondMicro, "20-06-2025", "29-06-2025")
	require.NoError(t, err)
}

func TestUpdateMesocycleMustContainMicrocycles(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewCycleService(f.store)
	ctx := context.Background()

	err := svc.UpdateMesocycle(ctx, coach, f.mesoID, "10-06-2025", "01-07-2025")
	require.ErrorIs(t, err, domain.ErrCycleNotContained)

	err = svc.UpdateMesocycle(ctx, coach, f.mesoID, "01-06-2025", "15-07-2025")
	require.NoError(t, err)
}

func TestRemoveMesocycleCascades(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewCycleService(f.store)
	ctx := context.Background()

	err := svc.RemoveMesocycle(ctx, coach, f.mesoID)
	require.NoError(t, err)

	micro, err := f.store.MicrocycleByID(ctx, f.microID)
	require.NoError(t, err)
	require.Nil(t, micro)

	calendar, err := svc.GetCalendar(ctx, coach, f.athleteID)
	require.NoError(t, err)
	require.Empty(t, calendar)
}

func TestGetCalendarNestsMicrocycles(t *testing.T) {
	f := newFixture(t)
	svc := domain.NewCycleService(f.store)
	ctx := context.Background()

	calendar, err := svc.GetCalendar(ctx, coach, f.athleteID)
	require.NoError(t, err)
	require.Len(t, calendar, 1)
	require.Equal(t, f.mesoID, calendar[0].ID)
	require.Len(t, calendar[0].Microcycles, 2)
	require.Equal(t, f.microID, calendar[0].Microcycles[0].ID)
}
