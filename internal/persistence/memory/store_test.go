package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func TestInTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	boom := errors.New("abort")
	err := store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "Kai"}); err != nil {
			return err
		}
		if err := tx.AppendEvent(ctx, domain.Event{AggregateType: "athlete", EventType: "athlete.created"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	athletes, err := store.ListAthletes(ctx, "c")
	require.NoError(t, err)
	require.Empty(t, athletes)
	require.Empty(t, store.Events())
}

func TestInTxCommitKeepsWrites(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var id string
	err := store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		id, err = tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "Kai"})
		return err
	})
	require.NoError(t, err)

	athlete, err := store.AthleteByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, athlete)
	require.Equal(t, "Kai", athlete.Name)
}

func TestFailAfterTriggersOnce(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	boom := errors.New("disk full")
	store.FailAfter(1, boom)

	err := store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "one"}); err != nil {
			return err
		}
		_, err := tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "two"})
		return err
	})
	require.ErrorIs(t, err, boom)

	athletes, err := store.ListAthletes(ctx, "c")
	require.NoError(t, err)
	require.Empty(t, athletes)

	// The hook is one-shot; the retry goes through.
	err = store.InTx(ctx, func(tx domain.Tx) error {
		_, err := tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "one"})
		return err
	})
	require.NoError(t, err)
}

func TestRemoveWaterDetailRejectsReferencedSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var activityID, heatID string
	err := store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		activityID, err = tx.StoreActivity(ctx, domain.Activity{AthleteID: "a", Kind: domain.KindWater})
		if err != nil {
			return err
		}
		detail := domain.WaterActivity{RPE: 6, Condition: "clean", TRIMP: 80, Duration: 30}
		detail.ID = activityID
		if err := tx.StoreWaterDetail(ctx, detail); err != nil {
			return err
		}
		heatID, err = tx.StoreHeat(ctx, domain.Heat{CompetitionID: "comp", Score: 8}, activityID)
		return err
	})
	require.NoError(t, err)

	err = store.InTx(ctx, func(tx domain.Tx) error {
		return tx.RemoveWaterDetail(ctx, activityID)
	})
	require.Error(t, err)

	err = store.InTx(ctx, func(tx domain.Tx) error {
		if err := tx.RemoveHeat(ctx, heatID); err != nil {
			return err
		}
		return tx.RemoveWaterDetail(ctx, activityID)
	})
	require.NoError(t, err)
}

func TestLookupsReturnNilForUnknownIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	athlete, err := store.AthleteByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, athlete)

	activity, err := store.ActivityByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, activity)

	heat, err := store.HeatByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, heat)
}

func TestMicrocycleContainingIsHalfOpen(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var athleteID string
	err := store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		athleteID, err = tx.StoreAthlete(ctx, domain.Athlete{CoachID: "c", Name: "Kai"})
		if err != nil {
			return err
		}
		mesoID, err := tx.StoreMesocycle(ctx, domain.Mesocycle{AthleteID: athleteID, StartTime: 0, EndTime: 2000})
		if err != nil {
			return err
		}
		_, err = tx.StoreMicrocycle(ctx, domain.Microcycle{MesocycleID: mesoID, AthleteID: athleteID, StartTime: 0, EndTime: 1000})
		return err
	})
	require.NoError(t, err)

	micro, err := store.MicrocycleContaining(ctx, athleteID, 999)
	require.NoError(t, err)
	require.NotNil(t, micro)

	micro, err = store.MicrocycleContaining(ctx, athleteID, 1000)
	require.NoError(t, err)
	require.Nil(t, micro)
}
