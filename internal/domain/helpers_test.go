package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/persistence/memory"
)

const coachID = "coach-1"

var coach = domain.Caller{ID: coachID, Coach: true}

func ptr[T any](v T) *T { return &v }

// fixture seeds one coach-owned athlete with a mesocycle spanning June
// 2025 and two microcycles: the 1st through the 15th and the 15th
// through the 29th. Activity dates in tests fall into one of the two.
type fixture struct {
	store       *memory.Store
	athleteID   string
	mesoID      string
	microID     string
	secondMicro string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	for id := int64(1); id <= 3; id++ {
		store.SeedGymExercise(domain.GymExercise{ID: id, Name: "exercise", Category: "legs"})
		store.SeedWaterManeuver(domain.WaterManeuver{ID: id, Name: "maneuver"})
	}

	f := &fixture{store: store}
	err := store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		f.athleteID, err = tx.StoreAthlete(ctx, domain.Athlete{
			CoachID:   coachID,
			Name:      "Kai",
			BirthDate: mustDate(t, "10-03-2001"),
		})
		if err != nil {
			return err
		}
		f.mesoID, err = tx.StoreMesocycle(ctx, domain.Mesocycle{
			AthleteID: f.athleteID,
			StartTime: mustDate(t, "01-06-2025"),
			EndTime:   mustDate(t, "01-07-2025"),
		})
		if err != nil {
			return err
		}
		f.microID, err = tx.StoreMicrocycle(ctx, domain.Microcycle{
			MesocycleID: f.mesoID,
			AthleteID:   f.athleteID,
			StartTime:   mustDate(t, "01-06-2025"),
			EndTime:     mustDate(t, "15-06-2025"),
		})
		if err != nil {
			return err
		}
		f.secondMicro, err = tx.StoreMicrocycle(ctx, domain.Microcycle{
			MesocycleID: f.mesoID,
			AthleteID:   f.athleteID,
			StartTime:   mustDate(t, "15-06-2025"),
			EndTime:     mustDate(t, "29-06-2025"),
		})
		return err
	})
	require.NoError(t, err)
	return f
}

func mustDate(t *testing.T, value string) int64 {
	t.Helper()
	millis, err := domain.ParseDate(value)
	require.NoError(t, err)
	return millis
}

// validWaterInput returns a minimal valid water session payload.
func validWaterInput(date string) domain.CreateWaterActivityInput {
	return domain.CreateWaterActivityInput{
		Date:         date,
		RPE:          6,
		Condition:    "clean 3ft",
		TRIMP:        80,
		Duration:     60,
		SleepQuality: 4,
		Fatigue:      2,
		Stress:       1,
		MusclePain:   2,
	}
}
