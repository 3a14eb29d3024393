package postgres

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

// writeTx implements domain.Tx over a single pgx transaction. It trusts
// the calling service: no validation happens here. Row-write counts are
// accumulated from reconciliation events and reported after commit.
type writeTx struct {
	tx pgx.Tx

	created int
	updated int
	deleted int
}

func (t *writeTx) StoreAthlete(ctx context.Context, a domain.Athlete) (string, error) {
	const stmt = `INSERT INTO athletes (athlete_id, coach_id, name, birth_date) VALUES ($1, $2, $3, $4)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, a.CoachID, a.Name, a.BirthDate)
	return id, err
}

func (t *writeTx) StoreMesocycle(ctx context.Context, m domain.Mesocycle) (string, error) {
	const stmt = `INSERT INTO mesocycles (mesocycle_id, athlete_id, start_time, end_time) VALUES ($1, $2, $3, $4)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, m.AthleteID, m.StartTime, m.EndTime)
	return id, err
}

func (t *writeTx) UpdateMesocycle(ctx context.Context, m domain.Mesocycle) error {
	const stmt = `UPDATE mesocycles SET start_time=$2, end_time=$3 WHERE mesocycle_id=$1`
	_, err := t.tx.Exec(ctx, stmt, m.ID, m.StartTime, m.EndTime)
	return err
}

func (t *writeTx) RemoveMesocycle(ctx context.Context, id string) error {
	const stmt = `DELETE FROM mesocycles WHERE mesocycle_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreMicrocycle(ctx context.Context, m domain.Microcycle) (string, error) {
	const stmt = `INSERT INTO microcycles (microcycle_id, mesocycle_id, athlete_id, start_time, end_time)
        VALUES ($1, $2, $3, $4, $5)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, m.MesocycleID, m.AthleteID, m.StartTime, m.EndTime)
	return id, err
}

func (t *writeTx) UpdateMicrocycle(ctx context.Context, m domain.Microcycle) error {
	const stmt = `UPDATE microcycles SET start_time=$2, end_time=$3 WHERE microcycle_id=$1`
	_, err := t.tx.Exec(ctx, stmt, m.ID, m.StartTime, m.EndTime)
	return err
}

func (t *writeTx) RemoveMicrocycle(ctx context.Context, id string) error {
	const stmt = `DELETE FROM microcycles WHERE microcycle_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreActivity(ctx context.Context, a domain.Activity) (string, error) {
	const stmt = `INSERT INTO activities (activity_id, athlete_id, microcycle_id, activity_date, kind)
        VALUES ($1, $2, $3, $4, $5)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, a.AthleteID, a.MicrocycleID, a.Date, a.Kind)
	return id, err
}

func (t *writeTx) UpdateActivity(ctx context.Context, a domain.Activity) error {
	const stmt = `UPDATE activities SET microcycle_id=$2, activity_date=$3 WHERE activity_id=$1`
	_, err := t.tx.Exec(ctx, stmt, a.ID, a.MicrocycleID, a.Date)
	return err
}

func (t *writeTx) RemoveActivity(ctx context.Context, id string) error {
	const stmt = `DELETE FROM activities WHERE activity_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreExercise(ctx context.Context, e domain.Exercise) (string, error) {
	const stmt = `INSERT INTO exercises (exercise_id, activity_id, gym_exercise_id, exercise_order)
        VALUES ($1, $2, $3, $4)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, e.ActivityID, e.GymExerciseID, e.Order)
	return id, err
}

func (t *writeTx) UpdateExercise(ctx context.Context, e domain.Exercise) error {
	const stmt = `UPDATE exercises SET gym_exercise_id=$2, exercise_order=$3 WHERE exercise_id=$1`
	_, err := t.tx.Exec(ctx, stmt, e.ID, e.GymExerciseID, e.Order)
	return err
}

func (t *writeTx) RemoveExercise(ctx context.Context, id string) error {
	const stmt = `DELETE FROM exercises WHERE exercise_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreSet(ctx context.Context, s domain.Set) (string, error) {
	const stmt = `INSERT INTO sets (set_id, exercise_id, reps, weight, rest_time, set_order)
        VALUES ($1, $2, $3, $4, $5, $6)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, s.ExerciseID, s.Reps, s.Weight, s.RestTime, s.Order)
	return id, err
}

func (t *writeTx) UpdateSet(ctx context.Context, s domain.Set) error {
	const stmt = `UPDATE sets SET reps=$2, weight=$3, rest_time=$4, set_order=$5 WHERE set_id=$1`
	_, err := t.tx.Exec(ctx, stmt, s.ID, s.Reps, s.Weight, s.RestTime, s.Order)
	return err
}

func (t *writeTx) RemoveSet(ctx context.Context, id string) error {
	const stmt = `DELETE FROM sets WHERE set_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreWaterDetail(ctx context.Context, w domain.WaterActivity) error {
	const stmt = `INSERT INTO water_activities
        (activity_id, rpe, condition, trimp, duration, sleep_quality, fatigue, stress, muscle_pain)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := t.tx.Exec(ctx, stmt, w.ID, w.RPE, w.Condition, w.TRIMP, w.Duration,
		w.SleepQuality, w.Fatigue, w.Stress, w.MusclePain)
	return err
}

func (t *writeTx) UpdateWaterDetail(ctx context.Context, w domain.WaterActivity) error {
	const stmt = `UPDATE water_activities SET rpe=$2, condition=$3, trimp=$4, duration=$5,
        sleep_quality=$6, fatigue=$7, stress=$8, muscle_pain=$9 WHERE activity_id=$1`
	_, err := t.tx.Exec(ctx, stmt, w.ID, w.RPE, w.Condition, w.TRIMP, w.Duration,
		w.SleepQuality, w.Fatigue, w.Stress, w.MusclePain)
	return err
}

func (t *writeTx) RemoveWaterDetail(ctx context.Context, activityID string) error {
	const stmt = `DELETE FROM water_activities WHERE activity_id=$1`
	_, err := t.tx.Exec(ctx, stmt, activityID)
	return err
}

func (t *writeTx) StoreWave(ctx context.Context, w domain.Wave) (string, error) {
	const stmt = `INSERT INTO waves (wave_id, activity_id, points, right_side, wave_order)
        VALUES ($1, $2, $3, $4, $5)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, w.ActivityID, w.Points, w.RightSide, w.Order)
	return id, err
}

func (t *writeTx) UpdateWave(ctx context.Context, w domain.Wave) error {
	const stmt = `UPDATE waves SET points=$2, right_side=$3, wave_order=$4 WHERE wave_id=$1`
	_, err := t.tx.Exec(ctx, stmt, w.ID, w.Points, w.RightSide, w.Order)
	return err
}

func (t *writeTx) RemoveWave(ctx context.Context, id string) error {
	const stmt = `DELETE FROM waves WHERE wave_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreManeuver(ctx context.Context, m domain.Maneuver) (string, error) {
	const stmt = `INSERT INTO maneuvers (maneuver_id, wave_id, water_maneuver_id, success, maneuver_order)
        VALUES ($1, $2, $3, $4, $5)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, m.WaveID, m.WaterManeuverID, m.Success, m.Order)
	return id, err
}

func (t *writeTx) UpdateManeuver(ctx context.Context, m domain.Maneuver) error {
	const stmt = `UPDATE maneuvers SET water_maneuver_id=$2, success=$3, maneuver_order=$4 WHERE maneuver_id=$1`
	_, err := t.tx.Exec(ctx, stmt, m.ID, m.WaterManeuverID, m.Success, m.Order)
	return err
}

func (t *writeTx) RemoveManeuver(ctx context.Context, id string) error {
	const stmt = `DELETE FROM maneuvers WHERE maneuver_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreCompetition(ctx context.Context, c domain.Competition) (string, error) {
	const stmt = `INSERT INTO competitions (competition_id, athlete_id, competition_date, location, place, name)
        VALUES ($1, $2, $3, $4, $5, $6)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, c.AthleteID, c.Date, c.Location, c.Place, c.Name)
	return id, err
}

func (t *writeTx) UpdateCompetition(ctx context.Context, c domain.Competition) error {
	const stmt = `UPDATE competitions SET competition_date=$2, location=$3, place=$4, name=$5
        WHERE competition_id=$1`
	_, err := t.tx.Exec(ctx, stmt, c.ID, c.Date, c.Location, c.Place, c.Name)
	return err
}

func (t *writeTx) RemoveCompetition(ctx context.Context, id string) error {
	const stmt = `DELETE FROM competitions WHERE competition_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) StoreHeat(ctx context.Context, h domain.Heat, waterActivityID string) (string, error) {
	const stmt = `INSERT INTO heats (heat_id, competition_id, score, heat_order, water_activity_id)
        VALUES ($1, $2, $3, $4, $5)`
	id := uuid.NewString()
	_, err := t.tx.Exec(ctx, stmt, id, h.CompetitionID, h.Score, h.Order, waterActivityID)
	return id, err
}

func (t *writeTx) UpdateHeat(ctx context.Context, h domain.Heat) error {
	const stmt = `UPDATE heats SET score=$2, heat_order=$3 WHERE heat_id=$1`
	_, err := t.tx.Exec(ctx, stmt, h.ID, h.Score, h.Order)
	return err
}

func (t *writeTx) RemoveHeat(ctx context.Context, id string) error {
	const stmt = `DELETE FROM heats WHERE heat_id=$1`
	_, err := t.tx.Exec(ctx, stmt, id)
	return err
}

func (t *writeTx) AppendEvent(ctx context.Context, e domain.Event) error {
	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, payload)
        VALUES ($1, $2, $3, $4)`
	if _, err := t.tx.Exec(ctx, stmt, e.AggregateType, e.AggregateID, e.EventType, e.Payload); err != nil {
		return err
	}
	t.countEventWrites(e)
	return nil
}

func (t *writeTx) countEventWrites(e domain.Event) {
	if !strings.HasSuffix(e.EventType, ".reconciled") {
		return
	}
	var counts struct {
		Created int `json:"created"`
		Updated int `json:"updated"`
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(e.Payload, &counts); err != nil {
		return
	}
	t.created += counts.Created
	t.updated += counts.Updated
	t.deleted += counts.Deleted
}
