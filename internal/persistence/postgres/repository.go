// Package postgres provides pgx-backed persistence for the coaching
// domain. Reads run on the pool; every write batch runs inside one
// transaction opened by InTx.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/observability"
)

// Repository implements domain.Store on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InTx runs fn inside one transaction, rolling back on any error.
func (r *Repository) InTx(ctx context.Context, fn func(domain.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	wtx := &writeTx{tx: tx}
	if err := fn(wtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordRowWrites(wtx.created, wtx.updated, wtx.deleted)
	observability.RecordReconcileCommitted(time.Now().UTC())
	return nil
}

func (r *Repository) AthleteByID(ctx context.Context, id string) (*domain.Athlete, error) {
	const query = `SELECT athlete_id, coach_id, name, birth_date FROM athletes WHERE athlete_id=$1`
	var a domain.Athlete
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.CoachID, &a.Name, &a.BirthDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) AthleteNameExists(ctx context.Context, coachID, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM athletes WHERE coach_id=$1 AND name=$2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, coachID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) ListAthletes(ctx context.Context, coachID string) ([]domain.Athlete, error) {
	const query = `SELECT athlete_id, coach_id, name, birth_date FROM athletes WHERE coach_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Athlete
	for rows.Next() {
		var a domain.Athlete
		if err := rows.Scan(&a.ID, &a.CoachID, &a.Name, &a.BirthDate); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) MesocycleByID(ctx context.Context, id string) (*domain.Mesocycle, error) {
	const query = `SELECT mesocycle_id, athlete_id, start_time, end_time FROM mesocycles WHERE mesocycle_id=$1`
	var m domain.Mesocycle
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.AthleteID, &m.StartTime, &m.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) MicrocycleByID(ctx context.Context, id string) (*domain.Microcycle, error) {
	const query = `SELECT microcycle_id, mesocycle_id, athlete_id, start_time, end_time FROM microcycles WHERE microcycle_id=$1`
	var m domain.Microcycle
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.MesocycleID, &m.AthleteID, &m.StartTime, &m.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListMesocycles(ctx context.Context, athleteID string) ([]domain.Mesocycle, error) {
	const query = `SELECT mesocycle_id, athlete_id, start_time, end_time FROM mesocycles WHERE athlete_id=$1 ORDER BY start_time`
	rows, err := r.pool.Query(ctx, query, athleteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Mesocycle
	for rows.Next() {
		var m domain.Mesocycle
		if err := rows.Scan(&m.ID, &m.AthleteID, &m.StartTime, &m.EndTime); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) ListMicrocycles(ctx context.Context, mesocycleID string) ([]domain.Microcycle, error) {
	const query = `SELECT microcycle_id, mesocycle_id, athlete_id, start_time, end_time FROM microcycles WHERE mesocycle_id=$1 ORDER BY start_time`
	rows, err := r.pool.Query(ctx, query, mesocycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Microcycle
	for rows.Next() {
		var m domain.Microcycle
		if err := rows.Scan(&m.ID, &m.MesocycleID, &m.AthleteID, &m.StartTime, &m.EndTime); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) MicrocycleContaining(ctx context.Context, athleteID string, date int64) (*domain.Microcycle, error) {
	const query = `SELECT microcycle_id, mesocycle_id, athlete_id, start_time, end_time
        FROM microcycles WHERE athlete_id=$1 AND start_time <= $2 AND end_time > $2`
	var m domain.Microcycle
	err := r.pool.QueryRow(ctx, query, athleteID, date).Scan(&m.ID, &m.MesocycleID, &m.AthleteID, &m.StartTime, &m.EndTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) MicrocycleHasActivities(ctx context.Context, microcycleID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM activities WHERE microcycle_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, microcycleID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) ActivityByID(ctx context.Context, id string) (*domain.Activity, error) {
	const query = `SELECT activity_id, athlete_id, microcycle_id, activity_date, kind FROM activities WHERE activity_id=$1`
	var a domain.Activity
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.AthleteID, &a.MicrocycleID, &a.Date, &a.Kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) ActivitiesInMicrocycle(ctx context.Context, microcycleID string) ([]domain.Activity, error) {
	const query = `SELECT activity_id, athlete_id, microcycle_id, activity_date, kind
        FROM activities WHERE microcycle_id=$1 ORDER BY activity_date`
	rows, err := r.pool.Query(ctx, query, microcycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.AthleteID, &a.MicrocycleID, &a.Date, &a.Kind); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) GymActivityByID(ctx context.Context, id string) (*domain.GymActivity, error) {
	head, err := r.ActivityByID(ctx, id)
	if err != nil || head == nil {
		return nil, err
	}
	if head.Kind != domain.KindGym {
		return nil, nil
	}
	out := domain.GymActivity{Activity: *head}

	const exerciseQuery = `SELECT exercise_id, activity_id, gym_exercise_id, exercise_order
        FROM exercises WHERE activity_id=$1 ORDER BY exercise_order`
	rows, err := r.pool.Query(ctx, exerciseQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ex domain.Exercise
		if err := rows.Scan(&ex.ID, &ex.ActivityID, &ex.GymExerciseID, &ex.Order); err != nil {
			return nil, err
		}
		out.Exercises = append(out.Exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out.Exercises {
		sets, err := r.setsOf(ctx, out.Exercises[i].ID)
		if err != nil {
			return nil, err
		}
		out.Exercises[i].Sets = sets
	}
	return &out, nil
}

func (r *Repository) setsOf(ctx context.Context, exerciseID string) ([]domain.Set, error) {
	const query = `SELECT set_id, exercise_id, reps, weight, rest_time, set_order
        FROM sets WHERE exercise_id=$1 ORDER BY set_order`
	rows, err := r.pool.Query(ctx, query, exerciseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Set
	for rows.Next() {
		var s domain.Set
		if err := rows.Scan(&s.ID, &s.ExerciseID, &s.Reps, &s.Weight, &s.RestTime, &s.Order); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) WaterActivityByID(ctx context.Context, id string) (*domain.WaterActivity, error) {
	head, err := r.ActivityByID(ctx, id)
	if err != nil || head == nil {
		return nil, err
	}
	if head.Kind != domain.KindWater {
		return nil, nil
	}

	const detailQuery = `SELECT rpe, condition, trimp, duration, sleep_quality, fatigue, stress, muscle_pain
        FROM water_activities WHERE activity_id=$1`
	out := domain.WaterActivity{Activity: *head}
	err = r.pool.QueryRow(ctx, detailQuery, id).Scan(&out.RPE, &out.Condition, &out.TRIMP, &out.Duration,
		&out.SleepQuality, &out.Fatigue, &out.Stress, &out.MusclePain)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	waves, err := r.wavesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	out.Waves = waves
	return &out, nil
}

func (r *Repository) wavesOf(ctx context.Context, activityID string) ([]domain.Wave, error) {
	const waveQuery = `SELECT wave_id, activity_id, points, right_side, wave_order
        FROM waves WHERE activity_id=$1 ORDER BY wave_order`
	rows, err := r.pool.Query(ctx, waveQuery, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Wave
	for rows.Next() {
		var w domain.Wave
		if err := rows.Scan(&w.ID, &w.ActivityID, &w.Points, &w.RightSide, &w.Order); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const maneuverQuery = `SELECT maneuver_id, wave_id, water_maneuver_id, success, maneuver_order
        FROM maneuvers WHERE wave_id=$1 ORDER BY maneuver_order`
	for i := range out {
		mrows, err := r.pool.Query(ctx, maneuverQuery, out[i].ID)
		if err != nil {
			return nil, err
		}
		for mrows.Next() {
			var m domain.Maneuver
			if err := mrows.Scan(&m.ID, &m.WaveID, &m.WaterManeuverID, &m.Success, &m.Order); err != nil {
				mrows.Close()
				return nil, err
			}
			out[i].Maneuvers = append(out[i].Maneuvers, m)
		}
		mrows.Close()
		if err := mrows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) ExerciseByID(ctx context.Context, id string) (*domain.Exercise, error) {
	const query = `SELECT exercise_id, activity_id, gym_exercise_id, exercise_order FROM exercises WHERE exercise_id=$1`
	var ex domain.Exercise
	err := r.pool.QueryRow(ctx, query, id).Scan(&ex.ID, &ex.ActivityID, &ex.GymExerciseID, &ex.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (r *Repository) SetByID(ctx context.Context, id string) (*domain.Set, error) {
	const query = `SELECT set_id, exercise_id, reps, weight, rest_time, set_order FROM sets WHERE set_id=$1`
	var s domain.Set
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.ExerciseID, &s.Reps, &s.Weight, &s.RestTime, &s.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) WaveByID(ctx context.Context, id string) (*domain.Wave, error) {
	const query = `SELECT wave_id, activity_id, points, right_side, wave_order FROM waves WHERE wave_id=$1`
	var w domain.Wave
	err := r.pool.QueryRow(ctx, query, id).Scan(&w.ID, &w.ActivityID, &w.Points, &w.RightSide, &w.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) ManeuverByID(ctx context.Context, id string) (*domain.Maneuver, error) {
	const query = `SELECT maneuver_id, wave_id, water_maneuver_id, success, maneuver_order FROM maneuvers WHERE maneuver_id=$1`
	var m domain.Maneuver
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.WaveID, &m.WaterManeuverID, &m.Success, &m.Order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) CompetitionByID(ctx context.Context, id string) (*domain.Competition, error) {
	const query = `SELECT competition_id, athlete_id, competition_date, location, place, name
        FROM competitions WHERE competition_id=$1`
	var c domain.Competition
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.AthleteID, &c.Date, &c.Location, &c.Place, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	const heatQuery = `SELECT heat_id, competition_id, score, heat_order, water_activity_id
        FROM heats WHERE competition_id=$1 ORDER BY heat_order`
	rows, err := r.pool.Query(ctx, heatQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type heatRow struct {
		heat            domain.Heat
		waterActivityID string
	}
	var heatRows []heatRow
	for rows.Next() {
		var h heatRow
		if err := rows.Scan(&h.heat.ID, &h.heat.CompetitionID, &h.heat.Score, &h.heat.Order, &h.waterActivityID); err != nil {
			return nil, err
		}
		heatRows = append(heatRows, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, h := range heatRows {
		water, err := r.WaterActivityByID(ctx, h.waterActivityID)
		if err != nil {
			return nil, err
		}
		if water != nil {
			h.heat.WaterActivity = *water
		}
		c.Heats = append(c.Heats, h.heat)
	}
	return &c, nil
}

func (r *Repository) HeatByID(ctx context.Context, id string) (*domain.Heat, error) {
	const query = `SELECT heat_id, competition_id, score, heat_order, water_activity_id FROM heats WHERE heat_id=$1`
	var h domain.Heat
	var waterActivityID string
	err := r.pool.QueryRow(ctx, query, id).Scan(&h.ID, &h.CompetitionID, &h.Score, &h.Order, &waterActivityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	water, err := r.WaterActivityByID(ctx, waterActivityID)
	if err != nil {
		return nil, err
	}
	if water != nil {
		h.WaterActivity = *water
	}
	return &h, nil
}

func (r *Repository) HeatByWaterActivity(ctx context.Context, activityID string) (*domain.Heat, error) {
	const query = `SELECT heat_id FROM heats WHERE water_activity_id=$1`
	var id string
	err := r.pool.QueryRow(ctx, query, activityID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.HeatByID(ctx, id)
}

func (r *Repository) GymExerciseExists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM gym_exercises WHERE gym_exercise_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) WaterManeuverExists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM water_maneuvers WHERE water_maneuver_id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repository) ListGymExercises(ctx context.Context, category string) ([]domain.GymExercise, error) {
	query := `SELECT gym_exercise_id, name, category, url FROM gym_exercises`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY gym_exercise_id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GymExercise
	for rows.Next() {
		var ex domain.GymExercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.Category, &ex.URL); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func (r *Repository) ListWaterManeuvers(ctx context.Context) ([]domain.WaterManeuver, error) {
	const query = `SELECT water_maneuver_id, name, url FROM water_maneuvers ORDER BY water_maneuver_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WaterManeuver
	for rows.Next() {
		var m domain.WaterManeuver
		if err := rows.Scan(&m.ID, &m.Name, &m.URL); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
