package domain

import "context"

// Store captures the persistence operations the reconciliation services
// depend on. Reads run outside any transaction; every write batch runs
// inside exactly one InTx call, whose Tx scope lives for that call only.
type Store interface {
	// Athletes.
	AthleteByID(ctx context.Context, id string) (*Athlete, error)
	AthleteNameExists(ctx context.Context, coachID, name string) (bool, error)
	ListAthletes(ctx context.Context, coachID string) ([]Athlete, error)

	// Training cycles.
	MesocycleByID(ctx context.Context, id string) (*Mesocycle, error)
	MicrocycleByID(ctx context.Context, id string) (*Microcycle, error)
	ListMesocycles(ctx context.Context, athleteID string) ([]Mesocycle, error)
	ListMicrocycles(ctx context.Context, mesocycleID string) ([]Microcycle, error)
	MicrocycleContaining(ctx context.Context, athleteID string, date int64) (*Microcycle, error)
	MicrocycleHasActivities(ctx context.Context, microcycleID string) (bool, error)

	// Activities. *ByID readers return nil when the id is unknown.
	ActivityByID(ctx context.Context, id string) (*Activity, error)
	GymActivityByID(ctx context.Context, id string) (*GymActivity, error)
	WaterActivityByID(ctx context.Context, id string) (*WaterActivity, error)
	ActivitiesInMicrocycle(ctx context.Context, microcycleID string) ([]Activity, error)
	ExerciseByID(ctx context.Context, id string) (*Exercise, error)
	SetByID(ctx context.Context, id string) (*Set, error)
	WaveByID(ctx context.Context, id string) (*Wave, error)
	ManeuverByID(ctx context.Context, id string) (*Maneuver, error)

	// Competitions.
	CompetitionByID(ctx context.Context, id string) (*Competition, error)
	HeatByID(ctx context.Context, id string) (*Heat, error)
	HeatByWaterActivity(ctx context.Context, activityID string) (*Heat, error)

	// Catalogs, owned outside this core.
	GymExerciseExists(ctx context.Context, id int64) (bool, error)
	WaterManeuverExists(ctx context.Context, id int64) (bool, error)
	ListGymExercises(ctx context.Context, category string) ([]GymExercise, error)
	ListWaterManeuvers(ctx context.Context) ([]WaterManeuver, error)

	// InTx runs fn inside one ACID transaction. Any error from fn rolls
	// the whole batch back; otherwise it commits.
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the write scope of one reconciliation. Implementations perform no
// domain validation; they trust the calling service completely. Store*
// operations return the generated surrogate id, visible to later
// statements in the same transaction.
type Tx interface {
	StoreAthlete(ctx context.Context, a Athlete) (string, error)

	StoreMesocycle(ctx context.Context, m Mesocycle) (string, error)
	UpdateMesocycle(ctx context.Context, m Mesocycle) error
	RemoveMesocycle(ctx context.Context, id string) error
	StoreMicrocycle(ctx context.Context, m Microcycle) (string, error)
	UpdateMicrocycle(ctx context.Context, m Microcycle) error
	RemoveMicrocycle(ctx context.Context, id string) error

	StoreActivity(ctx context.Context, a Activity) (string, error)
	UpdateActivity(ctx context.Context, a Activity) error
	RemoveActivity(ctx context.Context, id string) error

	StoreExercise(ctx context.Context, e Exercise) (string, error)
	UpdateExercise(ctx context.Context, e Exercise) error
	RemoveExercise(ctx context.Context, id string) error
	StoreSet(ctx context.Context, s Set) (string, error)
	UpdateSet(ctx context.Context, s Set) error
	RemoveSet(ctx context.Context, id string) error

	StoreWaterDetail(ctx context.Context, w WaterActivity) error
	UpdateWaterDetail(ctx context.Context, w WaterActivity) error
	RemoveWaterDetail(ctx context.Context, activityID string) error
	StoreWave(ctx context.Context, w Wave) (string, error)
	UpdateWave(ctx context.Context, w Wave) error
	RemoveWave(ctx context.Context, id string) error
	StoreManeuver(ctx context.Context, m Maneuver) (string, error)
	UpdateManeuver(ctx context.Context, m Maneuver) error
	RemoveManeuver(ctx context.Context, id string) error

	StoreCompetition(ctx context.Context, c Competition) (string, error)
	UpdateCompetition(ctx context.Context, c Competition) error
	RemoveCompetition(ctx context.Context, id string) error
	StoreHeat(ctx context.Context, h Heat, waterActivityID string) (string, error)
	UpdateHeat(ctx context.Context, h Heat) error
	RemoveHeat(ctx context.Context, id string) error

	AppendEvent(ctx context.Context, e Event) error
}
