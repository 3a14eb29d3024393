// Package domain implements the hierarchical activity reconciliation core:
// entities, patch classification, ordering, validation, calendar placement,
// and the per-family reconciliation services.
package domain

import "encoding/json"

// Caller identifies the authenticated user for one request.
type Caller struct {
	ID    string
	Coach bool
}

// Athlete is owned by exactly one coach. Every activity and competition
// reconciled by this core belongs to an athlete.
type Athlete struct {
	ID        string
	CoachID   string
	Name      string
	BirthDate int64
}

// Mesocycle is the outer training-calendar container.
type Mesocycle struct {
	ID        string
	AthleteID string
	StartTime int64
	EndTime   int64

	Microcycles []Microcycle
}

// Microcycle is a contiguous slice of a mesocycle. Activities must fall
// inside a microcycle of their athlete.
type Microcycle struct {
	ID          string
	MesocycleID string
	AthleteID   string
	StartTime   int64
	EndTime     int64
}

// ActivityKind tags the specialized payload of an activity.
type ActivityKind string

const (
	KindGym   ActivityKind = "gym"
	KindWater ActivityKind = "water"
)

// Activity is the head row shared by gym and water activities.
type Activity struct {
	ID           string
	AthleteID    string
	MicrocycleID string
	Date         int64
	Kind         ActivityKind
}

// GymActivity is an activity with its ordered exercise tree.
type GymActivity struct {
	Activity
	Exercises []Exercise
}

// Exercise references the gym exercise catalog and owns an ordered set list.
type Exercise struct {
	ID            string
	ActivityID    string
	GymExerciseID int64
	Order         int
	Sets          []Set
}

// Set is the gym grandchild.
type Set struct {
	ID         string
	ExerciseID string
	Reps       int
	Weight     float64
	RestTime   int
	Order      int
}

// WaterActivity is an activity with surf-session detail and its wave tree.
type WaterActivity struct {
	Activity
	RPE          int
	Condition    string
	TRIMP        int
	Duration     int
	SleepQuality int
	Fatigue      int
	Stress       int
	MusclePain   int
	Waves        []Wave
}

// Wave is the water child. Points is optional.
type Wave struct {
	ID         string
	ActivityID string
	Points     *float64
	RightSide  bool
	Order      int
	Maneuvers  []Maneuver
}

// Maneuver references the water maneuver catalog.
type Maneuver struct {
	ID              string
	WaveID          string
	WaterManeuverID int64
	Success         bool
	Order           int
}

// Competition groups ordered heats, each backed by a full water activity.
type Competition struct {
	ID        string
	AthleteID string
	Date      int64
	Location  string
	Place     int
	Name      string
	Heats     []Heat
}

// Heat scores one recorded water session inside a competition.
type Heat struct {
	ID            string
	CompetitionID string
	Score         float64
	Order         int
	WaterActivity WaterActivity
}

// GymExercise is a catalog entry, owned outside the reconciliation core.
type GymExercise struct {
	ID       int64
	Name     string
	Category string
	URL      *string
}

// WaterManeuver is a catalog entry.
type WaterManeuver struct {
	ID   int64
	Name string
	URL  *string
}

// Event is an outbox row recorded in the same transaction as the write
// batch it describes.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
}
