package domain

import "errors"

// Authorization failures.
var (
	ErrUserIsNotACoach  = errors.New("caller is not a coach")
	ErrNotAthletesCoach = errors.New("caller is not the athlete's coach")
	ErrAthleteNotFound  = errors.New("athlete not found")
)

// Identity and shape mismatches.
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrNotGymActivity      = errors.New("activity is not a gym activity")
	ErrNotWaterActivity    = errors.New("activity is not a water activity")
	ErrExerciseNotFound    = errors.New("exercise not found")
	ErrSetNotFound         = errors.New("set not found")
	ErrNotActivityExercise = errors.New("exercise does not belong to the activity")
	ErrNotExerciseSet      = errors.New("set does not belong to the exercise")
	ErrWaveNotFound        = errors.New("wave not found")
	ErrManeuverNotFound    = errors.New("maneuver not found")
	ErrNotActivityWave     = errors.New("wave does not belong to the activity")
	ErrNotWaveManeuver     = errors.New("maneuver does not belong to the wave")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrHeatNotFound        = errors.New("heat not found")
	ErrNotCompetitionHeat  = errors.New("heat does not belong to the competition")
	ErrHeatOwnedActivity   = errors.New("activity belongs to a competition heat")
	ErrCycleNotFound       = errors.New("training cycle not found")
)

// Scalar validation failures.
var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrInvalidSet           = errors.New("invalid set values")
	ErrInvalidOrder         = errors.New("sibling order values are not unique")
	ErrInvalidRPE           = errors.New("rpe out of range")
	ErrInvalidTRIMP         = errors.New("trimp out of range")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrInvalidQuestionnaire = errors.New("questionnaire score out of range")
	ErrInvalidScore         = errors.New("score must not be negative")
	ErrInvalidPlace         = errors.New("place must be positive")
	ErrInvalidPoints        = errors.New("points must not be negative")
)

// Referential validation failures.
var (
	ErrInvalidGymExercise   = errors.New("gym exercise does not exist in the catalog")
	ErrInvalidWaterManeuver = errors.New("water maneuver does not exist in the catalog")
)

// Calendar placement failures.
var (
	ErrActivityWithoutMicrocycle = errors.New("activity date is not covered by any microcycle")
	ErrCycleOverlap              = errors.New("cycle overlaps a sibling cycle")
	ErrCycleNotContained         = errors.New("microcycle is not contained in the mesocycle")
	ErrCycleLocked               = errors.New("cycle already contains activities")
)

// Uniqueness failures.
var (
	ErrNameAlreadyExists = errors.New("name already exists")
)
