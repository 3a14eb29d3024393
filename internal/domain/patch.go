package domain

// Patch semantics, applied independently to every sibling list:
//
//   - no identity               -> create
//   - identity, all fields nil  -> delete
//   - identity, some field set  -> update
//
// A nil child slice leaves the children untouched; an empty non-nil slice
// submits zero child operations. The distinction matters: neither deletes
// anything, but an empty slice still participates in classification.

// ChildPatch is implemented by every sibling patch type.
type ChildPatch interface {
	Identity() *string
	Blank() bool
}

// Item couples a classified patch with its position in the submitted
// list. The position feeds order resolution.
type Item[P ChildPatch] struct {
	Patch P
	Index int
}

// Ops is the outcome of classifying one sibling list.
type Ops[P ChildPatch] struct {
	Creates []Item[P]
	Updates []Item[P]
	Deletes []string
}

// Classify partitions patches into creates, updates, and delete ids.
// It is purely structural; referential checks happen in the services.
func Classify[P ChildPatch](patches []P) Ops[P] {
	var ops Ops[P]
	for i, p := range patches {
		id := p.Identity()
		switch {
		case id == nil:
			ops.Creates = append(ops.Creates, Item[P]{Patch: p, Index: i})
		case p.Blank():
			ops.Deletes = append(ops.Deletes, *id)
		default:
			ops.Updates = append(ops.Updates, Item[P]{Patch: p, Index: i})
		}
	}
	return ops
}

// SetPatch updates, creates, or deletes one set.
type SetPatch struct {
	ID       *string
	Reps     *int
	Weight   *float64
	RestTime *int
	Order    *int
}

func (p SetPatch) Identity() *string { return p.ID }

func (p SetPatch) Blank() bool {
	return p.Reps == nil && p.Weight == nil && p.RestTime == nil && p.Order == nil
}

// ExercisePatch carries an optional nested set list.
type ExercisePatch struct {
	ID            *string
	GymExerciseID *int64
	Order         *int
	Sets          []SetPatch
}

func (p ExercisePatch) Identity() *string { return p.ID }

func (p ExercisePatch) Blank() bool {
	return p.GymExerciseID == nil && p.Order == nil && p.Sets == nil
}

// ManeuverPatch is the water grandchild patch.
type ManeuverPatch struct {
	ID              *string
	WaterManeuverID *int64
	Success         *bool
	Order           *int
}

func (p ManeuverPatch) Identity() *string { return p.ID }

func (p ManeuverPatch) Blank() bool {
	return p.WaterManeuverID == nil && p.Success == nil && p.Order == nil
}

// WavePatch carries an optional nested maneuver list.
type WavePatch struct {
	ID        *string
	Points    *float64
	RightSide *bool
	Order     *int
	Maneuvers []ManeuverPatch
}

func (p WavePatch) Identity() *string { return p.ID }

func (p WavePatch) Blank() bool {
	return p.Points == nil && p.RightSide == nil && p.Order == nil && p.Maneuvers == nil
}

// GymActivityPatch is the root patch for gym updates.
type GymActivityPatch struct {
	Date      *string
	Exercises []ExercisePatch
}

// WaterActivityPatch is the root patch for water updates. It is also
// nested inside heat patches, where Date is ignored in favour of the
// competition date.
type WaterActivityPatch struct {
	Date         *string
	RPE          *int
	Condition    *string
	TRIMP        *int
	Duration     *int
	SleepQuality *int
	Fatigue      *int
	Stress       *int
	MusclePain   *int
	Waves        []WavePatch
}

func (p WaterActivityPatch) blankDetail() bool {
	return p.RPE == nil && p.Condition == nil && p.TRIMP == nil && p.Duration == nil &&
		p.SleepQuality == nil && p.Fatigue == nil && p.Stress == nil &&
		p.MusclePain == nil && p.Waves == nil
}

// HeatPatch updates, creates, or deletes one heat with its water session.
type HeatPatch struct {
	ID            *string
	Score         *float64
	Order         *int
	WaterActivity *WaterActivityPatch
}

func (p HeatPatch) Identity() *string { return p.ID }

func (p HeatPatch) Blank() bool {
	if p.Score != nil || p.Order != nil {
		return false
	}
	return p.WaterActivity == nil || p.WaterActivity.blankDetail()
}

// CompetitionPatch is the root patch for competition updates.
type CompetitionPatch struct {
	Date     *string
	Location *string
	Place    *int
	Name     *string
	Heats    []HeatPatch
}
