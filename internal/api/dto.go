package api

import (
	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

// Request bodies. Pointer fields on patch payloads distinguish "absent"
// from zero values, which the reconciliation semantics depend on.

// CreateAthleteRequest is the payload for POST /v1/athletes.
type CreateAthleteRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// CycleRequest is the payload for creating or updating a training cycle.
type CycleRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SetBody is one set in a create or patch payload.
type SetBody struct {
	ID       *string  `json:"id,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	RestTime *int     `json:"rest_time,omitempty"`
	Order    *int     `json:"order,omitempty"`
}

// ExerciseBody is one exercise in a create or patch payload.
type ExerciseBody struct {
	ID            *string   `json:"id,omitempty"`
	GymExerciseID *int64    `json:"gym_exercise_id,omitempty"`
	Order         *int      `json:"order,omitempty"`
	Sets          []SetBody `json:"sets,omitempty"`
}

// CreateGymActivityRequest is the payload for creating a gym activity.
type CreateGymActivityRequest struct {
	Date      string         `json:"date"`
	Exercises []ExerciseBody `json:"exercises"`
}

// UpdateGymActivityRequest patches an existing gym activity tree.
type UpdateGymActivityRequest struct {
	Date      *string        `json:"date,omitempty"`
	Exercises []ExerciseBody `json:"exercises,omitempty"`
}

// ManeuverBody is one maneuver in a create or patch payload.
type ManeuverBody struct {
	ID              *string `json:"id,omitempty"`
	WaterManeuverID *int64  `json:"water_maneuver_id,omitempty"`
	Success         *bool   `json:"success,omitempty"`
	Order           *int    `json:"order,omitempty"`
}

// WaveBody is one wave in a create or patch payload.
type WaveBody struct {
	ID        *string        `json:"id,omitempty"`
	Points    *float64       `json:"points,omitempty"`
	RightSide *bool          `json:"right_side,omitempty"`
	Order     *int           `json:"order,omitempty"`
	Maneuvers []ManeuverBody `json:"maneuvers,omitempty"`
}

// CreateWaterActivityRequest is the payload for creating a water activity.
type CreateWaterActivityRequest struct {
	Date         string     `json:"date"`
	RPE          int        `json:"rpe"`
	Condition    string     `json:"condition"`
	TRIMP        int        `json:"trimp"`
	Duration     int        `json:"duration"`
	SleepQuality int        `json:"sleep_quality"`
	Fatigue      int        `json:"fatigue"`
	Stress       int        `json:"stress"`
	MusclePain   int        `json:"muscle_pain"`
	Waves        []WaveBody `json:"waves,omitempty"`
}

// UpdateWaterActivityRequest patches an existing water activity tree.
type UpdateWaterActivityRequest struct {
	Date         *string    `json:"date,omitempty"`
	RPE          *int       `json:"rpe,omitempty"`
	Condition    *string    `json:"condition,omitempty"`
	TRIMP        *int       `json:"trimp,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	SleepQuality *int       `json:"sleep_quality,omitempty"`
	Fatigue      *int       `json:"fatigue,omitempty"`
	Stress       *int       `json:"stress,omitempty"`
	MusclePain   *int       `json:"muscle_pain,omitempty"`
	Waves        []WaveBody `json:"waves,omitempty"`
}

// WaterSessionBody is the water session embedded in a new heat.
type WaterSessionBody struct {
	RPE          int        `json:"rpe"`
	Condition    string     `json:"condition"`
	TRIMP        int        `json:"trimp"`
	Duration     int        `json:"duration"`
	SleepQuality int        `json:"sleep_quality"`
	Fatigue      int        `json:"fatigue"`
	Stress       int        `json:"stress"`
	MusclePain   int        `json:"muscle_pain"`
	Waves        []WaveBody `json:"waves,omitempty"`
}

// HeatBody is one heat in a create payload.
type HeatBody struct {
	Score float64          `json:"score"`
	Order *int             `json:"order,omitempty"`
	Water WaterSessionBody `json:"water_activity"`
}

// CreateCompetitionRequest is the payload for creating a competition.
type CreateCompetitionRequest struct {
	Date     string     `json:"date"`
	Location string     `json:"location"`
	Place    int        `json:"place"`
	Name     string     `json:"name"`
	Heats    []HeatBody `json:"heats,omitempty"`
}

// HeatPatchBody is one heat in a competition patch.
type HeatPatchBody struct {
	ID            *string                     `json:"id,omitempty"`
	Score         *float64                    `json:"score,omitempty"`
	Order         *int                        `json:"order,omitempty"`
	WaterActivity *UpdateWaterActivityRequest `json:"water_activity,omitempty"`
}

// UpdateCompetitionRequest patches an existing competition tree.
type UpdateCompetitionRequest struct {
	Date     *string         `json:"date,omitempty"`
	Location *string         `json:"location,omitempty"`
	Place    *int            `json:"place,omitempty"`
	Name     *string         `json:"name,omitempty"`
	Heats    []HeatPatchBody `json:"heats,omitempty"`
}

// Converters from request bodies to domain inputs and patches. A nil
// slice in the body stays nil after conversion; an empty slice stays
// empty but non-nil.

func setInputs(bodies []SetBody) []domain.SetInput {
	out := make([]domain.SetInput, 0, len(bodies))
	for _, b := range bodies {
		in := domain.SetInput{Order: b.Order}
		if b.Reps != nil {
			in.Reps = *b.Reps
		}
		if b.Weight != nil {
			in.Weight = *b.Weight
		}
		if b.RestTime != nil {
			in.RestTime = *b.RestTime
		}
		out = append(out, in)
	}
	return out
}

func exerciseInputs(bodies []ExerciseBody) []domain.ExerciseInput {
	out := make([]domain.ExerciseInput, 0, len(bodies))
	for _, b := range bodies {
		in := domain.ExerciseInput{Order: b.Order, Sets: setInputs(b.Sets)}
		if b.GymExerciseID != nil {
			in.GymExerciseID = *b.GymExerciseID
		}
		out = append(out, in)
	}
	return out
}

func setPatches(bodies []SetBody) []domain.SetPatch {
	if bodies == nil {
		return nil
	}
	out := make([]domain.SetPatch, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, domain.SetPatch{
			ID:       b.ID,
			Reps:     b.Reps,
			Weight:   b.Weight,
			RestTime: b.RestTime,
			Order:    b.Order,
		})
	}
	return out
}

func exercisePatches(bodies []ExerciseBody) []domain.ExercisePatch {
	if bodies == nil {
		return nil
	}
	out := make([]domain.ExercisePatch, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, domain.ExercisePatch{
			ID:            b.ID,
			GymExerciseID: b.GymExerciseID,
			Order:         b.Order,
			Sets:          setPatches(b.Sets),
		})
	}
	return out
}

func maneuverInputs(bodies []ManeuverBody) []domain.ManeuverInput {
	out := make([]domain.ManeuverInput, 0, len(bodies))
	for _, b := range bodies {
		in := domain.ManeuverInput{Order: b.Order}
		if b.WaterManeuverID != nil {
			in.WaterManeuverID = *b.WaterManeuverID
		}
		if b.Success != nil {
			in.Success = *b.Success
		}
		out = append(out, in)
	}
	return out
}

func waveInputs(bodies []WaveBody) []domain.WaveInput {
	out := make([]domain.WaveInput, 0, len(bodies))
	for _, b := range bodies {
		in := domain.WaveInput{
			Points:    b.Points,
			Order:     b.Order,
			Maneuvers: maneuverInputs(b.Maneuvers),
		}
		if b.RightSide != nil {
			in.RightSide = *b.RightSide
		}
		out = append(out, in)
	}
	return out
}

func maneuverPatches(bodies []ManeuverBody) []domain.ManeuverPatch {
	if bodies == nil {
		return nil
	}
	out := make([]domain.ManeuverPatch, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, domain.ManeuverPatch{
			ID:              b.ID,
			WaterManeuverID: b.WaterManeuverID,
			Success:         b.Success,
			Order:           b.Order,
		})
	}
	return out
}

func wavePatches(bodies []WaveBody) []domain.WavePatch {
	if bodies == nil {
		return nil
	}
	out := make([]domain.WavePatch, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, domain.WavePatch{
			ID:        b.ID,
			Points:    b.Points,
			RightSide: b.RightSide,
			Order:     b.Order,
			Maneuvers: maneuverPatches(b.Maneuvers),
		})
	}
	return out
}

func waterPatch(body UpdateWaterActivityRequest) domain.WaterActivityPatch {
	return domain.WaterActivityPatch{
		Date:         body.Date,
		RPE:          body.RPE,
		Condition:    body.Condition,
		TRIMP:        body.TRIMP,
		Duration:     body.Duration,
		SleepQuality: body.SleepQuality,
		Fatigue:      body.Fatigue,
		Stress:       body.Stress,
		MusclePain:   body.MusclePain,
		Waves:        wavePatches(body.Waves),
	}
}

func heatInputs(bodies []HeatBody) []domain.HeatInput {
	out := make([]domain.HeatInput, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, domain.HeatInput{
			Score: b.Score,
			Order: b.Order,
			Water: domain.WaterSessionInput{
				RPE:          b.Water.RPE,
				Condition:    b.Water.Condition,
				TRIMP:        b.Water.TRIMP,
				Duration:     b.Water.Duration,
				SleepQuality: b.Water.SleepQuality,
				Fatigue:      b.Water.Fatigue,
				Stress:       b.Water.Stress,
				MusclePain:   b.Water.MusclePain,
				Waves:        waveInputs(b.Water.Waves),
			},
		})
	}
	return out
}

func heatPatches(bodies []HeatPatchBody) []domain.HeatPatch {
	if bodies == nil {
		return nil
	}
	out := make([]domain.HeatPatch, 0, len(bodies))
	for _, b := range bodies {
		p := domain.HeatPatch{ID: b.ID, Score: b.Score, Order: b.Order}
		if b.WaterActivity != nil {
			wp := waterPatch(*b.WaterActivity)
			p.WaterActivity = &wp
		}
		out = append(out, p)
	}
	return out
}

// View types returned by read endpoints.

// AthleteView exposes one athlete.
type AthleteView struct {
	ID        string `json:"id"`
	CoachID   string `json:"coach_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

func toAthleteView(a domain.Athlete) AthleteView {
	return AthleteView{
		ID:        a.ID,
		CoachID:   a.CoachID,
		Name:      a.Name,
		BirthDate: domain.FormatDate(a.BirthDate),
	}
}

// MicrocycleView exposes one microcycle inside the calendar.
type MicrocycleView struct {
	ID        string `json:"id"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

// MesocycleView exposes one mesocycle with its microcycles.
type MesocycleView struct {
	ID          string           `json:"id"`
	StartTime   int64            `json:"start_time"`
	EndTime     int64            `json:"end_time"`
	Microcycles []MicrocycleView `json:"microcycles"`
}

// CalendarView is the full training calendar of an athlete.
type CalendarView struct {
	AthleteID  string          `json:"athlete_id"`
	Mesocycles []MesocycleView `json:"mesocycles"`
}

func toCalendarView(athleteID string, mesos []domain.Mesocycle) CalendarView {
	out := CalendarView{AthleteID: athleteID, Mesocycles: make([]MesocycleView, 0, len(mesos))}
	for _, meso := range mesos {
		view := MesocycleView{
			ID:          meso.ID,
			StartTime:   meso.StartTime,
			EndTime:     meso.EndTime,
			Microcycles: make([]MicrocycleView, 0, len(meso.Microcycles)),
		}
		for _, micro := range meso.Microcycles {
			view.Microcycles = append(view.Microcycles, MicrocycleView{
				ID:        micro.ID,
				StartTime: micro.StartTime,
				EndTime:   micro.EndTime,
			})
		}
		out.Mesocycles = append(out.Mesocycles, view)
	}
	return out
}

// SetView exposes one set.
type SetView struct {
	ID       string  `json:"id"`
	Reps     int     `json:"reps"`
	Weight   float64 `json:"weight"`
	RestTime int     `json:"rest_time"`
	Order    int     `json:"order"`
}

// ExerciseView exposes one exercise with its sets.
type ExerciseView struct {
	ID            string    `json:"id"`
	GymExerciseID int64     `json:"gym_exercise_id"`
	Order         int       `json:"order"`
	Sets          []SetView `json:"sets"`
}

// GymActivityView exposes a full gym activity tree.
type GymActivityView struct {
	ID           string         `json:"id"`
	AthleteID    string         `json:"athlete_id"`
	MicrocycleID string         `json:"microcycle_id"`
	Date         string         `json:"date"`
	Exercises    []ExerciseView `json:"exercises"`
}

func toGymActivityView(a domain.GymActivity) GymActivityView {
	out := GymActivityView{
		ID:           a.ID,
		AthleteID:    a.AthleteID,
		MicrocycleID: a.MicrocycleID,
		Date:         domain.FormatDate(a.Date),
		Exercises:    make([]ExerciseView, 0, len(a.Exercises)),
	}
	for _, ex := range a.Exercises {
		view := ExerciseView{
			ID:            ex.ID,
			GymExerciseID: ex.GymExerciseID,
			Order:         ex.Order,
			Sets:          make([]SetView, 0, len(ex.Sets)),
		}
		for _, set := range ex.Sets {
			view.Sets = append(view.Sets, SetView{
				ID:       set.ID,
				Reps:     set.Reps,
				Weight:   set.Weight,
				RestTime: set.RestTime,
				Order:    set.Order,
			})
		}
		out.Exercises = append(out.Exercises, view)
	}
	return out
}

// ManeuverView exposes one maneuver.
type ManeuverView struct {
	ID              string `json:"id"`
	WaterManeuverID int64  `json:"water_maneuver_id"`
	Success         bool   `json:"success"`
	Order           int    `json:"order"`
}

// WaveView exposes one wave with its maneuvers.
type WaveView struct {
	ID        string         `json:"id"`
	Points    *float64       `json:"points,omitempty"`
	RightSide bool           `json:"right_side"`
	Order     int            `json:"order"`
	Maneuvers []ManeuverView `json:"maneuvers"`
}

// WaterActivityView exposes a full water activity tree.
type WaterActivityView struct {
	ID           string     `json:"id"`
	AthleteID    string     `json:"athlete_id"`
	MicrocycleID string     `json:"microcycle_id"`
	Date         string     `json:"date"`
	RPE          int        `json:"rpe"`
	Condition    string     `json:"condition"`
	TRIMP        int        `json:"trimp"`
	Duration     int        `json:"duration"`
	SleepQuality int        `json:"sleep_quality"`
	Fatigue      int        `json:"fatigue"`
	Stress       int        `json:"stress"`
	MusclePain   int        `json:"muscle_pain"`
	Waves        []WaveView `json:"waves"`
}

func toWaterActivityView(a domain.WaterActivity) WaterActivityView {
	out := WaterActivityView{
		ID:           a.ID,
		AthleteID:    a.AthleteID,
		MicrocycleID: a.MicrocycleID,
		Date:         domain.FormatDate(a.Date),
		RPE:          a.RPE,
		Condition:    a.Condition,
		TRIMP:        a.TRIMP,
		Duration:     a.Duration,
		SleepQuality: a.SleepQuality,
		Fatigue:      a.Fatigue,
		Stress:       a.Stress,
		MusclePain:   a.MusclePain,
		Waves:        make([]WaveView, 0, len(a.Waves)),
	}
	for _, wave := range a.Waves {
		view := WaveView{
			ID:        wave.ID,
			Points:    wave.Points,
			RightSide: wave.RightSide,
			Order:     wave.Order,
			Maneuvers: make([]ManeuverView, 0, len(wave.Maneuvers)),
		}
		for _, m := range wave.Maneuvers {
			view.Maneuvers = append(view.Maneuvers, ManeuverView{
				ID:              m.ID,
				WaterManeuverID: m.WaterManeuverID,
				Success:         m.Success,
				Order:           m.Order,
			})
		}
		out.Waves = append(out.Waves, view)
	}
	return out
}

// HeatView exposes one heat with its water session.
type HeatView struct {
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Order         int               `json:"order"`
	WaterActivity WaterActivityView `json:"water_activity"`
}

// CompetitionView exposes a full competition tree.
type CompetitionView struct {
	ID        string     `json:"id"`
	AthleteID string     `json:"athlete_id"`
	Date      string     `json:"date"`
	Location  string     `json:"location"`
	Place     int        `json:"place"`
	Name      string     `json:"name"`
	Heats     []HeatView `json:"heats"`
}

func toCompetitionView(c domain.Competition) CompetitionView {
	out := CompetitionView{
		ID:        c.ID,
		AthleteID: c.AthleteID,
		Date:      domain.FormatDate(c.Date),
		Location:  c.Location,
		Place:     c.Place,
		Name:      c.Name,
		Heats:     make([]HeatView, 0, len(c.Heats)),
	}
	for _, heat := range c.Heats {
		out.Heats = append(out.Heats, HeatView{
			ID:            heat.ID,
			Score:         heat.Score,
			Order:         heat.Order,
			WaterActivity: toWaterActivityView(heat.WaterActivity),
		})
	}
	return out
}

// GymExerciseView exposes one catalog exercise.
type GymExerciseView struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	URL      *string `json:"url,omitempty"`
}

// WaterManeuverView exposes one catalog maneuver.
type WaterManeuverView struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	URL  *string `json:"url,omitempty"`
}

// CreatedResponse carries the id of a newly created aggregate.
type CreatedResponse struct {
	ID string `json:"id"`
}
