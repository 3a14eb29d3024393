// Package memory provides an in-memory domain.Store for unit tests and
// local development. Writes mirror the transactional semantics of the
// Postgres adapter: a failing InTx body leaves the store untouched.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

type waterDetail struct {
	ActivityID   string
	RPE          int
	Condition    string
	TRIMP        int
	Duration     int
	SleepQuality int
	Fatigue      int
	Stress       int
	MusclePain   int
}

type heatRow struct {
	ID              string
	CompetitionID   string
	Score           float64
	Order           int
	WaterActivityID string
}

// Store holds every table as a map keyed by surrogate id. Child slices
// are assembled on read; rows are stored flat.
type Store struct {
	mu              sync.RWMutex
	athletes        map[string]domain.Athlete
	mesocycles      map[string]domain.Mesocycle
	microcycles     map[string]domain.Microcycle
	activities      map[string]domain.Activity
	waterDetails    map[string]waterDetail
	exercises       map[string]domain.Exercise
	sets            map[string]domain.Set
	waves           map[string]domain.Wave
	maneuvers       map[string]domain.Maneuver
	competitions    map[string]domain.Competition
	heats           map[string]heatRow
	gymCatalog      map[int64]domain.GymExercise
	maneuverCatalog map[int64]domain.WaterManeuver
	events          []domain.Event

	failAfter int
	failErr   error
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		athletes:        make(map[string]domain.Athlete),
		mesocycles:      make(map[string]domain.Mesocycle),
		microcycles:     make(map[string]domain.Microcycle),
		activities:      make(map[string]domain.Activity),
		waterDetails:    make(map[string]waterDetail),
		exercises:       make(map[string]domain.Exercise),
		sets:            make(map[string]domain.Set),
		waves:           make(map[string]domain.Wave),
		maneuvers:       make(map[string]domain.Maneuver),
		competitions:    make(map[string]domain.Competition),
		heats:           make(map[string]heatRow),
		gymCatalog:      make(map[int64]domain.GymExercise),
		maneuverCatalog: make(map[int64]domain.WaterManeuver),
		failAfter:       -1,
	}
}

// SeedGymExercise adds a catalog entry.
func (s *Store) SeedGymExercise(ex domain.GymExercise) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gymCatalog[ex.ID] = ex
}

// SeedWaterManeuver adds a catalog entry.
func (s *Store) SeedWaterManeuver(m domain.WaterManeuver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maneuverCatalog[m.ID] = m
}

// FailAfter makes the n-th subsequent transactional write return err,
// exercising rollback paths in tests. n counts from zero.
func (s *Store) FailAfter(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.failErr = err
}

// Events returns the recorded outbox rows.
func (s *Store) Events() []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.events))
	copy(out, s.events)
	return out
}

// --- reads ---

func (s *Store) AthleteByID(_ context.Context, id string) (*domain.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.athletes[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *Store) AthleteNameExists(_ context.Context, coachID, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.athletes {
		if a.CoachID == coachID && a.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListAthletes(_ context.Context, coachID string) ([]domain.Athlete, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Athlete
	for _, a := range s.athletes {
		if a.CoachID == coachID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) MesocycleByID(_ context.Context, id string) (*domain.Mesocycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.mesocycles[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *Store) MicrocycleByID(_ context.Context, id string) (*domain.Microcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.microcycles[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *Store) ListMesocycles(_ context.Context, athleteID string) ([]domain.Mesocycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Mesocycle
	for _, m := range s.mesocycles {
		if m.AthleteID == athleteID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *Store) ListMicrocycles(_ context.Context, mesocycleID string) ([]domain.Microcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Microcycle
	for _, m := range s.microcycles {
		if m.MesocycleID == mesocycleID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *Store) MicrocycleContaining(_ context.Context, athleteID string, date int64) (*domain.Microcycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.microcycles {
		if m.AthleteID == athleteID && domain.MicrocycleContains(m, date) {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) MicrocycleHasActivities(_ context.Context, microcycleID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.activities {
		if a.MicrocycleID == microcycleID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ActivityByID(_ context.Context, id string) (*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.activities[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (s *Store) GymActivityByID(_ context.Context, id string) (*domain.GymActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	head, ok := s.activities[id]
	if !ok || head.Kind != domain.KindGym {
		return nil, nil
	}
	out := domain.GymActivity{Activity: head}
	for _, ex := range s.exercises {
		if ex.ActivityID != id {
			continue
		}
		ex.Sets = s.setsOf(ex.ID)
		out.Exercises = append(out.Exercises, ex)
	}
	sort.Slice(out.Exercises, func(i, j int) bool { return out.Exercises[i].Order < out.Exercises[j].Order })
	return &out, nil
}

func (s *Store) WaterActivityByID(_ context.Context, id string) (*domain.WaterActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.waterTree(id)
	return w, nil
}

// waterTree assembles a water activity; callers hold the lock.
func (s *Store) waterTree(id string) *domain.WaterActivity {
	head, ok := s.activities[id]
	if !ok || head.Kind != domain.KindWater {
		return nil
	}
	detail, ok := s.waterDetails[id]
	if !ok {
		return nil
	}
	out := domain.WaterActivity{
		Activity:     head,
		RPE:          detail.RPE,
		Condition:    detail.Condition,
		TRIMP:        detail.TRIMP,
		Duration:     detail.Duration,
		SleepQuality: detail.SleepQuality,
		Fatigue:      detail.Fatigue,
		Stress:       detail.Stress,
		MusclePain:   detail.MusclePain,
	}
	for _, wave := range s.waves {
		if wave.ActivityID != id {
			continue
		}
		for _, m := range s.maneuvers {
			if m.WaveID == wave.ID {
				wave.Maneuvers = append(wave.Maneuvers, m)
			}
		}
		sort.Slice(wave.Maneuvers, func(i, j int) bool { return wave.Maneuvers[i].Order < wave.Maneuvers[j].Order })
		out.Waves = append(out.Waves, wave)
	}
	sort.Slice(out.Waves, func(i, j int) bool { return out.Waves[i].Order < out.Waves[j].Order })
	return &out
}

func (s *Store) setsOf(exerciseID string) []domain.Set {
	var out []domain.Set
	for _, set := range s.sets {
		if set.ExerciseID == exerciseID {
			out = append(out, set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (s *Store) ActivitiesInMicrocycle(_ context.Context, microcycleID string) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Activity
	for _, a := range s.activities {
		if a.MicrocycleID == microcycleID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) ExerciseByID(_ context.Context, id string) (*domain.Exercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ex, ok := s.exercises[id]; ok {
		return &ex, nil
	}
	return nil, nil
}

func (s *Store) SetByID(_ context.Context, id string) (*domain.Set, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if set, ok := s.sets[id]; ok {
		return &set, nil
	}
	return nil, nil
}

func (s *Store) WaveByID(_ context.Context, id string) (*domain.Wave, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if wave, ok := s.waves[id]; ok {
		return &wave, nil
	}
	return nil, nil
}

func (s *Store) ManeuverByID(_ context.Context, id string) (*domain.Maneuver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.maneuvers[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *Store) CompetitionByID(_ context.Context, id string) (*domain.Competition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.competitions[id]
	if !ok {
		return nil, nil
	}
	for _, h := range s.heats {
		if h.CompetitionID != id {
			continue
		}
		heat := domain.Heat{ID: h.ID, CompetitionID: id, Score: h.Score, Order: h.Order}
		if tree := s.waterTree(h.WaterActivityID); tree != nil {
			heat.WaterActivity = *tree
		}
		c.Heats = append(c.Heats, heat)
	}
	sort.Slice(c.Heats, func(i, j int) bool { return c.Heats[i].Order < c.Heats[j].Order })
	return &c, nil
}

func (s *Store) HeatByID(_ context.Context, id string) (*domain.Heat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.heats[id]
	if !ok {
		return nil, nil
	}
	heat := domain.Heat{ID: h.ID, CompetitionID: h.CompetitionID, Score: h.Score, Order: h.Order}
	if tree := s.waterTree(h.WaterActivityID); tree != nil {
		heat.WaterActivity = *tree
	}
	return &heat, nil
}

// HeatByWaterActivity finds the heat that embeds the given water session, if any.
func (s *Store) HeatByWaterActivity(_ context.Context, activityID string) (*domain.Heat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.heats {
		if h.WaterActivityID != activityID {
			continue
		}
		heat := domain.Heat{ID: h.ID, CompetitionID: h.CompetitionID, Score: h.Score, Order: h.Order}
		if tree := s.waterTree(h.WaterActivityID); tree != nil {
			heat.WaterActivity = *tree
		}
		return &heat, nil
	}
	return nil, nil
}

func (s *Store) GymExerciseExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.gymCatalog[id]
	return ok, nil
}

func (s *Store) WaterManeuverExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.maneuverCatalog[id]
	return ok, nil
}

func (s *Store) ListGymExercises(_ context.Context, category string) ([]domain.GymExercise, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.GymExercise
	for _, ex := range s.gymCatalog {
		if category == "" || ex.Category == category {
			out = append(out, ex)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListWaterManeuvers(_ context.Context) ([]domain.WaterManeuver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WaterManeuver
	for _, m := range s.maneuverCatalog {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- transaction ---

type snapshot struct {
	athletes     map[string]domain.Athlete
	mesocycles   map[string]domain.Mesocycle
	microcycles  map[string]domain.Microcycle
	activities   map[string]domain.Activity
	waterDetails map[string]waterDetail
	exercises    map[string]domain.Exercise
	sets         map[string]domain.Set
	waves        map[string]domain.Wave
	maneuvers    map[string]domain.Maneuver
	competitions map[string]domain.Competition
	heats        map[string]heatRow
	events       int
}

// InTx snapshots the maps, runs fn, and restores the snapshot when fn
// fails, mirroring a rolled-back database transaction.
func (s *Store) InTx(_ context.Context, fn func(domain.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		athletes:     cloneMap(s.athletes),
		mesocycles:   cloneMap(s.mesocycles),
		microcycles:  cloneMap(s.microcycles),
		activities:   cloneMap(s.activities),
		waterDetails: cloneMap(s.waterDetails),
		exercises:    cloneMap(s.exercises),
		sets:         cloneMap(s.sets),
		waves:        cloneMap(s.waves),
		maneuvers:    cloneMap(s.maneuvers),
		competitions: cloneMap(s.competitions),
		heats:        cloneMap(s.heats),
		events:       len(s.events),
	}

	if err := fn(&tx{store: s}); err != nil {
		s.athletes = snap.athletes
		s.mesocycles = snap.mesocycles
		s.microcycles = snap.microcycles
		s.activities = snap.activities
		s.waterDetails = snap.waterDetails
		s.exercises = snap.exercises
		s.sets = snap.sets
		s.waves = snap.waves
		s.maneuvers = snap.maneuvers
		s.competitions = snap.competitions
		s.heats = snap.heats
		s.events = s.events[:snap.events]
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type tx struct {
	store *Store
}

// tick applies the FailAfter hook. Callers already hold the write lock.
func (t *tx) tick() error {
	s := t.store
	if s.failAfter < 0 {
		return nil
	}
	if s.failAfter == 0 {
		s.failAfter = -1
		return s.failErr
	}
	s.failAfter--
	return nil
}

func (t *tx) StoreAthlete(_ context.Context, a domain.Athlete) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	a.ID = uuid.NewString()
	t.store.athletes[a.ID] = a
	return a.ID, nil
}

func (t *tx) StoreMesocycle(_ context.Context, m domain.Mesocycle) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	m.ID = uuid.NewString()
	m.Microcycles = nil
	t.store.mesocycles[m.ID] = m
	return m.ID, nil
}

func (t *tx) UpdateMesocycle(_ context.Context, m domain.Mesocycle) error {
	if err := t.tick(); err != nil {
		return err
	}
	m.Microcycles = nil
	t.store.mesocycles[m.ID] = m
	return nil
}

func (t *tx) RemoveMesocycle(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.mesocycles, id)
	return nil
}

func (t *tx) StoreMicrocycle(_ context.Context, m domain.Microcycle) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	m.ID = uuid.NewString()
	t.store.microcycles[m.ID] = m
	return m.ID, nil
}

func (t *tx) UpdateMicrocycle(_ context.Context, m domain.Microcycle) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.microcycles[m.ID] = m
	return nil
}

func (t *tx) RemoveMicrocycle(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.microcycles, id)
	return nil
}

func (t *tx) StoreActivity(_ context.Context, a domain.Activity) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	a.ID = uuid.NewString()
	t.store.activities[a.ID] = a
	return a.ID, nil
}

func (t *tx) UpdateActivity(_ context.Context, a domain.Activity) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.activities[a.ID] = a
	return nil
}

func (t *tx) RemoveActivity(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.activities, id)
	return nil
}

func (t *tx) StoreExercise(_ context.Context, e domain.Exercise) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	e.ID = uuid.NewString()
	e.Sets = nil
	t.store.exercises[e.ID] = e
	return e.ID, nil
}

func (t *tx) UpdateExercise(_ context.Context, e domain.Exercise) error {
	if err := t.tick(); err != nil {
		return err
	}
	e.Sets = nil
	t.store.exercises[e.ID] = e
	return nil
}

func (t *tx) RemoveExercise(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.exercises, id)
	return nil
}

func (t *tx) StoreSet(_ context.Context, s domain.Set) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	s.ID = uuid.NewString()
	t.store.sets[s.ID] = s
	return s.ID, nil
}

func (t *tx) UpdateSet(_ context.Context, s domain.Set) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.sets[s.ID] = s
	return nil
}

func (t *tx) RemoveSet(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.sets, id)
	return nil
}

func (t *tx) StoreWaterDetail(_ context.Context, w domain.WaterActivity) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.waterDetails[w.ID] = waterDetail{
		ActivityID:   w.ID,
		RPE:          w.RPE,
		Condition:    w.Condition,
		TRIMP:        w.TRIMP,
		Duration:     w.Duration,
		SleepQuality: w.SleepQuality,
		Fatigue:      w.Fatigue,
		Stress:       w.Stress,
		MusclePain:   w.MusclePain,
	}
	return nil
}

func (t *tx) UpdateWaterDetail(ctx context.Context, w domain.WaterActivity) error {
	return t.StoreWaterDetail(ctx, w)
}

func (t *tx) RemoveWaterDetail(_ context.Context, activityID string) error {
	if err := t.tick(); err != nil {
		return err
	}
	// The relational schema has heats referencing water sessions, so a
	// session still embedded in a heat cannot be deleted.
	for _, h := range t.store.heats {
		if h.WaterActivityID == activityID {
			return fmt.Errorf("water activity %s is still referenced by heat %s", activityID, h.ID)
		}
	}
	delete(t.store.waterDetails, activityID)
	return nil
}

func (t *tx) StoreWave(_ context.Context, w domain.Wave) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	w.ID = uuid.NewString()
	w.Maneuvers = nil
	t.store.waves[w.ID] = w
	return w.ID, nil
}

func (t *tx) UpdateWave(_ context.Context, w domain.Wave) error {
	if err := t.tick(); err != nil {
		return err
	}
	w.Maneuvers = nil
	t.store.waves[w.ID] = w
	return nil
}

func (t *tx) RemoveWave(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.waves, id)
	return nil
}

func (t *tx) StoreManeuver(_ context.Context, m domain.Maneuver) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	m.ID = uuid.NewString()
	t.store.maneuvers[m.ID] = m
	return m.ID, nil
}

func (t *tx) UpdateManeuver(_ context.Context, m domain.Maneuver) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.maneuvers[m.ID] = m
	return nil
}

func (t *tx) RemoveManeuver(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.maneuvers, id)
	return nil
}

func (t *tx) StoreCompetition(_ context.Context, c domain.Competition) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	c.ID = uuid.NewString()
	c.Heats = nil
	t.store.competitions[c.ID] = c
	return c.ID, nil
}

func (t *tx) UpdateCompetition(_ context.Context, c domain.Competition) error {
	if err := t.tick(); err != nil {
		return err
	}
	c.Heats = nil
	t.store.competitions[c.ID] = c
	return nil
}

func (t *tx) RemoveCompetition(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.competitions, id)
	return nil
}

func (t *tx) StoreHeat(_ context.Context, h domain.Heat, waterActivityID string) (string, error) {
	if err := t.tick(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	t.store.heats[id] = heatRow{
		ID:              id,
		CompetitionID:   h.CompetitionID,
		Score:           h.Score,
		Order:           h.Order,
		WaterActivityID: waterActivityID,
	}
	return id, nil
}

func (t *tx) UpdateHeat(_ context.Context, h domain.Heat) error {
	if err := t.tick(); err != nil {
		return err
	}
	row, ok := t.store.heats[h.ID]
	if !ok {
		return nil
	}
	row.Score = h.Score
	row.Order = h.Order
	t.store.heats[h.ID] = row
	return nil
}

func (t *tx) RemoveHeat(_ context.Context, id string) error {
	if err := t.tick(); err != nil {
		return err
	}
	delete(t.store.heats, id)
	return nil
}

func (t *tx) AppendEvent(_ context.Context, e domain.Event) error {
	if err := t.tick(); err != nil {
		return err
	}
	t.store.events = append(t.store.events, e)
	return nil
}
