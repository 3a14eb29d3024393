package domain

import "context"

// GymService reconciles gym activity trees: activity -> exercises -> sets.
type GymService struct {
	store Store
}

// NewGymService constructs a GymService.
func NewGymService(store Store) *GymService {
	return &GymService{store: store}
}

// SetInput is one set of a brand-new exercise.
type SetInput struct {
	Reps     int
	Weight   float64
	RestTime int
	Order    *int
}

// ExerciseInput is one exercise of a brand-new gym activity.
type ExerciseInput struct {
	GymExerciseID int64
	Order         *int
	Sets          []SetInput
}

// CreateGymActivity validates and persists a full gym activity tree in one
// transaction, returning the new activity id.
func (s *GymService) CreateGymActivity(ctx context.Context, caller Caller, athleteID, date string, exercises []ExerciseInput) (string, error) {
	if _, err := authorizeAthlete(ctx, s.store, caller, athleteID); err != nil {
		return "", err
	}
	millis, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	micro, err := s.store.MicrocycleContaining(ctx, athleteID, millis)
	if err != nil {
		return "", err
	}
	if micro == nil {
		return "", ErrActivityWithoutMicrocycle
	}

	rows := make([]Exercise, 0, len(exercises))
	orders := make([]int, 0, len(exercises))
	for i, in := range exercises {
		known, err := s.store.GymExerciseExists(ctx, in.GymExerciseID)
		if err != nil {
			return "", err
		}
		if !known {
			return "", ErrInvalidGymExercise
		}
		row := Exercise{
			GymExerciseID: in.GymExerciseID,
			Order:         ResolveOrder(in.Order, -1, i),
		}
		setOrders := make([]int, 0, len(in.Sets))
		for j, sp := range in.Sets {
			if !ValidSet(sp.Reps, sp.Weight, sp.RestTime) {
				return "", ErrInvalidSet
			}
			set := Set{
				Reps:     sp.Reps,
				Weight:   sp.Weight,
				RestTime: sp.RestTime,
				Order:    ResolveOrder(sp.Order, -1, j),
			}
			row.Sets = append(row.Sets, set)
			setOrders = append(setOrders, set.Order)
		}
		if !DistinctOrders(setOrders) {
			return "", ErrInvalidOrder
		}
		rows = append(rows, row)
		orders = append(orders, row.Order)
	}
	if !DistinctOrders(orders) {
		return "", ErrInvalidOrder
	}

	var activityID string
	err = s.store.InTx(ctx, func(tx Tx) error {
		activityID, err = tx.StoreActivity(ctx, Activity{
			AthleteID:    athleteID,
			MicrocycleID: micro.ID,
			Date:         millis,
			Kind:         KindGym,
		})
		if err != nil {
			return err
		}
		for _, row := range rows {
			row.ActivityID = activityID
			exerciseID, err := tx.StoreExercise(ctx, row)
			if err != nil {
				return err
			}
			for _, set := range row.Sets {
				set.ExerciseID = exerciseID
				if _, err := tx.StoreSet(ctx, set); err != nil {
					return err
				}
			}
		}
		event, err := newEvent("gym_activity", activityID, "activity.reconciled", reconciledEvent{
			AthleteID: athleteID,
			Created:   1 + len(rows),
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return "", err
	}
	return activityID, nil
}

// GetGymActivity returns the full tree of one gym activity.
func (s *GymService) GetGymActivity(ctx context.Context, caller Caller, activityID string) (*GymActivity, error) {
	return s.loadGymActivity(ctx, caller, activityID)
}

// gymPlan is the write batch of one gym update, already validated.
// Deletes run innermost-first, then updates, then creates with parent ids
// threaded into new children.
type gymPlan struct {
	activity        *Activity
	removeSets      []string
	removeExercises []string
	updateSets      []Set
	updateExercises []Exercise
	createSets      map[string][]Set
	createExercises []Exercise
	created         int
	updated         int
	deleted         int
}

// UpdateGymActivity reconciles a submitted partial tree against the
// persisted one and commits the difference atomically.
func (s *GymService) UpdateGymActivity(ctx context.Context, caller Caller, activityID string, patch GymActivityPatch) error {
	existing, err := s.loadGymActivity(ctx, caller, activityID)
	if err != nil {
		return err
	}

	plan := gymPlan{createSets: make(map[string][]Set)}

	if patch.Date != nil {
		millis, err := ParseDate(*patch.Date)
		if err != nil {
			return err
		}
		if millis != existing.Date {
			micro, err := s.store.MicrocycleContaining(ctx, existing.AthleteID, millis)
			if err != nil {
				return err
			}
			if micro == nil {
				return ErrActivityWithoutMicrocycle
			}
			head := existing.Activity
			head.Date = millis
			head.MicrocycleID = micro.ID
			plan.activity = &head
		}
	}

	if patch.Exercises != nil {
		if err := s.planExercises(ctx, existing, patch.Exercises, &plan); err != nil {
			return err
		}
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		for _, id := range plan.removeSets {
			if err := tx.RemoveSet(ctx, id); err != nil {
				return err
			}
		}
		for _, id := range plan.removeExercises {
			if err := tx.RemoveExercise(ctx, id); err != nil {
				return err
			}
		}
		if plan.activity != nil {
			if err := tx.UpdateActivity(ctx, *plan.activity); err != nil {
				return err
			}
		}
		for _, ex := range plan.updateExercises {
			if err := tx.UpdateExercise(ctx, ex); err != nil {
				return err
			}
		}
		for _, set := range plan.updateSets {
			if err := tx.UpdateSet(ctx, set); err != nil {
				return err
			}
		}
		for _, ex := range plan.createExercises {
			exerciseID, err := tx.StoreExercise(ctx, ex)
			if err != nil {
				return err
			}
			for _, set := range ex.Sets {
				set.ExerciseID = exerciseID
				if _, err := tx.StoreSet(ctx, set); err != nil {
					return err
				}
			}
		}
		for exerciseID, sets := range plan.createSets {
			for _, set := range sets {
				set.ExerciseID = exerciseID
				if _, err := tx.StoreSet(ctx, set); err != nil {
					return err
				}
			}
		}
		event, err := newEvent("gym_activity", activityID, "activity.reconciled", reconciledEvent{
			AthleteID: existing.AthleteID,
			Created:   plan.created,
			Updated:   plan.updated,
			Deleted:   plan.deleted,
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
}

// RemoveGymActivity deletes the whole tree, innermost rows first.
func (s *GymService) RemoveGymActivity(ctx context.Context, caller Caller, activityID string) error {
	existing, err := s.loadGymActivity(ctx, caller, activityID)
	if err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		for _, ex := range existing.Exercises {
			for _, set := range ex.Sets {
				if err := tx.RemoveSet(ctx, set.ID); err != nil {
					return err
				}
			}
			if err := tx.RemoveExercise(ctx, ex.ID); err != nil {
				return err
			}
		}
		if err := tx.RemoveActivity(ctx, activityID); err != nil {
			return err
		}
		event, err := newEvent("gym_activity", activityID, "activity.reconciled", reconciledEvent{
			AthleteID: existing.AthleteID,
			Deleted:   1,
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
}

func (s *GymService) planExercises(ctx context.Context, existing *GymActivity, patches []ExercisePatch, plan *gymPlan) error {
	byID := make(map[string]Exercise, len(existing.Exercises))
	for _, ex := range existing.Exercises {
		byID[ex.ID] = ex
	}

	ops := Classify(patches)

	deleted := make(map[string]bool, len(ops.Deletes))
	for _, id := range ops.Deletes {
		ex, ok := byID[id]
		if !ok {
			return s.exerciseMismatch(ctx, id)
		}
		deleted[id] = true
		for _, set := range ex.Sets {
			plan.removeSets = append(plan.removeSets, set.ID)
		}
		plan.removeExercises = append(plan.removeExercises, ex.ID)
		plan.deleted++
	}

	finalOrders := make([]int, 0, len(existing.Exercises)+len(ops.Creates))
	updatedOrders := make(map[string]int, len(ops.Updates))

	for _, item := range ops.Updates {
		p := item.Patch
		cur, ok := byID[*p.ID]
		if !ok {
			return s.exerciseMismatch(ctx, *p.ID)
		}
		merged := cur
		merged.Sets = nil
		if p.GymExerciseID != nil {
			known, err := s.store.GymExerciseExists(ctx, *p.GymExerciseID)
			if err != nil {
				return err
			}
			if !known {
				return ErrInvalidGymExercise
			}
			merged.GymExerciseID = *p.GymExerciseID
		}
		merged.Order = ResolveOrder(p.Order, cur.Order, item.Index)
		updatedOrders[cur.ID] = merged.Order
		plan.updateExercises = append(plan.updateExercises, merged)
		plan.updated++

		if p.Sets != nil {
			if err := s.planSets(ctx, cur, p.Sets, plan); err != nil {
				return err
			}
		}
	}

	for _, item := range ops.Creates {
		p := item.Patch
		if p.GymExerciseID == nil {
			return ErrInvalidGymExercise
		}
		known, err := s.store.GymExerciseExists(ctx, *p.GymExerciseID)
		if err != nil {
			return err
		}
		if !known {
			return ErrInvalidGymExercise
		}
		row := Exercise{
			ActivityID:    existing.ID,
			GymExerciseID: *p.GymExerciseID,
			Order:         ResolveOrder(p.Order, -1, item.Index),
		}
		setOrders := make([]int, 0, len(p.Sets))
		for j, sp := range p.Sets {
			if sp.ID != nil {
				// A set id inside a brand-new exercise claims a
				// parent it cannot have.
				return ErrNotExerciseSet
			}
			set, err := setFromPatch(sp, j)
			if err != nil {
				return err
			}
			row.Sets = append(row.Sets, set)
			setOrders = append(setOrders, set.Order)
		}
		if !DistinctOrders(setOrders) {
			return ErrInvalidOrder
		}
		plan.createExercises = append(plan.createExercises, row)
		plan.created++
		finalOrders = append(finalOrders, row.Order)
	}

	for _, ex := range existing.Exercises {
		if deleted[ex.ID] {
			continue
		}
		if order, ok := updatedOrders[ex.ID]; ok {
			finalOrders = append(finalOrders, order)
		} else {
			finalOrders = append(finalOrders, ex.Order)
		}
	}
	if !DistinctOrders(finalOrders) {
		return ErrInvalidOrder
	}
	return nil
}

func (s *GymService) planSets(ctx context.Context, exercise Exercise, patches []SetPatch, plan *gymPlan) error {
	byID := make(map[string]Set, len(exercise.Sets))
	for _, set := range exercise.Sets {
		byID[set.ID] = set
	}

	ops := Classify(patches)

	deleted := make(map[string]bool, len(ops.Deletes))
	for _, id := range ops.Deletes {
		set, ok := byID[id]
		if !ok {
			return s.setMismatch(ctx, id)
		}
		deleted[id] = true
		plan.removeSets = append(plan.removeSets, set.ID)
		plan.deleted++
	}

	finalOrders := make([]int, 0, len(exercise.Sets)+len(ops.Creates))
	updatedOrders := make(map[string]int, len(ops.Updates))

	for _, item := range ops.Updates {
		p := item.Patch
		cur, ok := byID[*p.ID]
		if !ok {
			return s.setMismatch(ctx, *p.ID)
		}
		merged := cur
		if p.Reps != nil {
			merged.Reps = *p.Reps
		}
		if p.Weight != nil {
			merged.Weight = *p.Weight
		}
		if p.RestTime != nil {
			merged.RestTime = *p.RestTime
		}
		if !ValidSet(merged.Reps, merged.Weight, merged.RestTime) {
			return ErrInvalidSet
		}
		merged.Order = ResolveOrder(p.Order, cur.Order, item.Index)
		updatedOrders[cur.ID] = merged.Order
		plan.updateSets = append(plan.updateSets, merged)
		plan.updated++
	}

	for _, item := range ops.Creates {
		set, err := setFromPatch(item.Patch, item.Index)
		if err != nil {
			return err
		}
		plan.createSets[exercise.ID] = append(plan.createSets[exercise.ID], set)
		plan.created++
		finalOrders = append(finalOrders, set.Order)
	}

	for _, set := range exercise.Sets {
		if deleted[set.ID] {
			continue
		}
		if order, ok := updatedOrders[set.ID]; ok {
			finalOrders = append(finalOrders, order)
		} else {
			finalOrders = append(finalOrders, set.Order)
		}
	}
	if !DistinctOrders(finalOrders) {
		return ErrInvalidOrder
	}
	return nil
}

func setFromPatch(p SetPatch, index int) (Set, error) {
	if p.Reps == nil || p.Weight == nil || p.RestTime == nil {
		return Set{}, ErrInvalidSet
	}
	if !ValidSet(*p.Reps, *p.Weight, *p.RestTime) {
		return Set{}, ErrInvalidSet
	}
	return Set{
		Reps:     *p.Reps,
		Weight:   *p.Weight,
		RestTime: *p.RestTime,
		Order:    ResolveOrder(p.Order, -1, index),
	}, nil
}

// exerciseMismatch distinguishes an unknown exercise id from one that
// belongs to a different activity.
func (s *GymService) exerciseMismatch(ctx context.Context, id string) error {
	ex, err := s.store.ExerciseByID(ctx, id)
	if err != nil {
		return err
	}
	if ex == nil {
		return ErrExerciseNotFound
	}
	return ErrNotActivityExercise
}

func (s *GymService) setMismatch(ctx context.Context, id string) error {
	set, err := s.store.SetByID(ctx, id)
	if err != nil {
		return err
	}
	if set == nil {
		return ErrSetNotFound
	}
	return ErrNotExerciseSet
}

func (s *GymService) loadGymActivity(ctx context.Context, caller Caller, activityID string) (*GymActivity, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	head, err := s.store.ActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if head == nil {
		return nil, ErrActivityNotFound
	}
	if _, err := authorizeAthlete(ctx, s.store, caller, head.AthleteID); err != nil {
		return nil, err
	}
	if head.Kind != KindGym {
		return nil, ErrNotGymActivity
	}
	full, err := s.store.GymActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrActivityNotFound
	}
	return full, nil
}
