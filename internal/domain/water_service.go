package domain

import "context"

// WaterService reconciles water activity trees:
// activity -> waves -> maneuvers.
type WaterService struct {
	store Store
}

// NewWaterService constructs a WaterService.
func NewWaterService(store Store) *WaterService {
	return &WaterService{store: store}
}

// ManeuverInput is one maneuver of a brand-new wave.
type ManeuverInput struct {
	WaterManeuverID int64
	Success         bool
	Order           *int
}

// WaveInput is one wave of a brand-new water session.
type WaveInput struct {
	Points    *float64
	RightSide bool
	Order     *int
	Maneuvers []ManeuverInput
}

// CreateWaterActivityInput is the payload for a new water activity.
type CreateWaterActivityInput struct {
	Date         string
	RPE          int
	Condition    string
	TRIMP        int
	Duration     int
	SleepQuality int
	Fatigue      int
	Stress       int
	MusclePain   int
	Waves        []WaveInput
}

// CreateWaterActivity validates and persists a full water activity tree in
// one transaction, returning the new activity id.
func (s *WaterService) CreateWaterActivity(ctx context.Context, caller Caller, athleteID string, in CreateWaterActivityInput) (string, error) {
	if _, err := authorizeAthlete(ctx, s.store, caller, athleteID); err != nil {
		return "", err
	}
	millis, err := ParseDate(in.Date)
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
	if err := validateWaterScalars(in.RPE, in.Condition, in.TRIMP, in.Duration, in.SleepQuality, in.Fatigue, in.Stress, in.MusclePain); err != nil {
		return "", err
	}
	waves, err := wavesFromInputs(ctx, s.store, in.Waves)
	if err != nil {
		return "", err
	}

	var activityID string
	err = s.store.InTx(ctx, func(tx Tx) error {
		activityID, err = tx.StoreActivity(ctx, Activity{
			AthleteID:    athleteID,
			MicrocycleID: micro.ID,
			Date:         millis,
			Kind:         KindWater,
		})
		if err != nil {
			return err
		}
		detail := WaterActivity{
			Activity:     Activity{ID: activityID, AthleteID: athleteID, MicrocycleID: micro.ID, Date: millis, Kind: KindWater},
			RPE:          in.RPE,
			Condition:    in.Condition,
			TRIMP:        in.TRIMP,
			Duration:     in.Duration,
			SleepQuality: in.SleepQuality,
			Fatigue:      in.Fatigue,
			Stress:       in.Stress,
			MusclePain:   in.MusclePain,
		}
		if err := tx.StoreWaterDetail(ctx, detail); err != nil {
			return err
		}
		if err := storeWaves(ctx, tx, activityID, waves); err != nil {
			return err
		}
		event, err := newEvent("water_activity", activityID, "activity.reconciled", reconciledEvent{
			AthleteID: athleteID,
			Created:   1 + len(waves),
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

// GetWaterActivity returns the full tree of one water activity.
func (s *WaterService) GetWaterActivity(ctx context.Context, caller Caller, activityID string) (*WaterActivity, error) {
	return s.loadWaterActivity(ctx, caller, activityID)
}

// UpdateWaterActivity reconciles a submitted partial tree against the
// persisted one and commits the difference atomically.
func (s *WaterService) UpdateWaterActivity(ctx context.Context, caller Caller, activityID string, patch WaterActivityPatch) error {
	existing, err := s.loadWaterActivity(ctx, caller, activityID)
	if err != nil {
		return err
	}
	if err := s.ensureStandalone(ctx, activityID); err != nil {
		return err
	}

	var head *Activity
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
			h := existing.Activity
			h.Date = millis
			h.MicrocycleID = micro.ID
			head = &h
		}
	}

	detail, detailChanged, err := mergeWaterDetail(*existing, patch)
	if err != nil {
		return err
	}

	plan := newWavePlan()
	if patch.Waves != nil {
		if err := planWaves(ctx, s.store, existing.ID, existing.Waves, patch.Waves, plan); err != nil {
			return err
		}
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		if err := execWavePlanDeletes(ctx, tx, plan); err != nil {
			return err
		}
		if head != nil {
			if err := tx.UpdateActivity(ctx, *head); err != nil {
				return err
			}
		}
		if detailChanged {
			if err := tx.UpdateWaterDetail(ctx, detail); err != nil {
				return err
			}
		}
		if err := execWavePlanWrites(ctx, tx, existing.ID, plan); err != nil {
			return err
		}
		event, err := newEvent("water_activity", activityID, "activity.reconciled", reconciledEvent{
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

// RemoveWaterActivity deletes the whole tree, innermost rows first.
func (s *WaterService) RemoveWaterActivity(ctx context.Context, caller Caller, activityID string) error {
	existing, err := s.loadWaterActivity(ctx, caller, activityID)
	if err != nil {
		return err
	}
	if err := s.ensureStandalone(ctx, activityID); err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		if err := removeWaterTree(ctx, tx, *existing); err != nil {
			return err
		}
		event, err := newEvent("water_activity", activityID, "activity.reconciled", reconciledEvent{
			AthleteID: existing.AthleteID,
			Deleted:   1,
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
}

// ensureStandalone rejects water sessions embedded in a competition heat.
// Those trees are reconciled through the competition that owns them.
func (s *WaterService) ensureStandalone(ctx context.Context, activityID string) error {
	heat, err := s.store.HeatByWaterActivity(ctx, activityID)
	if err != nil {
		return err
	}
	if heat != nil {
		return ErrHeatOwnedActivity
	}
	return nil
}

func (s *WaterService) loadWaterActivity(ctx context.Context, caller Caller, activityID string) (*WaterActivity, error) {
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
	if head.Kind != KindWater {
		return nil, ErrNotWaterActivity
	}
	full, err := s.store.WaterActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrActivityNotFound
	}
	return full, nil
}

// validateWaterScalars applies the water-session range rules in a fixed
// order; the first failure wins.
func validateWaterScalars(rpe int, condition string, trimp, duration, sleep, fatigue, stress, musclePain int) error {
	if !ValidRPE(rpe) {
		return ErrInvalidRPE
	}
	if !ValidName(condition) {
		return ErrInvalidName
	}
	if !ValidTRIMP(trimp) {
		return ErrInvalidTRIMP
	}
	if !ValidDuration(duration) {
		return ErrInvalidDuration
	}
	for _, score := range []int{sleep, fatigue, stress, musclePain} {
		if !ValidQuestionnaireScore(score) {
			return ErrInvalidQuestionnaire
		}
	}
	return nil
}

// mergeWaterDetail applies a partial patch over the persisted detail row.
func mergeWaterDetail(cur WaterActivity, patch WaterActivityPatch) (WaterActivity, bool, error) {
	merged := cur
	changed := false
	if patch.RPE != nil {
		merged.RPE = *patch.RPE
		changed = true
	}
	if patch.Condition != nil {
		merged.Condition = *patch.Condition
		changed = true
	}
	if patch.TRIMP != nil {
		merged.TRIMP = *patch.TRIMP
		changed = true
	}
	if patch.Duration != nil {
		merged.Duration = *patch.Duration
		changed = true
	}
	if patch.SleepQuality != nil {
		merged.SleepQuality = *patch.SleepQuality
		changed = true
	}
	if patch.Fatigue != nil {
		merged.Fatigue = *patch.Fatigue
		changed = true
	}
	if patch.Stress != nil {
		merged.Stress = *patch.Stress
		changed = true
	}
	if patch.MusclePain != nil {
		merged.MusclePain = *patch.MusclePain
		changed = true
	}
	if !changed {
		return merged, false, nil
	}
	if err := validateWaterScalars(merged.RPE, merged.Condition, merged.TRIMP, merged.Duration, merged.SleepQuality, merged.Fatigue, merged.Stress, merged.MusclePain); err != nil {
		return WaterActivity{}, false, err
	}
	return merged, true, nil
}
