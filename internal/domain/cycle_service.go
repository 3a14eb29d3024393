package domain

import "context"

// CycleService manages the periodization calendar: mesocycles and the
// microcycles nested inside them. A cycle that already contains at least
// one activity is locked and cannot be moved, resized, or deleted.
type CycleService struct {
	store Store
}

// NewCycleService constructs a CycleService.
func NewCycleService(store Store) *CycleService {
	return &CycleService{store: store}
}

// CreateMesocycle places a new mesocycle on the athlete's calendar.
func (s *CycleService) CreateMesocycle(ctx context.Context, caller Caller, athleteID, start, end string) (string, error) {
	if _, err := authorizeAthlete(ctx, s.store, caller, athleteID); err != nil {
		return "", err
	}
	startMillis, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	endMillis, err := ParseDate(end)
	if err != nil {
		return "", err
	}
	siblings, err := s.store.ListMesocycles(ctx, athleteID)
	if err != nil {
		return "", err
	}
	if err := ValidateMesocyclePlacement(startMillis, endMillis, siblings, ""); err != nil {
		return "", err
	}

	var id string
	err = s.store.InTx(ctx, func(tx Tx) error {
		id, err = tx.StoreMesocycle(ctx, Mesocycle{
			AthleteID: athleteID,
			StartTime: startMillis,
			EndTime:   endMillis,
		})
		if err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "mesocycle", id, athleteID)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateMesocycle moves or resizes an unlocked mesocycle. The new range
// must still contain every microcycle nested in it.
func (s *CycleService) UpdateMesocycle(ctx context.Context, caller Caller, mesocycleID, start, end string) error {
	meso, err := s.loadMesocycle(ctx, caller, mesocycleID)
	if err != nil {
		return err
	}
	startMillis, err := ParseDate(start)
	if err != nil {
		return err
	}
	endMillis, err := ParseDate(end)
	if err != nil {
		return err
	}
	micros, err := s.store.ListMicrocycles(ctx, mesocycleID)
	if err != nil {
		return err
	}
	if err := s.ensureMicrocyclesUnlocked(ctx, micros); err != nil {
		return err
	}
	for _, micro := range micros {
		if micro.StartTime < startMillis || micro.EndTime > endMillis {
			return ErrCycleNotContained
		}
	}
	siblings, err := s.store.ListMesocycles(ctx, meso.AthleteID)
	if err != nil {
		return err
	}
	if err := ValidateMesocyclePlacement(startMillis, endMillis, siblings, mesocycleID); err != nil {
		return err
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		updated := *meso
		updated.StartTime = startMillis
		updated.EndTime = endMillis
		if err := tx.UpdateMesocycle(ctx, updated); err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "mesocycle", mesocycleID, meso.AthleteID)
	})
}

// RemoveMesocycle deletes an unlocked mesocycle with its microcycles.
func (s *CycleService) RemoveMesocycle(ctx context.Context, caller Caller, mesocycleID string) error {
	meso, err := s.loadMesocycle(ctx, caller, mesocycleID)
	if err != nil {
		return err
	}
	micros, err := s.store.ListMicrocycles(ctx, mesocycleID)
	if err != nil {
		return err
	}
	if err := s.ensureMicrocyclesUnlocked(ctx, micros); err != nil {
		return err
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		for _, micro := range micros {
			if err := tx.RemoveMicrocycle(ctx, micro.ID); err != nil {
				return err
			}
		}
		if err := tx.RemoveMesocycle(ctx, mesocycleID); err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "mesocycle", mesocycleID, meso.AthleteID)
	})
}

// CreateMicrocycle places a new microcycle inside a mesocycle.
func (s *CycleService) CreateMicrocycle(ctx context.Context, caller Caller, mesocycleID, start, end string) (string, error) {
	meso, err := s.loadMesocycle(ctx, caller, mesocycleID)
	if err != nil {
		return "", err
	}
	startMillis, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	endMillis, err := ParseDate(end)
	if err != nil {
		return "", err
	}
	siblings, err := s.store.ListMicrocycles(ctx, mesocycleID)
	if err != nil {
		return "", err
	}
	if err := ValidateMicrocyclePlacement(startMillis, endMillis, *meso, siblings, ""); err != nil {
		return "", err
	}

	var id string
	err = s.store.InTx(ctx, func(tx Tx) error {
		id, err = tx.StoreMicrocycle(ctx, Microcycle{
			MesocycleID: mesocycleID,
			AthleteID:   meso.AthleteID,
			StartTime:   startMillis,
			EndTime:     endMillis,
		})
		if err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "microcycle", id, meso.AthleteID)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateMicrocycle moves or resizes an unlocked microcycle.
func (s *CycleService) UpdateMicrocycle(ctx context.Context, caller Caller, microcycleID, start, end string) error {
	micro, meso, err := s.loadMicrocycle(ctx, caller, microcycleID)
	if err != nil {
		return err
	}
	startMillis, err := ParseDate(start)
	if err != nil {
		return err
	}
	endMillis, err := ParseDate(end)
	if err != nil {
		return err
	}
	locked, err := s.store.MicrocycleHasActivities(ctx, microcycleID)
	if err != nil {
		return err
	}
	if locked {
		return ErrCycleLocked
	}
	siblings, err := s.store.ListMicrocycles(ctx, micro.MesocycleID)
	if err != nil {
		return err
	}
	if err := ValidateMicrocyclePlacement(startMillis, endMillis, *meso, siblings, microcycleID); err != nil {
		return err
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		updated := *micro
		updated.StartTime = startMillis
		updated.EndTime = endMillis
		if err := tx.UpdateMicrocycle(ctx, updated); err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "microcycle", microcycleID, micro.AthleteID)
	})
}

// RemoveMicrocycle deletes an unlocked microcycle.
func (s *CycleService) RemoveMicrocycle(ctx context.Context, caller Caller, microcycleID string) error {
	micro, _, err := s.loadMicrocycle(ctx, caller, microcycleID)
	if err != nil {
		return err
	}
	locked, err := s.store.MicrocycleHasActivities(ctx, microcycleID)
	if err != nil {
		return err
	}
	if locked {
		return ErrCycleLocked
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		if err := tx.RemoveMicrocycle(ctx, microcycleID); err != nil {
			return err
		}
		return s.appendCycleEvent(ctx, tx, "microcycle", microcycleID, micro.AthleteID)
	})
}

// GetCalendar returns the athlete's mesocycles with nested microcycles.
func (s *CycleService) GetCalendar(ctx context.Context, caller Caller, athleteID string) ([]Mesocycle, error) {
	if _, err := authorizeAthlete(ctx, s.store, caller, athleteID); err != nil {
		return nil, err
	}
	mesos, err := s.store.ListMesocycles(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	for i := range mesos {
		micros, err := s.store.ListMicrocycles(ctx, mesos[i].ID)
		if err != nil {
			return nil, err
		}
		mesos[i].Microcycles = micros
	}
	return mesos, nil
}

func (s *CycleService) loadMesocycle(ctx context.Context, caller Caller, id string) (*Mesocycle, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	meso, err := s.store.MesocycleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meso == nil {
		return nil, ErrCycleNotFound
	}
	if _, err := authorizeAthlete(ctx, s.store, caller, meso.AthleteID); err != nil {
		return nil, err
	}
	return meso, nil
}

func (s *CycleService) loadMicrocycle(ctx context.Context, caller Caller, id string) (*Microcycle, *Mesocycle, error) {
	if !caller.Coach {
		return nil, nil, ErrUserIsNotACoach
	}
	micro, err := s.store.MicrocycleByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if micro == nil {
		return nil, nil, ErrCycleNotFound
	}
	if _, err := authorizeAthlete(ctx, s.store, caller, micro.AthleteID); err != nil {
		return nil, nil, err
	}
	meso, err := s.store.MesocycleByID(ctx, micro.MesocycleID)
	if err != nil {
		return nil, nil, err
	}
	if meso == nil {
		return nil, nil, ErrCycleNotFound
	}
	return micro, meso, nil
}

func (s *CycleService) ensureMicrocyclesUnlocked(ctx context.Context, micros []Microcycle) error {
	for _, micro := range micros {
		locked, err := s.store.MicrocycleHasActivities(ctx, micro.ID)
		if err != nil {
			return err
		}
		if locked {
			return ErrCycleLocked
		}
	}
	return nil
}

func (s *CycleService) appendCycleEvent(ctx context.Context, tx Tx, kind, id, athleteID string) error {
	event, err := newEvent(kind, id, "cycle.changed", map[string]string{"athlete_id": athleteID})
	if err != nil {
		return err
	}
	return tx.AppendEvent(ctx, event)
}
