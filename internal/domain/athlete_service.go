package domain

import "context"

// AthleteService manages the athletes a coach owns.
type AthleteService struct {
	store Store
}

// NewAthleteService constructs an AthleteService.
func NewAthleteService(store Store) *AthleteService {
	return &AthleteService{store: store}
}

// CreateAthlete registers a new athlete under the calling coach.
func (s *AthleteService) CreateAthlete(ctx context.Context, caller Caller, name, birthDate string) (string, error) {
	if !caller.Coach {
		return "", ErrUserIsNotACoach
	}
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	born, err := ParseDate(birthDate)
	if err != nil {
		return "", err
	}
	exists, err := s.store.AthleteNameExists(ctx, caller.ID, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrNameAlreadyExists
	}

	var id string
	err = s.store.InTx(ctx, func(tx Tx) error {
		id, err = tx.StoreAthlete(ctx, Athlete{
			CoachID:   caller.ID,
			Name:      name,
			BirthDate: born,
		})
		if err != nil {
			return err
		}
		event, err := newEvent("athlete", id, "athlete.created", map[string]string{"coach_id": caller.ID})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetAthlete returns one athlete owned by the caller.
func (s *AthleteService) GetAthlete(ctx context.Context, caller Caller, athleteID string) (*Athlete, error) {
	return authorizeAthlete(ctx, s.store, caller, athleteID)
}

// ListAthletes returns every athlete owned by the caller.
func (s *AthleteService) ListAthletes(ctx context.Context, caller Caller) ([]Athlete, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	return s.store.ListAthletes(ctx, caller.ID)
}
