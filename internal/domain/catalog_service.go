package domain

import "context"

// CatalogService exposes the reference tables backing the referential
// checks. The catalogs themselves are maintained outside this core.
type CatalogService struct {
	store Store
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{store: store}
}

// ListGymExercises returns catalog entries, optionally narrowed to one
// category.
func (s *CatalogService) ListGymExercises(ctx context.Context, caller Caller, category string) ([]GymExercise, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	if category != "" && !ValidCategory(category) {
		return nil, ErrInvalidCategory
	}
	return s.store.ListGymExercises(ctx, category)
}

// ListWaterManeuvers returns the maneuver catalog.
func (s *CatalogService) ListWaterManeuvers(ctx context.Context, caller Caller) ([]WaterManeuver, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	return s.store.ListWaterManeuvers(ctx)
}
