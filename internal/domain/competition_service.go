package domain

import "context"

// CompetitionService reconciles competition trees:
// competition -> heats -> water activity -> waves -> maneuvers.
// Every heat owns one full water activity recorded at the competition date.
type CompetitionService struct {
	store Store
}

// NewCompetitionService constructs a CompetitionService.
func NewCompetitionService(store Store) *CompetitionService {
	return &CompetitionService{store: store}
}

// WaterSessionInput is the water activity embedded in a new heat.
type WaterSessionInput struct {
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

// HeatInput is one heat of a brand-new competition.
type HeatInput struct {
	Score float64
	Order *int
	Water WaterSessionInput
}

// CreateCompetitionInput is the payload for a new competition.
type CreateCompetitionInput struct {
	Date     string
	Location string
	Place    int
	Name     string
	Heats    []HeatInput
}

// heatCreate pairs a validated heat row with its resolved water session.
type heatCreate struct {
	heat  Heat
	water WaterActivity
}

// CreateCompetition validates and persists a competition with every heat
// and its embedded water session in one transaction.
func (s *CompetitionService) CreateCompetition(ctx context.Context, caller Caller, athleteID string, in CreateCompetitionInput) (string, error) {
	if _, err := authorizeAthlete(ctx, s.store, caller, athleteID); err != nil {
		return "", err
	}
	millis, err := ParseDate(in.Date)
	if err != nil {
		return "", err
	}
	if !ValidName(in.Name) || !ValidName(in.Location) {
		return "", ErrInvalidName
	}
	if in.Place < 1 {
		return "", ErrInvalidPlace
	}
	micro, err := s.store.MicrocycleContaining(ctx, athleteID, millis)
	if err != nil {
		return "", err
	}
	if micro == nil {
		return "", ErrActivityWithoutMicrocycle
	}

	creates := make([]heatCreate, 0, len(in.Heats))
	orders := make([]int, 0, len(in.Heats))
	for i, h := range in.Heats {
		if h.Score < 0 {
			return "", ErrInvalidScore
		}
		w := h.Water
		if err := validateWaterScalars(w.RPE, w.Condition, w.TRIMP, w.Duration, w.SleepQuality, w.Fatigue, w.Stress, w.MusclePain); err != nil {
			return "", err
		}
		waves, err := wavesFromInputs(ctx, s.store, w.Waves)
		if err != nil {
			return "", err
		}
		heat := Heat{
			Score: h.Score,
			Order: ResolveOrder(h.Order, -1, i),
		}
		creates = append(creates, heatCreate{
			heat: heat,
			water: WaterActivity{
				Activity:     Activity{AthleteID: athleteID, MicrocycleID: micro.ID, Date: millis, Kind: KindWater},
				RPE:          w.RPE,
				Condition:    w.Condition,
				TRIMP:        w.TRIMP,
				Duration:     w.Duration,
				SleepQuality: w.SleepQuality,
				Fatigue:      w.Fatigue,
				Stress:       w.Stress,
				MusclePain:   w.MusclePain,
				Waves:        waves,
			},
		})
		orders = append(orders, heat.Order)
	}
	if !DistinctOrders(orders) {
		return "", ErrInvalidOrder
	}

	var competitionID string
	err = s.store.InTx(ctx, func(tx Tx) error {
		competitionID, err = tx.StoreCompetition(ctx, Competition{
			AthleteID: athleteID,
			Date:      millis,
			Location:  in.Location,
			Place:     in.Place,
			Name:      in.Name,
		})
		if err != nil {
			return err
		}
		for _, c := range creates {
			c.heat.CompetitionID = competitionID
			if err := storeHeatTree(ctx, tx, c); err != nil {
				return err
			}
		}
		event, err := newEvent("competition", competitionID, "competition.reconciled", reconciledEvent{
			AthleteID: athleteID,
			Created:   1 + len(creates),
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
	if err != nil {
		return "", err
	}
	return competitionID, nil
}

// GetCompetition returns one competition with its heats and water trees.
func (s *CompetitionService) GetCompetition(ctx context.Context, caller Caller, competitionID string) (*Competition, error) {
	return s.loadCompetition(ctx, caller, competitionID)
}

// competitionPlan is the validated write batch of one competition update.
type competitionPlan struct {
	competition   *Competition
	relocated     []Activity
	removeHeats   []Heat
	updateHeats   []Heat
	detailUpdates []WaterActivity
	wavePlans     map[string]*wavePlan
	creates       []heatCreate
	created       int
	updated       int
	deleted       int
}

// UpdateCompetition reconciles a submitted partial competition tree and
// commits the difference atomically.
func (s *CompetitionService) UpdateCompetition(ctx context.Context, caller Caller, competitionID string, patch CompetitionPatch) error {
	existing, err := s.loadCompetition(ctx, caller, competitionID)
	if err != nil {
		return err
	}

	plan := competitionPlan{wavePlans: make(map[string]*wavePlan)}

	merged := *existing
	merged.Heats = nil
	rootChanged := false
	date := existing.Date
	microID := ""

	if patch.Date != nil {
		millis, err := ParseDate(*patch.Date)
		if err != nil {
			return err
		}
		if millis != existing.Date {
			date = millis
			merged.Date = millis
			rootChanged = true
		}
	}
	if patch.Location != nil {
		if !ValidName(*patch.Location) {
			return ErrInvalidName
		}
		merged.Location = *patch.Location
		rootChanged = true
	}
	if patch.Place != nil {
		if *patch.Place < 1 {
			return ErrInvalidPlace
		}
		merged.Place = *patch.Place
		rootChanged = true
	}
	if patch.Name != nil {
		if !ValidName(*patch.Name) {
			return ErrInvalidName
		}
		merged.Name = *patch.Name
		rootChanged = true
	}
	if rootChanged {
		plan.competition = &merged
	}

	dateMoved := date != existing.Date
	needsPlacement := dateMoved || hasHeatCreates(patch.Heats)
	if needsPlacement {
		micro, err := s.store.MicrocycleContaining(ctx, existing.AthleteID, date)
		if err != nil {
			return err
		}
		if micro == nil {
			return ErrActivityWithoutMicrocycle
		}
		microID = micro.ID
	}
	if patch.Heats != nil {
		if err := s.planHeats(ctx, existing, patch.Heats, date, microID, &plan); err != nil {
			return err
		}
	}

	if dateMoved {
		removed := make(map[string]bool, len(plan.removeHeats))
		for _, heat := range plan.removeHeats {
			removed[heat.ID] = true
		}
		for _, heat := range existing.Heats {
			if removed[heat.ID] {
				continue
			}
			head := heat.WaterActivity.Activity
			head.Date = date
			head.MicrocycleID = microID
			plan.relocated = append(plan.relocated, head)
		}
	}

	return s.store.InTx(ctx, func(tx Tx) error {
		for _, heat := range plan.removeHeats {
			if err := removeHeatTree(ctx, tx, heat); err != nil {
				return err
			}
		}
		if plan.competition != nil {
			if err := tx.UpdateCompetition(ctx, *plan.competition); err != nil {
				return err
			}
		}
		for _, head := range plan.relocated {
			if err := tx.UpdateActivity(ctx, head); err != nil {
				return err
			}
		}
		for _, heat := range plan.updateHeats {
			if err := tx.UpdateHeat(ctx, heat); err != nil {
				return err
			}
		}
		for _, detail := range plan.detailUpdates {
			if err := tx.UpdateWaterDetail(ctx, detail); err != nil {
				return err
			}
		}
		for activityID, wp := range plan.wavePlans {
			if err := execWavePlanDeletes(ctx, tx, wp); err != nil {
				return err
			}
			if err := execWavePlanWrites(ctx, tx, activityID, wp); err != nil {
				return err
			}
		}
		for _, c := range plan.creates {
			c.heat.CompetitionID = competitionID
			if err := storeHeatTree(ctx, tx, c); err != nil {
				return err
			}
		}
		event, err := newEvent("competition", competitionID, "competition.reconciled", reconciledEvent{
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

// RemoveCompetition deletes the competition with every heat and its water
// tree, innermost rows first.
func (s *CompetitionService) RemoveCompetition(ctx context.Context, caller Caller, competitionID string) error {
	existing, err := s.loadCompetition(ctx, caller, competitionID)
	if err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx Tx) error {
		for _, heat := range existing.Heats {
			if err := removeHeatTree(ctx, tx, heat); err != nil {
				return err
			}
		}
		if err := tx.RemoveCompetition(ctx, competitionID); err != nil {
			return err
		}
		event, err := newEvent("competition", competitionID, "competition.reconciled", reconciledEvent{
			AthleteID: existing.AthleteID,
			Deleted:   1,
		})
		if err != nil {
			return err
		}
		return tx.AppendEvent(ctx, event)
	})
}

func (s *CompetitionService) planHeats(ctx context.Context, existing *Competition, patches []HeatPatch, date int64, microID string, plan *competitionPlan) error {
	byID := make(map[string]Heat, len(existing.Heats))
	for _, heat := range existing.Heats {
		byID[heat.ID] = heat
	}

	ops := Classify(patches)

	deleted := make(map[string]bool, len(ops.Deletes))
	for _, id := range ops.Deletes {
		heat, ok := byID[id]
		if !ok {
			return s.heatMismatch(ctx, id)
		}
		deleted[id] = true
		plan.removeHeats = append(plan.removeHeats, heat)
		plan.deleted++
	}

	finalOrders := make([]int, 0, len(existing.Heats)+len(ops.Creates))
	updatedOrders := make(map[string]int, len(ops.Updates))

	for _, item := range ops.Updates {
		p := item.Patch
		cur, ok := byID[*p.ID]
		if !ok {
			return s.heatMismatch(ctx, *p.ID)
		}
		merged := cur
		merged.WaterActivity = WaterActivity{}
		if p.Score != nil {
			if *p.Score < 0 {
				return ErrInvalidScore
			}
			merged.Score = *p.Score
		}
		merged.Order = ResolveOrder(p.Order, cur.Order, item.Index)
		updatedOrders[cur.ID] = merged.Order
		plan.updateHeats = append(plan.updateHeats, merged)
		plan.updated++

		if p.WaterActivity != nil {
			detail, changed, err := mergeWaterDetail(cur.WaterActivity, *p.WaterActivity)
			if err != nil {
				return err
			}
			if changed {
				plan.detailUpdates = append(plan.detailUpdates, detail)
			}
			if p.WaterActivity.Waves != nil {
				wp := newWavePlan()
				if err := planWaves(ctx, s.store, cur.WaterActivity.ID, cur.WaterActivity.Waves, p.WaterActivity.Waves, wp); err != nil {
					return err
				}
				plan.wavePlans[cur.WaterActivity.ID] = wp
				plan.created += wp.created
				plan.updated += wp.updated
				plan.deleted += wp.deleted
			}
		}
	}

	for _, item := range ops.Creates {
		c, err := s.heatFromPatch(ctx, existing.AthleteID, date, microID, item)
		if err != nil {
			return err
		}
		plan.creates = append(plan.creates, c)
		plan.created++
		finalOrders = append(finalOrders, c.heat.Order)
	}

	for _, heat := range existing.Heats {
		if deleted[heat.ID] {
			continue
		}
		if order, ok := updatedOrders[heat.ID]; ok {
			finalOrders = append(finalOrders, order)
		} else {
			finalOrders = append(finalOrders, heat.Order)
		}
	}
	if !DistinctOrders(finalOrders) {
		return ErrInvalidOrder
	}
	return nil
}

// heatFromPatch validates a brand-new heat submitted in an update payload.
// Every water-session scalar must be present.
func (s *CompetitionService) heatFromPatch(ctx context.Context, athleteID string, date int64, microID string, item Item[HeatPatch]) (heatCreate, error) {
	p := item.Patch
	if p.Score == nil || *p.Score < 0 {
		return heatCreate{}, ErrInvalidScore
	}
	w := p.WaterActivity
	if w == nil || w.RPE == nil {
		return heatCreate{}, ErrInvalidRPE
	}
	if w.Condition == nil {
		return heatCreate{}, ErrInvalidName
	}
	if w.TRIMP == nil {
		return heatCreate{}, ErrInvalidTRIMP
	}
	if w.Duration == nil {
		return heatCreate{}, ErrInvalidDuration
	}
	if w.SleepQuality == nil || w.Fatigue == nil || w.Stress == nil || w.MusclePain == nil {
		return heatCreate{}, ErrInvalidQuestionnaire
	}
	if err := validateWaterScalars(*w.RPE, *w.Condition, *w.TRIMP, *w.Duration, *w.SleepQuality, *w.Fatigue, *w.Stress, *w.MusclePain); err != nil {
		return heatCreate{}, err
	}

	wp := newWavePlan()
	if w.Waves != nil {
		if err := planWaves(ctx, s.store, "", nil, w.Waves, wp); err != nil {
			return heatCreate{}, err
		}
	}

	return heatCreate{
		heat: Heat{
			Score: *p.Score,
			Order: ResolveOrder(p.Order, -1, item.Index),
		},
		water: WaterActivity{
			Activity:     Activity{AthleteID: athleteID, MicrocycleID: microID, Date: date, Kind: KindWater},
			RPE:          *w.RPE,
			Condition:    *w.Condition,
			TRIMP:        *w.TRIMP,
			Duration:     *w.Duration,
			SleepQuality: *w.SleepQuality,
			Fatigue:      *w.Fatigue,
			Stress:       *w.Stress,
			MusclePain:   *w.MusclePain,
			Waves:        wp.createWaves,
		},
	}, nil
}

func hasHeatCreates(patches []HeatPatch) bool {
	for _, p := range patches {
		if p.ID == nil {
			return true
		}
	}
	return false
}

// storeHeatTree persists a new heat: the water activity first so its
// surrogate id can be referenced by the heat row.
func storeHeatTree(ctx context.Context, tx Tx, c heatCreate) error {
	activityID, err := tx.StoreActivity(ctx, c.water.Activity)
	if err != nil {
		return err
	}
	detail := c.water
	detail.ID = activityID
	if err := tx.StoreWaterDetail(ctx, detail); err != nil {
		return err
	}
	if err := storeWaves(ctx, tx, activityID, c.water.Waves); err != nil {
		return err
	}
	_, err = tx.StoreHeat(ctx, c.heat, activityID)
	return err
}

// removeHeatTree deletes one heat with its water session. The heat row
// goes before the activity row it references.
func removeHeatTree(ctx context.Context, tx Tx, heat Heat) error {
	for _, wave := range heat.WaterActivity.Waves {
		for _, maneuver := range wave.Maneuvers {
			if err := tx.RemoveManeuver(ctx, maneuver.ID); err != nil {
				return err
			}
		}
		if err := tx.RemoveWave(ctx, wave.ID); err != nil {
			return err
		}
	}
	if err := tx.RemoveHeat(ctx, heat.ID); err != nil {
		return err
	}
	if err := tx.RemoveWaterDetail(ctx, heat.WaterActivity.ID); err != nil {
		return err
	}
	return tx.RemoveActivity(ctx, heat.WaterActivity.ID)
}

func (s *CompetitionService) heatMismatch(ctx context.Context, id string) error {
	heat, err := s.store.HeatByID(ctx, id)
	if err != nil {
		return err
	}
	if heat == nil {
		return ErrHeatNotFound
	}
	return ErrNotCompetitionHeat
}

func (s *CompetitionService) loadCompetition(ctx context.Context, caller Caller, competitionID string) (*Competition, error) {
	if !caller.Coach {
		return nil, ErrUserIsNotACoach
	}
	competition, err := s.store.CompetitionByID(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if competition == nil {
		return nil, ErrCompetitionNotFound
	}
	if _, err := authorizeAthlete(ctx, s.store, caller, competition.AthleteID); err != nil {
		return nil, err
	}
	return competition, nil
}
