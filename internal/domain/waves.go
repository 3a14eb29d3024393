package domain

import "context"

// Wave reconciliation shared by the water and competition services: a
// competition heat embeds the same wave -> maneuver tree as a standalone
// water activity.

// wavePlan is the validated write batch for one wave list.
type wavePlan struct {
	removeManeuvers []string
	removeWaves     []string
	updateWaves     []Wave
	updateManeuvers []Maneuver
	createWaves     []Wave
	createManeuvers map[string][]Maneuver
	created         int
	updated         int
	deleted         int
}

func newWavePlan() *wavePlan {
	return &wavePlan{createManeuvers: make(map[string][]Maneuver)}
}

// wavesFromInputs validates a brand-new wave list for a create request.
func wavesFromInputs(ctx context.Context, store Store, inputs []WaveInput) ([]Wave, error) {
	waves := make([]Wave, 0, len(inputs))
	orders := make([]int, 0, len(inputs))
	for i, in := range inputs {
		if in.Points != nil && *in.Points < 0 {
			return nil, ErrInvalidPoints
		}
		wave := Wave{
			Points:    in.Points,
			RightSide: in.RightSide,
			Order:     ResolveOrder(in.Order, -1, i),
		}
		maneuverOrders := make([]int, 0, len(in.Maneuvers))
		for j, mi := range in.Maneuvers {
			known, err := store.WaterManeuverExists(ctx, mi.WaterManeuverID)
			if err != nil {
				return nil, err
			}
			if !known {
				return nil, ErrInvalidWaterManeuver
			}
			maneuver := Maneuver{
				WaterManeuverID: mi.WaterManeuverID,
				Success:         mi.Success,
				Order:           ResolveOrder(mi.Order, -1, j),
			}
			wave.Maneuvers = append(wave.Maneuvers, maneuver)
			maneuverOrders = append(maneuverOrders, maneuver.Order)
		}
		if !DistinctOrders(maneuverOrders) {
			return nil, ErrInvalidOrder
		}
		waves = append(waves, wave)
		orders = append(orders, wave.Order)
	}
	if !DistinctOrders(orders) {
		return nil, ErrInvalidOrder
	}
	return waves, nil
}

// storeWaves persists a validated wave list under the activity, threading
// generated wave ids into their maneuvers.
func storeWaves(ctx context.Context, tx Tx, activityID string, waves []Wave) error {
	for _, wave := range waves {
		wave.ActivityID = activityID
		waveID, err := tx.StoreWave(ctx, wave)
		if err != nil {
			return err
		}
		for _, maneuver := range wave.Maneuvers {
			maneuver.WaveID = waveID
			if _, err := tx.StoreManeuver(ctx, maneuver); err != nil {
				return err
			}
		}
	}
	return nil
}

// planWaves classifies a submitted wave patch list against the persisted
// waves of one activity and fills the plan. No writes happen here.
func planWaves(ctx context.Context, store Store, activityID string, existing []Wave, patches []WavePatch, plan *wavePlan) error {
	byID := make(map[string]Wave, len(existing))
	for _, wave := range existing {
		byID[wave.ID] = wave
	}

	ops := Classify(patches)

	deleted := make(map[string]bool, len(ops.Deletes))
	for _, id := range ops.Deletes {
		wave, ok := byID[id]
		if !ok {
			return waveMismatch(ctx, store, id)
		}
		deleted[id] = true
		for _, maneuver := range wave.Maneuvers {
			plan.removeManeuvers = append(plan.removeManeuvers, maneuver.ID)
		}
		plan.removeWaves = append(plan.removeWaves, wave.ID)
		plan.deleted++
	}

	finalOrders := make([]int, 0, len(existing)+len(ops.Creates))
	updatedOrders := make(map[string]int, len(ops.Updates))

	for _, item := range ops.Updates {
		p := item.Patch
		cur, ok := byID[*p.ID]
		if !ok {
			return waveMismatch(ctx, store, *p.ID)
		}
		merged := cur
		merged.Maneuvers = nil
		if p.Points != nil {
			if *p.Points < 0 {
				return ErrInvalidPoints
			}
			merged.Points = p.Points
		}
		if p.RightSide != nil {
			merged.RightSide = *p.RightSide
		}
		merged.Order = ResolveOrder(p.Order, cur.Order, item.Index)
		updatedOrders[cur.ID] = merged.Order
		plan.updateWaves = append(plan.updateWaves, merged)
		plan.updated++

		if p.Maneuvers != nil {
			if err := planManeuvers(ctx, store, cur, p.Maneuvers, plan); err != nil {
				return err
			}
		}
	}

	for _, item := range ops.Creates {
		p := item.Patch
		if p.Points != nil && *p.Points < 0 {
			return ErrInvalidPoints
		}
		wave := Wave{
			ActivityID: activityID,
			Points:     p.Points,
			Order:      ResolveOrder(p.Order, -1, item.Index),
		}
		if p.RightSide != nil {
			wave.RightSide = *p.RightSide
		}
		maneuverOrders := make([]int, 0, len(p.Maneuvers))
		for j, mp := range p.Maneuvers {
			if mp.ID != nil {
				return ErrNotWaveManeuver
			}
			maneuver, err := maneuverFromPatch(ctx, store, mp, j)
			if err != nil {
				return err
			}
			wave.Maneuvers = append(wave.Maneuvers, maneuver)
			maneuverOrders = append(maneuverOrders, maneuver.Order)
		}
		if !DistinctOrders(maneuverOrders) {
			return ErrInvalidOrder
		}
		plan.createWaves = append(plan.createWaves, wave)
		plan.created++
		finalOrders = append(finalOrders, wave.Order)
	}

	for _, wave := range existing {
		if deleted[wave.ID] {
			continue
		}
		if order, ok := updatedOrders[wave.ID]; ok {
			finalOrders = append(finalOrders, order)
		} else {
			finalOrders = append(finalOrders, wave.Order)
		}
	}
	if !DistinctOrders(finalOrders) {
		return ErrInvalidOrder
	}
	return nil
}

func planManeuvers(ctx context.Context, store Store, wave Wave, patches []ManeuverPatch, plan *wavePlan) error {
	byID := make(map[string]Maneuver, len(wave.Maneuvers))
	for _, maneuver := range wave.Maneuvers {
		byID[maneuver.ID] = maneuver
	}

	ops := Classify(patches)

	deleted := make(map[string]bool, len(ops.Deletes))
	for _, id := range ops.Deletes {
		maneuver, ok := byID[id]
		if !ok {
			return maneuverMismatch(ctx, store, id)
		}
		deleted[id] = true
		plan.removeManeuvers = append(plan.removeManeuvers, maneuver.ID)
		plan.deleted++
	}

	finalOrders := make([]int, 0, len(wave.Maneuvers)+len(ops.Creates))
	updatedOrders := make(map[string]int, len(ops.Updates))

	for _, item := range ops.Updates {
		p := item.Patch
		cur, ok := byID[*p.ID]
		if !ok {
			return maneuverMismatch(ctx, store, *p.ID)
		}
		merged := cur
		if p.WaterManeuverID != nil {
			known, err := store.WaterManeuverExists(ctx, *p.WaterManeuverID)
			if err != nil {
				return err
			}
			if !known {
				return ErrInvalidWaterManeuver
			}
			merged.WaterManeuverID = *p.WaterManeuverID
		}
		if p.Success != nil {
			merged.Success = *p.Success
		}
		merged.Order = ResolveOrder(p.Order, cur.Order, item.Index)
		updatedOrders[cur.ID] = merged.Order
		plan.updateManeuvers = append(plan.updateManeuvers, merged)
		plan.updated++
	}

	for _, item := range ops.Creates {
		maneuver, err := maneuverFromPatch(ctx, store, item.Patch, item.Index)
		if err != nil {
			return err
		}
		plan.createManeuvers[wave.ID] = append(plan.createManeuvers[wave.ID], maneuver)
		plan.created++
		finalOrders = append(finalOrders, maneuver.Order)
	}

	for _, maneuver := range wave.Maneuvers {
		if deleted[maneuver.ID] {
			continue
		}
		if order, ok := updatedOrders[maneuver.ID]; ok {
			finalOrders = append(finalOrders, order)
		} else {
			finalOrders = append(finalOrders, maneuver.Order)
		}
	}
	if !DistinctOrders(finalOrders) {
		return ErrInvalidOrder
	}
	return nil
}

func maneuverFromPatch(ctx context.Context, store Store, p ManeuverPatch, index int) (Maneuver, error) {
	if p.WaterManeuverID == nil {
		return Maneuver{}, ErrInvalidWaterManeuver
	}
	known, err := store.WaterManeuverExists(ctx, *p.WaterManeuverID)
	if err != nil {
		return Maneuver{}, err
	}
	if !known {
		return Maneuver{}, ErrInvalidWaterManeuver
	}
	maneuver := Maneuver{
		WaterManeuverID: *p.WaterManeuverID,
		Order:           ResolveOrder(p.Order, -1, index),
	}
	if p.Success != nil {
		maneuver.Success = *p.Success
	}
	return maneuver, nil
}

// execWavePlanDeletes removes maneuvers before their waves.
func execWavePlanDeletes(ctx context.Context, tx Tx, plan *wavePlan) error {
	for _, id := range plan.removeManeuvers {
		if err := tx.RemoveManeuver(ctx, id); err != nil {
			return err
		}
	}
	for _, id := range plan.removeWaves {
		if err := tx.RemoveWave(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// execWavePlanWrites applies updates, then creates with id threading.
func execWavePlanWrites(ctx context.Context, tx Tx, activityID string, plan *wavePlan) error {
	for _, wave := range plan.updateWaves {
		if err := tx.UpdateWave(ctx, wave); err != nil {
			return err
		}
	}
	for _, maneuver := range plan.updateManeuvers {
		if err := tx.UpdateManeuver(ctx, maneuver); err != nil {
			return err
		}
	}
	if err := storeWaves(ctx, tx, activityID, plan.createWaves); err != nil {
		return err
	}
	for waveID, maneuvers := range plan.createManeuvers {
		for _, maneuver := range maneuvers {
			maneuver.WaveID = waveID
			if _, err := tx.StoreManeuver(ctx, maneuver); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeWaterTree deletes a water activity with all descendants,
// innermost first.
func removeWaterTree(ctx context.Context, tx Tx, activity WaterActivity) error {
	for _, wave := range activity.Waves {
		for _, maneuver := range wave.Maneuvers {
			if err := tx.RemoveManeuver(ctx, maneuver.ID); err != nil {
				return err
			}
		}
		if err := tx.RemoveWave(ctx, wave.ID); err != nil {
			return err
		}
	}
	if err := tx.RemoveWaterDetail(ctx, activity.ID); err != nil {
		return err
	}
	return tx.RemoveActivity(ctx, activity.ID)
}

func waveMismatch(ctx context.Context, store Store, id string) error {
	wave, err := store.WaveByID(ctx, id)
	if err != nil {
		return err
	}
	if wave == nil {
		return ErrWaveNotFound
	}
	return ErrNotActivityWave
}

func maneuverMismatch(ctx context.Context, store Store, id string) error {
	maneuver, err := store.ManeuverByID(ctx, id)
	if err != nil {
		return err
	}
	if maneuver == nil {
		return ErrManeuverNotFound
	}
	return ErrNotWaveManeuver
}
