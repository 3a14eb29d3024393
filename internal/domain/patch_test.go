package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func TestClassifyPartitionsSiblings(t *testing.T) {
	patches := []domain.SetPatch{
		{Reps: ptr(10), Weight: ptr(60.0), RestTime: ptr(90)},
		{ID: ptr("set-1"), Reps: ptr(12)},
		{ID: ptr("set-2")},
		{ID: ptr("set-3"), Order: ptr(5)},
	}

	ops := domain.Classify(patches)

	require.Len(t, ops.Creates, 1)
	require.Equal(t, 0, ops.Creates[0].Index)

	require.Len(t, ops.Updates, 2)
	require.Equal(t, "set-1", *ops.Updates[0].Patch.ID)
	require.Equal(t, 1, ops.Updates[0].Index)
	require.Equal(t, "set-3", *ops.Updates[1].Patch.ID)
	require.Equal(t, 3, ops.Updates[1].Index)

	require.Equal(t, []string{"set-2"}, ops.Deletes)
}

func TestClassifyEmptySliceYieldsNoOps(t *testing.T) {
	ops := domain.Classify([]domain.ExercisePatch{})
	require.Empty(t, ops.Creates)
	require.Empty(t, ops.Updates)
	require.Empty(t, ops.Deletes)
}

func TestWavePatchEmptyManeuverListIsNotBlank(t *testing.T) {
	// An id with an empty non-nil maneuver list is an update carrying
	// zero child operations, not a delete.
	p := domain.WavePatch{ID: ptr("wave-1"), Maneuvers: []domain.ManeuverPatch{}}
	require.False(t, p.Blank())

	ops := domain.Classify([]domain.WavePatch{p})
	require.Len(t, ops.Updates, 1)
	require.Empty(t, ops.Deletes)
}

func TestHeatPatchBlankRequiresBlankWaterDetail(t *testing.T) {
	blank := domain.HeatPatch{ID: ptr("heat-1")}
	require.True(t, blank.Blank())

	withDetail := domain.HeatPatch{
		ID:            ptr("heat-1"),
		WaterActivity: &domain.WaterActivityPatch{RPE: ptr(7)},
	}
	require.False(t, withDetail.Blank())

	emptyDetail := domain.HeatPatch{
		ID:            ptr("heat-1"),
		WaterActivity: &domain.WaterActivityPatch{},
	}
	require.True(t, emptyDetail.Blank())
}
