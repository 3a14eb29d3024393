package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func TestResolveOrder(t *testing.T) {
	cases := []struct {
		name      string
		submitted *int
		current   int
		index     int
		want      int
	}{
		{name: "absent falls back to index", submitted: nil, current: 2, index: 4, want: 4},
		{name: "explicit move wins", submitted: ptr(7), current: 2, index: 4, want: 7},
		{name: "explicit equal to current means index", submitted: ptr(2), current: 2, index: 4, want: 4},
		{name: "create honours explicit order", submitted: ptr(0), current: -1, index: 3, want: 0},
		{name: "create without order uses index", submitted: nil, current: -1, index: 3, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, domain.ResolveOrder(tc.submitted, tc.current, tc.index))
		})
	}
}

func TestDistinctOrders(t *testing.T) {
	require.True(t, domain.DistinctOrders(nil))
	require.True(t, domain.DistinctOrders([]int{0, 1, 2}))
	require.True(t, domain.DistinctOrders([]int{5, 0, 3}))
	require.False(t, domain.DistinctOrders([]int{0, 1, 1}))
}
