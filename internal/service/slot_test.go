package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodNumberFor(t *testing.T) {
	cases := []struct {
		start string
		want  int
	}{
		{"08:00:00", 1},
		{"08:00", 1},
		{"08:45:00", 2},
		{"12:30:00", 7},
		{"16:15:00", 12},
		{"8:45", 2},
		{"23:59:00", 1},
		{"09:00:00", 1},
		{"", 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PeriodNumberFor(tc.start), "start %q", tc.start)
	}
}

func TestOverlaps(t *testing.T) {
	mon8, mon845, mon930, mon10 := 480, 525, 570, 600

	// adjacency is not a conflict
	assert.False(t, Overlaps(mon8, mon845, mon845, mon930))
	assert.False(t, Overlaps(mon845, mon930, mon8, mon845))

	// identical ranges always conflict
	assert.True(t, Overlaps(mon8, mon845, mon8, mon845))

	// partial overlap
	assert.True(t, Overlaps(mon8, mon930, mon845, mon10))

	// containment
	assert.True(t, Overlaps(mon8, mon10, mon845, mon930))

	// disjoint
	assert.False(t, Overlaps(mon8, mon845, mon930, mon10))
}

func TestOverlapsSymmetry(t *testing.T) {
	ranges := [][2]int{{480, 525}, {500, 560}, {525, 570}, {480, 600}, {570, 615}}
	for _, a := range ranges {
		for _, b := range ranges {
			assert.Equal(t,
				Overlaps(a[0], a[1], b[0], b[1]),
				Overlaps(b[0], b[1], a[0], a[1]),
				"ranges %v vs %v", a, b)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	m, err := MinuteOfDay("08:45:00")
	require.NoError(t, err)
	assert.Equal(t, 525, m)

	m, err = MinuteOfDay("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = MinuteOfDay("24:00")
	assert.Error(t, err)
	_, err = MinuteOfDay("eight")
	assert.Error(t, err)
	_, err = MinuteOfDay("08:61")
	assert.Error(t, err)
}
