package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionSegments(t *testing.T) {
	t.Parallel()

	t.Run("even split into fixed-width windows", func(t *testing.T) {
		t.Parallel()
		series := []float64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
		segments := PartitionSegments(series, 5)

		require.Len(t, segments, 5)
		for i, seg := range segments {
			assert.Equal(t, i*2, seg.FrameStart)
			assert.Equal(t, i*2+1, seg.FrameEnd)
			assert.InDelta(t, float64(i+1), seg.AvgVehicles, 1e-9)
			assert.Zero(t, seg.Volatility)
		}
	})

	t.Run("segments cover the series without overlap", func(t *testing.T) {
		t.Parallel()
		series := make([]float64, 23)
		segments := PartitionSegments(series, 5)

		require.NotEmpty(t, segments)
		assert.Equal(t, 0, segments[0].FrameStart)
		assert.Equal(t, len(series)-1, segments[len(segments)-1].FrameEnd)
		for i := 1; i < len(segments); i++ {
			assert.Equal(t, segments[i-1].FrameEnd+1, segments[i].FrameStart)
		}
	})

	t.Run("short series degrades to single-frame segments", func(t *testing.T) {
		t.Parallel()
		segments := PartitionSegments([]float64{9, 8, 7}, 5)

		require.Len(t, segments, 3)
		for i, seg := range segments {
			assert.Equal(t, i, seg.FrameStart)
			assert.Equal(t, i, seg.FrameEnd)
		}
	})

	t.Run("empty series gives nothing", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, PartitionSegments(nil, 5))
	})
}

func TestLowestVolatilitySegments(t *testing.T) {
	t.Parallel()

	// 25 frames, 5 windows: one calm window, the rest noisy
	series := make([]float64, 25)
	for i := range series {
		if i%2 == 0 {
			series[i] = 20
		} else {
			series[i] = 2
		}
	}
	for i := 10; i < 15; i++ {
		series[i] = 6
	}

	segments := lowestVolatilitySegments(series, 3)
	require.Len(t, segments, 3)
	assert.Equal(t, 10, segments[0].FrameStart)
	assert.Zero(t, segments[0].Volatility)
	for i := 1; i < len(segments); i++ {
		assert.LessOrEqual(t, segments[i-1].Volatility, segments[i].Volatility)
	}
}

func TestLowestDensitySegments(t *testing.T) {
	t.Parallel()

	series := make([]float64, 25)
	for i := range series {
		series[i] = 15
	}
	for i := 5; i < 10; i++ {
		series[i] = 1
	}

	segments := lowestDensitySegments(series, 3)
	require.Len(t, segments, 3)
	assert.Equal(t, 5, segments[0].FrameStart)
	assert.InDelta(t, 1.0, segments[0].AvgVehicles, 1e-9)
}
