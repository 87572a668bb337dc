package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	t.Parallel()

	t.Run("interpolates between ranks", func(t *testing.T) {
		t.Parallel()
		vals := []float64{1, 2, 3, 4}
		assert.InDelta(t, 2.5, Percentile(vals, 0.5), 1e-9)
	})

	t.Run("matches linear interpolation convention", func(t *testing.T) {
		t.Parallel()
		vals := make([]float64, 10)
		for i := range vals {
			vals[i] = float64(i)
		}
		// idx = 0.95 * 9 = 8.55
		assert.InDelta(t, 8.55, Percentile(vals, 0.95), 1e-9)
	})

	t.Run("endpoints return min and max", func(t *testing.T) {
		t.Parallel()
		vals := []float64{7, 3, 9, 1}
		assert.InDelta(t, 1, Percentile(vals, 0), 1e-9)
		assert.InDelta(t, 9, Percentile(vals, 1), 1e-9)
	})

	t.Run("single element works for any p", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 4.2, Percentile([]float64{4.2}, 0.95), 1e-9)
	})

	t.Run("does not reorder the input", func(t *testing.T) {
		t.Parallel()
		vals := []float64{5, 1, 3}
		Percentile(vals, 0.5)
		assert.Equal(t, []float64{5, 1, 3}, vals)
	})

	t.Run("empty input gives zero", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, Percentile(nil, 0.95))
	})
}

func TestPopStd(t *testing.T) {
	t.Parallel()

	// Population divisor n, not n-1
	assert.InDelta(t, 1.0, PopStd([]float64{2, 4}), 1e-9)
	assert.Zero(t, PopStd([]float64{3, 3, 3}))
	assert.Zero(t, PopStd(nil))
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	t.Run("class counts partition the series", func(t *testing.T) {
		t.Parallel()
		smoothed := []float64{0, 2, 5, 6, 12, 20, 21, 35}
		s := Summarize(smoothed, 30)

		assert.Equal(t, len(smoothed), s.TotalFrames)
		assert.Equal(t, s.TotalFrames, s.LowFrames+s.MediumFrames+s.HighFrames)
		assert.Equal(t, 3, s.LowFrames)
		assert.Equal(t, 3, s.MediumFrames)
		assert.Equal(t, 2, s.HighFrames)
	})

	t.Run("p95 sits between median and max", func(t *testing.T) {
		t.Parallel()
		smoothed := []float64{1, 4, 4, 7, 9, 15, 22, 3, 8, 11}
		s := Summarize(smoothed, 0)

		assert.LessOrEqual(t, s.MedianCount, s.P95Count)
		assert.LessOrEqual(t, s.P95Count, s.MaxCount)
		assert.InDelta(t, 22, s.MaxCount, 1e-9)
	})

	t.Run("fps yields duration", func(t *testing.T) {
		t.Parallel()
		smoothed := make([]float64, 90)
		s := Summarize(smoothed, 30)

		require.NotNil(t, s.FPS)
		require.NotNil(t, s.DurationSeconds)
		assert.InDelta(t, 30, *s.FPS, 1e-9)
		assert.InDelta(t, 3, *s.DurationSeconds, 1e-9)
	})

	t.Run("unknown fps leaves duration unset", func(t *testing.T) {
		t.Parallel()
		s := Summarize([]float64{1, 2, 3}, 0)
		assert.Nil(t, s.FPS)
		assert.Nil(t, s.DurationSeconds)
	})

	t.Run("empty series gives zero summary", func(t *testing.T) {
		t.Parallel()
		s := Summarize(nil, 30)
		assert.Zero(t, s.TotalFrames)
		assert.Zero(t, s.AvgCount)
		assert.Nil(t, s.FPS)
	})
}
