package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTrend(t *testing.T) {
	t.Parallel()

	t.Run("too few samples reports stable with low confidence", func(t *testing.T) {
		t.Parallel()
		trend := DetectTrend([]float64{1, 2, 3, 4, 5})

		assert.Equal(t, TrendStable, trend.Outlook)
		assert.Equal(t, ConfidenceLow, trend.Confidence)
		assert.Zero(t, trend.SlopePerFrame)
		assert.Contains(t, trend.Explanation, "too few samples")
	})

	t.Run("steadily rising series is increasing", func(t *testing.T) {
		t.Parallel()
		series := make([]float64, 20)
		for i := range series {
			series[i] = float64(i)
		}
		trend := DetectTrend(series)

		assert.Equal(t, TrendIncreasing, trend.Outlook)
		assert.InDelta(t, 1.0, trend.SlopePerFrame, 1e-9)
	})

	t.Run("steadily falling series is decreasing", func(t *testing.T) {
		t.Parallel()
		series := make([]float64, 20)
		for i := range series {
			series[i] = float64(20 - i)
		}
		trend := DetectTrend(series)

		assert.Equal(t, TrendDecreasing, trend.Outlook)
		assert.InDelta(t, -1.0, trend.SlopePerFrame, 1e-9)
	})

	t.Run("constant series is stable with zero volatility change", func(t *testing.T) {
		t.Parallel()
		series := make([]float64, 30)
		for i := range series {
			series[i] = 7.0
		}
		trend := DetectTrend(series)

		assert.Equal(t, TrendStable, trend.Outlook)
		assert.Equal(t, ConfidenceLow, trend.Confidence)
		assert.Zero(t, trend.SlopePerFrame)
		assert.Zero(t, trend.VolatilityChangePct)
	})

	t.Run("flat endpoints hide interior movement", func(t *testing.T) {
		t.Parallel()
		// Endpoint slope ignores the bump in the middle
		series := []float64{5, 5, 5, 40, 40, 40, 5, 5, 5, 5}
		trend := DetectTrend(series)

		assert.Equal(t, TrendStable, trend.Outlook)
		assert.Zero(t, trend.SlopePerFrame)
	})

	t.Run("window is capped to the tail of the series", func(t *testing.T) {
		t.Parallel()
		// A huge prefix outside the 90-sample window must not drag the
		// slope negative
		series := make([]float64, 100)
		for i := 0; i < 10; i++ {
			series[i] = 1000
		}
		for i := 10; i < 100; i++ {
			series[i] = float64(i - 10)
		}
		trend := DetectTrend(series)

		assert.Equal(t, TrendIncreasing, trend.Outlook)
		assert.InDelta(t, 1.0, trend.SlopePerFrame, 1e-9)
	})
}

func TestTrendConfidence(t *testing.T) {
	t.Parallel()

	t.Run("agreeing strong signals give high", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ConfidenceHigh, trendConfidence(1.0, 50.0))
		assert.Equal(t, ConfidenceHigh, trendConfidence(-1.0, -50.0))
	})

	t.Run("a single strong signal gives medium", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ConfidenceMedium, trendConfidence(1.0, 5.0))
		assert.Equal(t, ConfidenceMedium, trendConfidence(0.1, 50.0))
	})

	t.Run("disagreeing or weak signals give low", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, ConfidenceLow, trendConfidence(0.1, 5.0))
		assert.Equal(t, ConfidenceLow, trendConfidence(1.0, -50.0))
	})
}
