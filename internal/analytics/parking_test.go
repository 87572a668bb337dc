package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParkingScore(t *testing.T) {
	t.Parallel()

	t.Run("low congestion at baseline scores zero", func(t *testing.T) {
		t.Parallel()
		score, xai := ParkingScore(10, 10.0, CongestionLow, 10.0)

		assert.InDelta(t, 0, score, 1e-9)
		assert.InDelta(t, 0, xai.BaseScore, 1e-9)
		assert.Equal(t, 0, xai.CongestionPenalty)
		assert.Equal(t, RecommendOkay, RecommendationText(score))
	})

	t.Run("high congestion penalty pushes score negative", func(t *testing.T) {
		t.Parallel()
		score, xai := ParkingScore(10, 10.0, CongestionHigh, 10.0)

		assert.InDelta(t, -30, score, 1e-9)
		assert.Equal(t, 30, xai.CongestionPenalty)
		assert.Equal(t, RecommendAvoid, RecommendationText(score))
	})

	t.Run("quieter than baseline scores positive", func(t *testing.T) {
		t.Parallel()
		score, _ := ParkingScore(2, 2.0, CongestionLow, 18.0)
		assert.InDelta(t, 16, score, 1e-9)
		assert.Equal(t, RecommendOkay, RecommendationText(score))
	})

	t.Run("medium penalty applies after baseline delta", func(t *testing.T) {
		t.Parallel()
		score, xai := ParkingScore(12, 12.0, CongestionMedium, 15.0)
		assert.InDelta(t, -7, score, 1e-9)
		assert.InDelta(t, 3, xai.BaseScore, 1e-9)
		assert.InDelta(t, score, xai.FinalScore, 1e-9)
	})

	t.Run("explanation lists factors in a fixed order", func(t *testing.T) {
		t.Parallel()
		_, xai := ParkingScore(7, 6.5, CongestionMedium, 12.0)
		text := xai.ExplanationText

		observed := strings.Index(text, "Observed 7 vehicles")
		baseline := strings.Index(text, "Baseline (95th percentile)")
		penalty := strings.Index(text, "penalty of 10")
		threshold := strings.Index(text, "below 0 means avoid")

		assert.GreaterOrEqual(t, observed, 0)
		assert.Greater(t, baseline, observed)
		assert.Greater(t, penalty, baseline)
		assert.Greater(t, threshold, penalty)
	})
}

func TestRecommendationText(t *testing.T) {
	t.Parallel()

	// Zero is treated as parkable
	assert.Equal(t, RecommendOkay, RecommendationText(0))
	assert.Equal(t, RecommendOkay, RecommendationText(12.5))
	assert.Equal(t, RecommendAvoid, RecommendationText(-0.01))
}
