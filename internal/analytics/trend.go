package analytics

import (
	"fmt"
	"math"
)

// Прогнозы тренда
const (
	TrendStable     = "Stable"
	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
)

// Уровни уверенности
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// DetectTrend строит краткосрочный прогноз по хвосту сглаженного ряда.
// Окно — последние min(len, 90) отсчетов. Наклон считается по крайним
// точкам окна; изменение волатильности — как относительная разница
// стандартных отклонений двух половин окна. Меньше 6 отсчетов — это не
// ошибка, а недостаток данных: возвращается Stable с Low-уверенностью.
func DetectTrend(smoothed []float64) TrendInfo {
	n := len(smoothed)
	if n < trendMinSamples {
		return TrendInfo{
			Outlook:    TrendStable,
			Confidence: ConfidenceLow,
			Explanation: "Short-term trend outlook is unavailable: too few samples in this session. " +
				"The system reports short-term behavior only and does not forecast beyond the current video.",
		}
	}

	window := smoothed
	if n > trendMaxWindow {
		window = smoothed[n-trendMaxWindow:]
	}
	w := len(window)

	slope := (window[w-1] - window[0]) / float64(w-1)

	// Волатильность: сравниваем половины окна
	mid := w / 2
	stdA := PopStd(window[:mid])
	stdB := PopStd(window[mid:])
	volChangePct := 0.0
	if stdA > 0 {
		volChangePct = (stdB - stdA) / stdA * 100.0
	}

	outlook := TrendStable
	if slope > trendSlopeThreshold {
		outlook = TrendIncreasing
	} else if slope < -trendSlopeThreshold {
		outlook = TrendDecreasing
	}

	confidence := trendConfidence(slope, volChangePct)

	direction := "holding steady"
	if outlook == TrendIncreasing {
		direction = "rising"
	} else if outlook == TrendDecreasing {
		direction = "falling"
	}
	explanation := fmt.Sprintf(
		"Short-term trend outlook indicates %s conditions over the next few minutes. "+
			"Smoothed vehicle counts over the last %d frames are %s (slope %+.2f vehicles/frame); "+
			"volatility changed by %+.1f%% between window halves. Confidence is %s. "+
			"Use this as immediate guidance; it does not predict longer-term traffic.",
		lower(outlook), w, direction, slope, volChangePct, confidence,
	)

	return TrendInfo{
		Outlook:             outlook,
		Confidence:          confidence,
		SlopePerFrame:       slope,
		VolatilityChangePct: volChangePct,
		Explanation:         explanation,
	}
}

// trendConfidence: High — наклон и изменение волатильности оба выражены и
// согласованы по знаку; Medium — выражен только один сигнал; иначе Low
func trendConfidence(slope, volChangePct float64) string {
	strongSlope := math.Abs(slope) > trendSlopeThreshold
	strongVol := math.Abs(volChangePct) > trendVolStrongPct

	if strongSlope && strongVol && sameSign(slope, volChangePct) {
		return ConfidenceHigh
	}
	if strongSlope != strongVol {
		return ConfidenceMedium
	}
	return ConfidenceLow
}

func sameSign(a, b float64) bool {
	return (a >= 0 && b >= 0) || (a < 0 && b < 0)
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
