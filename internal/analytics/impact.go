package analytics

import (
	"fmt"
	"math"
)

// recentSeries хвост ряда для "недавней" статистики анализаторов
func recentSeries(series []float64) []float64 {
	if len(series) <= impactRecentWindow {
		return series
	}
	return series[len(series)-impactRecentWindow:]
}

// logistic отображает скалярную оценку в вероятность 0..1
func logistic(x, center, scale float64) float64 {
	if scale <= 0 {
		scale = 1e-6
	}
	return 1.0 / (1.0 + math.Exp(-(x-center)/scale))
}

func confidenceNote(confidence string, totalFrames int) string {
	return fmt.Sprintf("%s confidence (stable patterns, %d+ frames analyzed).", confidence, totalFrames)
}

func emergencyCongestionWeight(level string) float64 {
	switch level {
	case CongestionHigh:
		return emergencyWeightHigh
	case CongestionMedium:
		return emergencyWeightMedium
	default:
		return emergencyWeightLow
	}
}

// EmergencyImpactOf оценивает риск для маршрутизации экстренных служб.
// Риск растет со средним количеством машин, недавней волатильностью и
// положительным наклоном тренда. Коридоры — сегменты с самым ровным потоком.
func EmergencyImpactOf(smoothed []float64, summary Summary, trend TrendInfo, overallCongestion string) EmergencyImpact {
	recent := recentSeries(smoothed)
	recentStd := PopStd(recent)
	posSlope := math.Max(0, trend.SlopePerFrame)

	risk := emergencyCongestionWeight(overallCongestion) +
		summary.AvgCount*emergencyAvgCountW +
		recentStd*emergencyRecentStdW +
		summary.StdCount*emergencyOverallStdW +
		posSlope*emergencySlopeW

	classification := "Safe"
	if risk >= emergencyBandAvoid {
		classification = "Avoid"
	} else if risk >= emergencyBandRisky {
		classification = "Risky"
	}

	corridors := lowestVolatilitySegments(smoothed, impactMaxSegments)
	for i := range corridors {
		switch i {
		case 0:
			corridors[i].Label = "Recommended for Ambulance"
		case 1:
			corridors[i].Label = "Use Only If Necessary"
		default:
			corridors[i].Label = "Secondary Option"
		}
	}

	confidence := ConfidenceLow
	if len(recent) >= confidenceHighSamples && recentStd >= 1.0 {
		confidence = ConfidenceHigh
	} else if len(recent) >= confidenceMediumSamples {
		confidence = ConfidenceMedium
	}

	sensitivity := "Low"
	if classification == "Avoid" {
		sensitivity = "Critical"
	} else if classification == "Risky" {
		sensitivity = "Moderate"
	}

	stabilityTrend := "Stable"
	if trend.Outlook == TrendIncreasing {
		stabilityTrend = "Deteriorating"
	} else if trend.Outlook == TrendDecreasing {
		stabilityTrend = "Improving"
	}

	delayRisk := math.Max(0, risk*emergencyDelayRiskW+recentStd*emergencyDelayStdW)

	explanation := fmt.Sprintf(
		"Emergency risk computed from congestion='%s', avg vehicles=%.2f, "+
			"short-term volatility=%.2f, overall volatility=%.2f, slope=%+.2f. "+
			"Higher volatility and rising counts increase risk for emergency routing.",
		overallCongestion, summary.AvgCount, recentStd, summary.StdCount, trend.SlopePerFrame,
	)

	return EmergencyImpact{
		RiskScore:            risk,
		Classification:       classification,
		Probability:          logistic(risk, emergencyLogisticCenter, emergencyLogisticScale),
		Confidence:           confidence,
		ConfidenceNote:       confidenceNote(confidence, summary.TotalFrames),
		DelayRiskSeconds:     delayRisk,
		ResponseSensitivity:  sensitivity,
		StabilityTrend:       stabilityTrend,
		RecommendedCorridors: corridors,
		Explanation:          explanation,
		Inputs: map[string]float64{
			"avg_count":             summary.AvgCount,
			"recent_std":            recentStd,
			"overall_std":           summary.StdCount,
			"recent_slope":          trend.SlopePerFrame,
			"volatility_change_pct": trend.VolatilityChangePct,
		},
		Thresholds: map[string]float64{
			"band_risky":      emergencyBandRisky,
			"band_avoid":      emergencyBandAvoid,
			"logistic_center": emergencyLogisticCenter,
			"logistic_scale":  emergencyLogisticScale,
		},
	}
}

// AccessibilityImpactOf оценивает стабильность зоны для маломобильных
// водителей: чем ниже недавняя волатильность и число резких скачков,
// тем выше оценка. entranceBias сдвигает оценку в пользу зон у входа.
func AccessibilityImpactOf(smoothed []float64, summary Summary, overallCongestion string, entranceBias float64) AccessibilityImpact {
	recent := recentSeries(smoothed)
	std := PopStd(recent)

	// Стабильность за последние ~60 секунд
	fps := defaultFPS
	if summary.FPS != nil && *summary.FPS > 0 {
		fps = *summary.FPS
	}
	window := int(60.0 * fps)
	if window < 10 {
		window = 10
	}
	lastVals := recent
	if len(recent) > window {
		lastVals = recent[len(recent)-window:]
	}
	stdLast := PopStd(lastVals)

	// Резкие скачки: дельты соседних отсчетов выше динамического порога
	spikeThresh := math.Max(1.0, stdLast*0.8)
	spikes := 0
	for i := 1; i < len(lastVals); i++ {
		if math.Abs(lastVals[i]-lastVals[i-1]) > spikeThresh {
			spikes++
		}
	}

	stabilityRaw := 100.0 / (1.0 + std)
	penalty := 0.0
	if overallCongestion == CongestionHigh {
		penalty = accessPenaltyHigh
	} else if overallCongestion == CongestionMedium {
		penalty = accessPenaltyMedium
	}
	score := stabilityRaw - penalty + entranceBias
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	rating := "Caution: Variable Traffic"
	if score >= accessRatingFriendly {
		rating = "Senior-Friendly Zone"
	} else if score >= accessRatingOK {
		rating = "Wheelchair Accessible Parking"
	}

	stress := "High Stress"
	if stdLast <= accessStressStdLow && spikes <= accessStressSpikesLow {
		stress = "Low Stress"
	} else if stdLast <= accessStressStdMid && spikes <= accessStressSpikesMid {
		stress = "Moderate Stress"
	}

	confidence := ConfidenceLow
	if len(recent) >= confidenceHighSamples {
		confidence = ConfidenceHigh
	} else if len(recent) >= confidenceMediumSamples {
		confidence = ConfidenceMedium
	}

	zones := lowestVolatilitySegments(smoothed, impactMaxSegments)
	for i := range zones {
		zones[i].Label = "Stable, low variability segment"
	}

	explanation := fmt.Sprintf(
		"Accessibility emphasizes stability: recent std=%.2f gives stability=%.1f. "+
			"Congestion='%s' applies a penalty of %.0f; entrance bias=%.1f adjusts the score.",
		std, stabilityRaw, overallCongestion, penalty, entranceBias,
	)

	return AccessibilityImpact{
		StabilityScore:      stabilityRaw,
		AccessibilityScore:  score,
		Rating:              rating,
		Probability:         1.0 / (1.0 + math.Exp(std-accessLogisticStdMid)),
		Confidence:          confidence,
		ConfidenceNote:      confidenceNote(confidence, summary.TotalFrames),
		StabilityLast60sStd: stdLast,
		SuddenSpikeCount:    spikes,
		StressIndicator:     stress,
		RecommendedZones:    zones,
		Explanation:         explanation,
		Inputs: map[string]float64{
			"recent_std":      std,
			"last_60s_std":    stdLast,
			"spike_threshold": spikeThresh,
			"entrance_bias":   entranceBias,
		},
		Thresholds: map[string]float64{
			"std_mid":         accessLogisticStdMid,
			"rating_ok":       accessRatingOK,
			"rating_friendly": accessRatingFriendly,
		},
	}
}

// ClimateImpactOf оценивает выбросы CO2 от простоя в заторах. Оценка —
// произведение среднего количества машин, минут затора (доля кадров
// Medium/High от длительности) и настраиваемого коэффициента выбросов.
func ClimateImpactOf(smoothed []float64, summary Summary, emissionFactor float64) ClimateImpact {
	fps := defaultFPS
	if summary.FPS != nil && *summary.FPS > 0 {
		fps = *summary.FPS
	}

	congFrames := summary.MediumFrames + summary.HighFrames
	minutes := float64(congFrames) / fps / 60.0
	totalMinutes := float64(summary.TotalFrames) / fps / 60.0
	nonCongested := math.Max(0, totalMinutes-minutes)

	score := summary.AvgCount * minutes * emissionFactor

	level := "High Impact"
	if score < climateBandModerate {
		level = "Low Impact"
	} else if score < climateBandHigh {
		level = "Moderate Impact"
	}

	// Эквивалентное время простоя на одну машину (оценка направления,
	// не физическое измерение)
	eqMinutes := 0.0
	if summary.AvgCount > 0 && emissionFactor > 0 {
		eqMinutes = score / (summary.AvgCount * emissionFactor)
	}
	ratio := 0.0
	if minutes > 0 {
		ratio = minutes / math.Max(1e-6, nonCongested)
	}
	fraction := 0.0
	if totalMinutes > 0 {
		fraction = minutes / totalMinutes
	}

	confidence := ConfidenceLow
	if minutes >= climateConfHighMin {
		confidence = ConfidenceHigh
	} else if minutes >= climateConfMediumMin {
		confidence = ConfidenceMedium
	}

	alternatives := lowestDensitySegments(smoothed, impactMaxSegments)
	for i := range alternatives {
		if alternatives[i].Volatility < 1.0 {
			alternatives[i].Label = "Smoother flow; fewer stops"
		} else {
			alternatives[i].Label = "Lower density; smoother flow"
		}
	}

	explanation := fmt.Sprintf(
		"Emission impact is an estimate based on detected vehicles during congestion. "+
			"Observed avg vehicles~%.2f and congestion time~%.2f min out of %.2f min total (%.0f%%). "+
			"Using a configurable factor~%.2f kg CO2/vehicle/minute, the estimated score~%.2f. "+
			"This is decision support, not an exact emissions measurement.",
		summary.AvgCount, minutes, totalMinutes, fraction*100.0, emissionFactor, score,
	)

	return ClimateImpact{
		EmissionScore:           score,
		EmissionLevel:           level,
		Probability:             logistic(score, climateLogisticCenter, climateLogisticScale),
		Confidence:              confidence,
		ConfidenceNote:          confidenceNote(confidence, summary.TotalFrames),
		EquivalentIdlingMinutes: eqMinutes,
		RelativeVsFreeflowRatio: ratio,
		Alternatives:            alternatives,
		Explanation:             explanation,
		Inputs: map[string]float64{
			"avg_count":             summary.AvgCount,
			"congestion_minutes":    minutes,
			"total_minutes":         totalMinutes,
			"non_congested_minutes": nonCongested,
			"congestion_fraction":   fraction,
			"emission_factor":       emissionFactor,
			"fps":                   fps,
		},
		Thresholds: map[string]float64{
			"band_moderate":   climateBandModerate,
			"band_high":       climateBandHigh,
			"logistic_center": climateLogisticCenter,
			"logistic_scale":  climateLogisticScale,
		},
	}
}
