package analytics

import "fmt"

// Тексты рекомендаций для пользователя
const (
	RecommendAvoid = "Avoid parking"
	RecommendOkay  = "Okay to park"
)

// ParkingScore вычисляет парковочную оценку кадра и ее XAI-разбор.
// base = baseline_95p - smoothed_count, затем вычитается штраф за
// загруженность. Отрицательная итоговая оценка означает "не парковаться".
func ParkingScore(rawCount int, smoothed float64, level string, baseline95p float64) (float64, XaiDetail) {
	base := baseline95p - smoothed
	penalty := CongestionPenalty(level)
	final := base - float64(penalty)

	xai := XaiDetail{
		VehicleCount:      rawCount,
		Baseline95p:       baseline95p,
		BaseScore:         base,
		CongestionLevel:   level,
		CongestionPenalty: penalty,
		FinalScore:        final,
	}
	xai.ExplanationText = explainDecision(xai, smoothed)
	return final, xai
}

// RecommendationText переводит итоговую оценку в рекомендацию.
// Ноль трактуется в пользу парковки.
func RecommendationText(finalScore float64) string {
	if finalScore < 0 {
		return RecommendAvoid
	}
	return RecommendOkay
}

// explainDecision строит текстовое объяснение оценки. Порядок фиксирован:
// наблюдаемое количество, базовый уровень, примененный штраф, порог решения.
func explainDecision(xai XaiDetail, smoothed float64) string {
	return fmt.Sprintf(
		"Observed %d vehicles (smoothed %.1f). Baseline (95th percentile) for this location is %.1f. "+
			"Congestion level %s applies a penalty of %d, giving final_score = %.1f - %.1f - %d = %.1f. "+
			"Scores at or above 0 mean the spot is okay to park; below 0 means avoid.",
		xai.VehicleCount, smoothed, xai.Baseline95p,
		xai.CongestionLevel, xai.CongestionPenalty,
		xai.Baseline95p, smoothed, xai.CongestionPenalty, xai.FinalScore,
	)
}
