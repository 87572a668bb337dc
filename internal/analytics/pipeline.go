package analytics

import (
	"fmt"
	"strings"
)

// Pipeline собирает итоговый AnalysisResult из сырого ряда количеств машин
type Pipeline struct{}

// NewPipeline создает новый конвейер анализа
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// RunInput входные данные одного прогона конвейера
type RunInput struct {
	Counts          []int
	FPS             float64 // 0, если частота кадров неизвестна
	SmoothingWindow int
	ConfThreshold   float64
	EmissionFactor  float64 // 0 — значение по умолчанию
	EntranceBias    float64
}

// Run выполняет полный анализ: сглаживание, статистика, классификация,
// парковочные оценки, тренд и социальные оценки. Чистая функция: на
// одинаковом входе всегда дает одинаковый результат.
func (p *Pipeline) Run(in RunInput) (*AnalysisResult, error) {
	smoothed, err := Smooth(in.Counts, in.SmoothingWindow)
	if err != nil {
		return nil, err
	}

	emissionFactor := in.EmissionFactor
	if emissionFactor <= 0 {
		emissionFactor = DefaultEmissionFactor
	}

	summary := Summarize(smoothed, in.FPS)
	baseline := summary.P95Count

	frames := make([]FrameRecord, len(in.Counts))
	for i, raw := range in.Counts {
		level := ClassifyCongestion(smoothed[i])
		score, xai := ParkingScore(raw, smoothed[i], level, baseline)
		frames[i] = FrameRecord{
			Index:           i,
			VehicleCount:    raw,
			SmoothedCount:   smoothed[i],
			CongestionLevel: level,
			ParkingScore:    score,
			XAI:             xai,
		}
	}

	// Итоговые значения берутся с последнего кадра: система сообщает
	// текущее состояние, а не агрегат
	overallCongestion := CongestionLow
	overallScore := 0.0
	if len(frames) > 0 {
		last := frames[len(frames)-1]
		overallCongestion = last.CongestionLevel
		overallScore = last.ParkingScore
	}
	recommendation := RecommendationText(overallScore)

	trend := DetectTrend(smoothed)

	impacts := ImpactSet{
		Emergency:     EmergencyImpactOf(smoothed, summary, trend, overallCongestion),
		Accessibility: AccessibilityImpactOf(smoothed, summary, overallCongestion, in.EntranceBias),
		Climate:       ClimateImpactOf(smoothed, summary, emissionFactor),
	}

	settings := Settings{
		ConfThreshold:   in.ConfThreshold,
		SmoothingWindow: in.SmoothingWindow,
	}

	result := &AnalysisResult{
		Frames:              frames,
		Summary:             summary,
		OverallCongestion:   overallCongestion,
		OverallParkingScore: overallScore,
		RecommendationText:  recommendation,
		Trend:               trend,
		Impacts:             impacts,
		Settings:            settings,
	}
	result.XaiSummary = buildXaiSummary(result)
	return result, nil
}

// buildXaiSummary строит текстовую сводку методологии всего видео
func buildXaiSummary(r *AnalysisResult) string {
	s := r.Summary
	var parts []string
	parts = append(parts, fmt.Sprintf(
		"Methodology: per-frame vehicle counts supplied by the external detection service; confidence >= %.2f.",
		r.Settings.ConfThreshold))
	parts = append(parts, fmt.Sprintf(
		"Temporal smoothing: rolling mean window=%d; congestion thresholds: <=5 Low, <=20 Medium, >20 High.",
		r.Settings.SmoothingWindow))

	statsLine := fmt.Sprintf("Statistics: %d frames", s.TotalFrames)
	if s.DurationSeconds != nil && s.FPS != nil {
		statsLine += fmt.Sprintf(" (~%.1fs at %.1f fps)", *s.DurationSeconds, *s.FPS)
	}
	statsLine += fmt.Sprintf("; avg %.2f; median %.2f; max %.2f; std %.2f; 95th percentile %.2f.",
		s.AvgCount, s.MedianCount, s.MaxCount, s.StdCount, s.P95Count)
	parts = append(parts, statsLine)

	pct := func(n int) float64 {
		if s.TotalFrames == 0 {
			return 0
		}
		return float64(n) / float64(s.TotalFrames) * 100.0
	}
	parts = append(parts, fmt.Sprintf(
		"Distribution: Low %d (%.1f%%), Medium %d (%.1f%%), High %d (%.1f%%).",
		s.LowFrames, pct(s.LowFrames), s.MediumFrames, pct(s.MediumFrames), s.HighFrames, pct(s.HighFrames)))
	parts = append(parts,
		"Scoring: base=95p-smoothed; penalty by class (Low 0 / Medium 10 / High 30); decision uses final_score sign.")
	parts = append(parts, fmt.Sprintf(
		"Overall: congestion=%s; parking_score=%.1f; recommendation=%s.",
		r.OverallCongestion, r.OverallParkingScore, r.RecommendationText))
	parts = append(parts, fmt.Sprintf("Trend: %s (confidence %s).", r.Trend.Outlook, r.Trend.Confidence))

	return strings.Join(parts, "\n")
}
