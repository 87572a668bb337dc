package analytics

// XaiDetail структурированное объяснение оценки парковки для одного кадра.
// Заполняется один раз при финализации и дальше не изменяется.
type XaiDetail struct {
	VehicleCount      int     `json:"vehicle_count"`
	Baseline95p       float64 `json:"baseline_95p"`
	BaseScore         float64 `json:"base_score"`
	CongestionLevel   string  `json:"congestion_level"`
	CongestionPenalty int     `json:"congestion_penalty"`
	FinalScore        float64 `json:"final_score"`
	ExplanationText   string  `json:"explanation_text"`
}

// FrameRecord метрики одного кадра видео
type FrameRecord struct {
	Index           int       `json:"frame_index"`
	VehicleCount    int       `json:"vehicle_count"`
	SmoothedCount   float64   `json:"smoothed_count"`
	CongestionLevel string    `json:"congestion_level"`
	ParkingScore    float64   `json:"parking_score"`
	XAI             XaiDetail `json:"xai"`
}

// Summary агрегированная статистика по всему сглаженному ряду
type Summary struct {
	TotalFrames     int      `json:"total_frames"`
	FPS             *float64 `json:"fps,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	AvgCount        float64  `json:"avg_count"`
	MedianCount     float64  `json:"median_count"`
	StdCount        float64  `json:"std_count"`
	MaxCount        float64  `json:"max_count"`
	P95Count        float64  `json:"p95_count"`
	LowFrames       int      `json:"low_frames"`
	MediumFrames    int      `json:"medium_frames"`
	HighFrames      int      `json:"high_frames"`
}

// TrendInfo краткосрочный прогноз изменения трафика
type TrendInfo struct {
	Outlook             string  `json:"outlook"`
	Confidence          string  `json:"confidence"`
	SlopePerFrame       float64 `json:"slope_per_frame"`
	VolatilityChangePct float64 `json:"volatility_change_pct"`
	Explanation         string  `json:"explanation"`
}

// Segment непрерывный диапазон кадров с вычисленными характеристиками.
// Сегменты не пересекаются между собой.
type Segment struct {
	FrameStart  int     `json:"frame_start"`
	FrameEnd    int     `json:"frame_end"`
	AvgVehicles float64 `json:"avg_vehicles"`
	Volatility  float64 `json:"volatility"`
	Label       string  `json:"label,omitempty"`
}

// EmergencyImpact оценка пригодности участка для проезда экстренных служб
type EmergencyImpact struct {
	RiskScore            float64            `json:"emergency_risk_score"`
	Classification       string             `json:"classification"`
	Probability          float64            `json:"probability"`
	Confidence           string             `json:"confidence"`
	ConfidenceNote       string             `json:"confidence_note"`
	DelayRiskSeconds     float64            `json:"delay_risk_seconds"`
	ResponseSensitivity  string             `json:"response_sensitivity"`
	StabilityTrend       string             `json:"stability_trend"`
	RecommendedCorridors []Segment          `json:"recommended_corridors"`
	Explanation          string             `json:"explanation"`
	Inputs               map[string]float64 `json:"inputs"`
	Thresholds           map[string]float64 `json:"thresholds"`
}

// AccessibilityImpact оценка стабильности зоны для маломобильных водителей
type AccessibilityImpact struct {
	StabilityScore      float64            `json:"stability_score"`
	AccessibilityScore  float64            `json:"accessibility_score"`
	Rating              string             `json:"rating"`
	Probability         float64            `json:"probability"`
	Confidence          string             `json:"confidence"`
	ConfidenceNote      string             `json:"confidence_note"`
	StabilityLast60sStd float64            `json:"stability_last_60s_std"`
	SuddenSpikeCount    int                `json:"sudden_spike_count"`
	StressIndicator     string             `json:"stress_indicator"`
	RecommendedZones    []Segment          `json:"recommended_zones"`
	Explanation         string             `json:"explanation"`
	Inputs              map[string]float64 `json:"inputs"`
	Thresholds          map[string]float64 `json:"thresholds"`
}

// ClimateImpact оценка выбросов CO2 из-за заторов
type ClimateImpact struct {
	EmissionScore           float64            `json:"emission_score"`
	EmissionLevel           string             `json:"emission_level"`
	Probability             float64            `json:"probability"`
	Confidence              string             `json:"confidence"`
	ConfidenceNote          string             `json:"confidence_note"`
	EquivalentIdlingMinutes float64            `json:"equivalent_idling_minutes"`
	RelativeVsFreeflowRatio float64            `json:"relative_vs_freeflow_ratio"`
	Alternatives            []Segment          `json:"alternatives"`
	Explanation             string             `json:"explanation"`
	Inputs                  map[string]float64 `json:"inputs"`
	Thresholds              map[string]float64 `json:"thresholds"`
}

// ImpactSet все три социальных оценки одного анализа
type ImpactSet struct {
	Emergency     EmergencyImpact     `json:"emergency"`
	Accessibility AccessibilityImpact `json:"accessibility"`
	Climate       ClimateImpact       `json:"climate"`
}

// Settings параметры, с которыми выполнялся анализ
type Settings struct {
	ConfThreshold   float64 `json:"conf_threshold"`
	SmoothingWindow int     `json:"smoothing_window"`
}

// AnalysisResult итоговый документ анализа одного видео.
// После записи не изменяется; единственный источник истины для клиентов.
type AnalysisResult struct {
	Frames              []FrameRecord `json:"frames"`
	Summary             Summary       `json:"summary"`
	OverallCongestion   string        `json:"overall_congestion"`
	OverallParkingScore float64       `json:"overall_parking_score"`
	RecommendationText  string        `json:"recommendation_text"`
	Trend               TrendInfo     `json:"trend"`
	Impacts             ImpactSet     `json:"impacts"`
	XaiSummary          string        `json:"xai_summary"`
	Settings            Settings      `json:"settings"`
}
