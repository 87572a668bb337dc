package service

import (
	"time"
)

// AnalyzeRequest запрос на анализ видео
type AnalyzeRequest struct {
	VideoRef        string  `json:"video_ref"`
	SaveOverlay     bool    `json:"save_overlay"`
	ConfThreshold   float64 `json:"conf_threshold"`
	SmoothingWindow int     `json:"smoothing_window"`
}

// AuditResponse запись аудита решения
type AuditResponse struct {
	AvgVehicles          float64 `json:"avg_vehicles"`
	Congestion           string  `json:"congestion"`
	RiskScore            float64 `json:"risk_score"`
	EmergencySafe        bool    `json:"emergency_safe"`
	EmergencyProbability float64 `json:"emergency_probability"`
	AccessibilityScore   float64 `json:"accessibility_score"`
	ClimateScore         float64 `json:"climate_score"`
	Recommendation       string  `json:"recommendation"`
	Confidence           string  `json:"confidence"`
}

// RunResponse ответ с информацией о сохраненном прогоне анализа
type RunResponse struct {
	ID                  string         `json:"id"`
	VideoRef            string         `json:"video_ref"`
	SmoothingWindow     int            `json:"smoothing_window"`
	ConfThreshold       float64        `json:"conf_threshold"`
	TotalFrames         int            `json:"total_frames"`
	FPS                 float64        `json:"fps,omitempty"`
	DurationSeconds     float64        `json:"duration_seconds,omitempty"`
	AvgCount            float64        `json:"avg_count"`
	MedianCount         float64        `json:"median_count"`
	StdCount            float64        `json:"std_count"`
	MaxCount            float64        `json:"max_count"`
	P95Count            float64        `json:"p95_count"`
	LowFrames           int            `json:"low_frames"`
	MediumFrames        int            `json:"medium_frames"`
	HighFrames          int            `json:"high_frames"`
	OverallCongestion   string         `json:"overall_congestion"`
	OverallParkingScore float64        `json:"overall_parking_score"`
	RecommendationText  string         `json:"recommendation_text"`
	TrendOutlook        string         `json:"trend_outlook"`
	TrendConfidence     string         `json:"trend_confidence"`
	Audit               *AuditResponse `json:"audit,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

// ListRunsResponse ответ со списком прогонов
type ListRunsResponse struct {
	Runs  []RunResponse `json:"runs"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}
