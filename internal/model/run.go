package model

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisRun завершенный прогон анализа видео в базе данных.
// Хранится сводка: покадровые записи остаются в памяти движка задач
// и не персистятся.
type AnalysisRun struct {
	ID              string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	VideoRef        string  `gorm:"type:varchar(500);not null" json:"video_ref"`
	SmoothingWindow int     `gorm:"not null;default:5" json:"smoothing_window"`
	ConfThreshold   float64 `gorm:"not null;default:0.4" json:"conf_threshold"`

	// Агрегированная статистика
	TotalFrames     int     `gorm:"not null;default:0" json:"total_frames"`
	FPS             float64 `gorm:"not null;default:0" json:"fps"`
	DurationSeconds float64 `gorm:"not null;default:0" json:"duration_seconds"`
	AvgCount        float64 `gorm:"not null;default:0" json:"avg_count"`
	MedianCount     float64 `gorm:"not null;default:0" json:"median_count"`
	StdCount        float64 `gorm:"not null;default:0" json:"std_count"`
	MaxCount        float64 `gorm:"not null;default:0" json:"max_count"`
	P95Count        float64 `gorm:"not null;default:0" json:"p95_count"`
	LowFrames       int     `gorm:"not null;default:0" json:"low_frames"`
	MediumFrames    int     `gorm:"not null;default:0" json:"medium_frames"`
	HighFrames      int     `gorm:"not null;default:0" json:"high_frames"`

	// Итоговое решение
	OverallCongestion   string  `gorm:"type:varchar(16);not null" json:"overall_congestion"`
	OverallParkingScore float64 `gorm:"not null;default:0" json:"overall_parking_score"`
	RecommendationText  string  `gorm:"type:varchar(255)" json:"recommendation_text"`
	TrendOutlook        string  `gorm:"type:varchar(16)" json:"trend_outlook"`
	TrendConfidence     string  `gorm:"type:varchar(16)" json:"trend_confidence"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Связь с аудитом решения
	Audit *DecisionAudit `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"audit,omitempty"`
}

// DecisionAudit журнальная запись решения для прозрачности: итоговые
// оценки всех трех анализаторов влияния одного прогона
type DecisionAudit struct {
	ID                   uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID                string  `gorm:"type:varchar(36);not null;index" json:"run_id"`
	AvgVehicles          float64 `gorm:"not null;default:0" json:"avg_vehicles"`
	Congestion           string  `gorm:"type:varchar(16);not null" json:"congestion"`
	RiskScore            float64 `gorm:"not null;default:0" json:"risk_score"`
	EmergencySafe        bool    `gorm:"not null;default:false" json:"emergency_safe"`
	EmergencyProbability float64 `gorm:"not null;default:0" json:"emergency_probability"`
	AccessibilityScore   float64 `gorm:"not null;default:0" json:"accessibility_score"`
	ClimateScore         float64 `gorm:"not null;default:0" json:"climate_score"`
	Recommendation       string  `gorm:"type:varchar(255)" json:"recommendation"`
	Confidence           string  `gorm:"type:varchar(16)" json:"confidence"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName указывает имя таблицы для AnalysisRun
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// TableName указывает имя таблицы для DecisionAudit
func (DecisionAudit) TableName() string {
	return "decision_audits"
}
