package analytics

// Уровни загруженности
const (
	CongestionLow    = "Low"
	CongestionMedium = "Medium"
	CongestionHigh   = "High"
)

// ClassifyCongestion относит сглаженное количество машин к одному из
// уровней загруженности по фиксированным порогам
func ClassifyCongestion(count float64) string {
	switch {
	case count <= congestionLowMax:
		return CongestionLow
	case count <= congestionMediumMax:
		return CongestionMedium
	default:
		return CongestionHigh
	}
}

// CongestionPenalty штраф к парковочной оценке за уровень загруженности
func CongestionPenalty(level string) int {
	switch level {
	case CongestionHigh:
		return penaltyHigh
	case CongestionMedium:
		return penaltyMedium
	default:
		return penaltyLow
	}
}
