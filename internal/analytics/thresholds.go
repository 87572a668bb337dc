package analytics

// Все настраиваемые константы алгоритмов собраны в одном месте,
// чтобы их можно было перекалибровать без изменения самих алгоритмов.

// Пороги классификации загруженности по сглаженному количеству машин.
// Зафиксированы контрактом: <=5 Low, <=20 Medium, иначе High.
const (
	congestionLowMax    = 5.0
	congestionMediumMax = 20.0
)

// Штрафы за загруженность при расчете парковочной оценки
const (
	penaltyLow    = 0
	penaltyMedium = 10
	penaltyHigh   = 30
)

// Параметры детектора тренда
const (
	trendMaxWindow      = 90  // максимум последних сглаженных отсчетов
	trendMinSamples     = 6   // меньше — недостаточно данных, Stable/Low
	trendSlopeThreshold = 0.3 // машин/кадр; ниже по модулю — Stable
	trendVolStrongPct   = 25.0
)

// Общие параметры анализаторов влияния
const (
	impactRecentWindow   = 300 // последних отсчетов для "недавней" статистики
	impactPartitionCount = 5   // число окон при разбиении ряда на сегменты
	impactMaxSegments    = 3
	defaultFPS           = 30.0
)

// Веса и границы оценки экстренного проезда
const (
	emergencyWeightLow      = 10.0
	emergencyWeightMedium   = 30.0
	emergencyWeightHigh     = 60.0
	emergencyRecentStdW     = 4.0
	emergencyOverallStdW    = 2.0
	emergencyAvgCountW      = 0.5
	emergencySlopeW         = 40.0
	emergencyBandRisky      = 30.0
	emergencyBandAvoid      = 60.0
	emergencyLogisticCenter = 45.0
	emergencyLogisticScale  = 10.0
	emergencyDelayRiskW     = 0.8
	emergencyDelayStdW      = 6.0
)

// Границы оценки доступности
const (
	accessPenaltyHigh     = 20.0
	accessPenaltyMedium   = 8.0
	accessRatingFriendly  = 70.0
	accessRatingOK        = 40.0
	accessStressStdLow    = 0.8
	accessStressStdMid    = 1.6
	accessStressSpikesLow = 2
	accessStressSpikesMid = 5
	accessLogisticStdMid  = 1.0
)

// Параметры климатической оценки
const (
	DefaultEmissionFactor = 0.23 // кг CO2 на машину в минуту
	climateBandModerate   = 1.0
	climateBandHigh       = 3.0
	climateLogisticCenter = 2.0
	climateLogisticScale  = 0.8
	climateConfHighMin    = 4.0 // минут затора для High confidence
	climateConfMediumMin  = 1.5
)

// Пороги уверенности по объему данных (в отсчетах)
const (
	confidenceHighSamples   = 240
	confidenceMediumSamples = 120
)
