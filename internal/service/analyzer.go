package service

import (
	"context"
	"fmt"

	"traffic-intel-go/internal/analytics"
	"traffic-intel-go/internal/client"
	"traffic-intel-go/internal/model"
	"traffic-intel-go/internal/task"

	"github.com/sirupsen/logrus"
)

// Defaults значения параметров анализа по умолчанию
type Defaults struct {
	SmoothingWindow int
	ConfThreshold   float64
	EmissionFactor  float64
}

// AnalyzerService сервис анализа дорожного трафика: синхронный анализ,
// фоновые задачи с опросом прогресса и социальные оценки
type AnalyzerService struct {
	detector   *client.DetectorClient
	pipeline   *analytics.Pipeline
	engine     *task.Engine
	runService *RunService
	logger     *logrus.Logger
	defaults   Defaults
}

// NewAnalyzerService создает новый сервис анализа. runService может быть
// nil — тогда завершенные прогоны не сохраняются в базе.
func NewAnalyzerService(detector *client.DetectorClient, runService *RunService, logger *logrus.Logger, defaults Defaults) *AnalyzerService {
	s := &AnalyzerService{
		detector:   detector,
		pipeline:   analytics.NewPipeline(),
		runService: runService,
		logger:     logger,
		defaults:   defaults,
	}
	s.engine = task.NewEngine(s.pipeline, logger, s.persistRun)
	return s
}

// normalize подставляет значения по умолчанию и валидирует запрос.
// Ошибки валидации возвращаются синхронно и не создают задачу.
func (s *AnalyzerService) normalize(req *AnalyzeRequest) error {
	if req.VideoRef == "" {
		return fmt.Errorf("video reference is required")
	}
	if req.SmoothingWindow == 0 {
		req.SmoothingWindow = s.defaults.SmoothingWindow
	}
	if req.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing window must be >= 1, got %d", req.SmoothingWindow)
	}
	if req.ConfThreshold <= 0 {
		req.ConfThreshold = s.defaults.ConfThreshold
	}
	return nil
}

// Analyze выполняет синхронный анализ видео: вычитывает весь поток
// детекции и прогоняет конвейер
func (s *AnalyzerService) Analyze(ctx context.Context, req AnalyzeRequest) (*analytics.AnalysisResult, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}

	s.logger.Infof("Начинаем синхронный анализ видео %s", req.VideoRef)

	stream, err := s.detector.OpenFrameStream(req.VideoRef, req.ConfThreshold, req.SaveOverlay)
	if err != nil {
		s.logger.Errorf("Ошибка открытия потока детекции: %v", err)
		return nil, fmt.Errorf("failed to open detection stream: %w", err)
	}

	counts, fps, err := task.Collect(ctx, stream)
	if err != nil {
		s.logger.Errorf("Ошибка чтения потока детекции: %v", err)
		return nil, fmt.Errorf("failed to read detection stream: %w", err)
	}

	result, err := s.pipeline.Run(analytics.RunInput{
		Counts:          counts,
		FPS:             fps,
		SmoothingWindow: req.SmoothingWindow,
		ConfThreshold:   req.ConfThreshold,
		EmissionFactor:  s.defaults.EmissionFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis pipeline failed: %w", err)
	}

	s.logger.Infof("Синхронный анализ завершен: %d кадров, загруженность %s",
		result.Summary.TotalFrames, result.OverallCongestion)
	return result, nil
}

// SubmitAnalysis регистрирует фоновую задачу анализа и сразу возвращает
// ее идентификатор с начальным прогрессом
func (s *AnalyzerService) SubmitAnalysis(req AnalyzeRequest) (task.Snapshot, error) {
	if err := s.normalize(&req); err != nil {
		return task.Snapshot{}, err
	}

	stream, err := s.detector.OpenFrameStream(req.VideoRef, req.ConfThreshold, req.SaveOverlay)
	if err != nil {
		s.logger.Errorf("Ошибка открытия потока детекции: %v", err)
		return task.Snapshot{}, fmt.Errorf("failed to open detection stream: %w", err)
	}

	return s.engine.Submit(stream, task.Options{
		VideoRef:        req.VideoRef,
		SaveOverlay:     req.SaveOverlay,
		SmoothingWindow: req.SmoothingWindow,
		ConfThreshold:   req.ConfThreshold,
		EmissionFactor:  s.defaults.EmissionFactor,
	})
}

// Progress возвращает снимок состояния задачи для опрашивающего клиента
func (s *AnalyzerService) Progress(taskID string) (task.Snapshot, error) {
	return s.engine.Snapshot(taskID)
}

// CancelTask кооперативно отменяет незавершенную задачу
func (s *AnalyzerService) CancelTask(taskID string) error {
	return s.engine.Cancel(taskID)
}

// resolveResult находит результат анализа: по задаче, по видео
// (синхронный прогон без оверлея) или последний завершенный
func (s *AnalyzerService) resolveResult(ctx context.Context, taskID, videoRef string) (*analytics.AnalysisResult, error) {
	if taskID != "" {
		return s.engine.Result(taskID)
	}
	if videoRef != "" {
		return s.Analyze(ctx, AnalyzeRequest{VideoRef: videoRef})
	}
	if result, ok := s.engine.LatestResult(); ok {
		return result, nil
	}
	return nil, fmt.Errorf("analysis result unavailable: provide task_id or video_ref")
}

// smoothedSeries восстанавливает сглаженный ряд из записанных кадров
func smoothedSeries(result *analytics.AnalysisResult) []float64 {
	series := make([]float64, len(result.Frames))
	for i, f := range result.Frames {
		series[i] = f.SmoothedCount
	}
	return series
}

// ImpactEmergency оценка пригодности для проезда экстренных служб
func (s *AnalyzerService) ImpactEmergency(ctx context.Context, taskID, videoRef string) (*analytics.EmergencyImpact, error) {
	result, err := s.resolveResult(ctx, taskID, videoRef)
	if err != nil {
		return nil, err
	}
	impact := analytics.EmergencyImpactOf(smoothedSeries(result), result.Summary, result.Trend, result.OverallCongestion)
	return &impact, nil
}

// ImpactAccessibility оценка стабильности зоны для маломобильных водителей
func (s *AnalyzerService) ImpactAccessibility(ctx context.Context, taskID, videoRef string, entranceBias float64) (*analytics.AccessibilityImpact, error) {
	result, err := s.resolveResult(ctx, taskID, videoRef)
	if err != nil {
		return nil, err
	}
	impact := analytics.AccessibilityImpactOf(smoothedSeries(result), result.Summary, result.OverallCongestion, entranceBias)
	return &impact, nil
}

// ImpactClimate оценка выбросов CO2 из-за заторов
func (s *AnalyzerService) ImpactClimate(ctx context.Context, taskID, videoRef string, emissionFactor float64) (*analytics.ClimateImpact, error) {
	result, err := s.resolveResult(ctx, taskID, videoRef)
	if err != nil {
		return nil, err
	}
	if emissionFactor <= 0 {
		emissionFactor = s.defaults.EmissionFactor
	}
	impact := analytics.ClimateImpactOf(smoothedSeries(result), result.Summary, emissionFactor)
	return &impact, nil
}

// CheckHealth проверяет состояние сервиса детекции
func (s *AnalyzerService) CheckHealth() error {
	return s.detector.CheckHealth()
}

// persistRun сохраняет сводку завершенной задачи и запись аудита.
// Ошибки персистентности логируются, но никогда не ломают анализ.
func (s *AnalyzerService) persistRun(taskID string, opts task.Options, result *analytics.AnalysisResult) {
	if s.runService == nil {
		return
	}

	run := &model.AnalysisRun{
		ID:                  taskID,
		VideoRef:            opts.VideoRef,
		SmoothingWindow:     opts.SmoothingWindow,
		ConfThreshold:       opts.ConfThreshold,
		TotalFrames:         result.Summary.TotalFrames,
		AvgCount:            result.Summary.AvgCount,
		MedianCount:         result.Summary.MedianCount,
		StdCount:            result.Summary.StdCount,
		MaxCount:            result.Summary.MaxCount,
		P95Count:            result.Summary.P95Count,
		LowFrames:           result.Summary.LowFrames,
		MediumFrames:        result.Summary.MediumFrames,
		HighFrames:          result.Summary.HighFrames,
		OverallCongestion:   result.OverallCongestion,
		OverallParkingScore: result.OverallParkingScore,
		RecommendationText:  result.RecommendationText,
		TrendOutlook:        result.Trend.Outlook,
		TrendConfidence:     result.Trend.Confidence,
	}
	if result.Summary.FPS != nil {
		run.FPS = *result.Summary.FPS
	}
	if result.Summary.DurationSeconds != nil {
		run.DurationSeconds = *result.Summary.DurationSeconds
	}

	em := result.Impacts.Emergency
	run.Audit = &model.DecisionAudit{
		AvgVehicles:          result.Summary.AvgCount,
		Congestion:           result.OverallCongestion,
		RiskScore:            em.RiskScore,
		EmergencySafe:        em.Classification == "Safe",
		EmergencyProbability: em.Probability,
		AccessibilityScore:   result.Impacts.Accessibility.AccessibilityScore,
		ClimateScore:         result.Impacts.Climate.EmissionScore,
		Recommendation:       result.RecommendationText,
		Confidence:           em.Confidence,
	}

	if err := s.runService.SaveRun(run); err != nil {
		s.logger.Warnf("Не удалось сохранить прогон %s: %v", taskID, err)
	}
}
