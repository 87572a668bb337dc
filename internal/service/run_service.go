package service

import (
	"fmt"

	"traffic-intel-go/internal/model"
	"traffic-intel-go/internal/repository"

	"github.com/sirupsen/logrus"
)

// RunService сервис для работы с сохраненными прогонами анализа
type RunService struct {
	runRepo repository.RunRepository
	logger  *logrus.Logger
}

// NewRunService создает новый сервис прогонов
func NewRunService(runRepo repository.RunRepository, logger *logrus.Logger) *RunService {
	return &RunService{
		runRepo: runRepo,
		logger:  logger,
	}
}

// SaveRun сохраняет завершенный прогон анализа в базе данных
func (s *RunService) SaveRun(run *model.AnalysisRun) error {
	s.logger.Infof("Сохраняем прогон анализа %s в базе данных", run.ID)

	if err := s.runRepo.Create(run); err != nil {
		s.logger.Errorf("Ошибка сохранения прогона в БД: %v", err)
		return fmt.Errorf("failed to save analysis run: %w", err)
	}

	s.logger.Infof("Прогон %s успешно сохранен: %d кадров, загруженность %s",
		run.ID, run.TotalFrames, run.OverallCongestion)
	return nil
}

// GetRunByID получает прогон анализа по ID
func (s *RunService) GetRunByID(runID string) (*RunResponse, error) {
	s.logger.Infof("Получаем прогон %s из базы данных", runID)

	run, err := s.runRepo.GetByID(runID)
	if err != nil {
		s.logger.Errorf("Ошибка получения прогона: %v", err)
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return s.modelToResponse(run), nil
}

// ListRuns получает список прогонов с пагинацией
func (s *RunService) ListRuns(page, pageSize int) ([]RunResponse, int64, error) {
	s.logger.Infof("Получаем список прогонов: страница %d, размер %d", page, pageSize)

	runs, total, err := s.runRepo.List(page, pageSize)
	if err != nil {
		s.logger.Errorf("Ошибка получения списка прогонов: %v", err)
		return nil, 0, fmt.Errorf("failed to list analysis runs: %w", err)
	}

	responses := make([]RunResponse, len(runs))
	for i, run := range runs {
		responses[i] = *s.modelToResponse(run)
	}

	s.logger.Infof("Получено %d прогонов из %d общих", len(responses), total)
	return responses, total, nil
}

// DeleteRun удаляет прогон анализа по ID
func (s *RunService) DeleteRun(runID string) error {
	s.logger.Infof("Удаляем прогон %s", runID)

	if err := s.runRepo.Delete(runID); err != nil {
		s.logger.Errorf("Ошибка удаления прогона из БД: %v", err)
		return fmt.Errorf("failed to delete analysis run: %w", err)
	}

	s.logger.Infof("Прогон %s успешно удален", runID)
	return nil
}

// modelToResponse преобразует модель базы данных в ответ API
func (s *RunService) modelToResponse(run *model.AnalysisRun) *RunResponse {
	resp := &RunResponse{
		ID:                  run.ID,
		VideoRef:            run.VideoRef,
		SmoothingWindow:     run.SmoothingWindow,
		ConfThreshold:       run.ConfThreshold,
		TotalFrames:         run.TotalFrames,
		FPS:                 run.FPS,
		DurationSeconds:     run.DurationSeconds,
		AvgCount:            run.AvgCount,
		MedianCount:         run.MedianCount,
		StdCount:            run.StdCount,
		MaxCount:            run.MaxCount,
		P95Count:            run.P95Count,
		LowFrames:           run.LowFrames,
		MediumFrames:        run.MediumFrames,
		HighFrames:          run.HighFrames,
		OverallCongestion:   run.OverallCongestion,
		OverallParkingScore: run.OverallParkingScore,
		RecommendationText:  run.RecommendationText,
		TrendOutlook:        run.TrendOutlook,
		TrendConfidence:     run.TrendConfidence,
		CreatedAt:           run.CreatedAt,
	}
	if run.Audit != nil {
		resp.Audit = &AuditResponse{
			AvgVehicles:          run.Audit.AvgVehicles,
			Congestion:           run.Audit.Congestion,
			RiskScore:            run.Audit.RiskScore,
			EmergencySafe:        run.Audit.EmergencySafe,
			EmergencyProbability: run.Audit.EmergencyProbability,
			AccessibilityScore:   run.Audit.AccessibilityScore,
			ClimateScore:         run.Audit.ClimateScore,
			Recommendation:       run.Audit.Recommendation,
			Confidence:           run.Audit.Confidence,
		}
	}
	return resp
}
