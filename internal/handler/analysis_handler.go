package handler

import (
	"net/http"
	"strconv"

	"traffic-intel-go/internal/database"
	"traffic-intel-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AnalysisHandler обрабатывает HTTP запросы анализа трафика
type AnalysisHandler struct {
	analyzerService *service.AnalyzerService
	runService      *service.RunService
	logger          *logrus.Logger
}

// NewAnalysisHandler создает новый экземпляр AnalysisHandler
func NewAnalysisHandler(analyzerService *service.AnalyzerService, runService *service.RunService, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzerService: analyzerService,
		runService:      runService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *AnalysisHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/analyze/async", h.AnalyzeAsync)
		api.GET("/tasks/:id", h.TaskProgress)
		api.POST("/tasks/:id/cancel", h.CancelTask)
		api.GET("/impact/emergency", h.ImpactEmergency)
		api.GET("/impact/accessibility", h.ImpactAccessibility)
		api.GET("/impact/climate", h.ImpactClimate)
		api.GET("/runs", h.ListRuns)
		api.GET("/runs/:id", h.GetRun)
		api.DELETE("/runs/:id", h.DeleteRun)
		api.GET("/health", h.CheckHealth)
	}
}

// parseAnalyzeRequest читает параметры анализа из формы запроса
func (h *AnalysisHandler) parseAnalyzeRequest(c *gin.Context) (service.AnalyzeRequest, bool) {
	req := service.AnalyzeRequest{
		VideoRef:    c.PostForm("video_path"),
		SaveOverlay: true,
	}

	if req.VideoRef == "" {
		h.logger.Error("Отсутствует обязательный параметр video_path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Отсутствует обязательный параметр: video_path"})
		return req, false
	}

	if v := c.PostForm("save_overlay"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат save_overlay"})
			return req, false
		}
		req.SaveOverlay = parsed
	}

	if v := c.PostForm("conf_threshold"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conf_threshold должен быть числом от 0 до 1"})
			return req, false
		}
		req.ConfThreshold = parsed
	}

	if v := c.PostForm("smoothing_window"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "smoothing_window должен быть целым числом >= 1"})
			return req, false
		}
		req.SmoothingWindow = parsed
	}

	return req, true
}

// Analyze обрабатывает запрос на синхронный анализ видео
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	h.logger.Info("Получен запрос на синхронный анализ видео")

	req, ok := h.parseAnalyzeRequest(c)
	if !ok {
		return
	}

	result, err := h.analyzerService.Analyze(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorf("Ошибка анализа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка анализа видео"})
		return
	}

	h.logger.Info("Анализ видео завершен успешно")
	c.JSON(http.StatusOK, result)
}

// AnalyzeAsync регистрирует фоновую задачу анализа
func (h *AnalysisHandler) AnalyzeAsync(c *gin.Context) {
	h.logger.Info("Получен запрос на фоновый анализ видео")

	req, ok := h.parseAnalyzeRequest(c)
	if !ok {
		return
	}

	snapshot, err := h.analyzerService.SubmitAnalysis(req)
	if err != nil {
		h.logger.Errorf("Ошибка создания задачи: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Infof("Задача %s создана", snapshot.ID)
	c.JSON(http.StatusAccepted, snapshot)
}

// TaskProgress возвращает прогресс или результат задачи
func (h *AnalysisHandler) TaskProgress(c *gin.Context) {
	taskID := c.Param("id")

	snapshot, err := h.analyzerService.Progress(taskID)
	if err != nil {
		h.logger.Errorf("Задача не найдена: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Задача не найдена"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// CancelTask отменяет незавершенную задачу
func (h *AnalysisHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("id")
	h.logger.Infof("Получен запрос на отмену задачи %s", taskID)

	if err := h.analyzerService.CancelTask(taskID); err != nil {
		h.logger.Errorf("Ошибка отмены задачи: %v", err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Задача отменена"})
}

// ImpactEmergency возвращает оценку экстренной маршрутизации
func (h *AnalysisHandler) ImpactEmergency(c *gin.Context) {
	h.logger.Info("Получен запрос оценки экстренной маршрутизации")

	impact, err := h.analyzerService.ImpactEmergency(c.Request.Context(), c.Query("task_id"), c.Query("video_path"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, impact)
}

// ImpactAccessibility возвращает оценку доступности
func (h *AnalysisHandler) ImpactAccessibility(c *gin.Context) {
	h.logger.Info("Получен запрос оценки доступности")

	entranceBias := 0.0
	if v := c.Query("entrance_bias"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат entrance_bias"})
			return
		}
		entranceBias = parsed
	}

	impact, err := h.analyzerService.ImpactAccessibility(c.Request.Context(), c.Query("task_id"), c.Query("video_path"), entranceBias)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, impact)
}

// ImpactClimate возвращает климатическую оценку
func (h *AnalysisHandler) ImpactClimate(c *gin.Context) {
	h.logger.Info("Получен запрос климатической оценки")

	emissionFactor := 0.0
	if v := c.Query("emission_factor"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "emission_factor должен быть положительным числом"})
			return
		}
		emissionFactor = parsed
	}

	impact, err := h.analyzerService.ImpactClimate(c.Request.Context(), c.Query("task_id"), c.Query("video_path"), emissionFactor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, impact)
}

// ListRuns возвращает список сохраненных прогонов с пагинацией
func (h *AnalysisHandler) ListRuns(c *gin.Context) {
	h.logger.Info("Получен запрос на получение списка прогонов")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	runs, total, err := h.runService.ListRuns(page, size)
	if err != nil {
		h.logger.Errorf("Ошибка получения списка прогонов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка прогонов"})
		return
	}

	response := service.ListRunsResponse{
		Runs:  runs,
		Total: total,
		Page:  page,
		Size:  size,
	}

	h.logger.Infof("Возвращено %d прогонов из %d", len(runs), total)
	c.JSON(http.StatusOK, response)
}

// GetRun возвращает сохраненный прогон по ID
func (h *AnalysisHandler) GetRun(c *gin.Context) {
	runID := c.Param("id")
	h.logger.Infof("Получен запрос на получение прогона с ID: %s", runID)

	run, err := h.runService.GetRunByID(runID)
	if err != nil {
		h.logger.Errorf("Ошибка получения прогона: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Прогон не найден"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// DeleteRun удаляет сохраненный прогон по ID
func (h *AnalysisHandler) DeleteRun(c *gin.Context) {
	runID := c.Param("id")
	h.logger.Infof("Получен запрос на удаление прогона с ID: %s", runID)

	if err := h.runService.DeleteRun(runID); err != nil {
		h.logger.Errorf("Ошибка удаления прогона: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления прогона"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Прогон успешно удален"})
}

// CheckHealth проверяет состояние сервиса и его зависимостей
func (h *AnalysisHandler) CheckHealth(c *gin.Context) {
	h.logger.Debug("Получен запрос проверки здоровья сервиса")

	if err := h.analyzerService.CheckHealth(); err != nil {
		h.logger.Errorf("Сервис детекции недоступен: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Сервис детекции недоступен",
		})
		return
	}

	if err := database.HealthCheck(); err != nil {
		h.logger.Errorf("База данных недоступна: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "База данных недоступна",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Сервис работает нормально",
	})
}
