package repository

import (
	"fmt"

	"traffic-intel-go/internal/model"

	"gorm.io/gorm"
)

// RunRepository интерфейс для работы с прогонами анализа
type RunRepository interface {
	Create(run *model.AnalysisRun) error
	GetByID(id string) (*model.AnalysisRun, error)
	List(page, pageSize int) ([]*model.AnalysisRun, int64, error)
	Delete(id string) error
}

// runRepository реализация RunRepository
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository создает новый instance RunRepository
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{
		db: db,
	}
}

// Create создает прогон анализа вместе с записью аудита
func (r *runRepository) Create(run *model.AnalysisRun) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	audit := run.Audit
	run.Audit = nil
	if err := tx.Create(run).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	if audit != nil {
		audit.ID = 0 // Обнуляем ID для auto-increment
		audit.RunID = run.ID
		if err := tx.Create(audit).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create decision audit: %w", err)
		}
		run.Audit = audit
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID получает прогон анализа по ID
func (r *runRepository) GetByID(id string) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.Preload("Audit").Where("id = ?", id).First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("analysis run with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}
	return &run, nil
}

// List получает список прогонов с пагинацией
func (r *runRepository) List(page, pageSize int) ([]*model.AnalysisRun, int64, error) {
	var runs []*model.AnalysisRun
	var total int64

	// Подсчитываем общее количество
	if err := r.db.Model(&model.AnalysisRun{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analysis runs: %w", err)
	}

	// Получаем прогоны с пагинацией
	offset := (page - 1) * pageSize
	err := r.db.Preload("Audit").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&runs).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analysis runs: %w", err)
	}

	return runs, total, nil
}

// Delete удаляет прогон анализа по ID
func (r *runRepository) Delete(id string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Сначала удаляем запись аудита
	if err := tx.Where("run_id = ?", id).Delete(&model.DecisionAudit{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete decision audit: %w", err)
	}

	result := tx.Where("id = ?", id).Delete(&model.AnalysisRun{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete analysis run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("analysis run with id %s not found", id)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
