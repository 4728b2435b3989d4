package repository

import (
	"context"
	"errors"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrWindowNotFound signals that the requested time window does not
	// exist or is not owned by the requesting advisor.
	ErrWindowNotFound = errors.New("time window not found")
)

// WindowRepository defines the data access contract for time windows.
// All mutations are scoped by the owning advisor id.
type WindowRepository interface {
	Create(ctx context.Context, window *model.TimeWindow) error
	GetByID(ctx context.Context, advisorID, id int64) (*model.TimeWindow, error)
	ListByAdvisor(ctx context.Context, advisorID int64) ([]model.TimeWindow, error)
	Update(ctx context.Context, window *model.TimeWindow) error
	Delete(ctx context.Context, advisorID, id int64) error
}

type windowRepository struct {
	db *gorm.DB
}

// NewWindowRepository returns a GORM-backed WindowRepository.
func NewWindowRepository(db *gorm.DB) WindowRepository {
	return &windowRepository{db: db}
}

func (r *windowRepository) Create(ctx context.Context, window *model.TimeWindow) error {
	if err := r.db.WithContext(ctx).Create(window).Error; err != nil {
		return err
	}
	return nil
}

func (r *windowRepository) GetByID(ctx context.Context, advisorID, id int64) (*model.TimeWindow, error) {
	var window model.TimeWindow
	err := r.db.WithContext(ctx).
		Where("id = ? AND advisor_id = ?", id, advisorID).
		First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWindowNotFound
		}
		return nil, err
	}
	return &window, nil
}

func (r *windowRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.TimeWindow, error) {
	var result []model.TimeWindow
	err := r.db.WithContext(ctx).
		Where("advisor_id = ?", advisorID).
		Order("weekday, start_minute").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *windowRepository) Update(ctx context.Context, window *model.TimeWindow) error {
	result := r.db.WithContext(ctx).
		Model(&model.TimeWindow{}).
		Where("id = ? AND advisor_id = ?", window.ID, window.AdvisorID).
		Updates(map[string]interface{}{
			"weekday":      window.Weekday,
			"start_minute": window.StartMinute,
			"end_minute":   window.EndMinute,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWindowNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", window.ID).First(window).Error
}

func (r *windowRepository) Delete(ctx context.Context, advisorID, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND advisor_id = ?", id, advisorID).
		Delete(&model.TimeWindow{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWindowNotFound
	}
	return nil
}
