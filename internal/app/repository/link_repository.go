package repository

import (
	"context"
	"errors"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested scheduling link does not exist.
	ErrLinkNotFound = errors.New("scheduling link not found")
)

// LinkRepository defines the data access contract for scheduling links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.SchedulingLink) error
	GetByToken(ctx context.Context, token string) (*model.SchedulingLink, error)
	ListByAdvisor(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error)
	ListAll(ctx context.Context) ([]model.SchedulingLink, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.SchedulingLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return err
	}
	return nil
}

func (r *linkRepository) GetByToken(ctx context.Context, token string) (*model.SchedulingLink, error) {
	var link model.SchedulingLink
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error) {
	var result []model.SchedulingLink
	err := r.db.WithContext(ctx).
		Where("advisor_id = ?", advisorID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *linkRepository) ListAll(ctx context.Context) ([]model.SchedulingLink, error) {
	var result []model.SchedulingLink
	err := r.db.WithContext(ctx).
		Order("advisor_id, created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
