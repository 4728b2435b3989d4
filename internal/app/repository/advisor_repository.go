package repository

import (
	"context"
	"errors"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrAdvisorNotFound signals that the requested advisor does not exist.
	ErrAdvisorNotFound = errors.New("advisor not found")
)

// AdvisorRepository defines the data access contract for advisors.
type AdvisorRepository interface {
	Create(ctx context.Context, advisor *model.Advisor) error
	GetByID(ctx context.Context, id int64) (*model.Advisor, error)
	GetByEmail(ctx context.Context, email string) (*model.Advisor, error)
}

type advisorRepository struct {
	db *gorm.DB
}

// NewAdvisorRepository returns a GORM-backed AdvisorRepository.
func NewAdvisorRepository(db *gorm.DB) AdvisorRepository {
	return &advisorRepository{db: db}
}

func (r *advisorRepository) Create(ctx context.Context, advisor *model.Advisor) error {
	if err := r.db.WithContext(ctx).Create(advisor).Error; err != nil {
		return err
	}
	return nil
}

func (r *advisorRepository) GetByID(ctx context.Context, id int64) (*model.Advisor, error) {
	var advisor model.Advisor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&advisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdvisorNotFound
		}
		return nil, err
	}
	return &advisor, nil
}

func (r *advisorRepository) GetByEmail(ctx context.Context, email string) (*model.Advisor, error) {
	var advisor model.Advisor
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&advisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdvisorNotFound
		}
		return nil, err
	}
	return &advisor, nil
}
