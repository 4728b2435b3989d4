package repository

import (
	"context"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"gorm.io/gorm"
)

// BookingEventRepository defines the data access contract for booking
// notification events.
type BookingEventRepository interface {
	Create(ctx context.Context, event *model.BookingEvent) error
	UpdateStatus(ctx context.Context, id string, status string) error
	UpdateExpiredPendingStatus(ctx context.Context, expiredBefore time.Time) (int64, error)
}

type bookingEventRepository struct {
	db *gorm.DB
}

// NewBookingEventRepository returns a GORM-backed BookingEventRepository.
func NewBookingEventRepository(db *gorm.DB) BookingEventRepository {
	return &bookingEventRepository{db: db}
}

func (r *bookingEventRepository) Create(ctx context.Context, event *model.BookingEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *bookingEventRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).Model(&model.BookingEvent{}).Where("id = ?", id).Update("status", status).Error
}

func (r *bookingEventRepository) UpdateExpiredPendingStatus(ctx context.Context, expiredBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.BookingEvent{}).
		Where("status = ? AND timestamp < ?", model.BookingEventPending, expiredBefore).
		Update("status", model.BookingEventFailed)
	return result.RowsAffected, result.Error
}
