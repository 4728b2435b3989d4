package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrLinkExpired signals that the link's expiration timestamp has passed.
	ErrLinkExpired = errors.New("scheduling link expired")
	// ErrLinkExhausted signals that the link's usage limit is consumed.
	ErrLinkExhausted = errors.New("scheduling link usage limit reached")
	// ErrSlotTaken signals that an existing meeting overlaps the candidate slot.
	ErrSlotTaken = errors.New("slot overlaps an existing meeting")
)

// MeetingRepository defines the data access contract for meetings, including
// the atomic booking unit.
type MeetingRepository interface {
	// Book validates link policy and conflict-freedom and inserts the
	// meeting as one transaction. The link row is locked for the duration,
	// so concurrent bookings on the same link serialize here.
	Book(ctx context.Context, meeting *model.Meeting) error
	ListByLink(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error)
	ListByAdvisor(ctx context.Context, advisorID int64) ([]model.Meeting, error)
}

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository returns a GORM-backed MeetingRepository.
func NewMeetingRepository(db *gorm.DB) MeetingRepository {
	return &meetingRepository{db: db}
}

// Book runs the check-then-insert sequence inside a single transaction with
// the link row locked FOR UPDATE. Precondition order: link exists, not
// expired, usage remaining, slot free. The usage decrement carries its own
// usage_limit > 0 guard so the counter can never go negative.
func (r *meetingRepository) Book(ctx context.Context, meeting *model.Meeting) error {
	now := time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link model.SchedulingLink
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", meeting.LinkToken).
			First(&link).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLinkNotFound
			}
			return err
		}

		if link.Expired(now) {
			return ErrLinkExpired
		}
		if link.Exhausted() {
			return ErrLinkExhausted
		}

		var overlapping int64
		err = tx.Model(&model.Meeting{}).
			Where("link_token = ? AND start_time < ? AND end_time > ?",
				meeting.LinkToken, meeting.EndTime, meeting.StartTime).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrSlotTaken
		}

		meeting.AdvisorID = link.AdvisorID
		if err := tx.Create(meeting).Error; err != nil {
			return err
		}

		if link.UsageLimit != nil {
			result := tx.Model(&model.SchedulingLink{}).
				Where("id = ? AND usage_limit > 0", link.ID).
				UpdateColumn("usage_limit", gorm.Expr("usage_limit - 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrLinkExhausted
			}
		}

		return nil
	})
}

func (r *meetingRepository) ListByLink(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error) {
	var result []model.Meeting
	err := r.db.WithContext(ctx).
		Where("link_token = ? AND start_time < ? AND end_time > ?", token, to, from).
		Order("start_time").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *meetingRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.Meeting, error) {
	var result []model.Meeting
	err := r.db.WithContext(ctx).
		Where("advisor_id = ?", advisorID).
		Order("start_time DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
