package service

import (
	"context"
	"fmt"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

const minutesPerDay = 24 * 60

// WindowService defines behaviour-level operations on recurring availability
// windows. Every operation is scoped to the owning advisor.
type WindowService interface {
	CreateWindow(ctx context.Context, advisorID int64, input WindowInput) (*model.TimeWindow, error)
	ListWindows(ctx context.Context, advisorID int64) ([]model.TimeWindow, error)
	UpdateWindow(ctx context.Context, advisorID, windowID int64, input WindowUpdateInput) (*model.TimeWindow, error)
	DeleteWindow(ctx context.Context, advisorID, windowID int64) error
}

// WindowInput captures data required to create a window.
type WindowInput struct {
	Weekday     int
	StartMinute int
	EndMinute   int
}

// WindowUpdateInput captures fields that can be changed on an existing window.
type WindowUpdateInput struct {
	Weekday     *int
	StartMinute *int
	EndMinute   *int
}

type windowService struct {
	repo repository.WindowRepository
}

// NewWindowService returns a service implementation backed by the given
// repository.
func NewWindowService(repo repository.WindowRepository) WindowService {
	return &windowService{repo: repo}
}

func (s *windowService) CreateWindow(ctx context.Context, advisorID int64, input WindowInput) (*model.TimeWindow, error) {
	if err := validateWindow(input.Weekday, input.StartMinute, input.EndMinute); err != nil {
		return nil, err
	}

	window := &model.TimeWindow{
		AdvisorID:   advisorID,
		Weekday:     input.Weekday,
		StartMinute: input.StartMinute,
		EndMinute:   input.EndMinute,
	}

	if err := s.repo.Create(ctx, window); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	return window, nil
}

func (s *windowService) ListWindows(ctx context.Context, advisorID int64) ([]model.TimeWindow, error) {
	windows, err := s.repo.ListByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return windows, nil
}

func (s *windowService) UpdateWindow(ctx context.Context, advisorID, windowID int64, input WindowUpdateInput) (*model.TimeWindow, error) {
	window, err := s.repo.GetByID(ctx, advisorID, windowID)
	if err != nil {
		return nil, err
	}

	if input.Weekday != nil {
		window.Weekday = *input.Weekday
	}
	if input.StartMinute != nil {
		window.StartMinute = *input.StartMinute
	}
	if input.EndMinute != nil {
		window.EndMinute = *input.EndMinute
	}

	if err := validateWindow(window.Weekday, window.StartMinute, window.EndMinute); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, window); err != nil {
		return nil, fmt.Errorf("update window: %w", err)
	}
	return window, nil
}

func (s *windowService) DeleteWindow(ctx context.Context, advisorID, windowID int64) error {
	if err := s.repo.Delete(ctx, advisorID, windowID); err != nil {
		return err
	}
	return nil
}

func validateWindow(weekday, start, end int) error {
	if weekday < 0 || weekday > 6 {
		return ErrInvalidArgument
	}
	if start < 0 || end > minutesPerDay {
		return ErrInvalidArgument
	}
	if start >= end {
		return ErrInvalidRange
	}
	return nil
}
