package service

import (
	"context"
	"time"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

type mockLinkRepository struct {
	createFn        func(ctx context.Context, link *model.SchedulingLink) error
	getByTokenFn    func(ctx context.Context, token string) (*model.SchedulingLink, error)
	listByAdvisorFn func(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error)
	listAllFn       func(ctx context.Context) ([]model.SchedulingLink, error)
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.SchedulingLink) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) GetByToken(ctx context.Context, token string) (*model.SchedulingLink, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.SchedulingLink, error) {
	if m.listByAdvisorFn != nil {
		return m.listByAdvisorFn(ctx, advisorID)
	}
	return nil, nil
}

func (m *mockLinkRepository) ListAll(ctx context.Context) ([]model.SchedulingLink, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockWindowRepository struct {
	createFn        func(ctx context.Context, window *model.TimeWindow) error
	getByIDFn       func(ctx context.Context, advisorID, id int64) (*model.TimeWindow, error)
	listByAdvisorFn func(ctx context.Context, advisorID int64) ([]model.TimeWindow, error)
	updateFn        func(ctx context.Context, window *model.TimeWindow) error
	deleteFn        func(ctx context.Context, advisorID, id int64) error
}

func (m *mockWindowRepository) Create(ctx context.Context, window *model.TimeWindow) error {
	if m.createFn != nil {
		return m.createFn(ctx, window)
	}
	return nil
}

func (m *mockWindowRepository) GetByID(ctx context.Context, advisorID, id int64) (*model.TimeWindow, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, advisorID, id)
	}
	return nil, repository.ErrWindowNotFound
}

func (m *mockWindowRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.TimeWindow, error) {
	if m.listByAdvisorFn != nil {
		return m.listByAdvisorFn(ctx, advisorID)
	}
	return nil, nil
}

func (m *mockWindowRepository) Update(ctx context.Context, window *model.TimeWindow) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, window)
	}
	return nil
}

func (m *mockWindowRepository) Delete(ctx context.Context, advisorID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, advisorID, id)
	}
	return nil
}

type mockMeetingRepository struct {
	bookFn          func(ctx context.Context, meeting *model.Meeting) error
	listByLinkFn    func(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error)
	listByAdvisorFn func(ctx context.Context, advisorID int64) ([]model.Meeting, error)
}

func (m *mockMeetingRepository) Book(ctx context.Context, meeting *model.Meeting) error {
	if m.bookFn != nil {
		return m.bookFn(ctx, meeting)
	}
	return nil
}

func (m *mockMeetingRepository) ListByLink(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error) {
	if m.listByLinkFn != nil {
		return m.listByLinkFn(ctx, token, from, to)
	}
	return nil, nil
}

func (m *mockMeetingRepository) ListByAdvisor(ctx context.Context, advisorID int64) ([]model.Meeting, error) {
	if m.listByAdvisorFn != nil {
		return m.listByAdvisorFn(ctx, advisorID)
	}
	return nil, nil
}

type mockAdvisorRepository struct {
	createFn     func(ctx context.Context, advisor *model.Advisor) error
	getByIDFn    func(ctx context.Context, id int64) (*model.Advisor, error)
	getByEmailFn func(ctx context.Context, email string) (*model.Advisor, error)
}

func (m *mockAdvisorRepository) Create(ctx context.Context, advisor *model.Advisor) error {
	if m.createFn != nil {
		return m.createFn(ctx, advisor)
	}
	return nil
}

func (m *mockAdvisorRepository) GetByID(ctx context.Context, id int64) (*model.Advisor, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrAdvisorNotFound
}

func (m *mockAdvisorRepository) GetByEmail(ctx context.Context, email string) (*model.Advisor, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, repository.ErrAdvisorNotFound
}
