package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

// AdvisorService defines behaviour-level operations on advisors.
type AdvisorService interface {
	// Register returns the advisor for the given email, creating it on
	// first contact. The id is immutable once assigned.
	Register(ctx context.Context, name, email string) (*model.Advisor, error)
	Get(ctx context.Context, id int64) (*model.Advisor, error)
}

type advisorService struct {
	repo repository.AdvisorRepository
}

// NewAdvisorService returns a service implementation backed by the given
// repository.
func NewAdvisorService(repo repository.AdvisorRepository) AdvisorService {
	return &advisorService{repo: repo}
}

func (s *advisorService) Register(ctx context.Context, name, email string) (*model.Advisor, error) {
	if email == "" {
		return nil, ErrInvalidArgument
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrAdvisorNotFound) {
		return nil, fmt.Errorf("lookup advisor: %w", err)
	}

	advisor := &model.Advisor{Name: name, Email: email}
	if err := s.repo.Create(ctx, advisor); err != nil {
		return nil, fmt.Errorf("create advisor: %w", err)
	}
	return advisor, nil
}

func (s *advisorService) Get(ctx context.Context, id int64) (*model.Advisor, error) {
	advisor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return advisor, nil
}
