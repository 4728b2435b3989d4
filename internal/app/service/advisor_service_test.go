package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jmadden452/SlotLink/internal/app/model"
	"github.com/jmadden452/SlotLink/internal/app/repository"
)

func TestAdvisorService_Register_CreatesOnFirstContact(t *testing.T) {
	created := false
	repo := &mockAdvisorRepository{
		createFn: func(ctx context.Context, advisor *model.Advisor) error {
			created = true
			advisor.ID = 1
			return nil
		},
	}

	svc := NewAdvisorService(repo)
	advisor, err := svc.Register(context.Background(), "Dana", "dana@example.com")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !created {
		t.Fatal("expected advisor to be created")
	}
	if advisor.ID != 1 {
		t.Fatalf("expected persisted id, got %d", advisor.ID)
	}
}

func TestAdvisorService_Register_IdempotentByEmail(t *testing.T) {
	repo := &mockAdvisorRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.Advisor, error) {
			return &model.Advisor{ID: 3, Name: "Dana", Email: email}, nil
		},
		createFn: func(ctx context.Context, advisor *model.Advisor) error {
			t.Fatal("expected no create for a known email")
			return nil
		},
	}

	svc := NewAdvisorService(repo)
	advisor, err := svc.Register(context.Background(), "Renamed", "dana@example.com")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if advisor.ID != 3 {
		t.Fatalf("expected existing advisor id 3, got %d", advisor.ID)
	}
}

func TestAdvisorService_Register_RequiresEmail(t *testing.T) {
	svc := NewAdvisorService(&mockAdvisorRepository{})
	if _, err := svc.Register(context.Background(), "Dana", ""); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAdvisorService_Get_NotFound(t *testing.T) {
	svc := NewAdvisorService(&mockAdvisorRepository{})
	if _, err := svc.Get(context.Background(), 42); !errors.Is(err, repository.ErrAdvisorNotFound) {
		t.Fatalf("expected ErrAdvisorNotFound, got %v", err)
	}
}
