// Package deletion removes leads through an escalating list of strategies,
// stopping at the first one that succeeds.
package deletion

import (
	"context"
	"fmt"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/platform/apperr"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/metrics"

	"github.com/google/uuid"
)

// Repository is what the deletion strategies need from storage.
type Repository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	repository.LeadDeleter
}

// Strategy is one way of removing a lead.
type Strategy struct {
	Method domain.DeleteMethod
	Run    func(ctx context.Context, id uuid.UUID, caller domain.Caller) error
}

// Service runs the strategies in order.
type Service struct {
	repo       Repository
	strategies []Strategy
	log        *logger.Logger
	metrics    *metrics.LeadMetrics
}

func New(repo Repository, log *logger.Logger, m *metrics.LeadMetrics) *Service {
	return &Service{
		repo:       repo,
		strategies: DefaultStrategies(repo),
		log:        log,
		metrics:    m,
	}
}

// DefaultStrategies returns the standard escalation: elevated delete,
// caller delete, stored function, then soft delete.
func DefaultStrategies(repo repository.LeadDeleter) []Strategy {
	return []Strategy{
		{
			Method: domain.DeleteAdminDirect,
			Run: func(ctx context.Context, id uuid.UUID, _ domain.Caller) error {
				return repo.DeleteAsAdmin(ctx, id)
			},
		},
		{
			Method: domain.DeleteRegularClient,
			Run:    repo.DeleteAsCaller,
		},
		{
			Method: domain.DeleteRPCFunction,
			Run: func(ctx context.Context, id uuid.UUID, _ domain.Caller) error {
				return repo.DeleteViaFunction(ctx, id)
			},
		},
		{
			Method: domain.DeleteSoft,
			Run: func(ctx context.Context, id uuid.UUID, _ domain.Caller) error {
				return repo.SoftDelete(ctx, id, domain.NewTombstone(id))
			},
		},
	}
}

// Delete returns the method that removed the lead. A missing lead is a
// not-found error; when every strategy fails the error is a
// *domain.DeletionExhausted listing each failure.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller domain.Caller) (domain.DeleteMethod, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("check lead: %w", err)
	}
	if !exists {
		return "", apperr.NotFound("lead not found")
	}

	log := s.log.WithContext(ctx)
	failures := make([]domain.DeletionAttempt, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		err := strategy.Run(ctx, id, caller)
		log.DeletionAttempt(id.String(), string(strategy.Method), err)
		s.metrics.ObserveDeletion(string(strategy.Method), err == nil)
		if err == nil {
			return strategy.Method, nil
		}
		failures = append(failures, domain.DeletionAttempt{Method: strategy.Method, Err: err})
	}

	return "", &domain.DeletionExhausted{Attempts: failures}
}
