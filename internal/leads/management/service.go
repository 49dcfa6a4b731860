// Package management handles dashboard reads and status changes on leads.
package management

import (
	"context"
	"errors"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/internal/leads/transport"
	"leadportal_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management service.
type Repository interface {
	repository.LeadReader
	repository.LeadStatusUpdater
}

// Service handles lead management operations.
type Service struct {
	repo Repository
}

// New creates a new lead management service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// List returns a page of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Status:   req.Status,
		Search:   req.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return transport.LeadListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a lead to a new sales status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	status := domain.Status(req.Status)
	if !status.Valid() {
		return transport.LeadResponse{}, apperr.Validation("unknown status")
	}

	lead, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}
