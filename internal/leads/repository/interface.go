package repository

import (
	"context"

	"leadportal_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// LeadWriter stores new leads.
type LeadWriter interface {
	Insert(ctx context.Context, rec domain.LeadRecord) (domain.LeadRecord, error)
}

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error)
	List(ctx context.Context, params ListParams) ([]domain.LeadRecord, int, error)
}

// LeadStatusUpdater changes the sales status of a lead.
type LeadStatusUpdater interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (domain.LeadRecord, error)
}

// LeadDeleter provides the primitives behind each deletion strategy.
type LeadDeleter interface {
	DeleteAsAdmin(ctx context.Context, id uuid.UUID) error
	DeleteAsCaller(ctx context.Context, id uuid.UUID, caller domain.Caller) error
	DeleteViaFunction(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID, tomb domain.Tombstone) error
}

// LeadsRepository is the full lead store.
type LeadsRepository interface {
	LeadWriter
	LeadReader
	LeadStatusUpdater
	LeadDeleter
}

var _ LeadsRepository = (*Repository)(nil)
