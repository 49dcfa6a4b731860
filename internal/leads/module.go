// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	apphttp "leadportal_backend/internal/http"
	"leadportal_backend/internal/leads/deletion"
	"leadportal_backend/internal/leads/handler"
	"leadportal_backend/internal/leads/intake"
	"leadportal_backend/internal/leads/management"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/platform/config"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/metrics"
	"leadportal_backend/platform/validator"
)

// ModuleConfig is the configuration the leads module reads.
type ModuleConfig interface {
	config.LeadNotificationConfig
	GetDatabaseCallerRole() string
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	intake        *intake.Service
	deletion      *deletion.Service
	management    *management.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(
	db repository.DBTX,
	geo intake.GeoLocator,
	notifier intake.LeadNotifier,
	val *validator.Validator,
	cfg ModuleConfig,
	log *logger.Logger,
	m *metrics.LeadMetrics,
) *Module {
	repo := repository.New(db, cfg.GetDatabaseCallerRole())

	intakeSvc := intake.New(
		intake.NewValidator(val),
		intake.NewEnricher(geo, log, m),
		repo,
		notifier,
		cfg.GetNotifyTimeout(),
		log,
		m,
	)
	deletionSvc := deletion.New(repo, log, m)
	mgmtSvc := management.New(repo)

	return &Module{
		handler:       handler.New(mgmtSvc, deletionSvc, val),
		publicHandler: handler.NewPublicHandler(intakeSvc),
		intake:        intakeSvc,
		deletion:      deletionSvc,
		management:    mgmtSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// IntakeService exposes the submission pipeline.
func (m *Module) IntakeService() *intake.Service {
	return m.intake
}

// DeletionService exposes the deletion cascade.
func (m *Module) DeletionService() *deletion.Service {
	return m.deletion
}

// RegisterRoutes mounts leads routes on the provided router context.
// The public form endpoint is reachable both at the site root (where the
// website form posts) and under /api/v1.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.publicHandler.RegisterRoutes(ctx.Engine, ctx.PublicRateLimit)
	m.publicHandler.RegisterRoutes(ctx.V1, ctx.PublicRateLimit)

	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}
