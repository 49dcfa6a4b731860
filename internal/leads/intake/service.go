package intake

import (
	"context"
	"time"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/repository"
	"leadportal_backend/internal/leads/transport"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/metrics"
)

// LeadNotifier delivers the new-lead notification.
type LeadNotifier interface {
	Notify(ctx context.Context, rec domain.LeadRecord) error
}

// Service runs one submission through validate, enrich, persist and notify
// in that order.
type Service struct {
	validator     *Validator
	enricher      *Enricher
	repo          repository.LeadWriter
	notifier      LeadNotifier
	notifyTimeout time.Duration
	log           *logger.Logger
	metrics       *metrics.LeadMetrics
}

func New(
	validator *Validator,
	enricher *Enricher,
	repo repository.LeadWriter,
	notifier LeadNotifier,
	notifyTimeout time.Duration,
	log *logger.Logger,
	m *metrics.LeadMetrics,
) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Service{
		validator:     validator,
		enricher:      enricher,
		repo:          repo,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		log:           log,
		metrics:       m,
	}
}

// Submit stores a lead. Only *domain.ValidationError and
// *domain.PersistenceError are returned; enrichment and notification
// failures are logged and the stored record is still returned.
func (s *Service) Submit(ctx context.Context, req transport.LeadIntakeRequest, meta domain.RequestMeta) (domain.LeadRecord, error) {
	sub, err := s.validator.Validate(req)
	if err != nil {
		s.metrics.ObserveIntake(metrics.OutcomeInvalid)
		return domain.LeadRecord{}, err
	}

	enriched := s.enricher.Enrich(ctx, sub, meta)

	rec, err := s.repo.Insert(ctx, domain.NewLeadRecord(sub, enriched))
	if err != nil {
		s.metrics.ObserveIntake(metrics.OutcomePersistFailed)
		s.log.WithContext(ctx).DatabaseError("leads.insert", err)
		return domain.LeadRecord{}, &domain.PersistenceError{Err: err}
	}
	s.metrics.ObserveIntake(metrics.OutcomeAccepted)
	s.log.WithContext(ctx).LeadCaptured(rec.ID.String(), rec.Country, deref(rec.Source))

	s.notify(ctx, rec)
	return rec, nil
}

// notify runs after the insert committed. A client disconnect must not
// cancel it, so it gets its own deadline.
func (s *Service) notify(ctx context.Context, rec domain.LeadRecord) {
	if s.notifier == nil {
		return
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(notifyCtx, rec); err != nil {
		s.metrics.ObserveNotification(metrics.OutcomeFailed)
		s.log.WithContext(ctx).NotificationFailed(rec.ID.String(), err)
		return
	}
	s.metrics.ObserveNotification(metrics.OutcomeSent)
}
