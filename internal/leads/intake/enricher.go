package intake

import (
	"context"
	"net"
	"strings"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/platform/logger"
	"leadportal_backend/platform/metrics"
)

// GeoLocator resolves an IP address to a country name.
type GeoLocator interface {
	LookupCountry(ctx context.Context, ip string) (string, error)
}

// Enricher derives request metadata for a submission. It never fails.
type Enricher struct {
	geo     GeoLocator
	log     *logger.Logger
	metrics *metrics.LeadMetrics
}

func NewEnricher(geo GeoLocator, log *logger.Logger, m *metrics.LeadMetrics) *Enricher {
	return &Enricher{geo: geo, log: log, metrics: m}
}

// Enrich resolves address, country and effective referrer. The geolocation
// API is called at most once.
func (e *Enricher) Enrich(ctx context.Context, sub domain.LeadSubmission, meta domain.RequestMeta) domain.EnrichedContext {
	out := domain.EnrichedContext{
		UserAgent: strings.TrimSpace(meta.UserAgent),
		Country:   domain.CountryUnknown,
		Referrer:  EffectiveReferrer(sub, meta),
	}

	ip, ok := ClientIP(meta)
	if !ok {
		e.metrics.ObserveGeoLookup(metrics.OutcomeSkipped)
		return out
	}
	out.IPAddress = &ip

	if e.geo == nil {
		e.metrics.ObserveGeoLookup(metrics.OutcomeSkipped)
		return out
	}

	country, err := e.geo.LookupCountry(ctx, ip)
	if err != nil {
		failure := &domain.EnrichmentFailure{IP: ip, Err: err}
		e.log.WithContext(ctx).EnrichmentFailed(ip, failure)
		e.metrics.ObserveGeoLookup(metrics.OutcomeUnknown)
		return out
	}
	if country = strings.TrimSpace(country); country == "" {
		e.metrics.ObserveGeoLookup(metrics.OutcomeUnknown)
		return out
	}

	out.Country = country
	e.metrics.ObserveGeoLookup(metrics.OutcomeResolved)
	return out
}

// ClientIP takes the first X-Forwarded-For entry, falling back to X-Real-IP.
// The value must parse as an IP address.
func ClientIP(meta domain.RequestMeta) (string, bool) {
	candidate := ""
	if meta.ForwardedFor != "" {
		candidate = strings.TrimSpace(strings.Split(meta.ForwardedFor, ",")[0])
	}
	if candidate == "" {
		candidate = strings.TrimSpace(meta.RealIP)
	}
	if candidate == "" {
		return "", false
	}
	ip := net.ParseIP(candidate)
	if ip == nil {
		return "", false
	}
	return ip.String(), true
}

// EffectiveReferrer picks the submitted referrer, then the Referer header,
// then the request origin.
func EffectiveReferrer(sub domain.LeadSubmission, meta domain.RequestMeta) string {
	if sub.Referrer != nil && strings.TrimSpace(*sub.Referrer) != "" {
		return *sub.Referrer
	}
	if ref := strings.TrimSpace(meta.Referer); ref != "" {
		return ref
	}
	return meta.Origin
}
