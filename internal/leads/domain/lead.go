// Package domain holds the lead types shared by every stage of the intake
// pipeline and by the dashboard operations.
package domain

import (
	"strings"
	"time"

	"leadportal_backend/platform/phone"

	"github.com/google/uuid"
)

// CountryUnknown is stored when the country could not be resolved.
const CountryUnknown = "Unknown"

// Record defaults applied at intake.
const (
	DefaultLocale     = "en"
	DefaultScore      = 3
	OriginWebsiteForm = "website_form"
)

// Status is the sales state of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusProposal  Status = "proposal"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusProposal, StatusWon, StatusLost:
		return true
	}
	return false
}

// Priority is the triage priority of a lead.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// LeadSubmission is a validated form submission with defaults applied.
type LeadSubmission struct {
	Name        string
	Email       string
	Company     *string
	Phone       *string
	Message     string
	Source      *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	Referrer    *string
	Locale      string
	ProductSlug *string
	Category    *string
	GDPRConsent bool
}

// RequestMeta is the raw request context the enricher works from.
type RequestMeta struct {
	ForwardedFor string
	RealIP       string
	UserAgent    string
	Referer      string
	Origin       string
}

// EnrichedContext is metadata derived from the request, never from the user.
type EnrichedContext struct {
	IPAddress *string
	UserAgent string
	Country   string
	Referrer  string
}

// LeadMeta is the free-form meta column.
type LeadMeta struct {
	UserAgent string `json:"user_agent"`
	Origin    string `json:"origin"`
	PhoneE164 string `json:"phone_e164,omitempty"`
}

// LeadRecord is the stored lead.
type LeadRecord struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Email       string
	Company     *string
	Phone       *string
	Message     string
	Source      *string
	UTMSource   *string
	UTMMedium   *string
	UTMCampaign *string
	Referrer    *string
	Locale      string
	ProductSlug *string
	Category    *string
	IPAddress   *string
	UserAgent   *string
	Country     string
	Priority    Priority
	Score       int
	Status      Status
	Meta        LeadMeta
	Tags        []string
	GDPRConsent bool
	Deleted     bool
}

// NewLeadRecord combines a submission and its enrichment into a record
// carrying the system defaults. ID and timestamps are assigned by storage.
func NewLeadRecord(sub LeadSubmission, enr EnrichedContext) LeadRecord {
	country := strings.TrimSpace(enr.Country)
	if country == "" {
		country = CountryUnknown
	}

	rec := LeadRecord{
		Name:        sub.Name,
		Email:       sub.Email,
		Company:     sub.Company,
		Phone:       sub.Phone,
		Message:     sub.Message,
		Source:      sub.Source,
		UTMSource:   sub.UTMSource,
		UTMMedium:   sub.UTMMedium,
		UTMCampaign: sub.UTMCampaign,
		Locale:      sub.Locale,
		ProductSlug: sub.ProductSlug,
		Category:    sub.Category,
		IPAddress:   enr.IPAddress,
		Country:     country,
		Priority:    PriorityNormal,
		Score:       DefaultScore,
		Status:      StatusNew,
		Meta:        LeadMeta{UserAgent: enr.UserAgent, Origin: OriginWebsiteForm},
		Tags:        []string{},
		GDPRConsent: sub.GDPRConsent,
		Deleted:     false,
	}
	if rec.Locale == "" {
		rec.Locale = DefaultLocale
	}
	if enr.Referrer != "" {
		ref := enr.Referrer
		rec.Referrer = &ref
	}
	if enr.UserAgent != "" {
		ua := enr.UserAgent
		rec.UserAgent = &ua
	}
	if sub.Phone != nil {
		if e164, ok := phone.NormalizeE164(*sub.Phone); ok {
			rec.Meta.PhoneE164 = e164
		}
	}
	return rec
}
