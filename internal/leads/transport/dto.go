package transport

import (
	"time"

	"github.com/google/uuid"
)

// LeadIntakeRequest is the public website form body. Field constraints are
// enforced by the intake validator after trimming.
type LeadIntakeRequest struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Company     *string `json:"company,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Message     string  `json:"message"`
	Source      *string `json:"source,omitempty"`
	UTMSource   *string `json:"utmSource,omitempty"`
	UTMMedium   *string `json:"utmMedium,omitempty"`
	UTMCampaign *string `json:"utmCampaign,omitempty"`
	Referrer    *string `json:"referrer,omitempty"`
	Locale      *string `json:"locale,omitempty"`
	ProductSlug *string `json:"productSlug,omitempty"`
	Category    *string `json:"category,omitempty"`
	GDPRConsent *bool   `json:"gdprConsent,omitempty"`
}

// LeadIntakeResponse is returned when a lead was stored.
type LeadIntakeResponse struct {
	OK bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}

// DeleteLeadResponse names the strategy that removed the lead.
type DeleteLeadResponse struct {
	OK     bool   `json:"ok"`
	Method string `json:"method"`
}

// UpdateLeadStatusRequest changes the sales status from the dashboard.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified proposal won lost"`
}

// ListLeadsRequest holds dashboard list filters.
type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Search   string `form:"search" validate:"omitempty,max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// LeadResponse is the dashboard view of a lead.
type LeadResponse struct {
	ID          uuid.UUID      `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Company     *string        `json:"company,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Message     string         `json:"message"`
	Source      *string        `json:"source,omitempty"`
	UTMSource   *string        `json:"utmSource,omitempty"`
	UTMMedium   *string        `json:"utmMedium,omitempty"`
	UTMCampaign *string        `json:"utmCampaign,omitempty"`
	Referrer    *string        `json:"referrer,omitempty"`
	Locale      string         `json:"locale"`
	ProductSlug *string        `json:"productSlug,omitempty"`
	Category    *string        `json:"category,omitempty"`
	IPAddress   *string        `json:"ipAddress,omitempty"`
	Country     string         `json:"country"`
	Priority    string         `json:"priority"`
	Score       int            `json:"score"`
	Status      string         `json:"status"`
	Meta        map[string]any `json:"meta"`
	Tags        []string       `json:"tags"`
	GDPRConsent bool           `json:"gdprConsent"`
}

// LeadListResponse is a page of leads.
type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
