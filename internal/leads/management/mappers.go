package management

import (
	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/transport"
)

// ToLeadResponse converts a stored lead to its dashboard representation.
func ToLeadResponse(lead domain.LeadRecord) transport.LeadResponse {
	meta := map[string]any{
		"user_agent": lead.Meta.UserAgent,
		"origin":     lead.Meta.Origin,
	}
	if lead.Meta.PhoneE164 != "" {
		meta["phone_e164"] = lead.Meta.PhoneE164
	}
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}

	return transport.LeadResponse{
		ID:          lead.ID,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
		Name:        lead.Name,
		Email:       lead.Email,
		Company:     lead.Company,
		Phone:       lead.Phone,
		Message:     lead.Message,
		Source:      lead.Source,
		UTMSource:   lead.UTMSource,
		UTMMedium:   lead.UTMMedium,
		UTMCampaign: lead.UTMCampaign,
		Referrer:    lead.Referrer,
		Locale:      lead.Locale,
		ProductSlug: lead.ProductSlug,
		Category:    lead.Category,
		IPAddress:   lead.IPAddress,
		Country:     lead.Country,
		Priority:    string(lead.Priority),
		Score:       lead.Score,
		Status:      string(lead.Status),
		Meta:        meta,
		Tags:        tags,
		GDPRConsent: lead.GDPRConsent,
	}
}
