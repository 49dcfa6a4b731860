// Package intake implements the public lead submission pipeline:
// validate, enrich, persist, notify.
package intake

import (
	"strings"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/transport"
	"leadportal_backend/platform/validator"
)

// submissionInput is the trimmed form used for constraint checks.
type submissionInput struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Company     string `json:"company" validate:"omitempty,max=200"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Message     string `json:"message" validate:"required,min=10,max=5000"`
	Source      string `json:"source" validate:"omitempty,max=100"`
	UTMSource   string `json:"utmSource" validate:"omitempty,max=200"`
	UTMMedium   string `json:"utmMedium" validate:"omitempty,max=200"`
	UTMCampaign string `json:"utmCampaign" validate:"omitempty,max=200"`
	Referrer    string `json:"referrer" validate:"omitempty,max=2048"`
	Locale      string `json:"locale" validate:"omitempty,max=35,bcp47"`
	ProductSlug string `json:"productSlug" validate:"omitempty,max=200"`
	Category    string `json:"category" validate:"omitempty,max=200"`
}

// Validator checks a raw submission and applies defaults. It has no side effects.
type Validator struct {
	val *validator.Validator
}

func NewValidator(val *validator.Validator) *Validator {
	return &Validator{val: val}
}

// Validate returns the normalized submission or a *domain.ValidationError.
func (v *Validator) Validate(req transport.LeadIntakeRequest) (domain.LeadSubmission, error) {
	in := submissionInput{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Company:     trimmed(req.Company),
		Phone:       trimmed(req.Phone),
		Message:     strings.TrimSpace(req.Message),
		Source:      trimmed(req.Source),
		UTMSource:   trimmed(req.UTMSource),
		UTMMedium:   trimmed(req.UTMMedium),
		UTMCampaign: trimmed(req.UTMCampaign),
		Referrer:    trimmed(req.Referrer),
		Locale:      trimmed(req.Locale),
		ProductSlug: trimmed(req.ProductSlug),
		Category:    trimmed(req.Category),
	}

	if err := v.val.Struct(in); err != nil {
		fields := validator.FieldErrors(err)
		if fields == nil {
			fields = map[string]string{"body": err.Error()}
		}
		return domain.LeadSubmission{}, &domain.ValidationError{Fields: fields}
	}

	sub := domain.LeadSubmission{
		Name:        in.Name,
		Email:       in.Email,
		Company:     present(req.Company),
		Phone:       present(req.Phone),
		Message:     in.Message,
		Source:      present(req.Source),
		UTMSource:   present(req.UTMSource),
		UTMMedium:   present(req.UTMMedium),
		UTMCampaign: present(req.UTMCampaign),
		Referrer:    present(req.Referrer),
		Locale:      domain.DefaultLocale,
		ProductSlug: present(req.ProductSlug),
		Category:    present(req.Category),
		// Consent is assumed when the form does not send the field.
		GDPRConsent: true,
	}
	if in.Locale != "" {
		sub.Locale = in.Locale
	}
	if req.GDPRConsent != nil {
		sub.GDPRConsent = *req.GDPRConsent
	}
	return sub, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// present returns s unchanged, or nil when it is absent or blank.
func present(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	value := *s
	return &value
}
