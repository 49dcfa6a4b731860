package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"leadportal_backend/platform/sanitize"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Preheader  string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

// LeadNotificationData is the view model of the new-lead email.
type LeadNotificationData struct {
	LeadID      string
	Name        string
	Email       string
	Company     string
	Phone       string
	Message     string
	Source      string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	ProductSlug string
	Category    string
	Referrer    string
	Locale      string
	Country     string
	IPAddress   string
	UserAgent   string
	ReceivedAt  string
}

type leadNotificationEmailData struct {
	baseEmailData
	LeadNotificationData
}

// RenderLeadNotification renders the operations mailbox email for a new lead.
func RenderLeadNotification(data LeadNotificationData) (string, error) {
	subheading := "A new inquiry arrived through the website form."
	return renderEmailTemplate("lead_notification.html", leadNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:      LeadNotificationSubject(data.Name, data.Company),
			Heading:    "New lead",
			Subheading: subheading,
			Preheader:  sanitize.Excerpt(data.Message, previewLength),
		},
		LeadNotificationData: data,
	})
}

// LeadNotificationSubject formats "New lead: <name>" with the company in
// parentheses when known.
func LeadNotificationSubject(name, company string) string {
	if company == "" {
		return fmt.Sprintf(subjectLeadNotificationFmt, name)
	}
	return fmt.Sprintf(subjectLeadNotificationCompanyFmt, name, company)
}

// previewLength bounds the inbox preview text taken from the lead message.
const previewLength = 120

const (
	subjectLeadNotificationFmt        = "New lead: %s"
	subjectLeadNotificationCompanyFmt = "New lead: %s (%s)"
)

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
