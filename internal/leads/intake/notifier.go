package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"leadportal_backend/internal/email"
	"leadportal_backend/internal/leads/domain"
)

// Notifier mails new leads to the operations mailbox.
type Notifier struct {
	sender email.Sender
	to     string
}

func NewNotifier(sender email.Sender, to string) *Notifier {
	return &Notifier{sender: sender, to: to}
}

// Notify sends one message about rec with reply-to set to the submitter.
func (n *Notifier) Notify(ctx context.Context, rec domain.LeadRecord) error {
	data := email.LeadNotificationData{
		LeadID:      rec.ID.String(),
		Name:        rec.Name,
		Email:       rec.Email,
		Company:     deref(rec.Company),
		Phone:       deref(rec.Phone),
		Message:     rec.Message,
		Source:      deref(rec.Source),
		UTMSource:   deref(rec.UTMSource),
		UTMMedium:   deref(rec.UTMMedium),
		UTMCampaign: deref(rec.UTMCampaign),
		ProductSlug: deref(rec.ProductSlug),
		Category:    deref(rec.Category),
		Referrer:    deref(rec.Referrer),
		Locale:      rec.Locale,
		Country:     rec.Country,
		IPAddress:   deref(rec.IPAddress),
		UserAgent:   deref(rec.UserAgent),
		ReceivedAt:  rec.CreatedAt.UTC().Format(time.RFC1123),
	}
	if rec.Meta.PhoneE164 != "" {
		data.Phone = rec.Meta.PhoneE164
	}

	html, err := email.RenderLeadNotification(data)
	if err != nil {
		return &domain.NotificationError{Err: err}
	}

	msg := email.Message{
		To:      n.to,
		ReplyTo: rec.Email,
		Subject: email.LeadNotificationSubject(rec.Name, data.Company),
		HTML:    html,
		Text:    plainTextBody(rec),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return &domain.NotificationError{Err: err}
	}
	return nil
}

// plainTextBody is the text/plain part. The message is user-typed plain
// text and goes out verbatim.
func plainTextBody(rec domain.LeadRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s>\n", rec.Name, rec.Email)
	if company := deref(rec.Company); company != "" {
		fmt.Fprintf(&b, "Company: %s\n", company)
	}
	if phone := deref(rec.Phone); phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone)
	}
	b.WriteString("\n")
	b.WriteString(rec.Message)
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
