package services

import (
	"fmt"
	"html"
	"log"
	"os"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client      *resend.Client
	from        string
	reviewInbox string
}

var emailService *EmailService

// InitEmailService initializes the review-notification mailer with Resend.
// Without an API key the service stays nil and notifications are skipped.
func InitEmailService() {
	apiKey := os.Getenv("RESEND_API_KEY")

	if apiKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Review notifications will not be sent.")
		return
	}

	emailService = &EmailService{
		client:      resend.NewClient(apiKey),
		from:        getenvDefault("RESEND_FROM_EMAIL", "Weekly Prayers <noreply@weeklyprayers.app>"),
		reviewInbox: os.Getenv("REVIEW_INBOX"),
	}

	log.Println("Email service initialized successfully with Resend")
}

// GetEmailService returns the singleton email service instance.
func GetEmailService() *EmailService {
	return emailService
}

// NotifyFlaggedSubmission alerts the review inbox that a public submission
// was stored flagged and waits for manual review. Best effort: the
// submission is already persisted when this runs.
func (s *EmailService) NotifyFlaggedSubmission(prayerID int, reason string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("email service not initialized")
	}
	if s.reviewInbox == "" {
		return fmt.Errorf("REVIEW_INBOX not configured")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #1e3a5f; border-bottom: 2px solid #c9a227; padding-bottom: 8px;">Prayer request held for review</h2>

    <p>A public prayer request was flagged by moderation and is waiting in the admin panel.</p>

    <table style="border-collapse: collapse; margin: 16px 0;">
        <tr>
            <td style="padding: 4px 12px 4px 0; color: #666;">Request ID</td>
            <td style="padding: 4px 0;"><strong>#%d</strong></td>
        </tr>
        <tr>
            <td style="padding: 4px 12px 4px 0; color: #666;">Reason</td>
            <td style="padding: 4px 0;">%s</td>
        </tr>
    </table>

    <p>The request stays hidden from the public page until someone approves it.</p>
</body>
</html>`, prayerID, html.EscapeString(reason))

	textBody := fmt.Sprintf(`Prayer request held for review

A public prayer request was flagged by moderation and is waiting in the admin panel.

Request ID: #%d
Reason: %s

The request stays hidden from the public page until someone approves it.
`, prayerID, reason)

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.reviewInbox},
		Subject: fmt.Sprintf("Prayer request #%d held for review", prayerID),
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		log.Printf("Failed to send review notification for prayer %d: %v", prayerID, err)
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Printf("Sent review notification for prayer %d. Email ID: %s", prayerID, sent.Id)
	return nil
}
