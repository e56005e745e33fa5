package notifications

import (
	"fmt"
	"log"

	config "github.com/avelini/course_academy/configs"
	"github.com/resend/resend-go/v2"
)

type ResendService struct {
	Client      *resend.Client
	SenderEmail string
	SenderName  string
}

var EmailClient *ResendService

func InitEmailService() {
	apiKey := config.Config("RESEND_API_KEY")
	senderEmail := config.Config("EMAIL_SENDER")
	senderName := config.Config("EMAIL_SENDER_NAME")

	if apiKey == "" || senderEmail == "" || senderName == "" {
		log.Println("⚠️ Email service not configured. Missing API Key, Sender Email, or Sender Name.")
		EmailClient = nil
		return
	}

	EmailClient = &ResendService{
		Client:      resend.NewClient(apiKey),
		SenderEmail: senderEmail,
		SenderName:  senderName,
	}
	log.Println("✅ Email service initialized successfully.")
}

func (s *ResendService) send(toEmail, subject, htmlContent string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.SenderName, s.SenderEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	sent, err := s.Client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Resend accepted email %s for %s", sent.Id, toEmail)
	return nil
}

// SendEmail is fire-and-forget: failures are logged, never surfaced to the
// caller's request.
func SendEmail(toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}

	if err := EmailClient.send(toEmail, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s (%s): %v", toEmail, toName, err)
		return
	}

	log.Printf("✅ Email sent successfully to %s", toEmail)
}
