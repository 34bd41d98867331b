// utils/email.go
package utils

import (
	"fmt"
	"os"

	"go-marketplace/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid. When no API key is
// configured the service is disabled and every send is a no-op.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService reads SENDGRID_API_KEY and EMAIL_SENDER from the
// environment. Mail is optional; a missing key only disables sending.
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return &EmailService{}
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: os.Getenv("EMAIL_SENDER"),
	}
}

// SendEmail sends a plain-text email to the given recipient
func (es *EmailService) SendEmail(toName, toEmail, subject, content string) error {
	if es.client == nil {
		return nil
	}
	from := mail.NewEmail("Marketplace", es.sender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, content, content)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcomeEmail greets a freshly registered user
func (es *EmailService) SendWelcomeEmail(user models.User) error {
	subject := "Welcome to the Marketplace"
	content := fmt.Sprintf("Hi %s,\n\nYour account is ready. Happy trading!\n", user.Username)
	return es.SendEmail(user.Username, user.Email, subject, content)
}

// SendOrderConfirmationEmail confirms a placed order
func (es *EmailService) SendOrderConfirmationEmail(user models.User, order models.Order) error {
	subject := "Order Confirmation"
	content := fmt.Sprintf(
		"Hi %s,\n\nYour order has been placed.\n\nItems: %d\nTotal: $%.2f\n\nThank you for shopping with us!\n",
		user.Username, len(order.Items), order.Total,
	)
	return es.SendEmail(user.Username, user.Email, subject, content)
}
