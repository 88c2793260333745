// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
)

const orderConfirmationTemplate = `
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Thank you for your order, {{.UserName}}!</h2>
	<p>Your order <strong>{{.OrderNumber}}</strong> has been received.</p>
	<p>Order total: <strong>{{.OrderTotal}}</strong></p>
	<p>We will let you know when it ships.</p>
	<p>— {{.SiteName}}</p>
</body>
</html>`

const orderStatusUpdateTemplate = `
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>Order update</h2>
	<p>Hi {{.UserName}},</p>
	<p>Your order <strong>{{.OrderNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
	<p>— {{.SiteName}}</p>
</body>
</html>`

// Service sends transactional emails over SMTP
type Service struct {
	config    *config.Config
	logger    *logrus.Logger
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	templates := map[string]*template.Template{
		string(EmailTypeOrderConfirmation): template.Must(template.New("order_confirmation").Parse(orderConfirmationTemplate)),
		string(EmailTypeOrderStatusUpdate): template.Must(template.New("order_status_update").Parse(orderStatusUpdateTemplate)),
	}
	return &Service{
		config:    cfg,
		logger:    logger,
		templates: templates,
	}
}

// SendOrderConfirmation sends the order confirmation email. Implements the
// order package's Notifier.
func (s *Service) SendOrderConfirmation(userEmail, userName, orderNumber string, total int64) error {
	data := OrderConfirmationData{
		SiteName:    s.config.Email.FromName,
		UserName:    userName,
		OrderNumber: orderNumber,
		OrderTotal:  fmt.Sprintf("$%.2f", float64(total)/100),
	}
	htmlContent, err := s.renderTemplate(EmailTypeOrderConfirmation, data)
	if err != nil {
		return err
	}
	return s.send(&Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", orderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendOrderStatusUpdate notifies the customer of a status change
func (s *Service) SendOrderStatusUpdate(userEmail, userName, orderNumber, status string) error {
	data := OrderStatusUpdateData{
		SiteName:    s.config.Email.FromName,
		UserName:    userName,
		OrderNumber: orderNumber,
		Status:      status,
	}
	htmlContent, err := s.renderTemplate(EmailTypeOrderStatusUpdate, data)
	if err != nil {
		return err
	}
	return s.send(&Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Order %s - %s", orderNumber, status),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
	})
}

func (s *Service) renderTemplate(emailType EmailType, data interface{}) (string, error) {
	tmpl, ok := s.templates[string(emailType)]
	if !ok {
		return "", fmt.Errorf("unknown email template: %s", emailType)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// send delivers the email over SMTP. When email sending is disabled the
// message is logged and dropped, which keeps development setups quiet.
func (s *Service) send(email *Email) error {
	if !s.config.Email.Enabled {
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
			"type":    email.Type,
		}).Info("Email sending disabled, skipping")
		return nil
	}
	if s.config.Email.SMTPHost == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host")
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUser, s.config.Email.SMTPPass, s.config.Email.SMTPHost)

	from := s.config.Email.FromEmail
	if s.config.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.Email.FromName, s.config.Email.FromEmail)
	}

	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", strings.Join(email.To, ", ")),
		fmt.Sprintf("Subject: %s", email.Subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="utf-8"`,
	}

	var msg bytes.Buffer
	msg.WriteString(strings.Join(headers, "\r\n"))
	msg.WriteString("\r\n\r\n")
	msg.WriteString(email.HTMLContent)

	serverAddr := fmt.Sprintf("%s:%d", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(serverAddr, auth, s.config.Email.FromEmail, email.To, msg.Bytes())
}
