package notification

import (
	"fmt"
	"net/smtp"

	"flock/config"
)

// EmailNotifier sends notifications over SMTP.
type EmailNotifier struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewEmailNotifier builds an EmailNotifier from the application config.
func NewEmailNotifier() *EmailNotifier {
	cfg := config.AppConfig
	from := cfg.EmailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     from,
	}
}

// SendOTP delivers a one-time passcode by email.
func (n *EmailNotifier) SendOTP(to, code string) error {
	subject := "Your OTP Code"
	body := fmt.Sprintf("Your OTP is %s. It is valid for 5 minutes.", code)
	return n.sendEmail(to, subject, body)
}

// SendSubscriptionConfirmation notifies the user their subscription was created.
func (n *EmailNotifier) SendSubscriptionConfirmation(to, subscriptionID string, amountTotal int64) error {
	subject := "Subscription Created"
	body := fmt.Sprintf(
		"Your subscription has been created successfully.\n\n"+
			"Details:\n"+
			"- Subscription ID: %s\n"+
			"- Customer Email: %s\n"+
			"- Plan Price: %.2f\n"+
			"Thank you for subscribing to our service!",
		subscriptionID, to, float64(amountTotal)/100)
	return n.sendEmail(to, subject, body)
}

func (n *EmailNotifier) sendEmail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		n.from, to, subject, body)

	auth := smtp.PlainAuth("", n.user, n.password, n.host)
	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	if err := smtp.SendMail(addr, auth, n.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
