package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/alituydurr/sanatmerkezi-sub001/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	enabled := os.Getenv("EMAIL_SENDER_ENABLED") == "true"
	insecureSkipVerify := os.Getenv("INSECURE_SKIP_VERIFY") == "true"

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		smtpPort = 587
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: insecureSkipVerify,
	}

	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: enabled,
	}
}

func (es *EmailSender) SendPaymentReceipt(email string, amount decimal.Decimal, planID uuid.UUID) error {
	if !es.enabled {
		es.logger.Warn("Email notifications are disabled")
		return nil
	}

	subject := "Payment received"
	content := fmt.Sprintf(`
		<h1>Payment received</h1>
		<p>Plan: <strong>%s</strong></p>
		<p>Amount: <strong>%s</strong></p>
		<p>Date: <strong>%s</strong></p>
		<small>This is an automated notification, please do not reply</small>
	`, planID.String(), amount.StringFixed(2), time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) SendActivationNotice(email, username string) error {
	if !es.enabled {
		es.logger.Warn("Email notifications are disabled")
		return nil
	}

	subject := "Your account is ready"
	content := fmt.Sprintf(`
		<h1>Welcome, %s</h1>
		<p>Your account has been created and is active.</p>
		<small>This is an automated notification, please do not reply</small>
	`, username)

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) SendPasswordReset(email, link string) error {
	if !es.enabled {
		es.logger.Warn("Email notifications are disabled")
		return nil
	}

	subject := "Password reset"
	content := fmt.Sprintf(`
		<h1>Password reset</h1>
		<p>Follow this link to choose a new password. It expires in one hour.</p>
		<p><a href="%s">%s</a></p>
		<small>If you did not request this, you can ignore this email</small>
	`, link, link)

	return es.sendEmail(email, subject, content)
}

// SendDailyDigest mails the morning overview of installments due, payments
// already received and events with open balances.
func (es *EmailSender) SendDailyDigest(email string, today *model.TodaysPayments) error {
	if !es.enabled {
		es.logger.Warn("Email notifications are disabled")
		return nil
	}

	subject := fmt.Sprintf("Payments for %s", today.Date.Format("02.01.2006"))
	content := fmt.Sprintf(`
		<h1>Daily payment overview</h1>
		<p>Installments due and unpaid: <strong>%d</strong></p>
		<p>Payments received today: <strong>%d</strong></p>
		<p>Events starting today with open balance: <strong>%d</strong></p>
		<small>This is an automated notification, please do not reply</small>
	`, len(today.Due), len(today.Received), len(today.Events))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.logger.Infof("Email sent to %s", to)
	return nil
}
