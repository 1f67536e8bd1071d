package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/dkempf/fintrack/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWelcome sends a welcome email after registration
func (s *Sender) SendWelcome(to, username string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to Fintrack"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been created on %s.\n"+
			"You can now add accounts and start recording your income and expenses.\n",
		username, time.Now().Format("2006-01-02"),
	)
	body += "\nBest regards,\nFintrack"
	e.Text = []byte(body)

	return s.send(e)
}

// SendMonthlySummary sends a spending summary for the previous month
func (s *Sender) SendMonthlySummary(to, username string, month time.Time, income, expense float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your %s summary", month.Format("January 2006"))

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Here is your summary for %s:\n"+
			"Income:  %.2f\n"+
			"Expense: %.2f\n"+
			"Net:     %.2f\n",
		username, month.Format("January 2006"), income, expense, income-expense,
	)
	body += "\nBest regards,\nFintrack"
	e.Text = []byte(body)

	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}
