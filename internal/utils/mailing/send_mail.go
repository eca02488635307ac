package mailing

import (
	"fmt"
	"strconv"

	"foodgram/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
		SendWelcome(toEmail string, username string) error
	}

	smtpMailer struct {
		cfg MailConfig
	}

	noopMailer struct{}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns an SMTP mailer, or one that drops every message when no
// SMTP host is configured.
func NewMailer(cfg MailConfig) Mailer {
	if cfg.SMTPHost == "" {
		return noopMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.cfg.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.cfg.SMTPHost,
		port,
		m.cfg.SMTPEmail,
		m.cfg.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func (m *smtpMailer) SendWelcome(toEmail string, username string) error {
	return m.SendMail(toEmail, "Welcome to Foodgram", WelcomeBody(username, m.cfg.AppURL))
}

func WelcomeBody(username, appURL string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>your Foodgram account is ready. Start sharing recipes at <a href=\"%s\">%s</a>.</p>",
		username, appURL, appURL,
	)
}

func (noopMailer) SendMail(string, string, string) error { return nil }

func (noopMailer) SendWelcome(string, string) error { return nil }
