package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Omondi01/sciencefair-system/config"
	"github.com/Omondi01/sciencefair-system/models"
)

// EmailService sends result notifications to patrons over SMTP.
// Dispatch is best-effort: callers log failures and move on.
type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt to: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return nil
}

func (s *EmailService) renderBody(tmpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

const promotionTemplate = `
<p>Dear {{.PatronName}},</p>
<p>Congratulations! The project <strong>{{.ProjectTitle}}</strong> has qualified
for the <strong>{{.NextLevel}}</strong> round of the science and engineering fair.</p>
<p>Keep an eye on the portal for the judging schedule.</p>`

const eliminationTemplate = `
<p>Dear {{.PatronName}},</p>
<p>The results for the {{.Level}} round have been published. The project
<strong>{{.ProjectTitle}}</strong> did not qualify for the next round this year.</p>
<p>Thank you for taking part, and we hope to see you again next edition.</p>`

// SendPromotionEmail notifies a patron that their project advanced.
func (s *EmailService) SendPromotionEmail(patron *models.User, project *models.Project, nextLevel models.CompetitionLevel) error {
	body, err := s.renderBody(promotionTemplate, struct {
		PatronName   string
		ProjectTitle string
		NextLevel    string
	}{
		PatronName:   patron.FirstName,
		ProjectTitle: project.Title,
		NextLevel:    nextLevel.String(),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Science Fair: %s qualified for the next round", project.Title)
	return s.SendEmail([]string{patron.Email}, subject, body)
}

// SendEliminationEmail notifies a patron that their project was knocked out.
func (s *EmailService) SendEliminationEmail(patron *models.User, project *models.Project, level models.CompetitionLevel) error {
	body, err := s.renderBody(eliminationTemplate, struct {
		PatronName   string
		ProjectTitle string
		Level        string
	}{
		PatronName:   patron.FirstName,
		ProjectTitle: project.Title,
		Level:        level.String(),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Science Fair: %s round results", level)
	return s.SendEmail([]string{patron.Email}, subject, body)
}
