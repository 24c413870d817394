package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPProvider struct {
	cfg       Config
	templates *template.Template
}

func NewSMTP(cfg Config) (*SMTPProvider, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return &SMTPProvider{cfg: cfg, templates: templates}, nil
}

func (p *SMTPProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s%s",
		strings.Join(to, ", "), subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, p.cfg.From, to, msg)
}

func (p *SMTPProvider) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]interface{}) error {
	var body bytes.Buffer
	if err := p.templates.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return fmt.Errorf("execute template %s: %w", templateName, err)
	}

	subject := "Notification"
	if value, ok := data["subject"].(string); ok && value != "" {
		subject = value
	}

	return p.Send(ctx, to, subject, body.String())
}
