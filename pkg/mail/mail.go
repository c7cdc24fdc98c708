// Package mail builds and delivers store notification emails.
//
//	msg := mail.To(config.MailAdmin()).
//	    Subject("New order 20240101-000042").
//	    Template(orderTpl, order)
//	err := mailer.Send(ctx, msg)
//
// The SMTP mailer is used in production; the log mailer (MAIL_DRIVER=log)
// writes messages to the application log instead.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, m *Message) error
}

// New returns the mailer selected by MAIL_DRIVER.
func New() Mailer {
	if config.MailDriver() == "smtp" {
		return NewSMTP(DefaultSMTP())
	}
	return LogMailer{}
}

// SMTP holds connection credentials.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

func DefaultSMTP() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

// Message is a fluent builder for an email.
type Message struct {
	to      []string
	cc      []string
	subject string
	body    string
	isHTML  bool
	err     error
}

// To starts a message. Empty addresses are dropped.
func To(addresses ...string) *Message {
	m := &Message{isHTML: true}
	for _, a := range addresses {
		if a = strings.TrimSpace(a); a != "" {
			m.to = append(m.to, a)
		}
	}
	return m
}

func (m *Message) CC(addresses ...string) *Message {
	m.cc = append(m.cc, addresses...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// Template renders t with data as the HTML body. A render error is reported
// by Send.
func (m *Message) Template(t *template.Template, data any) *Message {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		m.err = fmt.Errorf("mail: render %s: %w", t.Name(), err)
		return m
	}
	return m.Body(buf.String())
}

func (m *Message) Recipients() []string { return append(append([]string(nil), m.to...), m.cc...) }
func (m *Message) SubjectLine() string  { return m.subject }
func (m *Message) Content() string      { return m.body }

// ErrNoRecipients is returned for a message without any To address.
var ErrNoRecipients = errors.New("mail: no recipients")

func (m *Message) check() error {
	if m.err != nil {
		return m.err
	}
	if len(m.to) == 0 {
		return ErrNoRecipients
	}
	return nil
}

// Raw renders the RFC 5322 message.
func (m *Message) Raw(from string) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	if len(m.cc) > 0 {
		b.WriteString("Cc: " + strings.Join(m.cc, ", ") + "\r\n")
	}
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s; charset=\"UTF-8\"\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}

// SMTPMailer sends through an SMTP relay: implicit TLS on 465, STARTTLS
// (negotiated by net/smtp) elsewhere.
type SMTPMailer struct {
	cfg SMTP
}

func NewSMTP(cfg SMTP) *SMTPMailer { return &SMTPMailer{cfg: cfg} }

func (s *SMTPMailer) Send(_ context.Context, m *Message) error {
	if err := m.check(); err != nil {
		return err
	}
	cfg := s.cfg
	if cfg.Host == "" {
		return fmt.Errorf("mail: MAIL_HOST not configured")
	}

	raw := m.Raw(fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From))
	addr := cfg.Host + ":" + cfg.Port

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if cfg.Port == "465" {
		return s.sendTLS(addr, auth, m.Recipients(), raw)
	}
	if err := smtp.SendMail(addr, auth, cfg.From, m.Recipients(), raw); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}

func (s *SMTPMailer) sendTLS(addr string, auth smtp.Auth, to []string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("mail: TLS dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}
	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// LogMailer logs messages instead of delivering them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, m *Message) error {
	if err := m.check(); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("mail: message", "to", m.Recipients(), "subject", m.subject)
	return nil
}
