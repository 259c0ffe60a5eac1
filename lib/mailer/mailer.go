// Package mailer sends written workbooks by email.
package mailer

import (
	"context"
	"fmt"
	"golfboard/lib/scrapers/leaderboard"
	"net/smtp"
	"path/filepath"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("golfboard/lib/mailer")

type Config struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// Enabled reports whether a mail server is configured.
func (c Config) Enabled() bool {
	return c.Server != ""
}

type sendFunc = func(mail *email.Email, addr string, auth smtp.Auth) error

type Mailer struct {
	config Config
	send   sendFunc
}

func New(config Config) Mailer {
	return Mailer{
		config: config,
		send: func(mail *email.Email, addr string, auth smtp.Auth) error {
			return mail.Send(addr, auth)
		},
	}
}

// Message composes the mail carrying the workbook at path.
func (m Mailer) Message(to []string, event leaderboard.EventMetadata, rows int, path string) (*email.Email, error) {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Golfboard <%s>", m.config.EmailAddress)
	mail.To = to
	mail.Subject = fmt.Sprintf("Golf Scores: %s", event.Title)
	mail.Text = []byte(fmt.Sprintf(`%s
%s

%d rows are attached in %s.`, event.Title, event.Date, rows, filepath.Base(path)))

	_, err := mail.AttachFile(path)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", path, err)
	}
	return mail, nil
}

// SendWorkbook mails the workbook at path to every address in to.
func (m Mailer) SendWorkbook(ctx context.Context, to []string, event leaderboard.EventMetadata, rows int, path string) error {
	_, span := tracer.Start(ctx, "mailer:SendWorkbook", trace.WithAttributes(
		attribute.Int("recipients", len(to)),
	))
	defer span.End()

	mail, err := m.Message(to, event, rows, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compose email")
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	err = m.send(mail, addr, smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = m.send(mail, addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
