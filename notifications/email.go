package notifications

import (
	"context"
	"html"
	"strings"

	"github.com/diyorbekkd/thDent/config"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// EmailSender mails receipts through SMTP.
type EmailSender struct {
	from   string
	to     string
	dialer *gomail.Dialer
}

func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{
		from:   cfg.User,
		to:     cfg.To,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

const emailTemplate = `<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
		.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
		h1 { color: #333333; }
		p { color: #666666; }
	</style>
</head>
<body>
	<div class="container">
		<h1>{{subject}}</h1>
		<p>{{text}}</p>
	</div>
</body>
</html>
`

// BuildEmail renders msg into a gomail message. Text is trusted HTML.
func (s *EmailSender) BuildEmail(msg Message) *gomail.Message {
	subject := msg.Subject
	if subject == "" {
		subject = "thDent"
	}

	to := s.to
	if strings.Contains(msg.Destination, "@") {
		to = msg.Destination
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", stripTags(msg.Text))

	body := strings.NewReplacer(
		"{{subject}}", html.EscapeString(subject),
		"{{text}}", strings.ReplaceAll(msg.Text, "\n", "<br>"),
	).Replace(emailTemplate)
	m.AddAlternative("text/html", body)
	return m
}

func (s *EmailSender) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(s.BuildEmail(msg)); err != nil {
		return errors.Wrap(err, "failed to send email")
	}
	return nil
}

// stripTags drops the inline markup receipts use for Telegram.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}
