package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/dbseal/encscan/internal/audit"
	"github.com/dbseal/encscan/internal/config"
	"github.com/dbseal/encscan/internal/errs"
)

// Mailer delivers the rendered report to the configured recipient over SMTP.
type Mailer struct {
	cfg config.MailConfig
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send mails the HTML document, optionally attaching the persisted JSON
// report. A failure here never affects the persisted output; authentication
// rejections are surfaced as their own kind so the CLI can print guidance.
func (m *Mailer) Send(ctx context.Context, report *audit.Report, html []byte, attachmentPath string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return errs.Wrap(errs.ErrKindTransmission, "invalid sender address", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return errs.Wrap(errs.ErrKindTransmission, "invalid recipient address", err)
	}

	msg.Subject(fmt.Sprintf("Encryption scan: %s — %d/%d tables encrypted",
		report.Database, len(report.Encrypted), report.TotalTables))
	msg.SetBodyString(mail.TypeTextHTML, string(html))

	if attachmentPath != "" {
		msg.AttachFile(attachmentPath)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errs.Wrap(errs.ErrKindTransmission, "cannot create smtp client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		if isAuthFailure(err) {
			return errs.Wrap(errs.ErrKindAuthFailed,
				"smtp server rejected the sender credentials — check mail.username and mail.password; providers like Gmail require an app password instead of the account password",
				err)
		}
		return errs.Wrap(errs.ErrKindTransmission, "failed to deliver report", err)
	}

	return nil
}

// isAuthFailure recognises SMTP credential rejections (reply code 535 and
// friends) in the transport error chain.
func isAuthFailure(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "535") ||
		(strings.Contains(text, "auth") && strings.Contains(text, "fail")) ||
		strings.Contains(text, "username and password not accepted")
}
