package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/gomail.v2"
	"nemora-backend/internal/models"
)

const defaultFromAddress = "no-reply@nemora.com"

var inlineImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// UploadResolver finds the local copy of an uploaded file.
type UploadResolver interface {
	ResolveUpload(fileURL string) (string, bool)
}

type EmailOptions struct {
	To      string
	From    string
	ReplyTo string
}

type EmailChannel struct {
	sender   MailSender
	resolver UploadResolver
	opts     EmailOptions
}

func NewEmailChannel(sender MailSender, resolver UploadResolver, opts EmailOptions) *EmailChannel {
	if opts.From == "" {
		opts.From = defaultFromAddress
	}
	return &EmailChannel{sender: sender, resolver: resolver, opts: opts}
}

// NewSMTPDialer builds the SMTP transport once for the life of the process.
// Authentication is only attempted when both user and password are set.
func NewSMTPDialer(host string, port int, user, pass string, secure bool) *gomail.Dialer {
	d := &gomail.Dialer{Host: host, Port: port, SSL: secure}
	if user != "" && pass != "" {
		d.Username = user
		d.Password = pass
	}
	return d
}

func (e *EmailChannel) Name() string { return ChannelEmail }

// PreviewCID is the content id used for an order's inline design image.
func PreviewCID(orderID string) string {
	return "design-" + orderID
}

// Message builds the email for an order. A missing local upload is not an
// error; the mail simply goes out without an attachment.
func (e *EmailChannel) Message(order *models.Order, text string) (*gomail.Message, error) {
	m := gomail.NewMessage()
	m.SetHeader("From", e.opts.From)
	m.SetHeader("To", e.opts.To)
	m.SetHeader("Subject", "Nemora order "+order.ID)
	if e.opts.ReplyTo != "" {
		m.SetHeader("Reply-To", e.opts.ReplyTo)
	}

	previewCID := ""
	if e.resolver != nil {
		if local, ok := e.resolver.ResolveUpload(order.FileURL); ok {
			name := order.FileName
			if name == "" {
				name = filepath.Base(local)
			}
			if inlineImageExtensions[strings.ToLower(filepath.Ext(local))] {
				previewCID = PreviewCID(order.ID)
				m.Embed(local, gomail.Rename(name), gomail.SetHeader(map[string][]string{
					"Content-ID": {"<" + previewCID + ">"},
				}))
			} else {
				m.Attach(local, gomail.Rename(name))
			}
		}
	}

	html, err := EmailHTML(order, previewCID)
	if err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", html)
	return m, nil
}

func (e *EmailChannel) Send(ctx context.Context, order *models.Order, text string) error {
	m, err := e.Message(order, text)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
