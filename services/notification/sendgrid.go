package notification

import (
	"context"
	"sync"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridConfig carries the credentials read from configuration.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host overrides the API host, e.g. for a test server.
	Host string
}

// SendGridMailer sends through the SendGrid v3 API. Configuration is checked
// on the first send so the server can boot without mail credentials.
type SendGridMailer struct {
	cfg SendGridConfig

	once    sync.Once
	initErr error
}

func NewSendGridMailer(cfg SendGridConfig) *SendGridMailer {
	if cfg.Host == "" {
		cfg.Host = sendGridHost
	}
	return &SendGridMailer{cfg: cfg}
}

func (s *SendGridMailer) ensureConfigured() error {
	s.once.Do(func() {
		var missing []string
		if s.cfg.APIKey == "" {
			missing = append(missing, "SENDGRID_API_KEY")
		}
		if s.cfg.FromEmail == "" {
			missing = append(missing, "SENDGRID_FROM_EMAIL")
		}
		if len(missing) > 0 {
			s.initErr = &ConfigError{Missing: missing}
		}
	})
	return s.initErr
}

// CheckConfig reports missing credentials without sending anything.
func (s *SendGridMailer) CheckConfig() error { return s.ensureConfigured() }

func (s *SendGridMailer) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := s.ensureConfigured(); err != nil {
		return Receipt{}, err
	}
	if msg.To == "" {
		return Receipt{}, &ConfigError{Missing: []string{"recipient"}}
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail))
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	if msg.BCC != "" && msg.BCC != msg.To {
		p.AddBCCs(mail.NewEmail("", msg.BCC))
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", msg.HTML))

	req := sendgrid.GetRequest(s.cfg.APIKey, sendGridEndpoint, s.cfg.Host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return Receipt{}, &DeliveryError{Err: err}
	}
	if resp.StatusCode >= 300 {
		return Receipt{}, &DeliveryError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	receipt := Receipt{StatusCode: resp.StatusCode}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		receipt.MessageID = ids[0]
	}
	return receipt, nil
}
