package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"instaquote/models"
	"instaquote/services/notification"
	"instaquote/services/pricing"
	"instaquote/services/tenant"
)

// Origin describes where a submission came from.
type Origin struct {
	Tenant *models.TenantConfig
	Host   string
	IP     string
}

func (o Origin) meta(recipient string) notification.Meta {
	return notification.Meta{Tenant: o.Tenant.Slug, Host: o.Host, IP: o.IP, RecipientType: recipient}
}

// Result is returned for an accepted submission.
type Result struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

// Service validates submissions and delivers the resulting lead emails.
type Service struct {
	engines  *pricing.Registry
	owner    *notification.Retrier
	customer notification.Dispatcher
	logger   *zap.Logger
}

func NewService(engines *pricing.Registry, owner *notification.Retrier, customer notification.Dispatcher, logger *zap.Logger) *Service {
	if engines == nil {
		engines = pricing.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engines: engines, owner: owner, customer: customer, logger: logger}
}

// Engine is the pricing engine configured for t.
func (s *Service) Engine(t *models.TenantConfig) *pricing.Engine {
	return s.engines.Engine(t.PricingModel)
}

// Preview prices a selection without submitting anything.
func (s *Service) Preview(t *models.TenantConfig, req models.QuotePreviewRequest) models.Quote {
	return s.Engine(t).ComputeQuote(req.Sqft, req.Services, req.Frequency)
}

// PreviewFence prices a fence run without submitting anything.
func (s *Service) PreviewFence(t *models.TenantConfig, feet float64, sel models.FenceSelection) models.FenceQuote {
	return pricing.EstimateFence(t.Fence, feet, sel)
}

// Submit re-validates sub and sends the owner lead, then the customer copy.
// Only the owner email must succeed.
func (s *Service) Submit(ctx context.Context, origin Origin, sub models.QuoteSubmission) (Result, error) {
	computed, err := NewValidator(s.Engine(origin.Tenant)).Validate(sub)
	if err != nil {
		return Result{}, err
	}

	lines := make([]notification.EmailLine, 0, len(computed.LineItems))
	for _, li := range computed.LineItems {
		label := li.Label
		if li.Frequency != "" {
			label = fmt.Sprintf("%s (%s)", li.Label, frequencyLabel(li.Frequency))
		}
		lines = append(lines, notification.EmailLine{Label: label, Price: li.Price})
	}
	email := notification.QuoteEmail{
		BrandName:   origin.Tenant.BrandName,
		Measurement: float64(sub.Sqft),
		Lines:       lines,
		Total:       computed.Total,
	}
	return s.deliver(ctx, origin, sub.LeadContact, email)
}

// SubmitFence is Submit for the fence variant.
func (s *Service) SubmitFence(ctx context.Context, origin Origin, sub models.FenceSubmission) (Result, error) {
	computed, err := ValidateFence(origin.Tenant.Fence, sub)
	if err != nil {
		return Result{}, err
	}

	lines := make([]notification.EmailLine, 0, len(computed.LineItems))
	for _, li := range computed.LineItems {
		label := li.Label
		switch li.Key {
		case models.FenceLineMaterial, models.FenceLineRemoval:
			label = fmt.Sprintf("%s (%g ft)", li.Label, li.Quantity)
		default:
			label = fmt.Sprintf("%s x %g", li.Label, li.Quantity)
		}
		lines = append(lines, notification.EmailLine{Label: label, Price: li.Price})
	}
	email := notification.QuoteEmail{
		BrandName:        origin.Tenant.BrandName,
		MeasurementLabel: "Fence Length",
		Measurement:      computed.Feet,
		Unit:             "ft",
		Lines:            lines,
		Total:            computed.Total,
	}
	return s.deliver(ctx, origin, sub.LeadContact, email)
}

func (s *Service) deliver(ctx context.Context, origin Origin, lead models.LeadContact, email notification.QuoteEmail) (Result, error) {
	t := origin.Tenant
	if t.OwnerEmail == "" {
		return Result{}, &notification.ConfigError{Missing: []string{"OWNER_EMAIL"}}
	}

	email.Name = lead.Name
	email.Address = lead.Address
	email.ContactPhone = tenant.ContactPhone(t)
	if lead.PreferredDate != nil {
		email.PreferredDate = *lead.PreferredDate
	}

	customerHTML, err := notification.RenderQuoteEmail(email)
	if err != nil {
		return Result{}, err
	}
	email.ShowLeadDetails = true
	email.CustomerEmail = lead.Email
	email.CustomerPhone = lead.Phone
	ownerHTML, err := notification.RenderQuoteEmail(email)
	if err != nil {
		return Result{}, err
	}

	owner := notification.Message{
		To:      t.OwnerEmail,
		BCC:     t.BCC,
		Subject: notification.OwnerSubject(lead.Address),
		HTML:    ownerHTML,
	}
	if err := s.owner.Send(ctx, owner, origin.meta(notification.RecipientOwner)); err != nil {
		return Result{}, fmt.Errorf("send owner email: %w", err)
	}

	customer := notification.Message{
		To:      lead.Email,
		Subject: notification.CustomerSubject(lead.Address),
		HTML:    customerHTML,
	}
	if err := s.customer.Dispatch(ctx, customer, origin.meta(notification.RecipientCustomer)); err != nil {
		s.logger.Error("quote_customer_email_non_blocking_failure",
			zap.String("tenant", t.Slug),
			zap.String("host", origin.Host),
			zap.String("ip", origin.IP),
			zap.Error(err),
		)
	}

	return Result{ID: uuid.NewString(), Total: email.Total}, nil
}

func frequencyLabel(f models.Frequency) string {
	if f == models.FrequencyBiweekly {
		return "Biweekly"
	}
	return "Weekly"
}
