package quote

import (
	"context"
	"errors"
	"html"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"instaquote/models"
	"instaquote/services/notification"
	"instaquote/services/pricing"
)

type fakeMailer struct {
	err  error
	sent []notification.Message
}

func (f *fakeMailer) Send(_ context.Context, msg notification.Message) (notification.Receipt, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return notification.Receipt{}, f.err
	}
	return notification.Receipt{StatusCode: 202}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

type harness struct {
	svc      *Service
	owner    *fakeMailer
	customer *fakeMailer
	logs     *observer.ObservedLogs
	origin   Origin
}

func newHarness() *harness {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	owner := &fakeMailer{}
	customer := &fakeMailer{}
	svc := NewService(
		pricing.NewRegistry(),
		notification.NewRetrier(owner, logger).WithSleep(noSleep),
		notification.NewInlineDispatcher(notification.NewRetrier(customer, logger).WithSleep(noSleep)),
		logger,
	)
	return &harness{
		svc:      svc,
		owner:    owner,
		customer: customer,
		logs:     logs,
		origin: Origin{
			Tenant: &models.TenantConfig{Slug: "demo", BrandName: "Instant Lawn Quote", OwnerEmail: "owner@example.com", BCC: "push@example.com"},
			Host:   "localhost:3000",
			IP:     "1.2.3.4",
		},
	}
}

func TestSubmit_SendsOwnerThenCustomer(t *testing.T) {
	h := newHarness()

	res, err := h.svc.Submit(context.Background(), h.origin, validSubmission())
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, 125.0, res.Total)

	require.Len(t, h.owner.sent, 1)
	owner := h.owner.sent[0]
	assert.Equal(t, "owner@example.com", owner.To)
	assert.Equal(t, "push@example.com", owner.BCC)
	assert.Equal(t, "New Instant Quote Lead - 12 Oak Ln", owner.Subject)
	assert.Contains(t, owner.HTML, "ann@example.com")
	assert.Contains(t, owner.HTML, "Mowing (Weekly)")
	assert.Contains(t, html.UnescapeString(owner.HTML), "tel:+18016516326")

	require.Len(t, h.customer.sent, 1)
	customer := h.customer.sent[0]
	assert.Equal(t, "ann@example.com", customer.To)
	assert.Equal(t, "Your Quote for - 12 Oak Ln", customer.Subject)
	assert.NotContains(t, customer.HTML, "801-555-0100")
}

func TestSubmit_InvalidSendsNothing(t *testing.T) {
	h := newHarness()
	sub := validSubmission()
	sub.Total = 125.02

	_, err := h.svc.Submit(context.Background(), h.origin, sub)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, h.owner.sent)
	assert.Empty(t, h.customer.sent)
}

func TestSubmit_OwnerFailureIsFatal(t *testing.T) {
	h := newHarness()
	h.owner.err = &notification.DeliveryError{StatusCode: 503}

	_, err := h.svc.Submit(context.Background(), h.origin, validSubmission())
	require.Error(t, err)
	assert.Len(t, h.owner.sent, 3, "transient failures are retried twice")
	assert.Empty(t, h.customer.sent)
}

func TestSubmit_CustomerFailureDoesNotBlock(t *testing.T) {
	h := newHarness()
	h.customer.err = &notification.DeliveryError{StatusCode: 400}

	_, err := h.svc.Submit(context.Background(), h.origin, validSubmission())
	require.NoError(t, err)
	assert.Len(t, h.customer.sent, 1)
	assert.Equal(t, 1, h.logs.FilterMessage("quote_customer_email_non_blocking_failure").Len())
}

func TestSubmit_MissingOwnerEmail(t *testing.T) {
	h := newHarness()
	h.origin.Tenant.OwnerEmail = ""

	_, err := h.svc.Submit(context.Background(), h.origin, validSubmission())
	var ce *notification.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"OWNER_EMAIL"}, ce.Missing)
	assert.Empty(t, h.owner.sent)
}

func TestSubmit_UsesTenantPricingModel(t *testing.T) {
	h := newHarness()
	h.origin.Tenant.PricingModel = pricing.ModelTiers

	_, err := h.svc.Submit(context.Background(), h.origin, validSubmission())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve, "block prices do not match the tier table")

	q := h.svc.Preview(h.origin.Tenant, models.QuotePreviewRequest{Sqft: 4250, Services: []models.ServiceKey{models.ServiceMowing}, Frequency: models.FrequencyWeekly})
	sub := validSubmission()
	sub.Services = []models.ServiceItem{{Key: models.ServiceMowing, Frequency: freq(models.FrequencyWeekly), Price: q.Total}}
	sub.Total = q.Total
	_, err = h.svc.Submit(context.Background(), h.origin, sub)
	assert.NoError(t, err)
}

func TestSubmitFence(t *testing.T) {
	h := newHarness()

	res, err := h.svc.SubmitFence(context.Background(), h.origin, fenceSubmission())
	require.NoError(t, err)
	assert.Equal(t, 6690.0, res.Total)
	require.Len(t, h.owner.sent, 1)
	assert.Contains(t, h.owner.sent[0].HTML, "Fence Length")
	assert.Contains(t, h.owner.sent[0].HTML, "Vinyl fence (120 ft)")
	assert.Contains(t, h.owner.sent[0].HTML, "$6,690")

	h.owner.err = errors.New("boom")
	_, err = h.svc.SubmitFence(context.Background(), h.origin, fenceSubmission())
	assert.Error(t, err)
}

func TestPreviewFence(t *testing.T) {
	h := newHarness()
	q := h.svc.PreviewFence(h.origin.Tenant, 100, models.FenceSelection{FenceType: "chain-link"})
	assert.Equal(t, 2200.0, q.Total)
}
