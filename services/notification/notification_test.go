package notification

import (
	"context"
	"encoding/json"
	"errors"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedMailer struct {
	results []error
	sent    []Message
}

func (m *scriptedMailer) Send(_ context.Context, msg Message) (Receipt, error) {
	m.sent = append(m.sent, msg)
	i := len(m.sent) - 1
	if i < len(m.results) && m.results[i] != nil {
		return Receipt{}, m.results[i]
	}
	return Receipt{StatusCode: http.StatusAccepted, MessageID: "msg-1"}, nil
}

func newTestRetrier(m Mailer) (*Retrier, *[]time.Duration, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	var slept []time.Duration
	r := NewRetrier(m, zap.New(core)).WithSleep(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})
	return r, &slept, logs
}

func TestIsTransient(t *testing.T) {
	for _, status := range []int{0, 408, 429, 500, 502, 503} {
		assert.True(t, IsTransient(status), "status %d", status)
	}
	for _, status := range []int{400, 401, 403, 404, 413} {
		assert.False(t, IsTransient(status), "status %d", status)
	}
}

func TestRetrier_RetriesTransientThenSucceeds(t *testing.T) {
	m := &scriptedMailer{results: []error{
		&DeliveryError{StatusCode: 503},
		&DeliveryError{Err: errors.New("connection reset")},
	}}
	r, slept, logs := newTestRetrier(m)

	err := r.Send(context.Background(), Message{To: "owner@example.com"}, Meta{Tenant: "demo", RecipientType: RecipientOwner})
	require.NoError(t, err)
	assert.Len(t, m.sent, 3)
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 900 * time.Millisecond}, *slept)

	assert.Equal(t, 2, logs.FilterMessage("quote_email_failed").Len())
	sent := logs.FilterMessage("quote_email_sent").All()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(3), sent[0].ContextMap()["attempt"])
	assert.Equal(t, "owner", sent[0].ContextMap()["recipientType"])
}

func TestRetrier_GivesUpAfterThreeAttempts(t *testing.T) {
	m := &scriptedMailer{results: []error{
		&DeliveryError{StatusCode: 500},
		&DeliveryError{StatusCode: 429},
		&DeliveryError{StatusCode: 502},
	}}
	r, slept, _ := newTestRetrier(m)

	err := r.Send(context.Background(), Message{}, Meta{})
	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 502, de.StatusCode)
	assert.Len(t, m.sent, 3)
	assert.Len(t, *slept, 2)
}

func TestRetrier_PermanentFailureStopsImmediately(t *testing.T) {
	m := &scriptedMailer{results: []error{&DeliveryError{StatusCode: 400, Body: "bad from"}}}
	r, slept, _ := newTestRetrier(m)

	err := r.Send(context.Background(), Message{}, Meta{})
	require.Error(t, err)
	assert.Len(t, m.sent, 1)
	assert.Empty(t, *slept)

	cfg := &scriptedMailer{results: []error{&ConfigError{Missing: []string{"SENDGRID_API_KEY"}}}}
	r, _, _ = newTestRetrier(cfg)
	var ce *ConfigError
	assert.ErrorAs(t, r.Send(context.Background(), Message{}, Meta{}), &ce)
	assert.Len(t, cfg.sent, 1)
}

func TestRetrier_StopsWhenContextEnds(t *testing.T) {
	m := &scriptedMailer{results: []error{&DeliveryError{StatusCode: 503}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRetrier(m, nil).Send(ctx, Message{}, Meta{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, m.sent, 1)
}

func TestRenderQuoteEmail(t *testing.T) {
	e := QuoteEmail{
		Name:          "Ann <script>",
		Address:       "12 Oak Ln",
		Measurement:   4250,
		Lines:         []EmailLine{{Label: "Mowing (Weekly)", Price: 55}, {Label: "Aeration", Price: 1070}},
		Total:         1125,
		ContactPhone:  "+18016516326",
		CustomerPhone: "801-555-0100",
		CustomerEmail: "ann@example.com",
	}

	customer, err := RenderQuoteEmail(e)
	require.NoError(t, err)
	assert.Contains(t, customer, "Lawn Size:</strong> 4,250 sqft")
	assert.Contains(t, customer, "$1,070")
	assert.Contains(t, customer, "Total: $1,125")
	assert.Contains(t, customer, "Not provided")
	assert.Contains(t, customer, "Ann &lt;script&gt;")
	assert.NotContains(t, customer, "ann@example.com")
	assert.Contains(t, customer, `href="tel:&#43;18016516326"`)
	assert.Contains(t, html.UnescapeString(customer), "tel:+18016516326")

	e.ShowLeadDetails = true
	e.PreferredDate = "2026-05-01"
	owner, err := RenderQuoteEmail(e)
	require.NoError(t, err)
	assert.Contains(t, owner, "ann@example.com")
	assert.Contains(t, owner, "801-555-0100")
	assert.Contains(t, owner, "2026-05-01")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "New Instant Quote Lead - 12 Oak Ln", OwnerSubject("12 Oak Ln"))
	assert.Equal(t, "Your Quote for - 12 Oak Ln", CustomerSubject("12 Oak Ln"))
}

func TestSendGridMailer(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		if strings.Contains(string(body), "reject@example.com") {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"invalid"}]}`))
			return
		}
		w.Header().Set("X-Message-Id", "abc123")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer(SendGridConfig{APIKey: "sg-key", FromEmail: "quotes@example.com", Host: srv.URL})

	receipt, err := m.Send(context.Background(), Message{To: "owner@example.com", BCC: "push@example.com", Subject: "s", HTML: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, receipt.StatusCode)
	assert.Equal(t, "abc123", receipt.MessageID)
	assert.Equal(t, "s", got["subject"])

	_, err = m.Send(context.Background(), Message{To: "reject@example.com"})
	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusBadRequest, de.StatusCode)
	assert.False(t, de.Transient())
}

func TestSendGridMailer_MissingConfig(t *testing.T) {
	m := NewSendGridMailer(SendGridConfig{})
	_, err := m.Send(context.Background(), Message{To: "owner@example.com"})
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, []string{"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL"}, ce.Missing)

	ok := NewSendGridMailer(SendGridConfig{APIKey: "k", FromEmail: "f@example.com"})
	_, err = ok.Send(context.Background(), Message{})
	assert.ErrorAs(t, err, &ce)
}

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "t1"}, nil
}

func TestQueueDispatcher(t *testing.T) {
	q := &recordingEnqueuer{}
	msg := Message{To: "ann@example.com", Subject: CustomerSubject("12 Oak Ln"), HTML: "<p/>"}
	meta := Meta{Tenant: "demo", IP: "1.2.3.4", RecipientType: RecipientCustomer}

	require.NoError(t, NewQueueDispatcher(q).Dispatch(context.Background(), msg, meta))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeCustomerEmail, q.tasks[0].Type())

	p, err := ParseCustomerEmailTask(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, msg, p.Message)
	assert.Equal(t, meta, p.Meta)

	q.err = errors.New("redis down")
	assert.Error(t, NewQueueDispatcher(q).Dispatch(context.Background(), msg, meta))
}

func TestInlineDispatcher(t *testing.T) {
	m := &scriptedMailer{}
	r, _, _ := newTestRetrier(m)
	require.NoError(t, NewInlineDispatcher(r).Dispatch(context.Background(), Message{To: "a@example.com"}, Meta{}))
	assert.Len(t, m.sent, 1)
}
