package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Recipient types used in delivery logs.
const (
	RecipientOwner    = "owner"
	RecipientCustomer = "customer"
)

// Message is one outbound HTML email.
type Message struct {
	To      string `json:"to"`
	BCC     string `json:"bcc,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Meta identifies the request a message belongs to, for logging.
type Meta struct {
	Tenant        string `json:"tenant"`
	Host          string `json:"host"`
	IP            string `json:"ip"`
	RecipientType string `json:"recipientType"`
}

// Receipt is what the mail provider returned for an accepted message.
type Receipt struct {
	StatusCode int
	MessageID  string
}

// Mailer delivers a single message with no retries.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// ConfigError reports mail settings that are missing at send time.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("mail not configured: missing %s", strings.Join(e.Missing, ", "))
}

// DeliveryError is a failed send. StatusCode is 0 when no response arrived.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mail delivery failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mail delivery failed (status %d): %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Transient reports whether the failure is worth retrying.
func (e *DeliveryError) Transient() bool { return IsTransient(e.StatusCode) }

// IsTransient classifies a provider status code: no response, request
// timeout, throttling and server errors are retryable.
func IsTransient(status int) bool {
	return status == 0 ||
		status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// statusOf extracts the provider status code from err, 0 if unknown.
func statusOf(err error) int {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.StatusCode
	}
	return 0
}

// Retryable reports whether a send failure is worth another attempt.
func Retryable(err error) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return false
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Transient()
	}
	return true
}
