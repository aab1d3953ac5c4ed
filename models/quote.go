package models

// ServiceKey identifies one item of the lawn service catalog.
type ServiceKey string

const (
	ServiceMowing      ServiceKey = "mowing"
	ServiceAeration    ServiceKey = "aeration"
	ServicePowerRake   ServiceKey = "powerRake"
	ServiceFertilizing ServiceKey = "fertilizing"
)

// Frequency is the visit cadence; only mowing declares one.
type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
)

// Valid reports whether f is a known cadence.
func (f Frequency) Valid() bool {
	return f == FrequencyWeekly || f == FrequencyBiweekly
}

// LineItem is one priced service of a quote.
type LineItem struct {
	Key       ServiceKey `json:"key"`
	Label     string     `json:"label"`
	Price     float64    `json:"price"`
	Frequency Frequency  `json:"frequency,omitempty"`
}

// Quote is a measurement priced against a service selection.
// Total is always the sum of the line item prices.
type Quote struct {
	Measurement float64    `json:"measurement"`
	LineItems   []LineItem `json:"lineItems"`
	Total       float64    `json:"total"`
}

// ServiceItem is a line item as claimed by the client on submission.
type ServiceItem struct {
	Key       ServiceKey `json:"key" binding:"required"`
	Frequency *Frequency `json:"frequency,omitempty"`
	Price     float64    `json:"price" binding:"gte=0"`
}

// LeadContact holds the contact fields captured by the lead form.
type LeadContact struct {
	Name          string  `json:"name" binding:"required,min=1,max=120"`
	Phone         string  `json:"phone" binding:"required,min=7,max=40"`
	Email         string  `json:"email" binding:"required,email,max=180"`
	Address       string  `json:"address" binding:"required,min=3,max=300"`
	PreferredDate *string `json:"preferredDate" binding:"omitempty,max=40"`
}

// QuoteSubmission is the body of POST /api/quote.
type QuoteSubmission struct {
	LeadContact
	Sqft     int           `json:"sqft"`
	Services []ServiceItem `json:"services" binding:"required,min=1,dive"`
	Total    float64       `json:"total" binding:"gte=0"`
}

// QuotePreviewRequest asks for a price without submitting a lead.
type QuotePreviewRequest struct {
	Sqft      float64      `json:"sqft"`
	Services  []ServiceKey `json:"services"`
	Frequency Frequency    `json:"frequency"`
}
