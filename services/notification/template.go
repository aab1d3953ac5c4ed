package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"instaquote/utils"
)

// EmailLine is one priced row of the quote table.
type EmailLine struct {
	Label string
	Price float64
}

// QuoteEmail is the data rendered into owner and customer emails. Lead
// details are only shown in the owner copy.
type QuoteEmail struct {
	BrandName        string
	Name             string
	Address          string
	MeasurementLabel string
	Measurement      float64
	Unit             string
	PreferredDate    string
	Lines            []EmailLine
	Total            float64
	ContactPhone     string
	CustomerPhone    string
	CustomerEmail    string
	ShowLeadDetails  bool
}

func OwnerSubject(address string) string    { return "New Instant Quote Lead - " + address }
func CustomerSubject(address string) string { return "Your Quote for - " + address }

var quoteEmailTmpl = template.Must(template.New("quote").Funcs(template.FuncMap{
	"currency": utils.FormatCurrency,
	"number":   utils.FormatNumber,
	"orDefault": func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	},
}).Parse(quoteEmailHTML))

// RenderQuoteEmail renders the HTML body of a quote email.
func RenderQuoteEmail(e QuoteEmail) (string, error) {
	if e.MeasurementLabel == "" {
		e.MeasurementLabel = "Lawn Size"
	}
	if e.Unit == "" {
		e.Unit = "sqft"
	}
	var buf bytes.Buffer
	if err := quoteEmailTmpl.Execute(&buf, e); err != nil {
		return "", fmt.Errorf("render quote email: %w", err)
	}
	return buf.String(), nil
}

const quoteEmailHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{ orDefault .BrandName "Instant Quote" }}</title>
  </head>
  <body style="margin: 0; padding: 0; background-color: #111827;">
    <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="background-color: #111827; padding: 24px 12px;">
      <tr>
        <td align="center">
          <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="max-width: 620px; background-color: #1f2937; border-radius: 12px; border: 1px solid #374151;">
            <tr>
              <td style="padding: 24px; font-family: Arial, sans-serif; color: #d1d5db; font-size: 14px;">
                <h1 style="margin: 0 0 16px; color: #ffffff; font-size: 24px;">Instant Quote Summary</h1>

                <h2 style="margin: 0 0 10px; color: #ffffff; font-size: 16px;">Property Details</h2>
                <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="margin-bottom: 20px;">
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">Name:</strong> {{ .Name }}</td></tr>
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">Address:</strong> {{ .Address }}</td></tr>
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">{{ .MeasurementLabel }}:</strong> {{ number .Measurement }} {{ .Unit }}</td></tr>
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">Preferred Date:</strong> {{ orDefault .PreferredDate "Not provided" }}</td></tr>
                  {{- if .ShowLeadDetails }}
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">Customer Phone:</strong> {{ orDefault .CustomerPhone "N/A" }}</td></tr>
                  <tr><td style="padding: 6px 0;"><strong style="color: #ffffff;">Customer Email:</strong> {{ orDefault .CustomerEmail "N/A" }}</td></tr>
                  {{- end }}
                </table>

                <h2 style="margin: 0 0 10px; color: #ffffff; font-size: 16px;">Services &amp; Pricing</h2>
                <table role="presentation" width="100%" cellspacing="0" cellpadding="0" border="0" style="margin-bottom: 16px;">
                  {{- range .Lines }}
                  <tr>
                    <td style="padding: 10px 0; border-bottom: 1px solid #374151; color: #e5e7eb;">{{ .Label }}</td>
                    <td align="right" style="padding: 10px 0; border-bottom: 1px solid #374151; color: #e5e7eb;">{{ currency .Price }}</td>
                  </tr>
                  {{- end }}
                </table>

                <p style="margin: 0 0 20px; color: #22c55e; font-size: 24px; font-weight: bold;">Total: {{ currency .Total }}</p>

                <a href="tel:{{ .ContactPhone }}" style="display: inline-block; padding: 12px 18px; border-radius: 8px; background-color: #22c55e; color: #052e16; text-decoration: none; font-weight: bold;">Contact Us</a>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`
