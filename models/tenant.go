package models

// TenantConfig is the branding and policy of one funnel instance.
// It is resolved once per request and never mutated afterwards.
type TenantConfig struct {
	Slug           string         `json:"slug" mapstructure:"slug"`
	BrandName      string         `json:"brandName" mapstructure:"brand_name"`
	Tagline        string         `json:"tagline,omitempty" mapstructure:"tagline"`
	LogoURL        string         `json:"logoUrl,omitempty" mapstructure:"logo_url"`
	PrimaryHex     string         `json:"primaryHex" mapstructure:"primary_hex"`
	BgTintHex      string         `json:"bgTintHex" mapstructure:"bg_tint_hex"`
	OwnerEmail     string         `json:"-" mapstructure:"owner_email"`
	BCC            string         `json:"-" mapstructure:"bcc"`
	SupportPhone   string         `json:"supportPhone,omitempty" mapstructure:"support_phone"`
	AllowedDomains []string       `json:"-" mapstructure:"allowed_domains"`
	Hosts          []string       `json:"-" mapstructure:"hosts"`
	PricingModel   string         `json:"pricingModel" mapstructure:"pricing_model"`
	Mode           MeasureMode    `json:"mode" mapstructure:"mode"`
	Fence          *FenceRateCard `json:"fence,omitempty" mapstructure:"fence"`
}

// TenantBranding is the public view served to the funnel pages.
type TenantBranding struct {
	Slug         string      `json:"slug"`
	BrandName    string      `json:"brandName"`
	Tagline      string      `json:"tagline,omitempty"`
	LogoURL      string      `json:"logoUrl,omitempty"`
	PrimaryHex   string      `json:"primaryHex"`
	PrimaryRGB   string      `json:"primaryRgb"`
	BgTintHex    string      `json:"bgTintHex"`
	SupportPhone string      `json:"supportPhone,omitempty"`
	Mode         MeasureMode `json:"mode"`
}
