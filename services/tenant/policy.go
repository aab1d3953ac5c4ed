package tenant

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"instaquote/models"
)

// FallbackRGB is used when a tenant color cannot be parsed.
const FallbackRGB = "22 163 74"

// NormalizeOrigin reduces a URL to its lowercased scheme://host[:port].
func NormalizeOrigin(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme + "://" + u.Host), true
}

// AllowedOrigins returns the tenant's parseable allowed origins.
func AllowedOrigins(t *models.TenantConfig) []string {
	out := make([]string, 0, len(t.AllowedDomains))
	for _, d := range t.AllowedDomains {
		if o, ok := NormalizeOrigin(d); ok {
			out = append(out, o)
		}
	}
	return out
}

// IsAllowedOrigin reports whether origin is in the tenant allow-list.
func IsAllowedOrigin(t *models.TenantConfig, origin string) bool {
	o, ok := NormalizeOrigin(origin)
	if !ok {
		return false
	}
	for _, allowed := range AllowedOrigins(t) {
		if allowed == o {
			return true
		}
	}
	return false
}

// SubmissionAllowed gates quote submissions on the Origin or Referer header.
// Tenants without an allow-list accept only the app's own origin.
func SubmissionAllowed(t *models.TenantConfig, origin, referer, selfOrigin string) bool {
	o, hasOrigin := NormalizeOrigin(origin)
	r, hasReferer := NormalizeOrigin(referer)
	if !hasOrigin && !hasReferer {
		return false
	}
	if (hasOrigin && IsAllowedOrigin(t, o)) || (hasReferer && IsAllowedOrigin(t, r)) {
		return true
	}
	if len(t.AllowedDomains) == 0 {
		self, ok := NormalizeOrigin(selfOrigin)
		return ok && ((hasOrigin && o == self) || (hasReferer && r == self))
	}
	return false
}

// FrameAncestors is the Content-Security-Policy value limiting who may embed the funnel.
func FrameAncestors(t *models.TenantConfig) string {
	seen := map[string]bool{"'self'": true}
	parts := []string{"'self'"}
	for _, o := range AllowedOrigins(t) {
		if !seen[o] {
			seen[o] = true
			parts = append(parts, o)
		}
	}
	return fmt.Sprintf("frame-ancestors %s;", strings.Join(parts, " "))
}

// HexToRGB turns #rgb or #rrggbb into "r g b" for CSS custom properties.
func HexToRGB(hex string) string {
	h := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return FallbackRGB
	}
	var rgb [3]uint64
	for i := range rgb {
		v, err := strconv.ParseUint(h[i*2:i*2+2], 16, 8)
		if err != nil {
			return FallbackRGB
		}
		rgb[i] = v
	}
	return fmt.Sprintf("%d %d %d", rgb[0], rgb[1], rgb[2])
}

// Branding is the public face of a tenant.
func Branding(t *models.TenantConfig) models.TenantBranding {
	return models.TenantBranding{
		Slug:         t.Slug,
		BrandName:    t.BrandName,
		Tagline:      t.Tagline,
		LogoURL:      t.LogoURL,
		PrimaryHex:   t.PrimaryHex,
		PrimaryRGB:   HexToRGB(t.PrimaryHex),
		BgTintHex:    t.BgTintHex,
		SupportPhone: t.SupportPhone,
		Mode:         t.Mode,
	}
}

// ContactPhone is the number printed in emails for t.
func ContactPhone(t *models.TenantConfig) string {
	if t.SupportPhone != "" {
		return t.SupportPhone
	}
	return DefaultContactPhone
}
