package tenant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instaquote/models"
)

func defaultRegistry() *Registry {
	return NewRegistry(Defaults("owner@example.com", "", ""))
}

func TestResolve(t *testing.T) {
	r := defaultRegistry()

	cases := []struct {
		name     string
		host     string
		slug     string
		wantSlug string
		wantErr  error
	}{
		{name: "localhost with port", host: "localhost:3000", wantSlug: "demo"},
		{name: "mapped host is case-insensitive", host: "Instant-Quote-Lawn-Care.vercel.app", wantSlug: "instant-quote-vercel"},
		{name: "unknown host falls back to demo", host: "unknown.example.com", wantSlug: "demo"},
		{name: "empty host", host: "", wantSlug: "demo"},
		{name: "known slug wins over host", host: "localhost", slug: "instant-quote-vercel", wantSlug: "instant-quote-vercel"},
		{name: "unknown slug", host: "localhost", slug: "nope", wantErr: ErrTenantNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve(tc.host, tc.slug)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSlug, got.Slug)
		})
	}
}

func TestResolve_HostedDemoKeepsItsOwnOrigins(t *testing.T) {
	r := defaultRegistry()
	hosted := r.ByHost("demo.instant-quote.online")
	assert.Equal(t, "demo", hosted.Slug)
	assert.True(t, IsAllowedOrigin(hosted, "https://example-wordpress-site.com"))

	local, err := r.BySlug("demo")
	require.NoError(t, err)
	assert.False(t, IsAllowedOrigin(local, "https://example-wordpress-site.com"))
}

func TestStripPort(t *testing.T) {
	assert.Equal(t, "localhost", StripPort(" LocalHost:3000 "))
	assert.Equal(t, "example.com", StripPort("example.com"))
	assert.Equal(t, "[::1]", StripPort("[::1]:8080"))
	assert.Equal(t, "[::1]", StripPort("[::1]"))
}

func TestSlugFromPath(t *testing.T) {
	assert.Equal(t, "acme", SlugFromPath("/t/acme/measure"))
	assert.Equal(t, "acme", SlugFromPath("/t/ACME"))
	assert.Empty(t, SlugFromPath("/measure"))
	assert.Empty(t, SlugFromPath("/tenant/acme"))
}

func TestSubmissionAllowed(t *testing.T) {
	tenant := &models.TenantConfig{AllowedDomains: []string{"https://Lawn.example.com/", "not a url"}}

	assert.True(t, SubmissionAllowed(tenant, "https://lawn.example.com", "", "https://app.test"))
	assert.True(t, SubmissionAllowed(tenant, "", "https://lawn.example.com/quote?x=1", "https://app.test"))
	assert.False(t, SubmissionAllowed(tenant, "https://evil.example.com", "", "https://app.test"))
	assert.False(t, SubmissionAllowed(tenant, "https://app.test", "", "https://app.test"), "self origin only counts when the list is empty")
	assert.False(t, SubmissionAllowed(tenant, "", "", "https://app.test"))

	open := &models.TenantConfig{}
	assert.True(t, SubmissionAllowed(open, "https://app.test", "", "https://app.test"))
	assert.False(t, SubmissionAllowed(open, "https://other.test", "", "https://app.test"))
}

func TestFrameAncestors(t *testing.T) {
	tenant := &models.TenantConfig{AllowedDomains: []string{"https://a.example.com", "https://A.example.com/path", "https://b.example.com"}}
	assert.Equal(t, "frame-ancestors 'self' https://a.example.com https://b.example.com;", FrameAncestors(tenant))
	assert.Equal(t, "frame-ancestors 'self';", FrameAncestors(&models.TenantConfig{}))
}

func TestHexToRGB(t *testing.T) {
	assert.Equal(t, "22 163 74", HexToRGB("#16a34a"))
	assert.Equal(t, "255 122 0", HexToRGB("#FF7A00"))
	assert.Equal(t, "255 255 255", HexToRGB("fff"))
	assert.Equal(t, FallbackRGB, HexToRGB("#zzzzzz"))
	assert.Equal(t, FallbackRGB, HexToRGB(""))
}

func TestBranding(t *testing.T) {
	r := defaultRegistry()
	b := Branding(r.Fallback())
	assert.Equal(t, "demo", b.Slug)
	assert.Equal(t, "22 163 74", b.PrimaryRGB)
	assert.Equal(t, DefaultContactPhone, b.SupportPhone)
	assert.Equal(t, models.ModeArea, b.Mode)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tenants:
  - slug: Acme
    brand_name: Acme Fences
    hosts: ["quotes.acme.test"]
    allowed_domains: ["https://acme.test"]
    mode: length
    fence:
      default_type: vinyl
      per_foot:
        vinyl: 40
      walk_gate: 300
  - slug: demo
    brand_name: Demo Override
`), 0o600))

	r, err := Load(path, "owner@example.com", "bcc@example.com", "")
	require.NoError(t, err)

	acme := r.ByHost("quotes.acme.test:443")
	assert.Equal(t, "acme", acme.Slug)
	assert.Equal(t, models.ModeLength, acme.Mode)
	assert.Equal(t, "owner@example.com", acme.OwnerEmail)
	assert.Equal(t, "bcc@example.com", acme.BCC)
	assert.Equal(t, defaultPrimaryHex, acme.PrimaryHex)
	require.NotNil(t, acme.Fence)
	assert.Equal(t, 40.0, acme.Fence.PerFoot["vinyl"])

	demo, err := r.BySlug("demo")
	require.NoError(t, err)
	assert.Equal(t, "Demo Override", demo.BrandName)
	assert.Equal(t, "Demo Override", r.Fallback().BrandName)

	_, err = r.BySlug("instant-quote-vercel")
	assert.NoError(t, err)

	assert.True(t, r.AllOrigins()["https://acme.test"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "", "", "")
	assert.Error(t, err)
}
