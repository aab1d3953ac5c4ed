package tenant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"instaquote/models"
)

const (
	DefaultSlug         = "demo"
	DefaultContactPhone = "+18016516326"
	defaultPrimaryHex   = "#16a34a"
	defaultBgTintHex    = "#eafaf1"
)

var ErrTenantNotFound = errors.New("tenant: not found")

// Defaults are the tenants built into the binary.
func Defaults(ownerEmail, bcc, phone string) []models.TenantConfig {
	if phone == "" {
		phone = DefaultContactPhone
	}
	demo := models.TenantConfig{
		Slug:           DefaultSlug,
		BrandName:      "Instant Lawn Quote",
		Tagline:        "Get an exact lawn care price in minutes.",
		PrimaryHex:     defaultPrimaryHex,
		BgTintHex:      defaultBgTintHex,
		OwnerEmail:     ownerEmail,
		BCC:            bcc,
		SupportPhone:   phone,
		AllowedDomains: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		Hosts:          []string{"localhost", "127.0.0.1"},
		Mode:           models.ModeArea,
	}

	hosted := demo
	hosted.Hosts = []string{"demo.instant-quote.online"}
	hosted.AllowedDomains = []string{
		"https://demo.instant-quote.online",
		"https://www.demo.instant-quote.online",
		"https://example-wordpress-site.com",
	}

	vercel := demo
	vercel.Slug = "instant-quote-vercel"
	vercel.BrandName = "Green Lawn Utah"
	vercel.Tagline = "Fast lawn pricing in minutes."
	vercel.PrimaryHex = "#FF7A00"
	vercel.BgTintHex = "#ecfeff"
	vercel.Hosts = []string{"instant-quote-lawn-care.vercel.app"}
	vercel.AllowedDomains = []string{"https://instant-quote-lawn-care.vercel.app"}

	fence := demo
	fence.Slug = "demo-fence"
	fence.BrandName = "Instant Fence Quote"
	fence.Tagline = "Trace your fence line and get a price on the spot."
	fence.Hosts = nil
	fence.Mode = models.ModeLength

	return []models.TenantConfig{demo, hosted, vercel, fence}
}

// Registry looks tenants up by slug and by host. It is read-only once built.
type Registry struct {
	bySlug   map[string]*models.TenantConfig
	byHost   map[string]*models.TenantConfig
	all      []*models.TenantConfig
	fallback *models.TenantConfig
}

// NewRegistry indexes tenants. The first tenant registered under a slug owns
// it; later entries with the same slug only add hosts. The demo tenant, or
// else the first one, is the fallback for unknown hosts.
func NewRegistry(tenants []models.TenantConfig) *Registry {
	r := &Registry{
		bySlug: make(map[string]*models.TenantConfig),
		byHost: make(map[string]*models.TenantConfig),
	}
	for i := range tenants {
		t := tenants[i]
		t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
		if t.Slug == "" {
			continue
		}
		if !t.Mode.Valid() {
			t.Mode = models.ModeArea
		}
		cfg := &t
		r.all = append(r.all, cfg)
		if _, ok := r.bySlug[t.Slug]; !ok {
			r.bySlug[t.Slug] = cfg
		}
		for _, h := range t.Hosts {
			r.byHost[StripPort(h)] = cfg
		}
	}
	r.fallback = r.bySlug[DefaultSlug]
	if r.fallback == nil && len(r.all) > 0 {
		r.fallback = r.all[0]
	}
	return r
}

// Load builds the registry from the defaults plus an optional tenants file.
// Entries in the file replace a default with the same slug.
func Load(path, ownerEmail, bcc, phone string) (*Registry, error) {
	tenants := Defaults(ownerEmail, bcc, phone)
	if path == "" {
		return NewRegistry(tenants), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read tenants file: %w", err)
	}
	var file struct {
		Tenants []models.TenantConfig `mapstructure:"tenants"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode tenants file: %w", err)
	}

	overridden := make(map[string]bool)
	for i := range file.Tenants {
		t := &file.Tenants[i]
		t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
		if t.OwnerEmail == "" {
			t.OwnerEmail = ownerEmail
		}
		if t.BCC == "" {
			t.BCC = bcc
		}
		if t.SupportPhone == "" {
			t.SupportPhone = phone
		}
		if t.PrimaryHex == "" {
			t.PrimaryHex = defaultPrimaryHex
		}
		if t.BgTintHex == "" {
			t.BgTintHex = defaultBgTintHex
		}
		overridden[t.Slug] = true
	}

	merged := make([]models.TenantConfig, 0, len(tenants)+len(file.Tenants))
	merged = append(merged, file.Tenants...)
	for _, t := range tenants {
		if !overridden[t.Slug] {
			merged = append(merged, t)
		}
	}
	return NewRegistry(merged), nil
}

// BySlug returns the tenant owning slug.
func (r *Registry) BySlug(slug string) (*models.TenantConfig, error) {
	t, ok := r.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return t, nil
}

// ByHost returns the tenant mapped to host, or the fallback tenant.
func (r *Registry) ByHost(host string) *models.TenantConfig {
	if t, ok := r.byHost[StripPort(host)]; ok {
		return t
	}
	return r.fallback
}

// Resolve picks the tenant for a request. A non-empty slug must be known.
func (r *Registry) Resolve(host, slug string) (*models.TenantConfig, error) {
	if slug != "" {
		return r.BySlug(slug)
	}
	return r.ByHost(host), nil
}

// Fallback is the tenant served to unknown hosts.
func (r *Registry) Fallback() *models.TenantConfig { return r.fallback }

// All lists every registered tenant configuration.
func (r *Registry) All() []*models.TenantConfig { return r.all }

// AllOrigins is the union of every tenant's allowed origins.
func (r *Registry) AllOrigins() map[string]bool {
	out := make(map[string]bool)
	for _, t := range r.all {
		for _, o := range AllowedOrigins(t) {
			out[o] = true
		}
	}
	return out
}

// StripPort lowercases host and removes a trailing :port.
func StripPort(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		port := host[i+1:]
		if port != "" && strings.Trim(port, "0123456789") == "" {
			return host[:i]
		}
	}
	return host
}

// SlugFromPath extracts the slug of a /t/<slug>/... path.
func SlugFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, "/t/")
	if !ok {
		return ""
	}
	slug, _, _ := strings.Cut(rest, "/")
	return strings.ToLower(slug)
}
