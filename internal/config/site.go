package config

// SiteConfig holds per-domain fetch overrides. Some sites only render
// correctly with a specific geo or device hint, or need a longer
// render wait than the default.
type SiteConfig struct {
	// CountryCode overrides the geo hint for this domain.
	CountryCode string `yaml:"countryCode,omitempty"`

	// DeviceType overrides the device hint for this domain.
	DeviceType string `yaml:"deviceType,omitempty"`

	// RenderWaitMillis overrides the JS render wait for this domain.
	// If zero, the default wait is used.
	RenderWaitMillis int `yaml:"renderWaitMillis,omitempty"`

	// SkipEnhanced goes straight to the basic fetch tier. Useful for
	// static sites where rendering wastes proxy credits.
	SkipEnhanced bool `yaml:"skipEnhanced,omitempty"`
}

// File represents the structure of the .pagelens configuration file.
type File struct {
	// Sites maps domains to their fetch overrides (e.g. "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains overrides applied to all domains unless a
	// site-specific entry overrides them.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the merged configuration for a domain.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[domain]; ok {
		if siteConfig.CountryCode != "" {
			result.CountryCode = siteConfig.CountryCode
		}
		if siteConfig.DeviceType != "" {
			result.DeviceType = siteConfig.DeviceType
		}
		if siteConfig.RenderWaitMillis != 0 {
			result.RenderWaitMillis = siteConfig.RenderWaitMillis
		}
		if siteConfig.SkipEnhanced {
			result.SkipEnhanced = true
		}
	}

	return result
}
