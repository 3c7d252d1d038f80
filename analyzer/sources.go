package analyzer

import (
	"regexp"
	"strings"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

// Meta keys read from content items.
const (
	MetaFocusKeyword      = "_seo_advisor_focus_keyword"
	MetaSecondaryKeywords = "_seo_advisor_secondary_keywords"
)

// Page is a content item prepared for analysis.
type Page struct {
	Item      *models.ContentItem
	Doc       *textutil.Document
	Permalink string
}

// Host describes the site the content is published on.
type Host struct {
	SiteURL       string
	HTTPS         bool
	ActivePlugins []string
	// ProductSchema reports whether the commerce platform emits product structured data.
	ProductSchema bool
}

// PluginActive reports whether any of the named plugins is active.
func (h Host) PluginActive(names ...string) bool {
	for _, active := range h.ActivePlugins {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(active), name) {
				return true
			}
		}
	}
	return false
}

// MetaDescriptionProvider returns a meta description for a page, or "" when it has none.
type MetaDescriptionProvider interface {
	MetaDescription(p *Page) string
}

// CanonicalProvider returns a canonical URL for a page, or "" when it has none.
type CanonicalProvider interface {
	Canonical(p *Page) string
}

// MetaKey reads a value stored in the content item's meta under Key.
type MetaKey struct {
	Source string
	Key    string
}

func (m MetaKey) MetaDescription(p *Page) string { return p.Item.MetaValue(m.Key) }

func (m MetaKey) Canonical(p *Page) string { return p.Item.MetaValue(m.Key) }

// Excerpt uses the item's excerpt as meta description.
type Excerpt struct{}

func (Excerpt) MetaDescription(p *Page) string { return strings.TrimSpace(p.Item.Excerpt) }

// Summary derives a meta description from the first Words words of the body.
type Summary struct {
	Words int
}

func (s Summary) MetaDescription(p *Page) string {
	return textutil.Summarize(p.Doc.Text(), s.Words)
}

// Permalink uses the page permalink as canonical URL.
type Permalink struct{}

func (Permalink) Canonical(p *Page) string { return p.Permalink }

// DefaultMetaDescriptionProviders is the lookup order for meta descriptions.
func DefaultMetaDescriptionProviders() []MetaDescriptionProvider {
	return []MetaDescriptionProvider{
		MetaKey{Source: "yoast", Key: "_yoast_wpseo_metadesc"},
		MetaKey{Source: "aioseo", Key: "_aioseo_description"},
		MetaKey{Source: "rankmath", Key: "rank_math_description"},
		MetaKey{Source: "genesis", Key: "_genesis_description"},
		Excerpt{},
		Summary{Words: MetaSummaryWordLength},
	}
}

// DefaultCanonicalProviders is the lookup order for canonical URLs.
func DefaultCanonicalProviders() []CanonicalProvider {
	return []CanonicalProvider{
		MetaKey{Source: "yoast", Key: "_yoast_wpseo_canonical"},
		MetaKey{Source: "aioseo", Key: "_aioseo_canonical_url"},
		MetaKey{Source: "rankmath", Key: "rank_math_canonical_url"},
		MetaKey{Source: "generic", Key: "_canonical"},
		Permalink{},
	}
}

// ResolveMetaDescription returns the first non-empty description.
func ResolveMetaDescription(providers []MetaDescriptionProvider, p *Page) string {
	for _, provider := range providers {
		if v := strings.TrimSpace(provider.MetaDescription(p)); v != "" {
			return v
		}
	}
	return ""
}

// ResolveCanonical returns the first non-empty canonical URL.
func ResolveCanonical(providers []CanonicalProvider, p *Page) string {
	for _, provider := range providers {
		if v := strings.TrimSpace(provider.Canonical(p)); v != "" {
			return v
		}
	}
	return ""
}

// Detector is a boolean probe over a page.
type Detector interface {
	Detect(p *Page) bool
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(p *Page) bool

func (f DetectorFunc) Detect(p *Page) bool { return f(p) }

var microdata = regexp.MustCompile(`(?i)itemtype=['"]https?://schema\.org`)

// SchemaPlugins are plugins known to emit structured data.
var SchemaPlugins = []string{
	"wordpress-seo",
	"all-in-one-seo-pack",
	"seo-by-rank-math",
	"schema-and-structured-data-for-wp",
	"wp-schema-pro",
}

// SchemaMarkup detects JSON-LD or microdata in the body, or an active schema plugin.
func SchemaMarkup(host Host) Detector {
	return DetectorFunc(func(p *Page) bool {
		raw := p.Doc.Raw()
		return strings.Contains(raw, "application/ld+json") ||
			microdata.MatchString(raw) ||
			host.PluginActive(SchemaPlugins...)
	})
}

// SocialMetaKeys are meta keys written by SEO plugins for Open Graph and Twitter Cards.
var SocialMetaKeys = []string{
	"_yoast_wpseo_opengraph-title",
	"_yoast_wpseo_opengraph-description",
	"_yoast_wpseo_twitter-title",
	"_yoast_wpseo_twitter-description",
	"_aioseo_og_title",
	"_aioseo_og_description",
	"_aioseo_twitter_title",
	"rank_math_facebook_title",
	"rank_math_facebook_description",
	"rank_math_twitter_title",
}

// SocialMeta detects plugin-managed social tags or inline Open Graph/Twitter markers.
func SocialMeta() Detector {
	return DetectorFunc(func(p *Page) bool {
		for _, key := range SocialMetaKeys {
			if p.Item.MetaValue(key) != "" {
				return true
			}
		}
		raw := p.Doc.Raw()
		return strings.Contains(raw, "og:") || strings.Contains(raw, "twitter:card")
	})
}
