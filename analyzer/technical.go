package analyzer

import "github.com/seo-optimizer/advisor/models"

// TechnicalInput carries the resolved technical signals of a page.
type TechnicalInput struct {
	HasSchema     bool
	Canonical     string
	HTTPS         bool
	HasSocialMeta bool
}

// AnalyzeTechnical checks structured data, canonical URL, transport and social tags.
func AnalyzeTechnical(in TechnicalInput) *models.Group {
	g := models.NewGroup()

	if in.HasSchema {
		g.Add(RuleSchemaMarkup.good("Structured data markup found."))
	} else {
		g.Add(RuleSchemaMarkup.warning(0.5,
			"No structured data markup found.",
			"Add JSON-LD schema markup describing the content."))
	}

	// Canonical resolution ends at the permalink, so the warning only fires
	// when a provider chain without that fallback is configured.
	if in.Canonical != "" {
		g.Add(RuleCanonicalURL.good("Canonical URL is set."))
	} else {
		g.Add(RuleCanonicalURL.warning(0.5,
			"No canonical URL is set.",
			"Declare a canonical URL to avoid duplicate content."))
	}

	g.Add(RuleMobileFriendly.good("Theme is assumed to be responsive."))

	if in.HTTPS {
		g.Add(RuleSSL.good("Site is served over HTTPS."))
	} else {
		g.Add(RuleSSL.critical(
			"Site is not served over HTTPS.",
			"Install a TLS certificate and redirect all traffic to HTTPS."))
	}

	if in.HasSocialMeta {
		g.Add(RuleSocialMeta.good("Open Graph or Twitter Card tags found."))
	} else {
		g.Add(RuleSocialMeta.warning(0.75,
			"No Open Graph or Twitter Card tags found.",
			"Add social meta tags so shared links render a rich preview."))
	}

	return g
}
