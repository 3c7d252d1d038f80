package analyzer

import "github.com/seo-optimizer/advisor/models"

// Thresholds used by the category analyzers.
const (
	MinTitleLength           = 30
	MaxTitleLength           = 60
	MaxKeywordTitlePosition  = 10
	MinMetaDescriptionLength = 120
	MaxMetaDescriptionLength = 160

	MinWordCount          = 300
	RecommendedWordCount  = 600
	MinKeywordDensity     = 0.5
	MaxKeywordDensity     = 3.0
	LongContentWordCount  = 1000
	MinInternalLinksLong  = 3
	MaxParagraphWords     = 150
	PoorReadability       = 50
	EasyReadability       = 70
	MetaSummaryWordLength = 30

	MinShortDescription = 50
	MaxProductCategory  = 3
	MaxProductTags      = 15
	MinImageDimension   = 800
	GoodReviewCount     = 5
)

// Rule describes a single check: its stable id, label and importance tier.
type Rule struct {
	ID         string
	Name       string
	Importance models.Importance
}

func (r Rule) result(status models.Status, score float64, message, action string) models.CheckResult {
	return models.CheckResult{
		ID:                r.ID,
		Name:              r.Name,
		Status:            status,
		Score:             score,
		Message:           message,
		Importance:        r.Importance,
		RecommendedAction: action,
	}
}

func (r Rule) good(message string) models.CheckResult {
	return r.result(models.StatusGood, 1, message, "")
}

func (r Rule) warning(score float64, message, action string) models.CheckResult {
	return r.result(models.StatusWarning, score, message, action)
}

func (r Rule) critical(message, action string) models.CheckResult {
	return r.result(models.StatusCritical, 0, message, action)
}

// Meta rules.
var (
	RuleTitleLength           = Rule{"title_length", "Title Length", models.ImportanceHigh}
	RuleTitleKeyword          = Rule{"title_keyword", "Title Keyword", models.ImportanceHigh}
	RuleTitleKeywordPosition  = Rule{"title_keyword_position", "Keyword Position in Title", models.ImportanceMedium}
	RuleSlugKeyword           = Rule{"slug_keyword", "URL Keyword", models.ImportanceHigh}
	RuleMetaDescriptionLength = Rule{"meta_description_length", "Meta Description Length", models.ImportanceHigh}
	RuleMetaDescriptionKey    = Rule{"meta_description_keyword", "Meta Description Keyword", models.ImportanceHigh}
	RuleMetaDescriptionSecond = Rule{"meta_description_secondary", "Secondary Keywords in Meta", models.ImportanceMedium}
)

// Content rules.
var (
	RuleContentLength     = Rule{"content_length", "Content Length", models.ImportanceHigh}
	RuleKeywordDensity    = Rule{"keyword_density", "Keyword Density", models.ImportanceHigh}
	RuleHeadings          = Rule{"headings", "Heading Structure", models.ImportanceHigh}
	RuleKeywordInHeadings = Rule{"keyword_in_headings", "Keyword in Headings", models.ImportanceHigh}
	RuleInternalLinks     = Rule{"internal_links", "Internal Links", models.ImportanceMedium}
	RuleExternalLinks     = Rule{"external_links", "External Links", models.ImportanceLow}
	RuleParagraphLength   = Rule{"paragraph_length", "Paragraph Length", models.ImportanceMedium}
	RuleReadability       = Rule{"readability", "Readability", models.ImportanceMedium}
)

// Image rules.
var (
	RuleImageCount        = Rule{"image_count", "Image Count", models.ImportanceMedium}
	RuleImagesAlt         = Rule{"images_alt", "Image Alt Text", models.ImportanceHigh}
	RuleKeywordInAlt      = Rule{"keyword_in_alt", "Keyword in Alt Text", models.ImportanceMedium}
	RuleImageFilenames    = Rule{"image_filenames", "Image Filenames", models.ImportanceLow}
	RuleKeywordInFilename = Rule{"keyword_in_filename", "Keyword in Image Filename", models.ImportanceLow}
)

// Technical rules.
var (
	RuleSchemaMarkup   = Rule{"schema_markup", "Schema Markup", models.ImportanceMedium}
	RuleCanonicalURL   = Rule{"canonical_url", "Canonical URL", models.ImportanceMedium}
	RuleMobileFriendly = Rule{"mobile_friendly", "Mobile-Friendly Check", models.ImportanceHigh}
	RuleSSL            = Rule{"ssl", "HTTPS/SSL", models.ImportanceHigh}
	RuleSocialMeta     = Rule{"social_meta", "Social Meta Tags", models.ImportanceLow}
)

// Product rules.
var (
	RuleShortDescription      = Rule{"short_description", "Short Description", models.ImportanceHigh}
	RuleKeywordInShortDesc    = Rule{"keyword_in_short_desc", "Keyword in Short Description", models.ImportanceMedium}
	RuleProductAttributes     = Rule{"product_attributes", "Product Attributes", models.ImportanceMedium}
	RuleProductCategories     = Rule{"product_categories", "Product Categories", models.ImportanceHigh}
	RuleCategoryDescriptions  = Rule{"category_descriptions", "Category Descriptions", models.ImportanceMedium}
	RuleProductTags           = Rule{"product_tags", "Product Tags", models.ImportanceMedium}
	RuleKeywordInTags         = Rule{"keyword_in_tags", "Keyword in Tags", models.ImportanceLow}
	RuleProductImages         = Rule{"product_images", "Product Images", models.ImportanceHigh}
	RuleImageQuality          = Rule{"image_quality", "Image Quality", models.ImportanceMedium}
	RuleImageAltText          = Rule{"image_alt_text", "Product Image Alt Text", models.ImportanceHigh}
	RuleProductReviews        = Rule{"product_reviews", "Product Reviews", models.ImportanceMedium}
	RuleProductSchema         = Rule{"product_schema", "Product Schema", models.ImportanceHigh}
	RuleProductPrice          = Rule{"product_price", "Product Price", models.ImportanceHigh}
	RuleProductSKU            = Rule{"product_sku", "Product SKU", models.ImportanceMedium}
	RuleProductVariations     = Rule{"product_variations", "Product Variations", models.ImportanceHigh}
	RuleVariationDescriptions = Rule{"variation_descriptions", "Variation Descriptions", models.ImportanceMedium}
	RuleRelatedProducts       = Rule{"related_products", "Related Products", models.ImportanceLow}
)
