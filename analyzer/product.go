package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

// AnalyzeProduct checks the commerce record of a product. Fast depth stops after the tag checks.
func AnalyzeProduct(p *models.Product, kw models.Keywords, depth Depth, hasSchema bool) *models.Group {
	g := models.NewGroup()
	focus := kw.Focus

	short := textutil.StripMarkup(p.ShortDescription)
	switch {
	case strings.TrimSpace(p.ShortDescription) == "":
		g.Add(RuleShortDescription.critical(
			"Product has no short description.",
			"Write a short description summarizing the main benefits."))
	case utf8.RuneCountInString(short) < MinShortDescription:
		g.Add(RuleShortDescription.warning(0.5,
			fmt.Sprintf("Short description is only %d characters.", utf8.RuneCountInString(short)),
			fmt.Sprintf("Expand the short description to at least %d characters.", MinShortDescription)))
	default:
		g.Add(RuleShortDescription.good("Short description has a good length."))
	}

	if focus != "" && short != "" {
		if textutil.ContainsFold(short, focus) {
			g.Add(RuleKeywordInShortDesc.good("Short description contains the focus keyword."))
		} else {
			g.Add(RuleKeywordInShortDesc.warning(0.75,
				"Short description does not contain the focus keyword.",
				fmt.Sprintf("Mention %q in the short description.", focus)))
		}
	}

	if len(p.Attributes) > 0 {
		g.Add(RuleProductAttributes.good(fmt.Sprintf("Product has %d attributes.", len(p.Attributes))))
	} else {
		g.Add(RuleProductAttributes.warning(0.5,
			"Product has no attributes.",
			"Add attributes such as size, color or material."))
	}

	cats := len(p.Categories)
	switch {
	case cats == 0:
		g.Add(RuleProductCategories.critical(
			"Product is not assigned to any category.",
			"Assign the product to at least one relevant category."))
	case cats > MaxProductCategory:
		g.Add(RuleProductCategories.warning(0.5,
			fmt.Sprintf("Product is in %d categories.", cats),
			fmt.Sprintf("Keep the product in at most %d focused categories.", MaxProductCategory)))
	default:
		g.Add(RuleProductCategories.good(fmt.Sprintf("Product is in %d categories.", cats)))
	}

	if cats > 0 {
		undescribed := 0
		for _, c := range p.Categories {
			if strings.TrimSpace(c.Description) == "" {
				undescribed++
			}
		}
		if undescribed > 0 {
			g.Add(RuleCategoryDescriptions.warning(0.75,
				fmt.Sprintf("%d of %d product categories have no description.", undescribed, cats),
				"Write a description for every product category."))
		} else {
			g.Add(RuleCategoryDescriptions.good("Every product category has a description."))
		}
	}

	tags := len(p.Tags)
	switch {
	case tags == 0:
		g.Add(RuleProductTags.warning(0.5,
			"Product has no tags.",
			"Add a handful of descriptive tags."))
	case tags > MaxProductTags:
		g.Add(RuleProductTags.warning(0.5,
			fmt.Sprintf("Product has %d tags.", tags),
			fmt.Sprintf("Reduce the tags to the %d most relevant.", MaxProductTags)))
	default:
		g.Add(RuleProductTags.good(fmt.Sprintf("Product has %d tags.", tags)))
	}

	if focus != "" && tags > 0 {
		found := false
		for _, t := range p.Tags {
			if textutil.ContainsFold(t.Name, focus) {
				found = true
				break
			}
		}
		if found {
			g.Add(RuleKeywordInTags.good("A product tag contains the focus keyword."))
		} else {
			g.Add(RuleKeywordInTags.warning(0.75,
				"No product tag contains the focus keyword.",
				fmt.Sprintf("Add a tag containing %q.", focus)))
		}
	}

	if depth == Fast {
		return g
	}

	img := p.MainImage
	switch {
	case img == nil:
		g.Add(RuleProductImages.critical(
			"Product has no main image.",
			"Upload a main product image."))
	case len(p.Gallery) == 0:
		g.Add(RuleProductImages.warning(0.5,
			"Product has no gallery images.",
			"Add gallery images showing the product from other angles."))
	default:
		g.Add(RuleProductImages.good(fmt.Sprintf("Product has a main image and %d gallery images.", len(p.Gallery))))
	}

	if img != nil {
		if img.Width < MinImageDimension || img.Height < MinImageDimension {
			g.Add(RuleImageQuality.warning(0.5,
				fmt.Sprintf("Main image is %dx%d pixels.", img.Width, img.Height),
				fmt.Sprintf("Use a main image of at least %dx%d pixels.", MinImageDimension, MinImageDimension)))
		} else {
			g.Add(RuleImageQuality.good(fmt.Sprintf("Main image resolution is good (%dx%d).", img.Width, img.Height)))
		}

		alt := strings.TrimSpace(img.Alt)
		switch {
		case alt == "":
			g.Add(RuleImageAltText.critical(
				"Main image has no alt text.",
				"Describe the main image in its alt text."))
		case focus != "" && !textutil.ContainsFold(alt, focus):
			g.Add(RuleImageAltText.warning(0.75,
				"Main image alt text does not contain the focus keyword.",
				fmt.Sprintf("Include %q in the main image alt text.", focus)))
		default:
			g.Add(RuleImageAltText.good("Main image alt text is good."))
		}
	}

	switch {
	case p.ReviewCount == 0:
		g.Add(RuleProductReviews.warning(0.5,
			"Product has no reviews.",
			"Ask customers to review the product."))
	case p.ReviewCount < GoodReviewCount:
		g.Add(RuleProductReviews.warning(0.75,
			fmt.Sprintf("Product has only %d reviews.", p.ReviewCount),
			"Encourage more customers to leave reviews."))
	default:
		g.Add(RuleProductReviews.good(fmt.Sprintf("Product has %d reviews.", p.ReviewCount)))
	}

	if hasSchema {
		g.Add(RuleProductSchema.good("Product structured data is emitted."))
	} else {
		g.Add(RuleProductSchema.warning(0.5,
			"Product structured data is not emitted.",
			"Enable Product schema markup."))
	}

	if strings.TrimSpace(p.Price) == "" {
		g.Add(RuleProductPrice.critical(
			"Product has no price.",
			"Set a price for the product."))
	} else {
		g.Add(RuleProductPrice.good("Product has a price."))
	}

	if strings.TrimSpace(p.SKU) == "" {
		g.Add(RuleProductSKU.warning(0.75,
			"Product has no SKU.",
			"Assign a unique SKU."))
	} else {
		g.Add(RuleProductSKU.good("Product has a SKU."))
	}

	if p.Variable {
		if len(p.Variations) == 0 {
			g.Add(RuleProductVariations.critical(
				"Variable product has no available variations.",
				"Create at least one purchasable variation."))
		} else {
			undescribed := 0
			for _, v := range p.Variations {
				if strings.TrimSpace(v.Description) == "" {
					undescribed++
				}
			}
			if undescribed > 0 {
				g.Add(RuleVariationDescriptions.warning(0.75,
					fmt.Sprintf("%d of %d variations have no description.", undescribed, len(p.Variations)),
					"Describe what sets each variation apart."))
			} else {
				g.Add(RuleVariationDescriptions.good("Every variation has a description."))
			}
			g.Add(RuleProductVariations.good(fmt.Sprintf("Product has %d variations.", len(p.Variations))))
		}
	}

	if len(p.RelatedIDs) == 0 {
		g.Add(RuleRelatedProducts.warning(0.5,
			"Product has no related products.",
			"Link upsells or cross-sells to the product."))
	} else {
		g.Add(RuleRelatedProducts.good(fmt.Sprintf("Product has %d related products.", len(p.RelatedIDs))))
	}

	return g
}
