package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

func mustCheck(t *testing.T, g *models.Group, id string) models.CheckResult {
	t.Helper()
	c, ok := g.Get(id)
	require.True(t, ok, "missing check %s, have %v", id, g.IDs())
	return c
}

func repeatWords(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestAnalyzeMeta(t *testing.T) {
	t.Run("keyword at the start of a good title", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{
			Title:     "Buy Red Shoes Online Today For Great Discounts",
			Permalink: "https://example.com/red-shoes/",
			Keywords:  models.Keywords{Focus: "red shoes"},
		})
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "title_length").Status)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "title_keyword").Status)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "title_keyword_position").Status)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "slug_keyword").Status)
	})

	t.Run("slug keyword", func(t *testing.T) {
		tests := []struct {
			name      string
			permalink string
			focus     string
			status    models.Status
			message   string
		}{
			{"matching slug", "https://example.com/Red-Shoes-Guide/", "red shoes", models.StatusGood, "URL contains"},
			{"other slug", "https://example.com/boots/", "red shoes", models.StatusWarning, "does not contain"},
			{"plain permalink", "https://example.com/?p=12", "example", models.StatusWarning, "no slug"},
			{"keyword without slug characters", "https://example.com/red-shoes/", "日本", models.StatusWarning, "no characters"},
			{"punctuation keyword", "https://example.com/red-shoes/", "!!!", models.StatusWarning, "no characters"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				g := AnalyzeMeta(MetaInput{Title: "Title", Permalink: tt.permalink, Keywords: models.Keywords{Focus: tt.focus}})
				c := mustCheck(t, g, "slug_keyword")
				assert.Equal(t, tt.status, c.Status)
				assert.Contains(t, c.Message, tt.message)
			})
		}
	})

	t.Run("long meta description", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{Title: "Title", MetaDescription: strings.Repeat("a", 200)})
		c := mustCheck(t, g, "meta_description_length")
		assert.Equal(t, models.StatusWarning, c.Status)
		assert.Contains(t, c.Message, "too long")
	})

	t.Run("short title and description", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{Title: "Short", MetaDescription: "Too short"})
		assert.Equal(t, 0.25, mustCheck(t, g, "title_length").Score)
		assert.Contains(t, mustCheck(t, g, "meta_description_length").Message, "too short")
	})

	t.Run("no keyword skips keyword checks", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{Title: "A title that is long enough to pass the check"})
		assert.Equal(t, []string{"title_length", "meta_description_length"}, g.IDs())
	})

	t.Run("missing keyword has no position check", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{
			Title:    "A title that is long enough to pass the check",
			Keywords: models.Keywords{Focus: "shoes"},
		})
		assert.Equal(t, models.StatusCritical, mustCheck(t, g, "title_keyword").Status)
		assert.False(t, g.Has("title_keyword_position"))
	})

	t.Run("late keyword", func(t *testing.T) {
		g := AnalyzeMeta(MetaInput{
			Title:    "Everything you need to know about shoes",
			Keywords: models.Keywords{Focus: "shoes"},
		})
		c := mustCheck(t, g, "title_keyword_position")
		assert.Equal(t, models.StatusWarning, c.Status)
		assert.Equal(t, 0.75, c.Score)
	})

	t.Run("secondary keywords in description", func(t *testing.T) {
		in := MetaInput{
			Title:           "Title",
			MetaDescription: "Comfortable trail sneakers for every runner",
			Keywords:        models.Keywords{Focus: "shoes", Secondary: []string{"sneakers", "boots"}},
		}
		assert.Equal(t, models.StatusGood, mustCheck(t, AnalyzeMeta(in), "meta_description_secondary").Status)

		in.Keywords.Secondary = []string{"boots"}
		assert.Equal(t, models.StatusWarning, mustCheck(t, AnalyzeMeta(in), "meta_description_secondary").Status)
	})
}

func TestAnalyzeContent(t *testing.T) {
	t.Run("250 words without keyword", func(t *testing.T) {
		doc := textutil.Parse("<p>" + repeatWords("word", 250) + "</p>")
		g := AnalyzeContent(doc, models.Keywords{}, "https://example.com", Full)

		c := mustCheck(t, g, "content_length")
		assert.Equal(t, models.StatusCritical, c.Status)
		assert.Equal(t, 0.0, c.Score)
		assert.False(t, g.Has("keyword_density"))
		assert.False(t, g.Has("keyword_in_headings"))
	})

	t.Run("fast depth stops after headings", func(t *testing.T) {
		doc := textutil.Parse("<h2>Shoes</h2><p>" + repeatWords("shoes run", 400) + "</p>")
		g := AnalyzeContent(doc, models.Keywords{Focus: "shoes"}, "https://example.com", Fast)

		assert.Equal(t, []string{"content_length", "keyword_density", "headings", "keyword_in_headings"}, g.IDs())
		for _, id := range []string{"internal_links", "external_links", "paragraph_length", "readability"} {
			assert.False(t, g.Has(id), id)
		}
	})

	t.Run("headings", func(t *testing.T) {
		g := AnalyzeContent(textutil.Parse("<p>text</p>"), models.Keywords{}, "", Full)
		assert.Equal(t, models.StatusCritical, mustCheck(t, g, "headings").Status)

		g = AnalyzeContent(textutil.Parse("<h3>Sub</h3><p>text</p>"), models.Keywords{}, "", Full)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "headings").Status)
	})

	t.Run("links", func(t *testing.T) {
		body := `<h2>Guide</h2><p>` + repeatWords("walk", 1100) + `</p>` +
			`<a href="https://example.com/a">a</a><a href="/b">b</a><a href="https://other.org">c</a>`
		g := AnalyzeContent(textutil.Parse(body), models.Keywords{}, "https://example.com", Full)

		internal := mustCheck(t, g, "internal_links")
		assert.Equal(t, models.StatusWarning, internal.Status)
		assert.Equal(t, 0.75, internal.Score)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "external_links").Status)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "paragraph_length").Status)
	})

	t.Run("decent readability is good with a partial score", func(t *testing.T) {
		sentence := "<p>" + repeatWords("cat", 60) + ".</p>"
		doc := textutil.Parse(strings.Repeat(sentence, 5))
		require.Equal(t, 61, textutil.EstimateReadability(doc.Text()))

		c := mustCheck(t, AnalyzeContent(doc, models.Keywords{}, "", Full), "readability")
		assert.Equal(t, models.StatusGood, c.Status)
		assert.Equal(t, 0.75, c.Score)
		assert.NotEmpty(t, c.RecommendedAction)
	})
}

func TestAnalyzeImages(t *testing.T) {
	t.Run("no images yields only image_count", func(t *testing.T) {
		g := AnalyzeImages(textutil.Parse("<p>No pictures here.</p>"), models.Keywords{Focus: "shoes"})
		assert.Equal(t, []string{"image_count"}, g.IDs())
	})

	t.Run("generic filenames and missing alt", func(t *testing.T) {
		body := `<img src="/uploads/IMG_1234.jpg"><img src="/uploads/red-shoes.jpg" alt="Red shoes">`
		g := AnalyzeImages(textutil.Parse(body), models.Keywords{Focus: "red shoes"})

		assert.Equal(t, []string{"image_count", "images_alt", "keyword_in_alt", "image_filenames", "keyword_in_filename"}, g.IDs())
		assert.Equal(t, models.StatusCritical, mustCheck(t, g, "images_alt").Status)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "keyword_in_alt").Status)
		assert.Equal(t, "1 of 2 images do not have descriptive filenames.", mustCheck(t, g, "image_filenames").Message)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "keyword_in_filename").Status)
	})
}

func TestAnalyzeTechnical(t *testing.T) {
	g := AnalyzeTechnical(TechnicalInput{})
	assert.Equal(t, []string{"schema_markup", "canonical_url", "mobile_friendly", "ssl", "social_meta"}, g.IDs())
	assert.Equal(t, models.StatusCritical, mustCheck(t, g, "ssl").Status)
	assert.Equal(t, models.StatusWarning, mustCheck(t, g, "canonical_url").Status)
	assert.Equal(t, models.StatusGood, mustCheck(t, g, "mobile_friendly").Status)

	g = AnalyzeTechnical(TechnicalInput{HasSchema: true, Canonical: "https://example.com/a", HTTPS: true, HasSocialMeta: true})
	for _, c := range g.Checks() {
		assert.Equal(t, models.StatusGood, c.Status, c.ID)
	}
}

func TestAnalyzeProduct(t *testing.T) {
	t.Run("bare product has four criticals", func(t *testing.T) {
		g := AnalyzeProduct(&models.Product{}, models.Keywords{}, Full, true)

		var critical []string
		for _, c := range g.Checks() {
			if c.Status == models.StatusCritical {
				critical = append(critical, c.ID)
				assert.Equal(t, 0.0, c.Score)
			}
		}
		assert.ElementsMatch(t, []string{"short_description", "product_categories", "product_images", "product_price"}, critical)
	})

	t.Run("fast depth stops after tags", func(t *testing.T) {
		p := &models.Product{ShortDescription: "Lightweight red shoes", Tags: []models.Term{{ID: 1, Name: "red shoes"}}}
		g := AnalyzeProduct(p, models.Keywords{Focus: "red shoes"}, Fast, true)
		assert.Equal(t, []string{
			"short_description", "keyword_in_short_desc", "product_attributes",
			"product_categories", "product_tags", "keyword_in_tags",
		}, g.IDs())
	})

	t.Run("variable product", func(t *testing.T) {
		p := &models.Product{
			Variable:   true,
			Variations: []models.Variation{{ID: 1, Description: "Small"}, {ID: 2}},
		}
		g := AnalyzeProduct(p, models.Keywords{}, Full, false)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "variation_descriptions").Status)
		assert.Equal(t, models.StatusGood, mustCheck(t, g, "product_variations").Status)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "product_schema").Status)

		p.Variations = nil
		g = AnalyzeProduct(p, models.Keywords{}, Full, false)
		assert.Equal(t, models.StatusCritical, mustCheck(t, g, "product_variations").Status)
		assert.False(t, g.Has("variation_descriptions"))
	})

	t.Run("main image checks", func(t *testing.T) {
		p := &models.Product{MainImage: &models.Image{Width: 640, Height: 900, Alt: "Blue hat"}, ReviewCount: 3}
		g := AnalyzeProduct(p, models.Keywords{Focus: "red shoes"}, Full, true)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "product_images").Status)
		assert.Equal(t, models.StatusWarning, mustCheck(t, g, "image_quality").Status)
		assert.Equal(t, 0.75, mustCheck(t, g, "image_alt_text").Score)
		assert.Equal(t, 0.75, mustCheck(t, g, "product_reviews").Score)
	})
}

// Only the decent readability branch pairs a good status with a partial score.
func TestGoodChecksScoreOne(t *testing.T) {
	kw := models.Keywords{Focus: "cat", Secondary: []string{"dog"}}
	bodies := []string{
		"",
		"<h2>Cat</h2>" + strings.Repeat("<p>"+repeatWords("cat", 60)+".</p>", 5),
		`<h2>Cats</h2><h3>More</h3><p>` + repeatWords("the cat sat on the mat", 150) + `</p><img src="/cat.jpg" alt="cat">`,
	}

	var groups []*models.Group
	for _, body := range bodies {
		doc := textutil.Parse(body)
		groups = append(groups,
			AnalyzeMeta(MetaInput{Title: "Cat care guide for new owners and families", MetaDescription: body, Keywords: kw}),
			AnalyzeContent(doc, kw, "https://example.com", Full),
			AnalyzeImages(doc, kw),
			AnalyzeTechnical(TechnicalInput{HTTPS: true, Canonical: "x"}),
		)
	}
	groups = append(groups, AnalyzeProduct(&models.Product{
		ShortDescription: strings.Repeat("cat ", 20),
		Attributes:       []string{"size"},
		Categories:       []models.Term{{ID: 1, Name: "Pets", Description: "All pets"}},
		Tags:             []models.Term{{ID: 2, Name: "cat"}},
		MainImage:        &models.Image{Width: 1000, Height: 1000, Alt: "cat"},
		Gallery:          []models.Image{{ID: 3}},
		ReviewCount:      9,
		Price:            "1",
		SKU:              "C-1",
		RelatedIDs:       []int64{4},
	}, kw, Full, true))

	sawDecent := false
	for _, g := range groups {
		for _, c := range g.Checks() {
			if c.Status != models.StatusGood {
				continue
			}
			if c.ID == "readability" && c.Score == 0.75 {
				sawDecent = true
				continue
			}
			assert.Equal(t, 1.0, c.Score, c.ID)
		}
	}
	assert.True(t, sawDecent)
}

func TestSources(t *testing.T) {
	page := func(meta map[string]string, excerpt, body string) *Page {
		return &Page{
			Item:      &models.ContentItem{ID: 1, Meta: meta, Excerpt: excerpt},
			Doc:       textutil.Parse(body),
			Permalink: "https://example.com/post",
		}
	}

	t.Run("meta description chain", func(t *testing.T) {
		providers := DefaultMetaDescriptionProviders()

		p := page(map[string]string{"rank_math_description": "rank", "_yoast_wpseo_metadesc": "yoast"}, "excerpt", "")
		assert.Equal(t, "yoast", ResolveMetaDescription(providers, p))

		p = page(nil, "  excerpt  ", "<p>body</p>")
		assert.Equal(t, "excerpt", ResolveMetaDescription(providers, p))

		p = page(nil, "", "<p>"+repeatWords("word", 40)+"</p>")
		assert.Equal(t, repeatWords("word", 30)+"...", ResolveMetaDescription(providers, p))
	})

	t.Run("canonical chain ends at the permalink", func(t *testing.T) {
		providers := DefaultCanonicalProviders()
		assert.Equal(t, "https://example.com/post", ResolveCanonical(providers, page(nil, "", "")))
		assert.Equal(t, "https://example.com/c", ResolveCanonical(providers, page(map[string]string{"_canonical": "https://example.com/c"}, "", "")))
	})

	t.Run("schema detector", func(t *testing.T) {
		d := SchemaMarkup(Host{})
		assert.False(t, d.Detect(page(nil, "", "<p>plain</p>")))
		assert.True(t, d.Detect(page(nil, "", `<script type="application/ld+json">{}</script>`)))
		assert.True(t, d.Detect(page(nil, "", `<div itemscope ITEMTYPE="https://schema.org/Article"></div>`)))
		assert.True(t, SchemaMarkup(Host{ActivePlugins: []string{"wp-schema-pro"}}).Detect(page(nil, "", "")))
	})

	t.Run("social detector", func(t *testing.T) {
		d := SocialMeta()
		assert.False(t, d.Detect(page(nil, "", "<p>plain</p>")))
		assert.True(t, d.Detect(page(map[string]string{"_aioseo_og_title": "t"}, "", "")))
		assert.True(t, d.Detect(page(nil, "", `<meta property="og:title" content="x">`)))
	})
}
