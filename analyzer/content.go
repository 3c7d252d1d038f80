package analyzer

import (
	"fmt"
	"strings"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

// AnalyzeContent checks body length, keyword usage, structure, links and readability.
// Fast depth stops after the heading checks.
func AnalyzeContent(doc *textutil.Document, kw models.Keywords, siteURL string, depth Depth) *models.Group {
	g := models.NewGroup()
	text := doc.Text()
	words := textutil.WordCount(text)
	focus := kw.Focus

	switch {
	case words < MinWordCount:
		g.Add(RuleContentLength.critical(
			fmt.Sprintf("Content is only %d words long. Aim for at least %d.", words, MinWordCount),
			fmt.Sprintf("Expand the content to at least %d words, ideally %d or more.", MinWordCount, RecommendedWordCount)))
	case words < RecommendedWordCount:
		g.Add(RuleContentLength.warning(0.5,
			fmt.Sprintf("Content is %d words long. %d or more words tend to rank better.", words, RecommendedWordCount),
			fmt.Sprintf("Add depth to the content to reach at least %d words.", RecommendedWordCount)))
	default:
		g.Add(RuleContentLength.good(fmt.Sprintf("Content length is good (%d words).", words)))
	}

	if focus != "" {
		density := 0.0
		if words > 0 {
			density = float64(textutil.CountOccurrences(text, focus)) / float64(words) * 100
		}
		switch {
		case density < MinKeywordDensity:
			g.Add(RuleKeywordDensity.warning(0.5,
				fmt.Sprintf("Keyword density is low (%.2f%%).", density),
				fmt.Sprintf("Use %q a few more times, aiming for %.1f%%-%.1f%%.", focus, MinKeywordDensity, MaxKeywordDensity)))
		case density > MaxKeywordDensity:
			g.Add(RuleKeywordDensity.warning(0.5,
				fmt.Sprintf("Keyword density is high (%.2f%%).", density),
				fmt.Sprintf("Use %q less often or swap in synonyms to stay under %.1f%%.", focus, MaxKeywordDensity)))
		default:
			g.Add(RuleKeywordDensity.good(fmt.Sprintf("Keyword density is good (%.2f%%).", density)))
		}
	}

	headings := doc.Headings()
	switch {
	case len(headings[2]) == 0 && len(headings[3]) == 0:
		g.Add(RuleHeadings.critical(
			"Content has no H2 or H3 headings.",
			"Break the content into sections with H2 and H3 headings."))
	case len(headings[2]) == 0:
		g.Add(RuleHeadings.warning(0.5,
			"Content uses H3 headings but no H2 headings.",
			"Introduce H2 headings for the main sections."))
	default:
		g.Add(RuleHeadings.good(fmt.Sprintf("Content uses %d H2 and %d H3 headings.", len(headings[2]), len(headings[3]))))
	}

	if focus != "" {
		if headingsContain(headings, focus) {
			g.Add(RuleKeywordInHeadings.good("Focus keyword appears in a heading."))
		} else {
			g.Add(RuleKeywordInHeadings.warning(0.5,
				"Focus keyword does not appear in any heading.",
				fmt.Sprintf("Use %q in at least one subheading.", focus)))
		}
	}

	if depth == Fast {
		return g
	}

	internal := doc.InternalLinks(siteURL)
	switch {
	case internal == 0:
		g.Add(RuleInternalLinks.warning(0.5,
			"Content has no internal links.",
			"Link to related pages on this site."))
	case internal < MinInternalLinksLong && words > LongContentWordCount:
		g.Add(RuleInternalLinks.warning(0.75,
			fmt.Sprintf("Content has only %d internal links for %d words.", internal, words),
			fmt.Sprintf("Add at least %d internal links to long content.", MinInternalLinksLong)))
	default:
		g.Add(RuleInternalLinks.good(fmt.Sprintf("Content has %d internal links.", internal)))
	}

	external := doc.ExternalLinks(siteURL)
	if external == 0 && words > RecommendedWordCount {
		g.Add(RuleExternalLinks.warning(0.75,
			"Content has no external links.",
			"Cite one or two authoritative external sources."))
	} else {
		g.Add(RuleExternalLinks.good(fmt.Sprintf("Content has %d external links.", external)))
	}

	long := 0
	for _, p := range doc.Paragraphs() {
		if textutil.WordCount(textutil.StripMarkup(p)) > MaxParagraphWords {
			long++
		}
	}
	if long > 0 {
		g.Add(RuleParagraphLength.warning(0.75,
			fmt.Sprintf("%d paragraphs are longer than %d words.", long, MaxParagraphWords),
			"Split long paragraphs into shorter ones."))
	} else {
		g.Add(RuleParagraphLength.good("Paragraph lengths are good."))
	}

	readability := textutil.EstimateReadability(text)
	switch {
	case readability < PoorReadability:
		g.Add(RuleReadability.warning(0.5,
			fmt.Sprintf("Content is hard to read (score %d).", readability),
			"Use shorter sentences and simpler words."))
	case readability < EasyReadability:
		g.Add(RuleReadability.result(models.StatusGood, 0.75,
			fmt.Sprintf("Content readability is decent (score %d).", readability),
			"Shorten a few sentences to make the content easier to read."))
	default:
		g.Add(RuleReadability.good(fmt.Sprintf("Content is easy to read (score %d).", readability)))
	}

	return g
}

func headingsContain(headings map[int][]string, keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, texts := range headings {
		for _, h := range texts {
			if strings.Contains(strings.ToLower(h), kw) {
				return true
			}
		}
	}
	return false
}
