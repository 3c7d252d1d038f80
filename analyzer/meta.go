package analyzer

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

// MetaInput is the normalized view the metadata analyzer works on.
type MetaInput struct {
	Title           string
	Permalink       string
	MetaDescription string
	Keywords        models.Keywords
}

// AnalyzeMeta checks title, slug and meta description.
func AnalyzeMeta(in MetaInput) *models.Group {
	g := models.NewGroup()
	focus := in.Keywords.Focus

	titleLen := utf8.RuneCountInString(in.Title)
	switch {
	case titleLen < MinTitleLength:
		g.Add(RuleTitleLength.warning(0.25,
			fmt.Sprintf("Title is too short (%d characters). Aim for at least %d.", titleLen, MinTitleLength),
			fmt.Sprintf("Expand the title to %d-%d characters and lead with the focus keyword.", MinTitleLength, MaxTitleLength)))
	case titleLen > MaxTitleLength:
		g.Add(RuleTitleLength.warning(0.5,
			fmt.Sprintf("Title is too long (%d characters). Search results truncate titles over %d.", titleLen, MaxTitleLength),
			fmt.Sprintf("Shorten the title to under %d characters while keeping the focus keyword.", MaxTitleLength)))
	default:
		g.Add(RuleTitleLength.good(fmt.Sprintf("Title length is good (%d characters).", titleLen)))
	}

	if focus != "" {
		pos := runeIndexFold(in.Title, focus)
		if pos >= 0 {
			g.Add(RuleTitleKeyword.good(fmt.Sprintf("Title contains the focus keyword %q.", focus)))
		} else {
			g.Add(RuleTitleKeyword.critical(
				fmt.Sprintf("Title does not contain the focus keyword %q.", focus),
				fmt.Sprintf("Add %q to the title, close to the beginning.", focus)))
		}

		switch {
		case pos > MaxKeywordTitlePosition:
			g.Add(RuleTitleKeywordPosition.warning(0.75,
				"Focus keyword appears late in the title.",
				"Move the focus keyword closer to the start of the title."))
		case pos >= 0:
			g.Add(RuleTitleKeywordPosition.good("Focus keyword appears at the beginning of the title."))
		}

		slug, want := permalinkSlug(in.Permalink), textutil.SanitizeSlug(focus)
		switch {
		case want == "":
			g.Add(RuleSlugKeyword.warning(0.5,
				"Focus keyword has no characters that can appear in a URL slug.",
				"Choose a focus keyword with letters or digits that can be used in the permalink."))
		case slug == "":
			g.Add(RuleSlugKeyword.warning(0.5,
				"URL has no slug to hold the focus keyword.",
				fmt.Sprintf("Switch to a readable permalink that includes %q.", focus)))
		case strings.Contains(slug, want):
			g.Add(RuleSlugKeyword.good("URL contains the focus keyword."))
		default:
			g.Add(RuleSlugKeyword.warning(0.5,
				"URL does not contain the focus keyword.",
				fmt.Sprintf("Update the permalink to include %q.", focus)))
		}
	}

	desc := in.MetaDescription
	descLen := utf8.RuneCountInString(desc)
	switch {
	case descLen < MinMetaDescriptionLength:
		g.Add(RuleMetaDescriptionLength.warning(0.25,
			fmt.Sprintf("Meta description is too short (%d characters). Aim for at least %d.", descLen, MinMetaDescriptionLength),
			fmt.Sprintf("Write a %d-%d character meta description with the focus keyword and a call to action.", MinMetaDescriptionLength, MaxMetaDescriptionLength)))
	case descLen > MaxMetaDescriptionLength:
		g.Add(RuleMetaDescriptionLength.warning(0.5,
			fmt.Sprintf("Meta description is too long (%d characters). Keep it under %d.", descLen, MaxMetaDescriptionLength),
			fmt.Sprintf("Trim the meta description to under %d characters.", MaxMetaDescriptionLength)))
	default:
		g.Add(RuleMetaDescriptionLength.good(fmt.Sprintf("Meta description length is good (%d characters).", descLen)))
	}

	if focus != "" {
		if textutil.ContainsFold(desc, focus) {
			g.Add(RuleMetaDescriptionKey.good("Meta description contains the focus keyword."))
		} else {
			g.Add(RuleMetaDescriptionKey.warning(0.5,
				"Meta description does not contain the focus keyword.",
				fmt.Sprintf("Work %q into the meta description.", focus)))
		}
	}

	if len(in.Keywords.Secondary) > 0 {
		found := 0
		for _, kw := range in.Keywords.Secondary {
			if textutil.ContainsFold(desc, kw) {
				found++
			}
		}
		if found > 0 {
			g.Add(RuleMetaDescriptionSecond.good(fmt.Sprintf("Meta description contains %d secondary keywords.", found)))
		} else {
			g.Add(RuleMetaDescriptionSecond.warning(0.75,
				"Meta description contains none of the secondary keywords.",
				"Add a secondary keyword to the meta description where it reads naturally."))
		}
	}

	return g
}

// runeIndexFold returns the rune offset of the first case-insensitive match of substr, or -1.
func runeIndexFold(s, substr string) int {
	lower := strings.ToLower(s)
	i := strings.Index(lower, strings.ToLower(substr))
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(lower[:i])
}

// permalinkSlug returns the lowercased last path segment of a permalink. Query-only
// permalinks such as "/?p=12" have no slug.
func permalinkSlug(permalink string) string {
	u, err := url.Parse(strings.TrimSpace(permalink))
	if err != nil {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return ""
	}
	return strings.ToLower(path.Base(p))
}
