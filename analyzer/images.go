package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/textutil"
)

var genericFilename = regexp.MustCompile(`(?i)^(image|img|photo|pic|dsc|untitled|screenshot)[0-9_-]*\.(jpg|jpeg|png|gif|webp)$`)

// AnalyzeImages checks the images embedded in the body. A body without images
// yields only the image_count check.
func AnalyzeImages(doc *textutil.Document, kw models.Keywords) *models.Group {
	g := models.NewGroup()
	images := doc.Images()
	total := len(images)

	if total == 0 {
		g.Add(RuleImageCount.warning(0.5,
			"Content has no images.",
			"Add relevant images to illustrate the content."))
		return g
	}
	g.Add(RuleImageCount.good(fmt.Sprintf("Content has %d images.", total)))

	missing := 0
	for _, img := range images {
		if !img.HasAlt {
			missing++
		}
	}
	if missing > 0 {
		g.Add(RuleImagesAlt.critical(
			fmt.Sprintf("%d of %d images have no alt attribute.", missing, total),
			"Describe every image in its alt attribute."))
	} else {
		g.Add(RuleImagesAlt.good("Every image has an alt attribute."))
	}

	focus := kw.Focus
	if focus != "" {
		found := false
		for _, img := range images {
			if textutil.ContainsFold(img.Alt, focus) {
				found = true
				break
			}
		}
		if found {
			g.Add(RuleKeywordInAlt.good("Focus keyword appears in image alt text."))
		} else {
			g.Add(RuleKeywordInAlt.warning(0.5,
				"Focus keyword does not appear in any image alt text.",
				fmt.Sprintf("Use %q in the alt text of at least one image.", focus)))
		}
	}

	generic := 0
	for _, img := range images {
		if genericFilename.MatchString(textutil.Filename(img.Src)) {
			generic++
		}
	}
	if generic > 0 {
		g.Add(RuleImageFilenames.warning(0.75,
			fmt.Sprintf("%d of %d images do not have descriptive filenames.", generic, total),
			"Rename images to describe what they show, e.g. red-running-shoes.jpg."))
	} else {
		g.Add(RuleImageFilenames.good("Image filenames are descriptive."))
	}

	if focus != "" {
		slug := strings.ReplaceAll(strings.ToLower(focus), " ", "-")
		found := false
		for _, img := range images {
			if strings.Contains(strings.ToLower(textutil.Filename(img.Src)), slug) {
				found = true
				break
			}
		}
		if found {
			g.Add(RuleKeywordInFilename.good("Focus keyword appears in an image filename."))
		} else {
			g.Add(RuleKeywordInFilename.warning(0.75,
				"Focus keyword does not appear in any image filename.",
				fmt.Sprintf("Include %q in an image filename.", slug)))
		}
	}

	return g
}
