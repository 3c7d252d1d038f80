package textutil

import (
	"bytes"
	"math"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// NeutralReadability is returned when there is not enough text to score.
const NeutralReadability = 50

var (
	sentenceBreak = regexp.MustCompile(`[.!?]+`)
	vowelGroup    = regexp.MustCompile(`[aeiouy]+`)
	nonLetter     = regexp.MustCompile(`[^a-z]`)
	slugInvalid   = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashes    = regexp.MustCompile(`-{2,}`)
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
)

// ExtractHeadings returns heading texts keyed by level 1-6.
func ExtractHeadings(content string) map[int][]string {
	return Parse(content).Headings()
}

// ExtractParagraphs returns raw paragraph fragments in document order.
func ExtractParagraphs(content string) []string {
	return Parse(content).Paragraphs()
}

// CountInternalLinks counts links to siteURL or root-relative paths.
func CountInternalLinks(content, siteURL string) int {
	return Parse(content).InternalLinks(siteURL)
}

// CountExternalLinks counts absolute links leaving siteURL.
func CountExternalLinks(content, siteURL string) int {
	return Parse(content).ExternalLinks(siteURL)
}

// StripMarkup returns the plain text of an HTML fragment.
func StripMarkup(content string) string {
	return Parse(content).Text()
}

// Words splits plain text into words. A word is a run of letters, apostrophes
// and hyphens containing at least one letter.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})
	out := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			out = append(out, f)
		}
	}
	return out
}

// WordCount counts the words of plain text.
func WordCount(text string) int {
	return len(Words(text))
}

// EstimateReadability scores plain text with a simplified Flesch Reading Ease formula, clamped to [0,100].
func EstimateReadability(text string) int {
	sentences := 0
	for _, s := range sentenceBreak.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	words := Words(text)
	if sentences == 0 || len(words) == 0 {
		return NeutralReadability
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))
	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

func countSyllables(word string) int {
	w := nonLetter.ReplaceAllString(strings.ToLower(word), "")
	if n := len(vowelGroup.FindAllStringIndex(w, -1)); n > 0 {
		return n
	}
	return 1
}

// CountOccurrences counts non-overlapping case-insensitive occurrences of needle.
func CountOccurrences(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(haystack), strings.ToLower(needle))
}

// ContainsFold reports whether s contains substr, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SanitizeSlug lowercases s, turns spaces into hyphens and drops everything else that is not alphanumeric.
func SanitizeSlug(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Summarize returns the first n words of text, followed by "..." when truncated.
func Summarize(text string, n int) string {
	words := strings.Fields(text)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// Filename returns the last path element of a URL, without query or fragment.
func Filename(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	src = strings.TrimRight(src, "/")
	if src == "" {
		return ""
	}
	return path.Base(src)
}

// RenderMarkdown converts a markdown body to HTML. Raw HTML in the source is kept.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(Clamp(source)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
