// Package textutil extracts structure and plain text from rich-text content bodies.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// MaxInputBytes caps how much of a content body is scanned.
const MaxInputBytes = 2 << 20

var (
	headingBlock = regexp.MustCompile(`(?is)<!--\s*wp:heading(\s+\{.*?\})?\s*/?-->(.*?)<!--\s*/wp:heading\s*-->`)
	shortcode    = regexp.MustCompile(`\[/?[a-zA-Z][\w-]*(?:\s[^\]]*)?/?\]`)
	rootRelative = regexp.MustCompile(`^/[^/]`)
	absoluteHTTP = regexp.MustCompile(`^https?://`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Clamp truncates content to MaxInputBytes on a rune boundary.
func Clamp(content string) string {
	if len(content) <= MaxInputBytes {
		return content
	}
	i := MaxInputBytes
	for i > 0 && !utf8.RuneStart(content[i]) {
		i--
	}
	return content[:i]
}

// ImageTag is an <img> element found in a body.
type ImageTag struct {
	Src    string
	Alt    string
	HasAlt bool
}

// Document is a parsed content body.
type Document struct {
	raw string
	doc *goquery.Document
}

// Parse parses an HTML fragment. Malformed markup never fails; it yields whatever the parser recovers.
func Parse(content string) *Document {
	raw := Clamp(content)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{raw: raw, doc: doc}
}

// Headings returns heading texts keyed by level 1-6. Block-syntax headings are
// merged in, skipping texts already present at the same level.
func (d *Document) Headings() map[int][]string {
	out := make(map[int][]string, 6)
	for level := 1; level <= 6; level++ {
		out[level] = []string{}
	}

	d.doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := int(goquery.NodeName(s)[1] - '0')
		if text := collapse(nodeText(s.Nodes)); text != "" {
			out[level] = append(out[level], text)
		}
	})

	for _, m := range headingBlock.FindAllStringSubmatch(d.raw, -1) {
		level := 2
		if attrs := strings.TrimSpace(m[1]); attrs != "" {
			if v := gjson.Get(attrs, "level"); v.Exists() {
				level = int(v.Int())
			}
		}
		if level < 1 || level > 6 {
			continue
		}
		text := StripMarkup(m[2])
		if text == "" || contains(out[level], text) {
			continue
		}
		out[level] = append(out[level], text)
	}
	return out
}

// Paragraphs returns each <p> element including its wrapping tags.
func (d *Document) Paragraphs() []string {
	var out []string
	d.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if frag, err := goquery.OuterHtml(s); err == nil {
			out = append(out, frag)
		}
	})
	return out
}

// Hrefs returns the non-empty href of every anchor.
func (d *Document) Hrefs() []string {
	var out []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href := strings.TrimSpace(s.AttrOr("href", "")); href != "" {
			out = append(out, href)
		}
	})
	return out
}

// InternalLinks counts anchors pointing at the site or at a root-relative path.
func (d *Document) InternalLinks(siteURL string) int {
	n := 0
	for _, href := range d.Hrefs() {
		if onSite(href, siteURL) || rootRelative.MatchString(href) {
			n++
		}
	}
	return n
}

// ExternalLinks counts absolute http(s) anchors that leave the site.
func (d *Document) ExternalLinks(siteURL string) int {
	n := 0
	for _, href := range d.Hrefs() {
		if absoluteHTTP.MatchString(href) && !onSite(href, siteURL) {
			n++
		}
	}
	return n
}

// Images returns every <img> element.
func (d *Document) Images() []ImageTag {
	var out []ImageTag
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		alt, ok := s.Attr("alt")
		out = append(out, ImageTag{Src: s.AttrOr("src", ""), Alt: alt, HasAlt: ok})
	})
	return out
}

// Text returns the plain text of the body with scripts, styles and shortcodes removed.
// Inline markup joins its text without a gap, so "sh<em>oes</em>" stays one word.
func (d *Document) Text() string {
	return collapse(shortcode.ReplaceAllString(nodeText(d.doc.Nodes), " "))
}

// blockElements separate the text on either side of them.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"caption": true, "dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true, "h1": true,
	"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true, "ul": true,
}

func nodeText(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte(' ')
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

// Raw returns the clamped source the document was parsed from.
func (d *Document) Raw() string {
	return d.raw
}

func onSite(href, siteURL string) bool {
	return siteURL != "" && strings.HasPrefix(href, siteURL)
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
