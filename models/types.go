package models

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ContentType identifies the kind of content being analyzed.
type ContentType string

const (
	TypePost    ContentType = "post"
	TypePage    ContentType = "page"
	TypeProduct ContentType = "product"
)

// Body formats understood by the text utilities.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// StatusPublished is the publication status used by best/worst rankings.
const StatusPublished = "publish"

// ContentItem is a single piece of content supplied by the content host.
type ContentItem struct {
	ID          int64             `json:"id"`
	Type        ContentType       `json:"type"`
	Title       string            `json:"title"`
	Body        string            `json:"body"`
	Format      string            `json:"format,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Permalink   string            `json:"permalink"`
	EditURL     string            `json:"edit_url,omitempty"`
	Status      string            `json:"status"`
	Meta        map[string]string `json:"meta,omitempty"`
	PublishedAt time.Time         `json:"published_at"`
	ModifiedAt  time.Time         `json:"modified_at"`
}

// MetaValue returns a trimmed meta value or an empty string.
func (c *ContentItem) MetaValue(key string) string {
	if c == nil || c.Meta == nil {
		return ""
	}
	return strings.TrimSpace(c.Meta[key])
}

// Keywords holds the focus keyword and the ordered secondary keywords of one analysis.
type Keywords struct {
	Focus     string   `json:"focus_keyword"`
	Secondary []string `json:"secondary_keywords"`
}

// ParseSecondaryKeywords splits a comma separated list, trimming entries and dropping empties.
func ParseSecondaryKeywords(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Status is the outcome of a single check.
type Status string

const (
	StatusGood     Status = "good"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Rank orders statuses from most to least severe. Unknown statuses rank as warnings.
func (s Status) Rank() int {
	switch s {
	case StatusCritical:
		return 1
	case StatusWarning:
		return 2
	case StatusGood:
		return 3
	}
	return 2
}

// Importance is the priority tier of a check.
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Rank orders importance tiers, high first. Unknown tiers rank as medium.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 1
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 3
	}
	return 2
}

// CheckResult is one rubric evaluation.
type CheckResult struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Status            Status     `json:"status"`
	Score             float64    `json:"score"`
	Message           string     `json:"message"`
	Importance        Importance `json:"importance"`
	RecommendedAction string     `json:"recommended_action"`
}

// Category names an analysis group.
type Category string

const (
	CategoryMeta      Category = "meta"
	CategoryContent   Category = "content"
	CategoryImages    Category = "images"
	CategoryTechnical Category = "technical"
	CategoryProduct   Category = "product"
)

// IssueCounts tallies checks by status across all groups.
type IssueCounts struct {
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
	Good     int `json:"good"`
}

// AnalysisResult is the full output of one analysis run.
type AnalysisResult struct {
	ContentID         int64            `json:"post_id"`
	Title             string           `json:"title"`
	FocusKeyword      string           `json:"focus_keyword"`
	SecondaryKeywords []string         `json:"secondary_keywords"`
	Groups            *Groups          `json:"analysis_groups"`
	Score             int              `json:"score"`
	Issues            IssueCounts      `json:"issues"`
	CategoryScores    map[Category]int `json:"category_scores"`
	Timestamp         time.Time        `json:"timestamp"`
}

// StoredAnalysis is one persisted analysis row.
type StoredAnalysis struct {
	ContentID   int64           `json:"post_id"`
	ContentType ContentType     `json:"post_type"`
	Title       string          `json:"title"`
	Status      string          `json:"status"`
	Score       int             `json:"seo_score"`
	Result      *AnalysisResult `json:"analysis_data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ScoredContent is an entry of a best/worst content ranking.
type ScoredContent struct {
	ContentID   int64       `json:"post_id"`
	ContentType ContentType `json:"post_type"`
	Title       string      `json:"title"`
	Score       int         `json:"score"`
	EditURL     string      `json:"edit_url"`
	ViewURL     string      `json:"view_url"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ScoreDistribution counts analyses per score band.
type ScoreDistribution struct {
	Poor      int `json:"poor"`
	Average   int `json:"average"`
	Good      int `json:"good"`
	Excellent int `json:"excellent"`
}

// HistoryEntry is a single point of a score history.
type HistoryEntry struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}
