package scoring

import (
	"fmt"
	"sort"

	"github.com/seo-optimizer/advisor/models"
)

// CorpusWindow is how many recent analyses issue rankings look at.
const CorpusWindow = 50

// StatusFilter restricts issue rankings to one status.
type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterCritical StatusFilter = "critical"
	FilterWarning  StatusFilter = "warning"
)

// ParseStatusFilter accepts "", all, critical and warning.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterCritical, FilterWarning:
		return StatusFilter(s), nil
	}
	return "", fmt.Errorf("unknown status filter %q", s)
}

// Direction orders best/worst rankings.
type Direction string

const (
	Best  Direction = "best"
	Worst Direction = "worst"
)

// ParseDirection accepts "", best and worst. Empty means best.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "", Best:
		return Best, nil
	case Worst:
		return Worst, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Issue is a check aggregated over a corpus of analyses.
type Issue struct {
	Key               string            `json:"key"`
	CheckID           string            `json:"check_id"`
	Name              string            `json:"name"`
	Group             models.Category   `json:"group"`
	Status            models.Status     `json:"status"`
	Count             int               `json:"count"`
	Importance        models.Importance `json:"importance"`
	RecommendedAction string            `json:"recommended_action"`
}

// IssueQuery selects which checks an issue ranking counts.
type IssueQuery struct {
	Limit  int
	Status StatusFilter
	// Only restricts the ranking to these groups when set.
	Only []models.Category
	// Exclude drops these groups.
	Exclude []models.Category
	// ProblemsOnly drops good checks under FilterAll.
	ProblemsOnly bool
}

func (q IssueQuery) wants(cat models.Category, status models.Status) bool {
	if len(q.Only) > 0 && !hasCategory(q.Only, cat) {
		return false
	}
	if hasCategory(q.Exclude, cat) {
		return false
	}
	switch q.Status {
	case "", FilterAll:
		return !q.ProblemsOnly || status != models.StatusGood
	default:
		return status == models.Status(q.Status)
	}
}

// RankTopIssues counts checks across a corpus ordered newest first. The first
// occurrence of a check supplies its status and action; later ones only add to the count.
func RankTopIssues(corpus []models.StoredAnalysis, q IssueQuery) []Issue {
	var issues []*Issue
	seen := make(map[string]*Issue)

	for _, stored := range corpus {
		if stored.Result == nil {
			continue
		}
		groups := stored.Result.Groups
		for _, cat := range groups.Categories() {
			g, _ := groups.Get(cat)
			for _, c := range g.Checks() {
				if !q.wants(cat, c.Status) {
					continue
				}
				key := string(cat) + "_" + c.ID
				if issue, ok := seen[key]; ok {
					issue.Count++
					continue
				}
				issue := &Issue{
					Key:               key,
					CheckID:           c.ID,
					Name:              c.Name,
					Group:             cat,
					Status:            c.Status,
					Count:             1,
					Importance:        c.Importance,
					RecommendedAction: c.RecommendedAction,
				}
				seen[key] = issue
				issues = append(issues, issue)
			}
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Importance.Rank() != b.Importance.Rank() {
			return a.Importance.Rank() < b.Importance.Rank()
		}
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() < b.Status.Rank()
		}
		return a.Count > b.Count
	})

	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, *issue)
	}
	return truncate(out, q.Limit)
}

// Suggestion is an actionable finding of a single analysis.
type Suggestion struct {
	CheckID           string            `json:"check_id"`
	Name              string            `json:"name"`
	Group             models.Category   `json:"group"`
	Status            models.Status     `json:"status"`
	Importance        models.Importance `json:"importance"`
	Message           string            `json:"message"`
	RecommendedAction string            `json:"recommended_action"`
}

// RankImprovementSuggestions returns the critical and warning checks of one
// analysis that carry an action, most important first.
func RankImprovementSuggestions(r *models.AnalysisResult, limit int) []Suggestion {
	out := []Suggestion{}
	if r == nil {
		return out
	}
	for _, cat := range r.Groups.Categories() {
		g, _ := r.Groups.Get(cat)
		for _, c := range g.Checks() {
			if c.Status != models.StatusCritical && c.Status != models.StatusWarning {
				continue
			}
			if c.RecommendedAction == "" {
				continue
			}
			out = append(out, Suggestion{
				CheckID:           c.ID,
				Name:              c.Name,
				Group:             cat,
				Status:            c.Status,
				Importance:        c.Importance,
				Message:           c.Message,
				RecommendedAction: c.RecommendedAction,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Importance.Rank() != b.Importance.Rank() {
			return a.Importance.Rank() < b.Importance.Rank()
		}
		return a.Status.Rank() < b.Status.Rank()
	})
	return truncate(out, limit)
}

// BestOrWorst orders entries by score, keeping storage order among equal scores.
// An empty contentType matches every type.
func BestOrWorst(entries []models.ScoredContent, dir Direction, limit int, contentType models.ContentType) []models.ScoredContent {
	out := make([]models.ScoredContent, 0, len(entries))
	for _, e := range entries {
		if contentType == "" || e.ContentType == contentType {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Worst {
			return out[i].Score < out[j].Score
		}
		return out[i].Score > out[j].Score
	})
	return truncate(out, limit)
}

// MinCategoryProducts is how many analyzed products a category needs to be ranked.
const MinCategoryProducts = 3

// RankCategories averages product scores per category. Categories with fewer
// than MinCategoryProducts products are left out.
func RankCategories(products []models.ProductScore, dir Direction, limit int) []models.CategoryScore {
	type bucket struct {
		cat    models.Term
		scores []int
		best   models.ProductScore
		worst  models.ProductScore
	}
	var order []int64
	buckets := make(map[int64]*bucket)

	for _, p := range products {
		for _, cat := range p.Categories {
			b, ok := buckets[cat.ID]
			if !ok {
				b = &bucket{cat: cat, best: p, worst: p}
				buckets[cat.ID] = b
				order = append(order, cat.ID)
			}
			b.scores = append(b.scores, p.Score)
			if p.Score > b.best.Score {
				b.best = p
			}
			if p.Score < b.worst.Score {
				b.worst = p
			}
		}
	}

	out := []models.CategoryScore{}
	for _, id := range order {
		b := buckets[id]
		if len(b.scores) < MinCategoryProducts {
			continue
		}
		best, worst := b.best, b.worst
		best.Categories, worst.Categories = nil, nil
		out = append(out, models.CategoryScore{
			ID:           b.cat.ID,
			Name:         b.cat.Name,
			ProductCount: len(b.scores),
			AverageScore: Average(b.scores),
			Best:         &best,
			Worst:        &worst,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == Worst {
			return out[i].AverageScore < out[j].AverageScore
		}
		return out[i].AverageScore > out[j].AverageScore
	})
	return truncate(out, limit)
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func hasCategory(list []models.Category, cat models.Category) bool {
	for _, c := range list {
		if c == cat {
			return true
		}
	}
	return false
}
