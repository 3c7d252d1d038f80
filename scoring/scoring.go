// Package scoring rolls check results up into scores and ranks issues across analyses.
package scoring

import (
	"math"

	"github.com/seo-optimizer/advisor/models"
)

// Aggregate computes the overall score, issue counts and per-category scores.
// Scores are rounded percentages of the mean check score; an empty set scores 0.
func Aggregate(groups *models.Groups) (int, models.IssueCounts, map[models.Category]int) {
	var (
		issues     models.IssueCounts
		categories = make(map[models.Category]int)
		total      float64
		count      int
	)

	for _, cat := range groups.Categories() {
		g, _ := groups.Get(cat)
		var sum float64
		checks := g.Checks()
		for _, c := range checks {
			sum += c.Score
			switch c.Status {
			case models.StatusCritical:
				issues.Critical++
			case models.StatusWarning:
				issues.Warnings++
			case models.StatusGood:
				issues.Good++
			}
		}
		categories[cat] = percent(sum, len(checks))
		total += sum
		count += len(checks)
	}

	return percent(total, count), issues, categories
}

// Apply fills the score fields of a result from its groups.
func Apply(r *models.AnalysisResult) {
	r.Score, r.Issues, r.CategoryScores = Aggregate(r.Groups)
}

// Average returns the rounded mean of scores, or 0 when there are none.
func Average(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

// Band names the distribution band of a score.
func Band(score int) string {
	switch {
	case score < 50:
		return "poor"
	case score < 70:
		return "average"
	case score < 90:
		return "good"
	}
	return "excellent"
}

// Distribution counts scores per band.
func Distribution(scores []int) models.ScoreDistribution {
	var d models.ScoreDistribution
	for _, s := range scores {
		switch Band(s) {
		case "poor":
			d.Poor++
		case "average":
			d.Average++
		case "good":
			d.Good++
		default:
			d.Excellent++
		}
	}
	return d
}

func percent(sum float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n) * 100))
}
