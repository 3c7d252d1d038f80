package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/scoring"
)

func (h *Handler) topIssues(c *gin.Context) {
	limit, ok := queryLimit(c, 10, scoring.CorpusWindow)
	if !ok {
		return
	}
	filter, err := scoring.ParseStatusFilter(c.Query("status"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	corpus, err := h.repo.RecentAnalyses(c.Request.Context(), scoring.CorpusWindow, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoring.RankTopIssues(corpus, scoring.IssueQuery{
		Limit:   limit,
		Status:  filter,
		Exclude: []models.Category{models.CategoryProduct},
	}))
}

func (h *Handler) distribution(c *gin.Context) {
	d, err := h.repo.Distribution(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) average(c *gin.Context) {
	t, ok := queryType(c)
	if !ok {
		return
	}
	avg, err := h.repo.AverageScore(c.Request.Context(), t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg, "band": scoring.Band(avg)})
}

func (h *Handler) bestOrWorst(c *gin.Context) {
	dir, err := scoring.ParseDirection(c.Query("direction"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, ok := queryLimit(c, 5, 100)
	if !ok {
		return
	}
	t, ok := queryType(c)
	if !ok {
		return
	}

	entries, err := h.repo.BestOrWorst(c.Request.Context(), dir, limit, t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) productAverage(c *gin.Context) {
	avg, err := h.repo.AverageScore(c.Request.Context(), models.TypeProduct)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"average": avg, "band": scoring.Band(avg)})
}

func (h *Handler) productCategories(c *gin.Context) {
	dir, err := scoring.ParseDirection(c.Query("direction"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	limit, ok := queryLimit(c, 5, 100)
	if !ok {
		return
	}

	products, err := h.repo.ProductScores(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoring.RankCategories(products, dir, limit))
}

func (h *Handler) productIssues(c *gin.Context) {
	limit, ok := queryLimit(c, 10, scoring.CorpusWindow)
	if !ok {
		return
	}

	corpus, err := h.repo.RecentAnalyses(c.Request.Context(), scoring.CorpusWindow, models.TypeProduct)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoring.RankTopIssues(corpus, scoring.IssueQuery{
		Limit:        limit,
		Only:         []models.Category{models.CategoryProduct},
		ProblemsOnly: true,
	}))
}
