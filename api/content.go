package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/analyzer"
	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/scoring"
)

type contentRequest struct {
	Type        models.ContentType `json:"type" binding:"required"`
	Title       string             `json:"title"`
	Body        string             `json:"body"`
	Format      string             `json:"format"`
	Excerpt     string             `json:"excerpt"`
	Permalink   string             `json:"permalink"`
	EditURL     string             `json:"edit_url"`
	Status      string             `json:"status"`
	Meta        map[string]string  `json:"meta"`
	PublishedAt time.Time          `json:"published_at"`
	ModifiedAt  time.Time          `json:"modified_at"`
}

type analyzeRequest struct {
	FocusKeyword      string   `json:"focus_keyword"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	Fast              bool     `json:"fast"`
}

func (r analyzeRequest) keywords() models.Keywords {
	return models.Keywords{Focus: r.FocusKeyword, Secondary: r.SecondaryKeywords}
}

// saveContent stores an item and, when auto-analyze is on, runs a full analysis.
func (h *Handler) saveContent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	switch req.Format {
	case "", models.FormatHTML, models.FormatMarkdown:
	default:
		badRequest(c, "format must be html or markdown")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusPublished
	}

	item := &models.ContentItem{
		ID:          id,
		Type:        req.Type,
		Title:       req.Title,
		Body:        req.Body,
		Format:      req.Format,
		Excerpt:     req.Excerpt,
		Permalink:   req.Permalink,
		EditURL:     req.EditURL,
		Status:      req.Status,
		Meta:        req.Meta,
		PublishedAt: req.PublishedAt,
		ModifiedAt:  req.ModifiedAt,
	}
	if err := h.repo.SaveContent(c.Request.Context(), item); err != nil {
		h.fail(c, err)
		return
	}

	general := h.analyzer.GeneralSettings()
	if !general.AutoAnalyze || !general.Analyzable(item.Type) {
		c.JSON(http.StatusOK, gin.H{"id": id, "analyzed": false})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), id, models.Keywords{}, analyzer.Full)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "analyzed": true, "analysis": result})
}

func (h *Handler) saveProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err.Error())
		return
	}
	p.ID = id
	if err := h.repo.SaveProduct(c.Request.Context(), &p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// bindAnalyzeRequest accepts an empty body as all defaults.
func bindAnalyzeRequest(c *gin.Context) (analyzeRequest, bool) {
	var req analyzeRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return req, false
	}
	return req, true
}

func (h *Handler) analyze(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), id, req.keywords(), analyzer.DepthFor(req.Fast))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) analyzeProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := bindAnalyzeRequest(c)
	if !ok {
		return
	}

	result, err := h.products.AnalyzeProduct(c.Request.Context(), id, req.keywords(), analyzer.DepthFor(req.Fast))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type batchRequest struct {
	IDs  []int64 `json:"ids" binding:"required"`
	Fast bool    `json:"fast"`
}

type batchEntry struct {
	ID     int64                  `json:"id"`
	Score  *int                   `json:"score,omitempty"`
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
	Code   string                 `json:"code,omitempty"`
}

func (h *Handler) batch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if len(req.IDs) == 0 {
		badRequest(c, "ids must not be empty")
		return
	}
	if len(req.IDs) > h.maxBatch {
		badRequest(c, "too many ids in one batch")
		return
	}

	items := h.analyzer.AnalyzeBatch(c.Request.Context(), req.IDs, analyzer.DepthFor(req.Fast), h.batchConcurrency)

	out := make([]batchEntry, len(items))
	failed := 0
	for i, item := range items {
		out[i].ID = item.ID
		if item.Err != nil {
			failed++
			_, out[i].Code = statusFor(item.Err)
			out[i].Error = item.Err.Error()
			continue
		}
		score := item.Result.Score
		out[i].Score = &score
		out[i].Result = item.Result
	}
	h.logger.Info("batch analyzed", zap.Int("items", len(items)), zap.Int("failed", failed))
	c.JSON(http.StatusOK, gin.H{"items": out, "failed": failed})
}

func (h *Handler) analysis(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := h.repo.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) suggestions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := queryLimit(c, 5, 50)
	if !ok {
		return
	}
	rec, err := h.repo.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoring.RankImprovementSuggestions(rec.Result, limit))
}

func (h *Handler) history(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries, err := h.repo.ScoreHistory(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// score reports the score cached on the content row; null until a full analysis ran.
func (h *Handler) score(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	score, at, found, err := h.repo.CachedScore(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{"id": id, "score": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "score": score, "band": scoring.Band(score), "updated_at": at})
}
