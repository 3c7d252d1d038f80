// Package api exposes the analyzer and the corpus analytics over HTTP.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/analyzer"
	"github.com/seo-optimizer/advisor/logging"
	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/scoring"
	"github.com/seo-optimizer/advisor/stats"
)

// Repository is the persistence surface the handlers read and write.
type Repository interface {
	SaveContent(ctx context.Context, item *models.ContentItem) error
	SaveProduct(ctx context.Context, p *models.Product) error
	GetAnalysis(ctx context.Context, contentID int64) (*models.StoredAnalysis, error)
	CachedScore(ctx context.Context, id int64) (int, time.Time, bool, error)
	ScoreHistory(ctx context.Context, contentID int64) ([]models.HistoryEntry, error)
	RecentAnalyses(ctx context.Context, limit int, contentType models.ContentType) ([]models.StoredAnalysis, error)
	AverageScore(ctx context.Context, contentType models.ContentType) (int, error)
	Distribution(ctx context.Context) (models.ScoreDistribution, error)
	BestOrWorst(ctx context.Context, dir scoring.Direction, limit int, contentType models.ContentType) ([]models.ScoredContent, error)
	ProductScores(ctx context.Context) ([]models.ProductScore, error)
	Ping(ctx context.Context) error
}

// Options wires a Handler. Analyzer, Products and Repo are required.
type Options struct {
	Analyzer *analyzer.Analyzer
	Products *analyzer.ProductAnalyzer
	Repo     Repository
	Stats    *stats.Usage
	Traffic  *logging.Traffic
	Logger   *zap.Logger
	// BatchConcurrency bounds analyses in flight per batch request.
	BatchConcurrency int
	// MaxBatch caps the ids accepted by one batch request.
	MaxBatch int
	// DetailedStats adds per-item counters to /statistics.
	DetailedStats bool
}

// Handler serves the advisor API.
type Handler struct {
	analyzer *analyzer.Analyzer
	products *analyzer.ProductAnalyzer
	repo     Repository
	stats    *stats.Usage
	traffic  *logging.Traffic
	logger   *zap.Logger

	batchConcurrency int
	maxBatch         int
	detailedStats    bool
}

// NewHandler applies defaults to opts.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		analyzer:         opts.Analyzer,
		products:         opts.Products,
		repo:             opts.Repo,
		stats:            opts.Stats,
		traffic:          opts.Traffic,
		logger:           opts.Logger,
		batchConcurrency: opts.BatchConcurrency,
		maxBatch:         opts.MaxBatch,
		detailedStats:    opts.DetailedStats,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	h.logger = h.logger.Named("api")
	if h.batchConcurrency < 1 {
		h.batchConcurrency = 1
	}
	if h.maxBatch < 1 {
		h.maxBatch = 100
	}
	return h
}

// RegisterRoutes mounts every endpoint under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.GET("/statistics", h.statistics)

	content := rg.Group("/content/:id")
	content.PUT("", h.saveContent)
	content.POST("/analyze", h.analyze)
	content.GET("/analysis", h.analysis)
	content.GET("/suggestions", h.suggestions)
	content.GET("/history", h.history)
	content.GET("/score", h.score)

	products := rg.Group("/products/:id")
	products.PUT("", h.saveProduct)
	products.POST("/analyze", h.analyzeProduct)

	rg.POST("/analyze/batch", h.batch)

	dash := rg.Group("/dashboard")
	dash.GET("/top-issues", h.topIssues)
	dash.GET("/distribution", h.distribution)
	dash.GET("/average", h.average)
	dash.GET("/content", h.bestOrWorst)
	dash.GET("/products/average", h.productAverage)
	dash.GET("/products/categories", h.productCategories)
	dash.GET("/products/issues", h.productIssues)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) statistics(c *gin.Context) {
	body := gin.H{}
	if h.stats != nil {
		body["current_month"] = h.stats.Current()
		body["months"] = h.stats.History()
	}
	if h.traffic != nil {
		body["traffic"] = h.traffic.Snapshot(h.detailedStats)
	}
	c.JSON(http.StatusOK, body)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryLimit reads ?limit=, defaulting to def and capping at ceiling.
func queryLimit(c *gin.Context, def, ceiling int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		badRequest(c, "limit must be a positive integer")
		return 0, false
	}
	if n > ceiling {
		n = ceiling
	}
	return n, true
}

func queryType(c *gin.Context) (models.ContentType, bool) {
	switch t := models.ContentType(c.Query("type")); t {
	case "", models.TypePost, models.TypePage, models.TypeProduct:
		return t, true
	default:
		badRequest(c, "unknown content type "+strconv.Quote(string(t)))
		return "", false
	}
}
