// Package analyzer scores content items against on-page SEO rules.
package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seo-optimizer/advisor/metrics"
	"github.com/seo-optimizer/advisor/models"
	"github.com/seo-optimizer/advisor/scoring"
	"github.com/seo-optimizer/advisor/stats"
	"github.com/seo-optimizer/advisor/textutil"
)

// Depth selects how much of the rubric runs.
type Depth int

const (
	// Full runs every enabled category and persists the result.
	Full Depth = iota
	// Fast skips images, technical checks and the expensive content and
	// product checks. Fast results are never persisted.
	Fast
)

// DepthFor maps a fast flag to a depth.
func DepthFor(fast bool) Depth {
	if fast {
		return Fast
	}
	return Full
}

func (d Depth) String() string {
	if d == Fast {
		return "fast"
	}
	return "full"
}

// ContentRepository resolves content items.
type ContentRepository interface {
	GetContent(ctx context.Context, id int64) (*models.ContentItem, error)
	Permalink(ctx context.Context, id int64) (string, error)
	EditURL(ctx context.Context, id int64) (string, error)
}

// ProductRepository resolves product records.
type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// Store persists analysis results. SaveAnalysis stores the record and caches
// its score on the content item atomically.
type Store interface {
	SaveAnalysis(ctx context.Context, rec models.StoredAnalysis) error
}

// SettingsSource supplies the settings snapshot an Analyzer is built with.
type SettingsSource interface {
	AnalysisSettings(ctx context.Context) (models.AnalysisSettings, error)
	GeneralSettings(ctx context.Context) (models.GeneralSettings, error)
}

// ResultCache holds fast-mode results.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, bool)
	Set(ctx context.Context, key string, r *models.AnalysisResult)
}

// Config wires an Analyzer. Content, Store and Settings are required.
type Config struct {
	Content  ContentRepository
	Store    Store
	Settings SettingsSource
	Host     Host

	// Provider chains default to DefaultMetaDescriptionProviders and DefaultCanonicalProviders.
	MetaDescriptions []MetaDescriptionProvider
	Canonicals       []CanonicalProvider
	// Detectors default to SchemaMarkup(Host) and SocialMeta().
	Schema Detector
	Social Detector

	Cache   ResultCache
	Stats   *stats.Usage
	Metrics *metrics.Collectors
	Logger  *zap.Logger
	Now     func() time.Time
}

// Analyzer runs the rubric over content items. It holds no per-analysis state
// and is safe for concurrent use.
type Analyzer struct {
	content          ContentRepository
	store            Store
	settings         models.AnalysisSettings
	general          models.GeneralSettings
	host             Host
	metaDescriptions []MetaDescriptionProvider
	canonicals       []CanonicalProvider
	schema           Detector
	social           Detector
	cache            ResultCache
	stats            *stats.Usage
	metrics          *metrics.Collectors
	logger           *zap.Logger
	now              func() time.Time
}

// New reads the settings snapshot once and returns a ready Analyzer.
func New(ctx context.Context, cfg Config) (*Analyzer, error) {
	if cfg.Content == nil {
		return nil, errors.New("analyzer: content repository is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("analyzer: store is required")
	}
	if cfg.Settings == nil {
		return nil, errors.New("analyzer: settings source is required")
	}

	settings, err := cfg.Settings.AnalysisSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load analysis settings: %w", err)
	}
	general, err := cfg.Settings.GeneralSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load general settings: %w", err)
	}

	a := &Analyzer{
		content:          cfg.Content,
		store:            cfg.Store,
		settings:         settings,
		general:          general,
		host:             cfg.Host,
		metaDescriptions: cfg.MetaDescriptions,
		canonicals:       cfg.Canonicals,
		schema:           cfg.Schema,
		social:           cfg.Social,
		cache:            cfg.Cache,
		stats:            cfg.Stats,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		now:              cfg.Now,
	}
	if a.metaDescriptions == nil {
		a.metaDescriptions = DefaultMetaDescriptionProviders()
	}
	if a.canonicals == nil {
		a.canonicals = DefaultCanonicalProviders()
	}
	if a.schema == nil {
		a.schema = SchemaMarkup(cfg.Host)
	}
	if a.social == nil {
		a.social = SocialMeta()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	a.logger = a.logger.Named("analyzer")
	if a.now == nil {
		a.now = time.Now
	}
	return a, nil
}

// Settings returns the analysis settings snapshot.
func (a *Analyzer) Settings() models.AnalysisSettings { return a.settings }

// GeneralSettings returns the general settings snapshot.
func (a *Analyzer) GeneralSettings() models.GeneralSettings { return a.general }

// Analyze scores one content item. Full depth persists the result before returning it.
func (a *Analyzer) Analyze(ctx context.Context, id int64, kw models.Keywords, depth Depth) (*models.AnalysisResult, error) {
	start := time.Now()
	result, err := a.run(ctx, id, kw, depth, nil)
	a.observe("content", id, depth, start, result, err)
	return result, err
}

func (a *Analyzer) run(ctx context.Context, id int64, kw models.Keywords, depth Depth, product *models.Product) (*models.AnalysisResult, error) {
	item, err := a.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	kw = a.resolveKeywords(item, kw)

	page, err := a.preparePage(ctx, item)
	if err != nil {
		return nil, err
	}

	if depth == Fast && a.cache != nil {
		key := a.cacheKey(page, kw, product)
		if cached, ok := a.cache.Get(ctx, key); ok {
			a.record(stats.Delta{CacheHits: 1})
			return cached, nil
		}
		a.record(stats.Delta{CacheMisses: 1})
		result := a.compose(page, kw, depth, product)
		a.cache.Set(ctx, key, result)
		return result, nil
	}

	result := a.compose(page, kw, depth, product)
	if depth == Full {
		if err := a.persist(ctx, item, product, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (a *Analyzer) loadItem(ctx context.Context, id int64) (*models.ContentItem, error) {
	item, err := a.content.GetContent(ctx, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && item == nil) {
		return nil, fmt.Errorf("%w: content %d does not exist", ErrInvalidContent, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load content %d: %w", id, err)
	}
	if item.Type != models.TypeProduct && !a.general.Analyzable(item.Type) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, item.Type)
	}
	return item, nil
}

// resolveKeywords prefers explicit keywords, then the item's stored keywords, then the default keyword.
func (a *Analyzer) resolveKeywords(item *models.ContentItem, kw models.Keywords) models.Keywords {
	focus := strings.TrimSpace(kw.Focus)
	if focus == "" {
		focus = item.MetaValue(MetaFocusKeyword)
	}
	if focus == "" {
		focus = strings.TrimSpace(a.settings.DefaultKeyword)
	}

	secondary := make([]string, 0, len(kw.Secondary))
	for _, s := range kw.Secondary {
		if s = strings.TrimSpace(s); s != "" {
			secondary = append(secondary, s)
		}
	}
	if len(secondary) == 0 {
		secondary = models.ParseSecondaryKeywords(item.MetaValue(MetaSecondaryKeywords))
	}
	return models.Keywords{Focus: focus, Secondary: secondary}
}

func (a *Analyzer) preparePage(ctx context.Context, item *models.ContentItem) (*Page, error) {
	body := item.Body
	if item.Format == models.FormatMarkdown {
		rendered, err := textutil.RenderMarkdown(body)
		if err != nil {
			return nil, fmt.Errorf("render markdown for content %d: %w", item.ID, err)
		}
		body = rendered
	}

	permalink := item.Permalink
	if permalink == "" {
		p, err := a.content.Permalink(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve permalink for content %d: %w", item.ID, err)
		}
		permalink = p
	}
	return &Page{Item: item, Doc: textutil.Parse(body), Permalink: permalink}, nil
}

func (a *Analyzer) compose(page *Page, kw models.Keywords, depth Depth, product *models.Product) *models.AnalysisResult {
	groups := models.NewGroups()
	s := a.settings

	if s.AnalyzeMeta {
		groups.Set(models.CategoryMeta, AnalyzeMeta(MetaInput{
			Title:           page.Item.Title,
			Permalink:       page.Permalink,
			MetaDescription: ResolveMetaDescription(a.metaDescriptions, page),
			Keywords:        kw,
		}))
	}
	if s.AnalyzeContent {
		groups.Set(models.CategoryContent, AnalyzeContent(page.Doc, kw, a.host.SiteURL, depth))
	}
	if depth == Full && s.AnalyzeImages {
		groups.Set(models.CategoryImages, AnalyzeImages(page.Doc, kw))
	}
	if depth == Full && s.AnalyzeTechnical {
		groups.Set(models.CategoryTechnical, AnalyzeTechnical(TechnicalInput{
			HasSchema:     a.schema.Detect(page),
			Canonical:     ResolveCanonical(a.canonicals, page),
			HTTPS:         a.host.HTTPS,
			HasSocialMeta: a.social.Detect(page),
		}))
	}
	if product != nil {
		groups.Set(models.CategoryProduct, AnalyzeProduct(product, kw, depth, a.host.ProductSchema))
	}

	result := &models.AnalysisResult{
		ContentID:         page.Item.ID,
		Title:             page.Item.Title,
		FocusKeyword:      kw.Focus,
		SecondaryKeywords: kw.Secondary,
		Groups:            groups,
		Timestamp:         a.now().UTC(),
	}
	scoring.Apply(result)
	return result
}

func (a *Analyzer) persist(ctx context.Context, item *models.ContentItem, product *models.Product, result *models.AnalysisResult) error {
	contentType := item.Type
	if product != nil {
		contentType = models.TypeProduct
	}

	rec := models.StoredAnalysis{
		ContentID:   item.ID,
		ContentType: contentType,
		Title:       item.Title,
		Status:      item.Status,
		Score:       result.Score,
		Result:      result,
		CreatedAt:   result.Timestamp,
		UpdatedAt:   result.Timestamp,
	}
	if err := a.store.SaveAnalysis(ctx, rec); err != nil {
		return &PersistenceError{Op: "save analysis", Err: err}
	}
	return nil
}

// cacheKey digests everything a fast result depends on.
func (a *Analyzer) cacheKey(page *Page, kw models.Keywords, product *models.Product) string {
	payload, _ := json.Marshal(struct {
		Item      *models.ContentItem
		Permalink string
		Keywords  models.Keywords
		Product   *models.Product
		Settings  models.AnalysisSettings
		Host      Host
	}{page.Item, page.Permalink, kw, product, a.settings, a.host})

	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}

func (a *Analyzer) observe(kind string, id int64, depth Depth, start time.Time, result *models.AnalysisResult, err error) {
	elapsed := time.Since(start)
	outcome := Outcome(err)
	score := 0
	if result != nil {
		score = result.Score
	}
	a.metrics.ObserveAnalysis(kind, depth.String(), outcome, elapsed, score)

	if err != nil {
		a.record(stats.Delta{Failures: 1})
		a.logger.Warn("analysis failed",
			zap.String("kind", kind),
			zap.Int64("content_id", id),
			zap.Stringer("depth", depth),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return
	}

	delta := stats.Delta{}
	if depth == Fast {
		delta.FastRuns = 1
	} else {
		delta.FullRuns = 1
	}
	if kind == "product" {
		delta.ProductRuns = 1
	}
	a.record(delta)
	a.logger.Debug("analysis complete",
		zap.String("kind", kind),
		zap.Int64("content_id", id),
		zap.Stringer("depth", depth),
		zap.Int("score", score),
		zap.Duration("elapsed", elapsed),
	)
}

func (a *Analyzer) record(d stats.Delta) {
	if a.stats != nil {
		a.stats.Record(d)
	}
}
