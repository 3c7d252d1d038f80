package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seo-optimizer/advisor/models"
)

// ProductAnalyzer extends the base rubric with product checks.
type ProductAnalyzer struct {
	base     *Analyzer
	products ProductRepository
}

// NewProductAnalyzer shares base's settings, store and collaborators.
func NewProductAnalyzer(base *Analyzer, products ProductRepository) *ProductAnalyzer {
	return &ProductAnalyzer{base: base, products: products}
}

// AnalyzeProduct runs the base categories plus the product group and
// re-aggregates them. Full depth persists the result as a product analysis.
func (p *ProductAnalyzer) AnalyzeProduct(ctx context.Context, id int64, kw models.Keywords, depth Depth) (*models.AnalysisResult, error) {
	start := time.Now()
	result, err := p.analyze(ctx, id, kw, depth)
	p.base.observe("product", id, depth, start, result, err)
	return result, err
}

func (p *ProductAnalyzer) analyze(ctx context.Context, id int64, kw models.Keywords, depth Depth) (*models.AnalysisResult, error) {
	if !p.base.general.ProductIntegration {
		return nil, fmt.Errorf("%w: product integration is disabled", ErrUnsupportedContentType)
	}

	product, err := p.products.GetProduct(ctx, id)
	if errors.Is(err, models.ErrNotFound) || (err == nil && product == nil) {
		return nil, fmt.Errorf("%w: product %d does not exist", ErrInvalidProduct, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return p.base.run(ctx, id, kw, depth, product)
}
