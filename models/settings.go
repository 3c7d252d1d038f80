package models

import "fmt"

// Strictness is the configured analysis strictness. Thresholds do not depend on it.
type Strictness string

const (
	StrictnessLow    Strictness = "low"
	StrictnessMedium Strictness = "medium"
	StrictnessHigh   Strictness = "high"
)

// AnalysisSettings controls which categories run.
type AnalysisSettings struct {
	AnalyzeMeta      bool       `json:"analyze_meta" yaml:"analyze_meta"`
	AnalyzeContent   bool       `json:"analyze_content" yaml:"analyze_content"`
	AnalyzeImages    bool       `json:"analyze_images" yaml:"analyze_images"`
	AnalyzeTechnical bool       `json:"analyze_technical" yaml:"analyze_technical"`
	Strictness       Strictness `json:"strictness" yaml:"strictness"`
	DefaultKeyword   string     `json:"default_keyword" yaml:"default_keyword"`
}

// DefaultAnalysisSettings enables every category at medium strictness.
func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		AnalyzeMeta:      true,
		AnalyzeContent:   true,
		AnalyzeImages:    true,
		AnalyzeTechnical: true,
		Strictness:       StrictnessMedium,
	}
}

// Validate rejects unknown strictness levels.
func (s AnalysisSettings) Validate() error {
	switch s.Strictness {
	case StrictnessLow, StrictnessMedium, StrictnessHigh:
		return nil
	}
	return fmt.Errorf("unknown strictness %q", s.Strictness)
}

// GeneralSettings controls which content is analyzable.
type GeneralSettings struct {
	AnalyzableTypes    []ContentType `json:"post_types" yaml:"post_types"`
	AutoAnalyze        bool          `json:"auto_analyze" yaml:"auto_analyze"`
	ProductIntegration bool          `json:"woocommerce_integration" yaml:"woocommerce_integration"`
}

// DefaultGeneralSettings analyzes posts and pages automatically.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		AnalyzableTypes:    []ContentType{TypePost, TypePage},
		AutoAnalyze:        true,
		ProductIntegration: true,
	}
}

// Analyzable reports whether t is one of the configured types.
func (s GeneralSettings) Analyzable(t ContentType) bool {
	for _, at := range s.AnalyzableTypes {
		if at == t {
			return true
		}
	}
	return false
}
