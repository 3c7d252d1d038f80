package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seo-optimizer/advisor/models"
)

// FileSettings is a SettingsSource read from a YAML document:
//
//	analysis:
//	  analyze_images: false
//	  strictness: high
//	general:
//	  post_types: [post]
//
// Keys left out keep their defaults.
type FileSettings struct {
	Analysis models.AnalysisSettings `yaml:"analysis"`
	General  models.GeneralSettings  `yaml:"general"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *FileSettings {
	return &FileSettings{
		Analysis: models.DefaultAnalysisSettings(),
		General:  models.DefaultGeneralSettings(),
	}
}

// LoadSettings reads path. A missing file yields DefaultSettings.
func LoadSettings(path string) (*FileSettings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes a YAML settings document over the defaults.
func ParseSettings(data []byte) (*FileSettings, error) {
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks strictness and the analyzable types.
func (s *FileSettings) Validate() error {
	if err := s.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis settings: %w", err)
	}
	for _, t := range s.General.AnalyzableTypes {
		if t == "" {
			return errors.New("general settings: empty post type")
		}
	}
	return nil
}

func (s *FileSettings) AnalysisSettings(context.Context) (models.AnalysisSettings, error) {
	return s.Analysis, nil
}

func (s *FileSettings) GeneralSettings(context.Context) (models.GeneralSettings, error) {
	return s.General, nil
}
