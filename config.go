package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aktagon/sitegen/internal/site"
)

const defaultSettingsPath = "sitegen.yaml"

// Settings represents the YAML configuration structure
type Settings struct {
	ArticlesDir  string `yaml:"articles_dir"`
	OutputDir    string `yaml:"output_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	LatestCount  int    `yaml:"latest_count"`
	Locale       string `yaml:"locale"`
	Markdown     bool   `yaml:"markdown"`
}

// ConfigOverrides holds command line values that take precedence over settings
type ConfigOverrides struct {
	ArticlesDir  *string
	OutputDir    *string
	TemplatesDir *string
	LatestCount  *int
	Locale       *string
	Markdown     *bool
}

// defaultSettings mirrors site.DefaultOptions
func defaultSettings() *Settings {
	opts := site.DefaultOptions()
	return &Settings{
		ArticlesDir:  opts.SourceRoot,
		OutputDir:    opts.OutputRoot,
		TemplatesDir: opts.TemplatesDir,
		LatestCount:  opts.LatestCount,
		Locale:       opts.Locale,
		Markdown:     opts.Markdown,
	}
}

// loadSettings loads settings from a YAML file, falling back to defaults if the file doesn't exist
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if os.IsNotExist(err) {
		return defaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", settingsPath, err)
	}
	return parseSettings(data)
}

// loadSettingsRequired loads settings from a YAML file, failing if the file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", settingsPath, err)
	}
	return parseSettings(data)
}

// parseSettings decodes YAML over the defaults so omitted keys keep their default values
func parseSettings(data []byte) (*Settings, error) {
	settings := defaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}
	return settings, nil
}

// Apply copies every non-nil override onto s
func (s *Settings) Apply(o *ConfigOverrides) {
	if o == nil {
		return
	}
	if o.ArticlesDir != nil {
		s.ArticlesDir = *o.ArticlesDir
	}
	if o.OutputDir != nil {
		s.OutputDir = *o.OutputDir
	}
	if o.TemplatesDir != nil {
		s.TemplatesDir = *o.TemplatesDir
	}
	if o.LatestCount != nil {
		s.LatestCount = *o.LatestCount
	}
	if o.Locale != nil {
		s.Locale = *o.Locale
	}
	if o.Markdown != nil {
		s.Markdown = *o.Markdown
	}
}

// Options converts settings into build options
func (s *Settings) Options() site.Options {
	opts := site.DefaultOptions()
	opts.SourceRoot = s.ArticlesDir
	opts.OutputRoot = s.OutputDir
	opts.TemplatesDir = s.TemplatesDir
	opts.LatestCount = s.LatestCount
	opts.Locale = s.Locale
	opts.Markdown = s.Markdown
	return opts
}
