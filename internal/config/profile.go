package config

import (
	"fmt"
	"os"

	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
	"gopkg.in/yaml.v2"
)

// ExportProfile holds the export defaults read from the profile YAML file.
type ExportProfile struct {
	BatchSize      int                        `yaml:"batch_size"`
	ExportFooter   *bool                      `yaml:"export_footer"`
	FilenamePrefix string                     `yaml:"filename_prefix"`
	Formatter      gridexport.FormatterConfig `yaml:"formatter"`
}

// DefaultExportProfile returns the profile used when no file is configured.
func DefaultExportProfile() ExportProfile {
	footer := true
	return ExportProfile{
		BatchSize:      gridexport.DefaultBatchSize,
		ExportFooter:   &footer,
		FilenamePrefix: gridexport.DefaultFilenamePrefix,
		Formatter:      gridexport.DefaultFormatterConfig(),
	}
}

// FooterEnabled reports whether footers are exported; unset means yes.
func (p ExportProfile) FooterEnabled() bool {
	return p.ExportFooter == nil || *p.ExportFooter
}

// ParseExportProfile decodes a profile, filling unset fields with defaults.
func ParseExportProfile(data []byte) (ExportProfile, error) {
	p := DefaultExportProfile()
	p.ExportFooter = nil
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return ExportProfile{}, fmt.Errorf("decode export profile: %w", err)
	}
	if p.BatchSize <= 0 {
		return ExportProfile{}, fmt.Errorf("batch_size must be positive, got %d", p.BatchSize)
	}
	if p.FilenamePrefix == "" {
		p.FilenamePrefix = gridexport.DefaultFilenamePrefix
	}
	return p, nil
}

// LoadExportProfile reads the profile at path. An empty path yields the defaults.
func LoadExportProfile(path string) (ExportProfile, error) {
	if path == "" {
		return DefaultExportProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ExportProfile{}, fmt.Errorf("read export profile: %w", err)
	}
	return ParseExportProfile(data)
}
