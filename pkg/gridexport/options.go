package gridexport

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBatchSize is the number of records fetched per batch or page.
	DefaultBatchSize = 2000
	// DefaultFilenamePrefix prefixes generated file names.
	DefaultFilenamePrefix = "report_"
)

// Settings configures one export run.
type Settings struct {
	// ExportFooter enables the footer row. Default is true.
	ExportFooter bool
	// BatchSize bounds every fetch from the record source. Default is 2000.
	BatchSize int
	// Filename is the output name without extension. Default is "report_<unix time>".
	Filename string

	formatter *Formatter
	keyFunc   KeyFunc
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures Settings.
type Option func(*Settings)

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		ExportFooter: true,
		BatchSize:    DefaultBatchSize,
		logger:       zerolog.Nop(),
		now:          time.Now,
	}
}

// WithFooter enables or disables the footer row.
func WithFooter(enabled bool) Option {
	return func(s *Settings) {
		s.ExportFooter = enabled
	}
}

// WithBatchSize sets the number of records fetched at once.
func WithBatchSize(size int) Option {
	return func(s *Settings) {
		s.BatchSize = size
	}
}

// WithFilename sets the output file name (without extension).
func WithFilename(name string) Option {
	return func(s *Settings) {
		s.Filename = name
	}
}

// WithFormatter sets the Formatter used for plain columns.
func WithFormatter(f *Formatter) Option {
	return func(s *Settings) {
		s.formatter = f
	}
}

// WithKeyFunc overrides how record keys are read.
func WithKeyFunc(fn KeyFunc) Option {
	return func(s *Settings) {
		s.keyFunc = fn
	}
}

// WithLogger sets the logger used for batch and run events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Settings) {
		s.logger = l
	}
}

// withClock is used by tests to pin the default filename.
func withClock(now func() time.Time) Option {
	return func(s *Settings) {
		s.now = now
	}
}

// applyOptions applies opts to the default settings and fills derived values.
func applyOptions(opts []Option) (Settings, error) {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.BatchSize <= 0 {
		return Settings{}, fmt.Errorf("batch size must be positive, got %d", s.BatchSize)
	}
	if s.Filename == "" {
		s.Filename = fmt.Sprintf("%s%d", DefaultFilenamePrefix, s.now().Unix())
	}
	if s.formatter == nil {
		s.formatter = DefaultFormatter()
	}
	return s, nil
}
