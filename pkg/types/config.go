// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default values applied by Defaults when a field is left zero.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultUserAgent      = "refcheck/0.1"
	DefaultDelay          = 500 * time.Millisecond
	DefaultRequestsPerSec = 5.0
	DefaultScholarlyRows  = 5
	DefaultHistoryLimit   = 10
	DefaultDataDir        = ".refcheck"
)

// HTTPConfig holds shared HTTP settings used by the lookup clients.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout. Zero falls back to DefaultTimeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RequestsPerSecond bounds the request rate per lookup service.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LookupConfig holds settings for the external lookup services.
type LookupConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// CrossRefMailto is the contact address appended to the User-Agent for
	// CrossRef's polite pool.
	CrossRefMailto string `json:"crossref_mailto,omitempty" yaml:"crossref_mailto,omitempty" mapstructure:"crossref_mailto"`

	// GoogleBooksAPIKey is an optional key for higher Google Books quotas.
	GoogleBooksAPIKey string `json:"google_books_api_key,omitempty" yaml:"google_books_api_key,omitempty" mapstructure:"google_books_api_key"`

	// ScholarlyRows is the number of ranked CrossRef candidates requested
	// per title search.
	ScholarlyRows int `json:"scholarly_rows" yaml:"scholarly_rows" mapstructure:"scholarly_rows"`
}

// BatchConfig holds settings for the batch runner.
type BatchConfig struct {
	// Delay is the pause between consecutive references.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// HistoryConfig holds settings for the history store.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Limit is the number of most recent distinct entries kept.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// CheckConfig groups the settings of the check command.
type CheckConfig struct {
	Lookup  LookupConfig  `json:"lookup" yaml:"lookup" mapstructure:"lookup"`
	Batch   BatchConfig   `json:"batch" yaml:"batch" mapstructure:"batch"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`

	// DataDir holds history.db and the run lock file.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Defaults returns a CheckConfig with every field set to its default.
func Defaults() CheckConfig {
	return CheckConfig{
		Lookup: LookupConfig{
			HTTPConfig: HTTPConfig{
				Timeout:           DefaultTimeout,
				UserAgent:         DefaultUserAgent,
				RequestsPerSecond: DefaultRequestsPerSec,
			},
			ScholarlyRows: DefaultScholarlyRows,
		},
		Batch:   BatchConfig{Delay: DefaultDelay},
		History: HistoryConfig{Enabled: true, Limit: DefaultHistoryLimit},
		DataDir: DefaultDataDir,
	}
}

// Normalize fills zero-valued fields with defaults. Batch.Delay is left
// alone so callers can disable the pause explicitly.
func (c *CheckConfig) Normalize() {
	d := Defaults()
	if c.Lookup.Timeout <= 0 {
		c.Lookup.Timeout = d.Lookup.Timeout
	}
	if c.Lookup.UserAgent == "" {
		c.Lookup.UserAgent = d.Lookup.UserAgent
	}
	if c.Lookup.RequestsPerSecond <= 0 {
		c.Lookup.RequestsPerSecond = d.Lookup.RequestsPerSecond
	}
	if c.Lookup.ScholarlyRows <= 0 {
		c.Lookup.ScholarlyRows = d.Lookup.ScholarlyRows
	}
	if c.Batch.Delay < 0 {
		c.Batch.Delay = 0
	}
	if c.History.Limit <= 0 {
		c.History.Limit = d.History.Limit
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
}
