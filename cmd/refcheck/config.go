// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcheck/internal/secrets"
	"github.com/pdiddy/refcheck/pkg/types"
)

// setConfigDefaults registers every config key so that REFCHECK_* variables
// are seen by Unmarshal even when no config file sets the key.
func setConfigDefaults(v *viper.Viper) {
	d := types.Defaults()
	v.SetDefault("lookup.timeout", d.Lookup.Timeout)
	v.SetDefault("lookup.user_agent", d.Lookup.UserAgent)
	v.SetDefault("lookup.max_retries", d.Lookup.MaxRetries)
	v.SetDefault("lookup.requests_per_second", d.Lookup.RequestsPerSecond)
	v.SetDefault("lookup.crossref_mailto", "")
	v.SetDefault("lookup.google_books_api_key", "")
	v.SetDefault("lookup.scholarly_rows", d.Lookup.ScholarlyRows)
	v.SetDefault("batch.delay", d.Batch.Delay)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("data_dir", d.DataDir)
}

// loadCheckConfig merges defaults, the config file, REFCHECK_* variables,
// .secrets/ files, and explicitly set flags, in increasing precedence.
func loadCheckConfig(v *viper.Viper, flags *pflag.FlagSet) (types.CheckConfig, error) {
	cfg := types.Defaults()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	cfg.Lookup.CrossRefMailto = secrets.Value(loadedSecrets, secrets.CrossRefMailto, cfg.Lookup.CrossRefMailto)
	cfg.Lookup.GoogleBooksAPIKey = secrets.Value(loadedSecrets, secrets.GoogleBooksAPIKey, cfg.Lookup.GoogleBooksAPIKey)

	if flags != nil {
		if flags.Changed("timeout") {
			cfg.Lookup.Timeout, _ = flags.GetDuration("timeout")
		}
		if flags.Changed("delay") {
			cfg.Batch.Delay, _ = flags.GetDuration("delay")
		}
		if flags.Changed("retries") {
			cfg.Lookup.MaxRetries, _ = flags.GetInt("retries")
		}
		if flags.Changed("mailto") {
			cfg.Lookup.CrossRefMailto, _ = flags.GetString("mailto")
		}
		if flags.Changed("data-dir") {
			cfg.DataDir, _ = flags.GetString("data-dir")
		}
		if flags.Changed("no-history") {
			off, _ := flags.GetBool("no-history")
			cfg.History.Enabled = !off
		}
	}

	cfg.Normalize()
	return cfg, nil
}
