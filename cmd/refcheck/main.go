// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refcheck CLI.
// refcheck verifies bibliographic references against CrossRef and
// Google Books and keeps a short history of recent runs.
package main

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/refcheck/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds contact details and API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the refcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Verify bibliographic references against CrossRef and Google Books",
	Long: `refcheck checks that citations point at real works. Each reference line
("Author, Title[, DOI or ISBN]") is looked up by identifier first, then by
title on CrossRef and Google Books, and classified as verified, potential,
error, or unverified.

Recent runs are kept in a local history so a batch can be checked again.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refcheck.yaml or ~/.config/refcheck/refcheck.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log lookups and retries at debug level")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refcheck")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refcheck"))
		}
	}

	viper.SetEnvPrefix("REFCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setConfigDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// newLogger returns a text logger on w; verbose lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
