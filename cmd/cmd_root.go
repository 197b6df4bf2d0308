// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "propnear",
	Short: "properties, their contacts and the amenities around them",
	Long: `
propnear reads property listings and amenity datasets (schools, medical
centres, sport facilities and train stations), finds the amenities closest to
each property and joins properties with their email and phone contacts.

Dataset paths default to the PROPNEAR_* environment variables, which may also
be set in a .env file.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}

		level, err := logLevel()
		if err != nil {
			return err
		}

		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		})))

		return nil
	},
}

func logLevel() (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}

	var level slog.Level

	s := strings.TrimSpace(os.Getenv(envLogLevel))
	if s == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("%s: %w", envLogLevel, err)
	}

	return level, nil
}

var Version = "dev"

func Execute(version string) {
	Version = version
	rootCmd.Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped rows and other details")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with PROPNEAR_* variables")
}
