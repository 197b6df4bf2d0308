// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jcodagnone/propnear/dataset"
	"github.com/jcodagnone/propnear/estate"
	"github.com/jcodagnone/propnear/utils/textutils"
	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Amenity datasets",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known amenity datasets",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, b, c, d := strings.Repeat("─", 8), strings.Repeat("─", 14), strings.Repeat("─", 18), strings.Repeat("─", 50)
		fmt.Println("Amenity sources:")
		fmt.Printf("╭─%-8s─┬─%-14s─┬─%-18s─┬─%-50s╮\n", a, b, c, d)
		fmt.Printf("│ %-8s │ %-14s │ %-18s │ %-50s│\n", "Name", "Type", "Path", "Description")
		fmt.Printf("├─%-8s─┼─%-14s─┼─%-18s─┼─%-50s┤\n", a, b, c, d)
		err := estate.Each(func(s estate.Source) error {
			path := os.Getenv(sourceEnv(&s))
			if path == "" {
				path = "$" + sourceEnv(&s)
			}

			fmt.Printf("│ %-8s │ %-14s │ %-18s │ %-50s│\n", s.Name, s.Type, path, s.Description)

			return nil
		})
		fmt.Printf("╰─%-8s─┴─%-14s─┴─%-18s─┴─%-50s╯\n", a, b, c, d)

		return err
	},
}

var sourcesCheckCmd = &cobra.Command{
	Use:   "check [source...]",
	Short: "Load amenity datasets and report skipped rows",
	Long: `Loads the given sources, or every source whose PROPNEAR_<SOURCE> variable is
set, and prints the rows that could not be read.`,
	RunE: func(_ *cobra.Command, args []string) error {
		var total dataset.LoadMetrics

		check := func(s *estate.Source) error {
			path, err := pathOr("", sourceEnv(s))
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", s.Name, err)
			}
			defer f.Close()

			res, err := s.Load(f, path)
			if err != nil {
				return err
			}

			for _, sk := range res.Skipped {
				fmt.Printf("%s\t%v\n", path, sk.Err)
			}

			logLoad(s.Name, path, &res.Metrics)
			total.Merge(&res.Metrics)

			return nil
		}

		if len(args) > 0 {
			for _, q := range args {
				s, err := estate.Find(q)
				if err != nil {
					return err
				}

				if err := check(s); err != nil {
					return err
				}
			}
		} else {
			err := estate.Each(func(s estate.Source) error {
				if os.Getenv(sourceEnv(&s)) == "" {
					return nil
				}

				return check(&s)
			})
			if err != nil {
				return err
			}
		}

		slog.Info("check complete",
			"rows", textutils.FormatInt(int64(total.Rows)),
			"loaded", textutils.FormatInt(int64(total.Loaded)),
			"replaced", total.Replaced,
			"skipped", total.Skipped,
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesCheckCmd)
}
