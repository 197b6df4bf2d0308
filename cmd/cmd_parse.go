// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/propnear/estate"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [line...]",
	Short: "Parse property lines and print them as JSON",
	Long: `Parses each argument, or each line of stdin when there are none, as a row of
the property dataset and prints the resulting record as JSON.

$ propnear parse "P10001,3 Antrim Place Langwarrin VIC 3910,4,2,2,-38.16655678,145.1838435,,608,257,870000,dishwasher;central heating"
{"prop_id":"P10001",…,"prop_type":"house","suburb":"Langwarrin",…,"floor_number":null,"land_area":608,…}
`,
	RunE: func(_ *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		failed := 0

		parse := func(line string) error {
			if strings.TrimSpace(line) == "" {
				return nil
			}

			p, err := estate.ParseProperty(line)
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%q\t%s\n", line, err)

				return nil
			}

			return enc.Encode(p)
		}

		if len(args) > 0 {
			for _, line := range args {
				if err := parse(line); err != nil {
					return err
				}
			}
		} else {
			if isatty.IsTerminal(os.Stdin.Fd()) {
				fmt.Fprintln(os.Stderr, "Enter property lines to parse, one per line…")
			}

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if err := parse(scanner.Text()); err != nil {
					return err
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d lines failed to parse", failed)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
