// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jcodagnone/propnear/contact"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	PropertiesPath string
	ContactsPath   string
	Types          []string
	Required       bool
}

var matchOpts = &matchOptions{}

var presets = map[string]contact.Matcher{
	"email": contact.EmailMatcher,
	"phone": contact.PhoneMatcher,
	"both":  contact.EmailPhoneMatcher,
}

var matchCmd = &cobra.Command{
	Use:   "match [email|phone|both]",
	Short: "Join properties with their email and phone contacts",
	Long: `Joins each property with the rows of the contact file that share its
prop_id and prints the result as comma separated text.

Presets:
  email   email contacts, invalid ones kept as an empty value
  phone   phone contacts, invalid ones kept as an empty value
  both    email and phone, only properties with at least one valid contact

Without a preset, --types and --required choose the behaviour. Properties
without any contact row are never printed. Every property row is parsed and
checked first, and the first bad row fails the command.
`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"email", "phone", "both"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var m contact.Matcher

		if len(args) == 1 {
			m = presets[args[0]]
			if cmd.Flags().Changed("types") || cmd.Flags().Changed("required") {
				return fmt.Errorf("--types and --required can't be combined with the %q preset", args[0])
			}
		} else {
			types, err := contact.ParseTypes(matchOpts.Types)
			if err != nil {
				return err
			}

			m = contact.Matcher{Types: types, Required: matchOpts.Required}
		}

		propPath, err := pathOr(matchOpts.PropertiesPath, envProperties)
		if err != nil {
			return err
		}

		contactPath, err := pathOr(matchOpts.ContactsPath, envContacts)
		if err != nil {
			return err
		}

		res, err := m.MatchFiles(propPath, contactPath)
		if err != nil {
			return err
		}

		for _, s := range res.Skipped {
			slog.Warn("contact row skipped", "path", contactPath, "line", s.Line, "err", s.Err)
		}

		fmt.Fprint(os.Stdout, res.String())

		slog.Info("match complete", "types", m.Types, "required", m.Required, "records", len(res.Records))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&matchOpts.PropertiesPath, "properties", "", "Property file (default $"+envProperties+")")
	matchCmd.Flags().StringVar(&matchOpts.ContactsPath, "contacts", "", "Contact file (default $"+envContacts+")")
	matchCmd.Flags().StringSliceVar(&matchOpts.Types, "types", []string{"email"}, "Contact columns to join: email, phone")
	matchCmd.Flags().BoolVar(&matchOpts.Required, "required", false, "Keep only properties with at least one valid contact")
}
