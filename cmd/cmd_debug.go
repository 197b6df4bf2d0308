// Copyright 2025 The PropNear Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/propnear/contact"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugContactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Check contact values against the email and phone rules",
	Long: `Reads one contact value per line and prints it followed by the contact
types it is valid for.

$ printf 'john.doe@gmail.com\n61412345678\njohn@\n' | propnear debug contacts
john.doe@gmail.com	email
61412345678	phone
john@	-
	`,
	Run: func(_ *cobra.Command, _ []string) {
		input := os.Stdin
		if isatty.IsTerminal(input.Fd()) {
			fmt.Fprintln(os.Stderr, "Enter contacts to check, one per line…")
		}

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			value := strings.TrimSpace(scanner.Text())

			var valid []string

			for _, t := range []contact.Type{contact.Email, contact.Phone} {
				if contact.Validate(t, value) {
					valid = append(valid, string(t))
				}
			}

			if len(valid) == 0 {
				valid = []string{"-"}
			}

			fmt.Printf("%s\t%s\n", value, strings.Join(valid, ","))
		}

		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %s\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugContactsCmd)
}
