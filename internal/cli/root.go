// Copyright (c) 2026 Parsight. All rights reserved.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	debug      bool
}

/*
NewRootCommand assembles the command tree.

Description: The App is wired once in PersistentPreRunE so every subcommand
receives the same configured stack. Wiring is skipped for commands that do
not talk to the backend.

Returns:
  - *cobra.Command: Executable root
*/
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}
	app := &App{}

	root := &cobra.Command{
		Use:   "parsight",
		Short: "Terminal client for the PARS package-label service",
		Long: `Parsight is the terminal client for the PARS package-label ingestion
service: log in, browse extracted label records, and administer accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			wired, err := Wire(flags.configPath, flags.debug)
			if err != nil {
				return err
			}
			*app = *wired
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to the configuration file")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newLoginCommand(app),
		newLogoutCommand(app),
		newWhoamiCommand(app),
		newRegisterCommand(app),
		newRecordsCommand(app),
		newUsersCommand(app),
		newAccountCommand(app),
		newShellCommand(app),
		newDemoCommand(app),
	)

	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
