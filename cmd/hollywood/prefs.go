package main

import (
	"github.com/spf13/cobra"

	"github.com/granchi/hollywood/internal/cli"
	"github.com/granchi/hollywood/internal/config"
	"github.com/granchi/hollywood/pkg/ports"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect the preference store",
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored namespaces",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.PreferenceStore, _ config.Config) error {
			return cli.ListPreferences(cmd.Context(), store, cmd.OutOrStdout())
		})
	},
}

var prefsShowCmd = &cobra.Command{
	Use:   "show [namespace]",
	Short: "Print the values of a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.PreferenceStore, cfg config.Config) error {
			return cli.ShowPreferences(cmd.Context(), store, namespaceArg(cfg, args), cmd.OutOrStdout())
		})
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset [namespace]",
	Short: "Delete a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.PreferenceStore, cfg config.Config) error {
			return cli.ResetPreferences(cmd.Context(), store, namespaceArg(cfg, args))
		})
	},
}

// namespaceArg returns the namespace given on the command line, or the
// configured one.
func namespaceArg(cfg config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Preferences.Namespace
}

func withStore(cmd *cobra.Command, fn func(ports.PreferenceStore, config.Config) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, release, err := cli.OpenStore(cmd.Context(), cfg.Preferences)
	if err != nil {
		return err
	}
	defer release()
	return fn(store, cfg)
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsListCmd, prefsShowCmd, prefsResetCmd)
}
