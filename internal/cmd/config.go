package cmd

import (
	"encoding/json"
	"fmt"

	"settings-lite/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd creates the config command with subcommands.
func newConfigCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the settings-lite configuration.

Configuration is read from .prefs/config.yaml or .prefs/config.toml.
PREFS_* environment variables override file values.

Subcommands:
  show      Print the effective configuration
  validate  Validate the config file`,
	}

	cmd.AddCommand(newConfigShowCmd(provider))
	cmd.AddCommand(newConfigValidateCmd(provider))

	return cmd
}

func newConfigShowCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(app.Config)
			}
			data, err := yaml.Marshal(app.Config)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			_, err = app.Out.Write(data)
			return err
		},
	}
}

func newConfigValidateCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Long: `Check the config file in the settings directory, without environment
overrides, for invalid values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}

			path := config.FindFile(app.Dir)
			if path == "" {
				fmt.Fprintf(app.Out, "No config file in %s; defaults are in use.\n", app.Dir)
				return nil
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(map[string]any{
					"path":  path,
					"valid": true,
				})
			}
			fmt.Fprintf(app.Out, "%s %s is valid\n", app.SuccessColor("✓"), path)
			return nil
		},
	}
}
