package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Long: `List every setting with its current value.

A setting marked with * has a value that could not be saved yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			views := make([]SettingJSON, 0, len(app.Defs))
			for _, def := range store.Definitions() {
				v, err := settingJSON(app, store, def)
				if err != nil {
					return err
				}
				views = append(views, v)
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(views)
			}

			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tLABEL\tKIND")
			for _, v := range views {
				mark := ""
				if v.Pending {
					mark = " *"
				}
				fmt.Fprintf(w, "%s%s\t%d\t%s\t%s\n", v.Key, mark, v.Value, v.Label, v.Kind)
			}
			return w.Flush()
		},
	}
}

func newGetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Long: `Show the current value of one setting.

Examples:
  prefs get graphics
  prefs get FrameLimitSetting --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			def, err := resolveKey(app, args[0])
			if err != nil {
				return err
			}
			store, err := app.Store(cmd.Context())
			if err != nil {
				return err
			}

			view, err := settingJSON(app, store, def)
			if err != nil {
				return err
			}
			if app.JSON {
				return json.NewEncoder(app.Out).Encode(view)
			}
			fmt.Fprintf(app.Out, "%s = %d (%s)\n", view.Key, view.Value, view.Label)
			return nil
		},
	}
}
