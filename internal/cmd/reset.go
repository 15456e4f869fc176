package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ResetResult is the JSON output of the reset command.
type ResetResult struct {
	Reset    []string      `json:"reset"`
	Settings []SettingJSON `json:"settings"`
}

func newResetCmd(provider *AppProvider) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [key...]",
		Short: "Restore settings to their defaults",
		Long: `Delete the saved values of the given settings and load again, so they
fall back to their defaults and the defaults are saved.

With --all every saved entry is removed, including keys no setting uses.

Examples:
  prefs reset graphics music
  prefs reset --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) > 0) {
				return errors.New("specify setting keys or --all")
			}
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var keys []string
			if all {
				keys, err = app.Prefs.Keys(ctx)
				if err != nil {
					return fmt.Errorf("listing saved settings: %w", err)
				}
			} else {
				for _, arg := range args {
					def, err := resolveKey(app, arg)
					if err != nil {
						return err
					}
					keys = append(keys, def.Key)
				}
			}

			if err := app.Prefs.Reset(ctx, keys...); err != nil {
				return err
			}

			loaded := app.store != nil
			store, err := app.Store(ctx)
			if err != nil {
				return err
			}
			if loaded {
				store.DropPending(keys...)
				if err := store.Load(ctx); err != nil {
					app.warn(err)
				}
			}

			if app.JSON {
				result := ResetResult{Reset: keys}
				for _, def := range store.Definitions() {
					v, err := settingJSON(app, store, def)
					if err != nil {
						return err
					}
					result.Settings = append(result.Settings, v)
				}
				return json.NewEncoder(app.Out).Encode(result)
			}

			for _, key := range keys {
				if _, ok := app.Definition(key); !ok {
					fmt.Fprintf(app.Out, "%s Removed %s\n", app.SuccessColor("✓"), key)
					continue
				}
				v, err := store.GetValue(key)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "%s Reset %s to %s\n", app.SuccessColor("✓"), key, describe(app, key, v))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Reset every saved setting")

	return cmd
}
