package cmd

import (
	"context"
	"fmt"

	"settings-lite/internal/settings"

	"github.com/spf13/cobra"
)

// mutation runs one store operation on the resolved setting and reports it.
func mutation(provider *AppProvider, op func(ctx context.Context, app *App, store *settings.Store, def settings.Definition, args []string) (int, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := provider.Get()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		def, err := resolveKey(app, args[0])
		if err != nil {
			return err
		}
		store, err := app.Store(ctx)
		if err != nil {
			return err
		}

		v, err := op(ctx, app, store, def, args[1:])
		return reportChange(app, store, def, v, err)
	}
}

func newToggleCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <key>",
		Short: "Flip a two-valued setting",
		Long: `Flip a binary setting to its other value.

Examples:
  prefs toggle frame-limit   # 60 fps <-> 30 fps
  prefs toggle camera        # 3D <-> 2D
  prefs toggle music`,
		Args: cobra.ExactArgs(1),
		RunE: mutation(provider, func(ctx context.Context, _ *App, store *settings.Store, def settings.Definition, _ []string) (int, error) {
			return store.ToggleBinary(ctx, def.Key)
		}),
	}
}

func newCycleCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <key>",
		Short: "Advance a cyclic setting to its next value",
		Long: `Advance a cyclic setting, wrapping from the last value to the first.

Example:
  prefs cycle graphics   # High -> Low -> Medium -> High`,
		Args: cobra.ExactArgs(1),
		RunE: mutation(provider, func(ctx context.Context, _ *App, store *settings.Store, def settings.Definition, _ []string) (int, error) {
			return store.CycleEnum(ctx, def.Key)
		}),
	}
}

func newSetCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting to a specific value",
		Long: `Set a setting to a specific value.

The value may be the stored integer or its label. The language setting
also accepts a language tag.

Examples:
  prefs set graphics medium
  prefs set frame-limit 30
  prefs set language ko`,
		Args: cobra.ExactArgs(2),
		RunE: mutation(provider, func(ctx context.Context, app *App, store *settings.Store, def settings.Definition, args []string) (int, error) {
			v, err := parseValue(app, def, args[0])
			if err != nil {
				return 0, err
			}
			return v, store.SetValue(ctx, def.Key, v)
		}),
	}
}

// nexter is implemented by catalogs that define their own successor order.
type nexter interface {
	Next(idx int) int
}

func newSwitchCmd(provider *AppProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <key>",
		Short: "Move any setting to its next value",
		Long: `Move a setting to its next value, whatever its kind: binary settings
toggle, cyclic settings cycle and catalog settings move to the next
catalog entry.

Example:
  prefs switch language`,
		Args: cobra.ExactArgs(1),
		RunE: mutation(provider, func(ctx context.Context, _ *App, store *settings.Store, def settings.Definition, _ []string) (int, error) {
			switch def.Kind {
			case settings.KindBinary:
				return store.ToggleBinary(ctx, def.Key)
			case settings.KindCyclic:
				return store.CycleEnum(ctx, def.Key)
			case settings.KindCatalog:
				cur, err := store.GetValue(def.Key)
				if err != nil {
					return 0, err
				}
				next := (cur + 1) % def.Catalog.Size()
				if n, ok := def.Catalog.(nexter); ok {
					next = n.Next(cur)
				}
				return next, store.SetValue(ctx, def.Key, next)
			}
			return 0, fmt.Errorf("setting %q has unsupported kind %s", def.Key, def.Kind)
		}),
	}
}
