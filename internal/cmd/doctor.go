package cmd

import (
	"encoding/json"
	"fmt"

	"settings-lite/internal/settings"

	"github.com/spf13/cobra"
)

// DoctorResult represents the output of the doctor command.
type DoctorResult struct {
	Findings []settings.Finding `json:"findings"`
	Unused   []string           `json:"unused,omitempty"`
	Problems int                `json:"problems"`
	Fixed    bool               `json:"fixed"`
}

func newDoctorCmd(provider *AppProvider) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check saved settings for problems",
		Long: `Check the saved settings without changing them.

Checks for:
- Settings that were never saved
- Saved values that cannot be parsed or are outside the setting's range
- Saved entries that no setting uses
- Backend read errors

With --fix, settings are loaded so missing and invalid values are replaced
by their defaults, and unused entries are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := provider.Get()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			result := DoctorResult{
				Findings: settings.Audit(ctx, app.Prefs, app.Defs),
				Fixed:    fix,
			}
			for _, f := range result.Findings {
				if f.Status != settings.StatusOK {
					result.Problems++
				}
			}

			saved, err := app.Prefs.Keys(ctx)
			if err != nil {
				return fmt.Errorf("listing saved settings: %w", err)
			}
			for _, key := range saved {
				if _, ok := app.Definition(key); !ok {
					result.Unused = append(result.Unused, key)
				}
			}
			result.Problems += len(result.Unused)

			if fix && result.Problems > 0 {
				if err := app.Prefs.Reset(ctx, result.Unused...); err != nil {
					return err
				}
				loaded := app.store != nil
				store, err := app.Store(ctx)
				if err != nil {
					return err
				}
				if loaded {
					if err := store.Load(ctx); err != nil {
						app.warn(err)
					}
				}
			}

			if app.JSON {
				return json.NewEncoder(app.Out).Encode(result)
			}

			if result.Problems == 0 {
				fmt.Fprintln(app.Out, "No problems found.")
				return nil
			}

			if fix {
				fmt.Fprintf(app.Out, "Fixed %d problems:\n", result.Problems)
			} else {
				fmt.Fprintf(app.Out, "Found %d problems:\n", result.Problems)
			}
			for _, f := range result.Findings {
				if f.Status == settings.StatusOK {
					continue
				}
				fmt.Fprintf(app.Out, "  - %s: %s (%s)\n", f.Key, f.Status, f.Detail)
			}
			for _, key := range result.Unused {
				fmt.Fprintf(app.Out, "  - %s: unused\n", key)
			}

			if !fix {
				fmt.Fprintln(app.Out, "\nRun 'prefs doctor --fix' to fix these issues.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Fix problems (default is check only)")

	return cmd
}
