package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/store"
)

func newThemeCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Inspect and change theme settings",
	}
	cmd.AddCommand(newThemeShowCommand(state))
	cmd.AddCommand(newThemeSetCommand(state))
	cmd.AddCommand(newThemeUnsetCommand(state))
	return cmd
}

func newThemeShowCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings and options of the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := state.scope(cmd.Context())
			rt, err := state.runtime(ctx, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.close()

			data, _ := rt.provider.Current()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "theme %d member %d\n", data.ThemeID, data.MemberID)
			printValues(cmd, "settings", data.Settings)
			printValues(cmd, "options", data.Options)
			return nil
		},
	}
}

func newThemeSetCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set VARIABLE VALUE",
		Short: "Store a theme variable for --theme and --member (0 is theme-wide)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := state.scope(cmd.Context())
			rt, err := state.runtime(ctx, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.themes.SetOption(ctx, state.themeID(), state.opts.MemberID, args[0], args[1], cliActor)
		},
	}
}

func newThemeUnsetCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unset VARIABLE",
		Short: "Remove a theme variable for --theme and --member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := state.scope(cmd.Context())
			rt, err := state.runtime(ctx, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.themes.UnsetOption(ctx, state.themeID(), state.opts.MemberID, args[0], cliActor)
		},
	}
}

var cliActor = resource.ActorRef{ID: "cli", Type: "system", Name: "langtheme"}

func (a *app) themeID() int {
	switch {
	case a.opts.ThemeID > 0:
		return a.opts.ThemeID
	case a.cfg.GuestTheme > 0:
		return a.cfg.GuestTheme
	default:
		return store.DefaultTheme
	}
}

func printValues(cmd *cobra.Command, title string, values map[string]any) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s:\n", title)
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(out, "  %s = %v\n", key, values[key])
	}
}
