package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type languagesOptions struct {
	NoCache bool
}

func newLanguagesCommand(state *app) *cobra.Command {
	opts := languagesOptions{}
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the language packs installed across the theme chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := state.scope(cmd.Context())
			rt, err := state.runtime(ctx, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.close()

			known, err := rt.scanner.Languages(ctx, !opts.NoCache)
			if err != nil {
				return err
			}
			if state.opts.Language != "" {
				known = known.Select(state.opts.Language)
			}
			out := cmd.OutOrStdout()
			for _, lang := range known.List() {
				marker := " "
				if lang.Selected {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\t%s\t%s\n", marker, lang.ID, lang.Name, lang.Location)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Rescan instead of using the cached list")
	return cmd
}
