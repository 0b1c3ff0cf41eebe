package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
)

func newTemplateCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "template NAME",
		Short: "Locate a template file across the active theme's directories",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := state.scope(cmd.Context())
			rt, err := state.runtime(ctx, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.close()

			path, ok := rt.provider.LocateTemplate(ctx, args[0])
			if !ok {
				return ferrors.WrapSentinel(ferrors.ErrResourceNotFound, fmt.Sprintf("unable to load the '%s' template", args[0]), map[string]any{
					ferrors.MetaResourceName: args[0],
					ferrors.MetaKind:         resource.KindThemeSetting,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
