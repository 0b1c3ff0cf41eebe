package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-langtheme/guard"
	"github.com/goliatone/go-langtheme/resource"
)

type resolveOptions struct {
	Variant    string
	NonFatal   bool
	Alternates []string
	Keys       []string
	Table      string
	Dirs       []string
	Trace      bool
}

func newResolveCommand(state *app) *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve NAME[+NAME...]",
		Short: "Load language resources through the directory chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, state, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Variant, "variant", "", "Force a language variant")
	cmd.Flags().BoolVar(&opts.NonFatal, "non-fatal", false, "Do not fail when nothing loads")
	cmd.Flags().StringSliceVar(&opts.Alternates, "alt", nil, "Alternate names tried when NAME is missing")
	cmd.Flags().StringSliceVar(&opts.Keys, "key", nil, "Print these keys after loading")
	cmd.Flags().StringVar(&opts.Table, "table", string(resource.TableTxt), "Table the keys are read from")
	cmd.Flags().StringSliceVar(&opts.Dirs, "dir", nil, "Extra directories prepended to the chain")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print the chain and merged files")
	return cmd
}

func runResolve(cmd *cobra.Command, state *app, name string, opts resolveOptions) error {
	ctx := state.scope(cmd.Context())
	rt, err := state.runtime(ctx, runtimeOptions{debug: opts.Trace})
	if err != nil {
		return err
	}
	defer rt.close()

	if len(opts.Dirs) > 0 {
		rt.session.AddDirs(ctx, opts.Dirs...)
	}

	var loadOpts []resource.LoadOption
	if opts.Variant != "" {
		loadOpts = append(loadOpts, resource.WithVariant(opts.Variant))
	}

	out := cmd.OutOrStdout()
	loaded, variant := name, ""
	if opts.NonFatal {
		loadOpts = append(loadOpts, resource.WithFatal(false))
		if variant, err = rt.session.Load(ctx, name, loadOpts...); err != nil {
			return err
		}
	} else if loaded, variant, err = guard.Resolve(ctx, rt.session, name,
		guard.WithAlternates(opts.Alternates...),
		guard.WithLoadOptions(loadOpts...),
	); err != nil {
		return err
	}
	if _, ok := rt.session.Loaded(loaded); ok {
		fmt.Fprintf(out, "%s\t%s\n", strings.TrimSpace(loaded), variant)
	}
	if applied := rt.locale.Applied(); applied != "" {
		fmt.Fprintf(out, "locale\t%s\n", applied)
	}
	if opts.Trace {
		printTrace(out, rt.session.Chain(), rt.session.DebugFiles())
	}

	tables := rt.session.Tables()
	table := tables.Get(resource.TableName(opts.Table))
	for _, key := range opts.Keys {
		value := table.String(key)
		if value == "" {
			value = key
		}
		fmt.Fprintf(out, "%s = %s\n", key, value)
	}
	return nil
}

func printTrace(out io.Writer, chain resource.DirectoryChain, files []string) {
	fmt.Fprintln(out, "chain:")
	for _, dir := range chain {
		fmt.Fprintf(out, "  %s\n", dir)
	}
	fmt.Fprintln(out, "files:")
	for _, file := range files {
		fmt.Fprintf(out, "  %s\n", file)
	}
}
