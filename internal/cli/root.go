package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-langtheme/adapters/zerologadapter"
	"github.com/goliatone/go-langtheme/config"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/guard"
	"github.com/goliatone/go-langtheme/logger"
)

// version is set at build time via ldflags.
var version = "dev"

type rootOptions struct {
	ConfigFile   string
	LogLevel     string
	LanguagesDir string
	Language     string
	ThemeID      int
	MemberID     int
	Database     string
}

type app struct {
	opts   rootOptions
	fs     afero.Fs
	viper  *viper.Viper
	cfg    config.Config
	logger logger.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	root := newRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	return newRootCommandWithFs(afero.NewOsFs())
}

func newRootCommandWithFs(fs afero.Fs) *cobra.Command {
	state := &app{fs: fs, viper: viper.New(), logger: logger.NopLogger{}}
	cmd := &cobra.Command{
		Use:           "langtheme",
		Short:         "Resolve layered language resources and theme settings",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.init(cmd)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&state.opts.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&state.opts.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&state.opts.LanguagesDir, "languages-dir", "", "Root languages directory")
	flags.StringVar(&state.opts.Language, "language", "", "Requested language variant")
	flags.IntVar(&state.opts.ThemeID, "theme", 0, "Theme id (guest theme when 0)")
	flags.IntVar(&state.opts.MemberID, "member", 0, "Member id (guest when 0)")
	flags.StringVar(&state.opts.Database, "db", "", "SQLite DSN holding the themes table")
	_ = state.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = state.viper.BindPFlag("languages_dir", flags.Lookup("languages-dir"))
	_ = state.viper.BindPFlag(config.KeyDatabase, flags.Lookup("db"))

	cmd.AddCommand(newResolveCommand(state))
	cmd.AddCommand(newLanguagesCommand(state))
	cmd.AddCommand(newTemplateCommand(state))
	cmd.AddCommand(newThemeCommand(state))
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.opts.ConfigFile, config.WithViper(a.viper), config.WithFs(a.fs))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = zerologadapter.NewConsole(cmd.ErrOrStderr(), cfg.LogLevel)
	if cfg.File != "" {
		a.logger.Debug("langtheme.config.loaded", "file", cfg.File)
	}
	return nil
}

func exitCodeForError(err error) int {
	switch {
	case ferrors.IsNotFound(err), errors.Is(err, guard.ErrResourceMissing):
		return 3
	case ferrors.IsInvalidName(err):
		return 2
	}
	if rich, ok := ferrors.As(err); ok && rich.TextCode == ferrors.TextCodeConfigInvalid {
		return 2
	}
	return 1
}
