package cli

import (
	"context"
	"database/sql"
	"strings"

	"github.com/spf13/afero"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/text/language"

	"github.com/goliatone/go-langtheme/adapters/bunadapter"
	"github.com/goliatone/go-langtheme/adapters/gologgeradapter"
	"github.com/goliatone/go-langtheme/cache"
	"github.com/goliatone/go-langtheme/catalog"
	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/loader"
	"github.com/goliatone/go-langtheme/locale"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/resolver"
	"github.com/goliatone/go-langtheme/scope"
	"github.com/goliatone/go-langtheme/store"
	"github.com/goliatone/go-langtheme/theme"
)

// runtime wires the resolver stack for a single command invocation.
type runtime struct {
	fs       afero.Fs
	cache    *cache.Layer
	rows     store.ReadWriter
	themes   *theme.Loader
	provider *theme.Provider
	files    *loader.Loader
	locale   *locale.Locale
	session  *resolver.Session
	scanner  *catalog.Scanner
	close    func() error
}

type runtimeOptions struct {
	debug bool
}

func (a *app) runtime(ctx context.Context, opts runtimeOptions) (*runtime, error) {
	fs := a.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	lgr := a.logger
	settings := a.cfg.Settings
	if opts.debug {
		settings.Debug = true
	}

	rt := &runtime{fs: fs, close: func() error { return nil }}
	rt.cache = cache.New(
		cache.WithBackend(cache.NewMemoryBackend()),
		cache.WithConfig(a.cfg.Cache),
		cache.WithLogger(lgr),
	)

	rows, closeFn, err := a.themeRows(ctx)
	if err != nil {
		return nil, err
	}
	rt.rows = rows
	rt.close = closeFn

	events := gologgeradapter.New(gologgeradapter.FromLogger(lgr))
	rt.themes = theme.NewLoader(
		theme.WithStore(rows),
		theme.WithWriter(rows),
		theme.WithCache(rt.cache),
		theme.WithActivityHook(events),
		theme.WithLogger(lgr),
	)
	rt.provider = theme.NewProvider(rt.themes,
		theme.WithGuestTheme(a.cfg.GuestTheme),
		theme.WithTemplateFs(fs),
	)
	if _, err := rt.provider.Load(ctx, a.opts.ThemeID, a.opts.MemberID); err != nil {
		_ = rt.close()
		return nil, err
	}

	loaderOpts := []loader.Option{loader.WithFs(fs), loader.WithLogger(lgr)}
	if len(settings.Extensions) > 0 {
		loaderOpts = append(loaderOpts, loader.WithExtensions(settings.Extensions...))
	}
	rt.files = loader.New(loaderOpts...)
	rt.locale = locale.New(language.AmericanEnglish, locale.WithLogger(lgr))
	rt.session = resolver.New(
		resolver.WithSettings(settings),
		resolver.WithFs(fs),
		resolver.WithLoader(rt.files),
		resolver.WithThemeSource(rt.provider),
		resolver.WithLocaleHook(rt.locale),
		resolver.WithLoadHook(events),
		resolver.WithLogger(lgr),
	)
	rt.scanner = catalog.NewScanner(
		catalog.WithFs(fs),
		catalog.WithLoader(rt.files),
		catalog.WithLanguagesDir(settings.LanguagesDir),
		catalog.WithThemeSource(rt.provider),
		catalog.WithCache(rt.cache),
		catalog.WithNameFallback(locale.NativeName),
		catalog.WithLogger(lgr),
	)
	return rt, nil
}

// scope returns the request context carrying the command's scope flags.
func (a *app) scope(ctx context.Context) context.Context {
	ctx = scope.WithMemberID(ctx, a.opts.MemberID)
	ctx = scope.WithThemeID(ctx, a.opts.ThemeID)
	return scope.WithLanguage(ctx, a.opts.Language)
}

// themeRows returns the configured row store. Rows declared in the config
// file are seeded into it.
func (a *app) themeRows(ctx context.Context) (store.ReadWriter, func() error, error) {
	dsn := strings.TrimSpace(a.cfg.Database)
	if dsn == "" {
		return store.NewMemoryStore(a.cfg.ThemeRows...), func() error { return nil }, nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "open theme database", map[string]any{
			ferrors.MetaStore: "bun",
		})
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*bunadapter.ThemeRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "create themes table", map[string]any{
			ferrors.MetaStore: "bun",
			ferrors.MetaTable: bunadapter.DefaultTable,
		})
	}
	rows := bunadapter.NewStore(db)
	actor := resource.ActorRef{ID: "config", Type: "system"}
	for _, row := range a.cfg.ThemeRows {
		if err := rows.Set(ctx, row, actor); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return rows, db.Close, nil
}
