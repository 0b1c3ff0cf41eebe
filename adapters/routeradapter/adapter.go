package routeradapter

import (
	"context"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
)

// Context extracts the standard context from a router context.
func Context(ctx router.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx.Context()
}

// Scope derives the request scope from a router context.
func Scope(ctx router.Context) resource.Scope {
	return scope.FromContext(Context(ctx))
}

// WithRouterContext returns a load option pinned to the scope carried by the
// router context.
func WithRouterContext(ctx router.Context) resource.LoadOption {
	return resource.WithScope(Scope(ctx))
}

// Load loads name for the request described by the router context.
func Load(ctx router.Context, loader resource.Loader, name string, opts ...resource.LoadOption) (string, error) {
	opts = append([]resource.LoadOption{WithRouterContext(ctx)}, opts...)
	return loader.Load(Context(ctx), name, opts...)
}
