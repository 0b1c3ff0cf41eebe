package urlkitadapter

import (
	"strings"

	"github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/urlbuilder"
)

// ErrResolverRequired indicates the urlkit resolver is missing.
var ErrResolverRequired = ferrors.ErrResolverRequired

// Adapter wraps a urlkit.Resolver so template helpers can build the links
// they render next to localized strings.
type Adapter struct {
	Resolver     urlkit.Resolver
	DefaultGroup string
}

// New builds a new Adapter for the provided resolver. A non-empty
// defaultGroup is used when callers pass a blank group path.
func New(resolver urlkit.Resolver, defaultGroup ...string) Adapter {
	adapter := Adapter{Resolver: resolver}
	if len(defaultGroup) > 0 {
		adapter.DefaultGroup = strings.TrimSpace(defaultGroup[0])
	}
	return adapter
}

// Resolve implements urlbuilder.Builder.
func (a Adapter) Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error) {
	groupPath = strings.TrimSpace(groupPath)
	if groupPath == "" {
		groupPath = a.DefaultGroup
	}
	meta := map[string]any{
		ferrors.MetaAdapter:   "urlkit",
		ferrors.MetaOperation: "resolve",
		ferrors.MetaPath:      groupPath + ":" + route,
	}
	if a.Resolver == nil {
		return "", ferrors.WrapSentinel(ferrors.ErrResolverRequired, "urlkitadapter: resolver is required", meta)
	}
	url, err := a.Resolver.Resolve(groupPath, route, params, query)
	if err != nil {
		return "", ferrors.WrapExternal(err, ferrors.TextCodeAdapterFailed, "urlkitadapter: resolve failed", meta)
	}
	return url, nil
}

var _ urlbuilder.Builder = Adapter{}
