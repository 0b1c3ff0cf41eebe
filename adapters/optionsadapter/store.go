package optionsadapter

import (
	"context"
	"sort"
	"strings"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
	"github.com/goliatone/go-langtheme/store"
)

const (
	priorityGuest  = 10
	priorityTheme  = 20
	priorityMember = 40
)

// DefaultDomain is the options domain prefix used for theme rows.
const DefaultDomain = "theme_settings"

// ErrStoreRequired indicates the underlying state store is missing.
var ErrStoreRequired = ferrors.ErrStoreRequired

// ScopeBuilder maps a member id into the go-options scope its rows live in.
type ScopeBuilder func(memberID int) opts.Scope

// MetaBuilder builds storage metadata from an actor reference.
type MetaBuilder func(actor resource.ActorRef) state.Meta

// Option customizes the Store adapter.
type Option func(*Store)

// Store adapts a go-options state.Store into a theme row store. Every
// theme/member pair is one snapshot of variable to value.
type Store struct {
	stateStore state.Store[map[string]any]
	domain     string
	scopes     ScopeBuilder
	meta       MetaBuilder
}

// NewStore constructs an adapter backed by a go-options state.Store.
func NewStore(stateStore state.Store[map[string]any], opts ...Option) *Store {
	adapter := &Store{
		stateStore: stateStore,
		domain:     DefaultDomain,
		scopes:     defaultScope,
		meta:       defaultMeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.scopes == nil {
		adapter.scopes = defaultScope
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain prefix.
func WithDomain(domain string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithScopeBuilder overrides the default member to scope mapping.
func WithScopeBuilder(builder ScopeBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.scopes = builder
	}
}

// WithMetaBuilder overrides the metadata builder used on mutations.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// Rows implements store.Reader.
func (s *Store) Rows(ctx context.Context, themeIDs, memberIDs []int) ([]store.Row, error) {
	if s == nil || s.stateStore == nil {
		return nil, storeRequiredError(s, "rows")
	}
	var rows []store.Row
	for _, themeID := range sortedUnique(themeIDs) {
		for _, memberID := range memberIDs {
			ref := s.ref(themeID, memberID)
			snapshot, _, ok, err := s.stateStore.Load(ctx, ref)
			if err != nil {
				meta := storeMeta(ref, "load")
				meta[ferrors.MetaThemeID] = themeID
				meta[ferrors.MetaMemberID] = memberID
				return nil, ferrors.WrapExternal(err, ferrors.TextCodeStoreReadFailed, "optionsadapter: load failed", meta)
			}
			if !ok || len(snapshot) == 0 {
				continue
			}
			names := make([]string, 0, len(snapshot))
			for name := range snapshot {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if snapshot[name] == nil {
					continue
				}
				rows = append(rows, store.Row{
					ThemeID:  themeID,
					MemberID: memberID,
					Variable: name,
					Value:    stringValue(snapshot[name]),
				})
			}
		}
	}
	return rows, nil
}

// Set implements store.Writer.
func (s *Store) Set(ctx context.Context, row store.Row, actor resource.ActorRef) error {
	if s == nil || s.stateStore == nil {
		return storeRequiredError(s, "set")
	}
	variable, err := normalizeVariable(row.Variable, s.domain, "set")
	if err != nil {
		return err
	}
	ref := s.ref(row.ThemeID, row.MemberID)
	return s.mutate(ctx, ref, actor, "set", variable, func(snapshot map[string]any) {
		snapshot[variable] = row.Value
	})
}

// Unset implements store.Writer.
func (s *Store) Unset(ctx context.Context, themeID, memberID int, variable string, actor resource.ActorRef) error {
	if s == nil || s.stateStore == nil {
		return storeRequiredError(s, "unset")
	}
	normalized, err := normalizeVariable(variable, s.domain, "unset")
	if err != nil {
		return err
	}
	ref := s.ref(themeID, memberID)
	return s.mutate(ctx, ref, actor, "unset", normalized, func(snapshot map[string]any) {
		delete(snapshot, normalized)
	})
}

func (s *Store) mutate(ctx context.Context, ref state.Ref, actor resource.ActorRef, operation, variable string, apply func(map[string]any)) error {
	resolver := state.Resolver[map[string]any]{Store: s.stateStore}
	_, _, err := resolver.Mutate(ctx, ref, s.meta(actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotRequired, "optionsadapter: snapshot is nil", storeMeta(ref, operation))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		apply(*snapshot)
		return nil
	})
	if err != nil {
		meta := storeMeta(ref, operation)
		meta[ferrors.MetaVariable] = variable
		return ferrors.WrapExternal(err, ferrors.TextCodeStoreWriteFailed, "optionsadapter: "+operation+" failed", meta)
	}
	return nil
}

func (s *Store) ref(themeID, memberID int) state.Ref {
	return state.Ref{Domain: rowDomain(s.domain, themeID, memberID), Scope: s.scopes(memberID)}
}

func defaultScope(memberID int) opts.Scope {
	switch {
	case memberID == store.GlobalMember:
		return scoped("theme", "Theme", priorityTheme, "")
	case memberID < 0:
		return scoped("guest", "Guest", priorityGuest, "")
	default:
		return scoped("member", "Member", priorityMember, itoa(memberID))
	}
}

func scoped(name, label string, priority int, memberID string) opts.Scope {
	var metadata map[string]any
	if memberID != "" {
		metadata = map[string]any{scope.MetadataMemberID: memberID}
	}
	return opts.NewScope(
		name,
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

func defaultMeta(actor resource.ActorRef) state.Meta {
	extra := map[string]string{}
	if actor.ID != "" {
		extra["actor_id"] = actor.ID
	}
	if actor.Type != "" {
		extra["actor_type"] = actor.Type
	}
	if actor.Name != "" {
		extra["actor_name"] = actor.Name
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

var _ store.ReadWriter = (*Store)(nil)

func storeRequiredError(s *Store, operation string) error {
	domain := ""
	if s != nil {
		domain = s.domain
	}
	return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaDomain:    domain,
		ferrors.MetaOperation: operation,
	})
}

func normalizeVariable(variable, domain, operation string) (string, error) {
	trimmed := strings.TrimSpace(variable)
	if trimmed != "" {
		return trimmed, nil
	}
	return "", ferrors.WrapSentinel(ferrors.ErrPathRequired, "optionsadapter: variable name required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaDomain:    domain,
		ferrors.MetaOperation: operation,
	})
}

func storeMeta(ref state.Ref, operation string) map[string]any {
	return map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaStore:     "state",
		ferrors.MetaOperation: operation,
		ferrors.MetaDomain:    ref.Domain,
		ferrors.MetaScope:     ref.Scope.Name,
	}
}
