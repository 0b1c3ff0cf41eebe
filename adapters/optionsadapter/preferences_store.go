package optionsadapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-admin/admin"
	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-langtheme/ferrors"
	"github.com/goliatone/go-langtheme/scope"
)

// ErrPreferencesStoreRequired indicates a missing preferences store.
var ErrPreferencesStoreRequired = ferrors.ErrPreferencesStoreRequired

// PreferencesOption customizes the PreferencesStore adapter.
type PreferencesOption func(*PreferencesStoreAdapter)

// PreferencesStoreAdapter adapts go-admin PreferencesStore into a state.Store.
// Member scopes are stored at the user level; theme-wide and guest rows at the
// system level.
type PreferencesStoreAdapter struct {
	store     admin.PreferencesStore
	keyPrefix string
	variables []string
}

// NewPreferencesStoreAdapter constructs a new adapter for PreferencesStore.
func NewPreferencesStoreAdapter(store admin.PreferencesStore, opts ...PreferencesOption) *PreferencesStoreAdapter {
	adapter := &PreferencesStoreAdapter{store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// WithKeyPrefix overrides the key prefix used instead of the ref domain.
func WithKeyPrefix(prefix string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		adapter.keyPrefix = strings.TrimSpace(prefix)
	}
}

// WithVariables restricts loads to the provided theme variables.
func WithVariables(variables ...string) PreferencesOption {
	return func(adapter *PreferencesStoreAdapter) {
		if adapter == nil {
			return
		}
		cleaned := make([]string, 0, len(variables))
		for _, variable := range variables {
			variable = strings.TrimSpace(variable)
			if variable == "" {
				continue
			}
			cleaned = append(cleaned, variable)
		}
		adapter.variables = cleaned
	}
}

// Load implements state.Store.
func (a *PreferencesStoreAdapter) Load(ctx context.Context, ref state.Ref) (map[string]any, state.Meta, bool, error) {
	if a == nil || a.store == nil {
		return nil, state.Meta{}, false, ErrPreferencesStoreRequired
	}
	level, prefScope, err := preferenceScope(ref.Scope)
	if err != nil {
		return nil, state.Meta{}, false, err
	}

	prefix := a.domainPrefix(ref.Domain)
	snapshot, err := a.store.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  prefScope,
		Levels: []admin.PreferenceLevel{level},
		Keys:   a.prefixedKeys(prefix),
	})
	if err != nil {
		return nil, state.Meta{}, false, err
	}

	result := map[string]any{}
	for key, value := range snapshot.Effective {
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		if key == "" || value == nil {
			continue
		}
		result[key] = value
	}
	if len(result) == 0 {
		return nil, state.Meta{}, false, nil
	}
	return result, state.Meta{}, true, nil
}

// Save implements state.Store. Variables missing from snapshot are deleted.
func (a *PreferencesStoreAdapter) Save(ctx context.Context, ref state.Ref, snapshot map[string]any, _ state.Meta) (state.Meta, error) {
	if a == nil || a.store == nil {
		return state.Meta{}, ErrPreferencesStoreRequired
	}
	level, prefScope, err := preferenceScope(ref.Scope)
	if err != nil {
		return state.Meta{}, err
	}

	prefix := a.domainPrefix(ref.Domain)
	values := make(map[string]any, len(snapshot))
	for variable, value := range snapshot {
		values[prefix+variable] = value
	}

	existing, _, ok, err := a.Load(ctx, ref)
	if err != nil {
		return state.Meta{}, err
	}
	var deleteKeys []string
	if ok {
		for variable := range existing {
			if _, stillPresent := values[prefix+variable]; !stillPresent {
				deleteKeys = append(deleteKeys, prefix+variable)
			}
		}
	}

	if len(values) > 0 {
		if _, err := a.store.Upsert(ctx, admin.PreferencesUpsertInput{
			Scope:  prefScope,
			Level:  level,
			Values: values,
		}); err != nil {
			return state.Meta{}, err
		}
	}
	if len(deleteKeys) > 0 {
		if err := a.store.Delete(ctx, admin.PreferencesDeleteInput{
			Scope: prefScope,
			Level: level,
			Keys:  deleteKeys,
		}); err != nil {
			return state.Meta{}, err
		}
	}
	return state.Meta{}, nil
}

func preferenceScope(scopeDef opts.Scope) (admin.PreferenceLevel, admin.PreferenceScope, error) {
	switch scopeDef.Name {
	case "theme", "guest":
		return admin.PreferenceLevelSystem, admin.PreferenceScope{}, nil
	case "member":
		id, err := extractMemberID(scopeDef)
		if err != nil {
			return "", admin.PreferenceScope{}, err
		}
		return admin.PreferenceLevelUser, admin.PreferenceScope{UserID: id}, nil
	default:
		return "", admin.PreferenceScope{}, ferrors.WrapSentinel(ferrors.ErrScopeRequired, "optionsadapter: unsupported scope", map[string]any{
			ferrors.MetaAdapter: "options",
			ferrors.MetaScope:   scopeDef.Name,
		})
	}
}

func extractMemberID(scopeDef opts.Scope) (string, error) {
	raw, _ := scopeDef.Metadata[scope.MetadataMemberID].(string)
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", ferrors.WrapSentinel(ferrors.ErrScopeRequired, "optionsadapter: member scope without member id", map[string]any{
			ferrors.MetaAdapter: "options",
			ferrors.MetaScope:   scopeDef.Name,
		})
	}
	return id, nil
}

func (a *PreferencesStoreAdapter) domainPrefix(domain string) string {
	if a.keyPrefix != "" {
		return normalizePrefix(a.keyPrefix)
	}
	return normalizePrefix(domain)
}

func (a *PreferencesStoreAdapter) prefixedKeys(prefix string) []string {
	if len(a.variables) == 0 {
		return nil
	}
	keys := make([]string, 0, len(a.variables))
	for _, variable := range a.variables {
		keys = append(keys, prefix+variable)
	}
	return keys
}

var _ state.Store[map[string]any] = (*PreferencesStoreAdapter)(nil)
