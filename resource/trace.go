package resource

import "context"

// Provenance records one attempt and whether it contributed to the merge.
type Provenance struct {
	Attempt Attempt
	Path    string
	Found   bool
	Legacy  bool
	Error   error
}

// LoadTrace captures provenance for a single Load call.
type LoadTrace struct {
	Name          string
	Names         []string
	Requested     string
	Default       string
	Baseline      string
	Chain         DirectoryChain
	Attempts      []Provenance
	Found         bool
	LegacyFound   bool
	AlreadyLoaded bool
	ForcedReload  bool
	Locale        string
}

// Files returns the paths that were merged, in merge order.
func (t LoadTrace) Files() []string {
	out := make([]string, 0, len(t.Attempts))
	for _, attempt := range t.Attempts {
		if attempt.Found {
			out = append(out, attempt.Path)
		}
	}
	return out
}

// LoadEvent is emitted after a Load call for hooks.
type LoadEvent struct {
	Name    string
	Variant string
	Found   bool
	Error   error
	Trace   LoadTrace
}

// LoadHook receives load events.
type LoadHook interface {
	OnLoad(ctx context.Context, event LoadEvent)
}

// LoadHookFunc wraps a function as a LoadHook.
type LoadHookFunc func(context.Context, LoadEvent)

// OnLoad implements LoadHook.
func (fn LoadHookFunc) OnLoad(ctx context.Context, event LoadEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}
