// Package planner expands a directory chain and resolution context into an
// ordered list of attempts. It performs no I/O.
package planner

import (
	"github.com/goliatone/go-langtheme/resource"
)

// Plan is the attempt list for a single logical name.
type Plan struct {
	Name     string
	Attempts []resource.Attempt
}

// PlanAll splits composite into logical names and plans each one.
func PlanAll(chain resource.DirectoryChain, composite string, rc resource.Context) []Plan {
	names := resource.SplitNames(composite)
	plans := make([]Plan, 0, len(names))
	for _, name := range names {
		plans = append(plans, Plan{Name: name, Attempts: Attempts(chain, name, rc)})
	}
	return plans
}

// Attempts returns the attempts for name ordered least specific first, so
// that merging them in order lets the most specific source win.
func Attempts(chain resource.DirectoryChain, name string, rc resource.Context) []resource.Attempt {
	name = resource.NormalizeName(name)
	if name == "" || len(chain) == 0 {
		return nil
	}
	requested := rc.Requested
	if requested == "" {
		requested = rc.Default
	}
	rc.Requested = requested
	attempts := make([]resource.Attempt, 0, len(chain)*3)
	for _, dir := range chain {
		attempts = append(attempts, resource.Attempt{Dir: dir, Name: name, Variant: requested})
		if rc.Default != "" && rc.Default != requested {
			attempts = append(attempts, resource.Attempt{Dir: dir, Name: name, Variant: rc.Default})
		}
	}
	if rc.AllowsBaseline() {
		baseline := rc.BaselineOrDefault()
		for _, dir := range chain {
			attempts = append(attempts, resource.Attempt{Dir: dir, Name: name, Variant: baseline})
		}
	}
	reverse(attempts)
	return attempts
}

func reverse(attempts []resource.Attempt) {
	for i, j := 0, len(attempts)-1; i < j; i, j = i+1, j-1 {
		attempts[i], attempts[j] = attempts[j], attempts[i]
	}
}
