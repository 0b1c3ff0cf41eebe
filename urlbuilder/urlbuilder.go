// Package urlbuilder abstracts route resolution for links rendered next to
// localized strings, such as the credits link in the copyright line.
package urlbuilder

// Builder resolves a route group and route name into a URL.
type Builder interface {
	Resolve(groupPath, route string, params map[string]any, query map[string]string) (string, error)
}
