package loader

import "path/filepath"

// ModernPath is dir/variant/name+ext.
func ModernPath(dir, variant, name, ext string) string {
	return filepath.Join(dir, variant, name+ext)
}

// LegacyPath is dir/name.legacy+ext, with no variant subdirectory.
func LegacyPath(dir, name, legacy, ext string) string {
	return filepath.Join(dir, name+"."+legacy+ext)
}
