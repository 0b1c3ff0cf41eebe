package optionsadapter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// rowDomain names the snapshot holding one theme/member pair, for example
// "theme_settings.3.-1".
func rowDomain(prefix string, themeID, memberID int) string {
	return strings.TrimSuffix(prefix, ".") + "." + itoa(themeID) + "." + itoa(memberID)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	return prefix
}

func stringValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		if typed {
			return "1"
		}
		return "0"
	case []byte:
		return string(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func sortedUnique(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
