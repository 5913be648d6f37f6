package keys

import (
	"sort"
	"strings"
)

// NarrationKey produces a canonical cache key for a set of narration
// inputs. Behavior: trims parts, lower-cases, replaces spaces with
// underscores, sorts the parts and joins with underscore. Suitable for
// stable cache and dedupe keys.
func NarrationKey(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		s = strings.ToLower(strings.ReplaceAll(s, " ", "_"))
		out = append(out, s)
	}
	sort.Strings(out)
	return strings.Join(out, "_")
}
