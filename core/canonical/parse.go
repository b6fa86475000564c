package canonical

import "strings"

var bulletPrefixes = []string{"- ", "* ", "• "}

// ParseNames splits an oracle answer into distinct names, one per line.
// Blank lines, list bullets and an echoed output header are dropped.
func ParseNames(answer string) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, line := range strings.Split(answer, "\n") {
		name := strings.TrimSpace(line)
		for _, prefix := range bulletPrefixes {
			name = strings.TrimSpace(strings.TrimPrefix(name, prefix))
		}
		if name == "" || strings.HasPrefix(name, "###") || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
