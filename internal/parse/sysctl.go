package parse

import "strings"

// SysctlValue scans sysctl -a style output for an exact key and returns the
// value after the first " = " separator. Absence yields the empty string,
// never an error.
func SysctlValue(text, key string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, key) {
			continue
		}
		rest := line[len(key):]
		// Skip prefix collisions such as arp_filter vs arp_filter_all.
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '=' {
			continue
		}
		if i := strings.Index(line, " = "); i >= 0 {
			return strings.TrimSpace(line[i+3:])
		}
		if i := strings.IndexByte(rest, '='); i >= 0 {
			return strings.TrimSpace(rest[i+1:])
		}
	}
	return ""
}
