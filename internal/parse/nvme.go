package parse

import (
	"regexp"
	"strings"
)

var nvmeCtrlRe = regexp.MustCompile(`/dev/(nvme\d+)`)

// NvmeControllers lists the distinct NVMe controllers mentioned in nvme list
// output, in order of first appearance. Namespaces collapse onto their
// controller (nvme0n1 -> nvme0).
func NvmeControllers(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		m := nvmeCtrlRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
