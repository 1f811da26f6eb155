package parse

import "strings"

// LinkStatus extracts the negotiated PCIe link state from lspci -vvvs output.
// A "LnkSta:" line carrying a Speed wins; an explicit downgrade marker is
// reported as such; with neither present the status is "N/A".
func LinkStatus(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "LnkSta:") && strings.Contains(line, "Speed") {
			if i := strings.IndexByte(line, ':'); i >= 0 {
				return strings.TrimSpace(line[i+1:])
			}
		}
		if strings.Contains(line, "Speed Downgraded") {
			return "Speed Downgraded"
		}
	}
	return "N/A"
}
