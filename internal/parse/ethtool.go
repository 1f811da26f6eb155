package parse

import "strings"

// BusInfo extracts the PCI BDF address from ethtool -i output
// ("bus-info: 0000:9b:00.0"). Returns "" when the line is absent.
func BusInfo(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "bus-info") {
			continue
		}
		if i := strings.IndexByte(line, ':'); i >= 0 {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return ""
}

// StatValue looks up one counter in ethtool -S output
// ("     tx_pause_ctrl_phy: 0"). The fallback is returned when absent.
func StatValue(text, stat, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, stat) {
			continue
		}
		if i := strings.LastIndexByte(line, ':'); i >= 0 {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return fallback
}
