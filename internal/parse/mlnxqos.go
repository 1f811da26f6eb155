package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// QoSConfig is the PFC-relevant subset of mlnx_qos -i output.
type QoSConfig struct {
	TrustState        string
	TSA               string
	EnabledPriorities []int
}

// FirstEnabledPriority returns the lowest PFC-enabled priority as a string,
// or "-1" when PFC is disabled on all priorities.
func (q QoSConfig) FirstEnabledPriority() string {
	if len(q.EnabledPriorities) == 0 {
		return "-1"
	}
	return strconv.Itoa(q.EnabledPriorities[0])
}

// MlnxQoS parses mlnx_qos -i output. The tool prints a loose status table;
// matching is by known labels, and a missing label leaves its field empty.
func MlnxQoS(text string) QoSConfig {
	var cfg QoSConfig
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, "Priority trust state"):
			if i := strings.LastIndexByte(line, ':'); i >= 0 {
				cfg.TrustState = strings.TrimSpace(line[i+1:])
			}
		case strings.Contains(line, "enabled") && !strings.Contains(line, "priority"):
			fields := strings.Fields(line)
			if len(fields) > 1 {
				for i, v := range fields[1:] {
					if v == "1" {
						cfg.EnabledPriorities = append(cfg.EnabledPriorities, i)
					}
				}
			}
		case strings.Contains(line, "tsa:"):
			if i := strings.Index(line, "tsa:"); i >= 0 {
				cfg.TSA = strings.TrimSpace(line[i+len("tsa:"):])
			}
		}
	}
	return cfg
}

// ECNBits renders the low two bits of a traffic_class sysfs value as a
// two-character binary string. Unparsable input maps to "00".
func ECNBits(text string) string {
	val, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return "00"
	}
	return fmt.Sprintf("%02b", val&0b11)
}
