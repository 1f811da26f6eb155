package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CPUUsage normalizes the user-CPU percentage extracted by the top pipeline.
// Numeric parse failures are hard errors: there is no per-entity fallback for
// the single-shot system collectors.
func CPUUsage(text string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return "", fmt.Errorf("parse cpu usage %q: %w", strings.TrimSpace(text), err)
	}
	return fmt.Sprintf("%.1f", v), nil
}

// MemStats is the Mem: row of free -m, megabytes.
type MemStats struct {
	Total     int
	Used      int
	Available int
	Usage     float64 // percent, one decimal
}

// MemoryStats parses free -m output. A missing Mem: line or a non-numeric
// column is a hard parse failure.
func MemoryStats(text string) (MemStats, error) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.HasPrefix(line, "Mem:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return MemStats{}, fmt.Errorf("short Mem line: %q", line)
		}
		total, err := strconv.Atoi(fields[1])
		if err != nil {
			return MemStats{}, fmt.Errorf("parse mem total: %w", err)
		}
		used, err := strconv.Atoi(fields[2])
		if err != nil {
			return MemStats{}, fmt.Errorf("parse mem used: %w", err)
		}
		available := 0
		if len(fields) > 6 {
			if available, err = strconv.Atoi(fields[6]); err != nil {
				return MemStats{}, fmt.Errorf("parse mem available: %w", err)
			}
		}
		if total == 0 {
			return MemStats{}, fmt.Errorf("zero total memory in %q", line)
		}
		usage := math.Round(float64(used)/float64(total)*1000) / 10
		return MemStats{Total: total, Used: used, Available: available, Usage: usage}, nil
	}
	return MemStats{}, fmt.Errorf("no Mem line in free output")
}
