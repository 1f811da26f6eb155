// Package parse contains the per-tool output parsers. Every parser is a pure
// function from raw command text to structured values. Malformed lines are
// skipped, not fatal: a parser degrades per-field, and only the single-shot
// numeric parsers report a hard error.
package parse

import "strings"

// Interface is one ibdev2netdev enumeration entry: the RDMA device and the
// network interface it is bound to.
type Interface struct {
	Device string // e.g. mlx5_0
	Netdev string // e.g. ib9b-0
}

// Interfaces parses ibdev2netdev output. Lines have the shape
// "mlx5_0 port 1 ==> ib9b-0 (Up)"; anything not containing the literal
// " ==> " separator with tokens on both sides is silently skipped.
func Interfaces(text string) []Interface {
	var out []Interface
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ==> ", 2)
		if len(parts) != 2 {
			continue
		}
		left := strings.Fields(parts[0])
		right := strings.Fields(parts[1])
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		out = append(out, Interface{Device: left[0], Netdev: right[0]})
	}
	return out
}
