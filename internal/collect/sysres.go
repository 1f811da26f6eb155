package collect

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
)

// Alert thresholds reported alongside the measurements. Interpretation is the
// caller's concern; the probe only reports them.
const (
	cpuThreshold = "80"
	memThreshold = "80"
)

const cpuUsagePipeline = `top -bn1 | grep 'Cpu(s)' | awk '{print $2}'`

func (s *Service) cpuUsage(ctx context.Context, _ string) *envelope.Envelope {
	res := s.exec.Execute(ctx, runner.Command{Shell: cpuUsagePipeline, UseShell: true})
	if res.Failed() {
		return envelope.Failure(failureCode(res), "top failed: "+res.Stderr)
	}
	usage, err := parse.CPUUsage(res.Stdout)
	if err != nil {
		return envelope.Failure(envelope.ParseFailed, "Parse CPU usage failed")
	}
	rec := envelope.NewRecord().
		Set("cpuUsage", usage).
		Set("cpuThreshold", cpuThreshold)
	return envelope.New(envelope.Success, []*envelope.Record{rec}, "")
}

func (s *Service) memoryUsage(ctx context.Context, _ string) *envelope.Envelope {
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"free", "-m"}})
	if res.Failed() {
		return envelope.Failure(failureCode(res), "free failed: "+res.Stderr)
	}
	mem, err := parse.MemoryStats(res.Stdout)
	if err != nil {
		return envelope.Failure(envelope.ParseFailed, fmt.Sprintf("Parse memory usage failed: %v", err))
	}
	rec := envelope.NewRecord().
		Set("memUsage", strconv.FormatFloat(mem.Usage, 'f', 1, 64)).
		Set("memTotal", strconv.Itoa(mem.Total)).
		Set("memUsed", strconv.Itoa(mem.Used)).
		Set("memAvailable", strconv.Itoa(mem.Available)).
		Set("memThreshold", memThreshold)
	return envelope.New(envelope.Success, []*envelope.Record{rec}, "")
}
