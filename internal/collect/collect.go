// Package collect holds the diagnostic collectors: one orchestration unit per
// capability, each combining runner invocations with the matching parsers and
// assembling the canonical envelope.
package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
	"github.com/hostprobe-dev/hostprobe/internal/telemetry"
	"github.com/hostprobe-dev/hostprobe/pkg/api"
)

// Exec is the slice of the runner the collectors depend on.
type Exec interface {
	Execute(ctx context.Context, cmd runner.Command) runner.Result
	ReadFile(ctx context.Context, path string) (string, error)
}

// Tool is one registered diagnostic capability.
type Tool struct {
	Name        string
	Description string
	TakesDevice bool
	run         func(ctx context.Context, device string) *envelope.Envelope
}

// Service owns the collector registry. Invocations are synchronous and share
// no mutable state; each call opens its own remote session(s).
type Service struct {
	exec    Exec
	metrics *telemetry.Collector
	log     zerolog.Logger
	tools   []Tool
	byName  map[string]*Tool
}

func NewService(exec Exec, metrics *telemetry.Collector, log zerolog.Logger) *Service {
	s := &Service{exec: exec, metrics: metrics, log: log, byName: map[string]*Tool{}}
	s.register(Tool{Name: "getArpConfig", Description: "ARP kernel parameters per InfiniBand interface", run: s.arpConfig})
	s.register(Tool{Name: "getLosslessNetworkConfig", Description: "PFC and ECN configuration per InfiniBand interface", run: s.losslessNetworkConfig})
	s.register(Tool{Name: "getPcieLinkSpeedForNic", Description: "negotiated PCIe link speed and width per NIC", run: s.nicPcieLinkSpeed})
	s.register(Tool{Name: "getNicCongestionStatsTx", Description: "transmitted pause frame counters per NIC", run: s.nicCongestionTx})
	s.register(Tool{Name: "getSwitchCongestionStatsRx", Description: "received pause frame counters per NIC", run: s.switchCongestionRx})
	s.register(Tool{Name: "getNvmePcieLinkSpeed", Description: "negotiated PCIe link speed and width per NVMe controller", run: s.nvmePcieLinkSpeed})
	s.register(Tool{Name: "getCpuUsage", Description: "current CPU usage percentage", run: s.cpuUsage})
	s.register(Tool{Name: "getMemoryUsage", Description: "current memory usage", run: s.memoryUsage})
	s.register(Tool{Name: "getDiskSmartHealth", Description: "SMART self-assessment verdict for one disk", TakesDevice: true, run: s.diskSmartHealth})
	s.register(Tool{Name: "getDiskList", Description: "block device inventory", run: s.diskList})
	return s
}

func (s *Service) register(t Tool) {
	s.tools = append(s.tools, t)
	s.byName[t.Name] = &s.tools[len(s.tools)-1]
}

// Tools lists the registered capabilities in registration order.
func (s *Service) Tools() []api.ToolInfo {
	out := make([]api.ToolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, api.ToolInfo{Name: t.Name, Description: t.Description, TakesDevice: t.TakesDevice})
	}
	return out
}

// Run executes one collector by name. Unknown names are the only error; every
// collector failure comes back as a well-formed envelope. Panics are caught at
// this boundary and mapped to the unexpected-exception code.
func (s *Service) Run(ctx context.Context, name, device string) (env *envelope.Envelope, err error) {
	tool, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("tool", name).Interface("panic", r).Msg("collector panicked")
			env = envelope.Failure(envelope.UnexpectedException, fmt.Sprintf("unexpected exception: %v", r))
			err = nil
		}
		s.metrics.Timer("hostprobe_collector_duration", time.Since(start), map[string]string{"tool": name})
		status := "error"
		if env != nil && env.Code == envelope.Success {
			status = "success"
		}
		s.metrics.Counter("hostprobe_collector_runs", 1, map[string]string{"tool": name, "status": status})
	}()
	env = tool.run(ctx, device)
	return env, nil
}

// failureCode maps a failed command result onto the taxonomy: a missing
// binary or denied permission is distinguishable only by its stderr.
func failureCode(res runner.Result) envelope.Code {
	s := strings.ToLower(res.Stderr)
	if strings.Contains(s, "command not found") || strings.Contains(s, "permission denied") {
		return envelope.CommandNotFound
	}
	return envelope.CommandExecutionFailed
}

// enumerateInterfaces runs the prerequisite ibdev2netdev step shared by the
// network collectors. The second return value, when non-nil, is the error
// envelope to hand straight back to the caller.
func (s *Service) enumerateInterfaces(ctx context.Context) ([]parse.Interface, *envelope.Envelope) {
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"ibdev2netdev"}})
	if res.Failed() {
		return nil, envelope.Failure(failureCode(res), "ibdev2netdev failed: "+res.Stderr)
	}
	ifaces := parse.Interfaces(res.Stdout)
	if len(ifaces) == 0 {
		return nil, envelope.Failure(envelope.DeviceNotAvailable, "")
	}
	return ifaces, nil
}
