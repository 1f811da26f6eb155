package collect

import (
	"context"
	"fmt"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
)

func (s *Service) nicPcieLinkSpeed(ctx context.Context, _ string) *envelope.Envelope {
	ifaces, fail := s.enumerateInterfaces(ctx)
	if fail != nil {
		return fail
	}
	data := make([]*envelope.Record, 0, len(ifaces))
	for _, iface := range ifaces {
		bdf := ""
		if res := s.exec.Execute(ctx, runner.Command{Argv: []string{"ethtool", "-i", iface.Netdev}}); !res.Failed() {
			bdf = parse.BusInfo(res.Stdout)
		}
		rec := envelope.NewRecord().
			Set("interface", iface.Netdev).
			Set("busInfo", bdf).
			Set("lnkSta", s.linkStatus(ctx, bdf))
		data = append(data, rec)
	}
	return envelope.New(envelope.Success, data, "")
}

func (s *Service) nvmePcieLinkSpeed(ctx context.Context, _ string) *envelope.Envelope {
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"nvme", "list"}})
	if res.Failed() {
		return envelope.Failure(failureCode(res), "nvme list failed: "+res.Stderr)
	}
	ctrls := parse.NvmeControllers(res.Stdout)
	if len(ctrls) == 0 {
		return envelope.Failure(envelope.DeviceNotAvailable, "")
	}
	data := make([]*envelope.Record, 0, len(ctrls))
	for _, ctrl := range ctrls {
		bdf, err := s.exec.ReadFile(ctx, fmt.Sprintf("/sys/class/nvme/%s/address", ctrl))
		if err != nil {
			bdf = ""
		}
		rec := envelope.NewRecord().
			Set("nvme", ctrl).
			Set("busInfo", bdf).
			Set("lnkSta", s.linkStatus(ctx, bdf))
		data = append(data, rec)
	}
	return envelope.New(envelope.Success, data, "")
}

// linkStatus resolves the PCIe link state for one BDF address. An empty BDF
// or a failed lspci yields an empty field; a successful lspci without a link
// line yields the parser's N/A.
func (s *Service) linkStatus(ctx context.Context, bdf string) string {
	if bdf == "" {
		return ""
	}
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"lspci", "-vvvs", bdf}})
	if res.Failed() {
		return ""
	}
	return parse.LinkStatus(res.Stdout)
}
