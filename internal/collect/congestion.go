package collect

import (
	"context"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
)

func (s *Service) nicCongestionTx(ctx context.Context, _ string) *envelope.Envelope {
	return s.pauseFrameStats(ctx, "tx_pause_ctrl_phy", "txPauseCtrlPhy")
}

func (s *Service) switchCongestionRx(ctx context.Context, _ string) *envelope.Envelope {
	return s.pauseFrameStats(ctx, "rx_pause_ctrl_phy", "rxPauseCtrlPhy")
}

// pauseFrameStats reads one pause-frame counter from ethtool -S for every
// interface. A present interface without the counter reports the counter's
// zero value; a failed ethtool leaves the field empty.
func (s *Service) pauseFrameStats(ctx context.Context, stat, field string) *envelope.Envelope {
	ifaces, fail := s.enumerateInterfaces(ctx)
	if fail != nil {
		return fail
	}
	data := make([]*envelope.Record, 0, len(ifaces))
	for _, iface := range ifaces {
		value := ""
		if res := s.exec.Execute(ctx, runner.Command{Argv: []string{"ethtool", "-S", iface.Netdev}}); !res.Failed() {
			value = parse.StatValue(res.Stdout, stat, "0")
		}
		data = append(data, envelope.NewRecord().
			Set("interface", iface.Netdev).
			Set(field, value))
	}
	return envelope.New(envelope.Success, data, "")
}
