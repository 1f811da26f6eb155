package collect

import (
	"context"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
)

const defaultSmartDevice = "/dev/sda"

func (s *Service) diskSmartHealth(ctx context.Context, device string) *envelope.Envelope {
	if device == "" {
		device = defaultSmartDevice
	}
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"smartctl", "-H", device}})
	if res.ExitCode == -1 {
		return envelope.Failure(failureCode(res), "smartctl failed: "+res.Stderr)
	}
	// smartctl exits non-zero for a failing disk while still printing the
	// verdict, so the output is parsed regardless of exit status.
	verdict, err := parse.SmartHealth(res.Stdout)
	if err != nil {
		if res.Failed() {
			return envelope.Failure(failureCode(res), "smartctl failed: "+res.Stderr)
		}
		return envelope.Failure(envelope.ParseFailed, "Parse smartctl output failed")
	}
	rec := envelope.NewRecord().
		Set("device", device).
		Set("smartHealth", verdict)
	return envelope.New(envelope.Success, []*envelope.Record{rec}, "")
}

func (s *Service) diskList(ctx context.Context, _ string) *envelope.Envelope {
	res := s.exec.Execute(ctx, runner.Command{Argv: []string{"lsblk", "-J", "-o", "NAME,SIZE,TYPE,MOUNTPOINT"}})
	if res.Failed() {
		return envelope.Failure(failureCode(res), "lsblk failed: "+res.Stderr)
	}
	devs, err := parse.BlockDevices(res.Stdout)
	if err != nil {
		return envelope.Failure(envelope.ParseFailed, "Parse lsblk output failed")
	}
	if len(devs) == 0 {
		return envelope.Failure(envelope.DeviceNotAvailable, "")
	}
	data := make([]*envelope.Record, 0, len(devs))
	for _, d := range devs {
		data = append(data, envelope.NewRecord().
			Set("name", d.Name).
			Set("size", d.Size).
			Set("type", d.Type).
			Set("mountpoint", d.Mountpoint))
	}
	return envelope.New(envelope.Success, data, "")
}
