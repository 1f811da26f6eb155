package collect

import (
	"context"
	"fmt"

	"github.com/hostprobe-dev/hostprobe/internal/envelope"
	"github.com/hostprobe-dev/hostprobe/internal/parse"
	"github.com/hostprobe-dev/hostprobe/internal/runner"
)

// arpSysctls maps record fields to the kernel parameter holding them. The
// %s slot is the interface name.
var arpSysctls = []struct {
	field string
	key   string
}{
	{"disableIpv6", "net.ipv6.conf.%s.disable_ipv6"},
	{"arpIgnore", "net.ipv4.conf.%s.arp_ignore"},
	{"arpAnnounce", "net.ipv4.conf.%s.arp_announce"},
	{"rpFilter", "net.ipv4.conf.%s.rp_filter"},
	{"arpFilter", "net.ipv4.conf.%s.arp_filter"},
	{"arpNotify", "net.ipv4.conf.%s.arp_notify"},
	{"arpAccept", "net.ipv4.conf.%s.arp_accept"},
}

func (s *Service) arpConfig(ctx context.Context, _ string) *envelope.Envelope {
	ifaces, fail := s.enumerateInterfaces(ctx)
	if fail != nil {
		return fail
	}
	data := make([]*envelope.Record, 0, len(ifaces))
	for _, iface := range ifaces {
		rec := envelope.NewRecord().Set("interface", iface.Netdev)
		res := s.exec.Execute(ctx, runner.Command{Argv: []string{"sysctl", "-a"}})
		for _, m := range arpSysctls {
			if res.Failed() {
				rec.Set(m.field, "")
				continue
			}
			rec.Set(m.field, parse.SysctlValue(res.Stdout, fmt.Sprintf(m.key, iface.Netdev)))
		}
		data = append(data, rec)
	}
	return envelope.New(envelope.Success, data, "")
}

func (s *Service) losslessNetworkConfig(ctx context.Context, _ string) *envelope.Envelope {
	ifaces, fail := s.enumerateInterfaces(ctx)
	if fail != nil {
		return fail
	}
	data := make([]*envelope.Record, 0, len(ifaces))
	for _, iface := range ifaces {
		rec := envelope.NewRecord().Set("interface", iface.Netdev)

		res := s.exec.Execute(ctx, runner.Command{Argv: []string{"mlnx_qos", "-i", iface.Netdev}})
		if res.Failed() {
			rec.Set("pfcPriority", "").Set("pfcTrust", "").Set("pfcTsa", "")
		} else {
			qos := parse.MlnxQoS(res.Stdout)
			rec.Set("pfcPriority", qos.FirstEnabledPriority()).
				Set("pfcTrust", qos.TrustState).
				Set("pfcTsa", qos.TSA)
		}

		// ECN enable bits live in sysfs on the RDMA device, not the netdev.
		tc, err := s.exec.ReadFile(ctx, fmt.Sprintf("/sys/class/infiniband/%s/tc/1/traffic_class", iface.Device))
		if err != nil {
			rec.Set("ecnEnable", "00")
		} else {
			rec.Set("ecnEnable", parse.ECNBits(tc))
		}
		data = append(data, rec)
	}
	return envelope.New(envelope.Success, data, "")
}
