package parse

import "testing"

func TestInterfaces(t *testing.T) {
	out := `mlx5_0 port 1 ==> ib9b-0 (Up)
mlx5_1 port 1 ==> ib9b-1 (Down)
some noise line
==> orphan
mlx5_2 port 1 ==>` + "\n"
	ifaces := Interfaces(out)
	if len(ifaces) != 2 {
		t.Fatalf("got %d interfaces: %v", len(ifaces), ifaces)
	}
	if ifaces[0].Device != "mlx5_0" || ifaces[0].Netdev != "ib9b-0" {
		t.Fatalf("first entry %+v", ifaces[0])
	}
	if ifaces[1].Device != "mlx5_1" || ifaces[1].Netdev != "ib9b-1" {
		t.Fatalf("second entry %+v", ifaces[1])
	}
}

func TestInterfacesEmpty(t *testing.T) {
	if got := Interfaces("no devices here\n"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSysctlValue(t *testing.T) {
	out := `net.ipv4.conf.ib9b-0.arp_ignore = 2
net.ipv4.conf.ib9b-0.arp_ignore_extra = 7
net.ipv6.conf.ib9b-0.disable_ipv6 = 0
net.ipv4.conf.all.rp_filter=1`

	cases := []struct {
		key  string
		want string
	}{
		{"net.ipv4.conf.ib9b-0.arp_ignore", "2"},
		{"net.ipv6.conf.ib9b-0.disable_ipv6", "0"},
		{"net.ipv4.conf.all.rp_filter", "1"},
		{"net.ipv4.conf.ib9b-0.arp_announce", ""},
	}
	for _, c := range cases {
		if got := SysctlValue(out, c.key); got != c.want {
			t.Fatalf("key %s: got %q want %q", c.key, got, c.want)
		}
	}
}
