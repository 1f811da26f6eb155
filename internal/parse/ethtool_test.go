package parse

import "testing"

func TestBusInfo(t *testing.T) {
	out := `driver: mlx5_core
version: 5.7-1.0.2
firmware-version: 20.31.1014
bus-info: 0000:9b:00.0
supports-statistics: yes`
	if got := BusInfo(out); got != "0000:9b:00.0" {
		t.Fatalf("got %q", got)
	}
	if got := BusInfo("driver: mlx5_core\n"); got != "" {
		t.Fatalf("missing line must yield empty, got %q", got)
	}
}

func TestStatValue(t *testing.T) {
	out := `NIC statistics:
     rx_packets: 12345
     tx_pause_ctrl_phy: 17
     rx_pause_ctrl_phy: 0`
	if got := StatValue(out, "tx_pause_ctrl_phy", "0"); got != "17" {
		t.Fatalf("got %q", got)
	}
	if got := StatValue(out, "nonexistent_stat", "0"); got != "0" {
		t.Fatalf("fallback not applied: %q", got)
	}
}

func TestLinkStatus(t *testing.T) {
	out := `	LnkCap:	Port #0, Speed 16GT/s, Width x16, ASPM not supported
	LnkCtl:	ASPM Disabled; RCB 64 bytes
	LnkSta:	Speed 16GT/s, Width x16 (ok)`
	if got := LinkStatus(out); got != "Speed 16GT/s, Width x16 (ok)" {
		t.Fatalf("got %q", got)
	}
}

func TestLinkStatusDowngraded(t *testing.T) {
	out := "\tLnkSta2: Speed Downgraded, something\n"
	if got := LinkStatus(out); got != "Speed Downgraded" {
		t.Fatalf("got %q", got)
	}
}

func TestLinkStatusAbsent(t *testing.T) {
	if got := LinkStatus("no link info here\n"); got != "N/A" {
		t.Fatalf("got %q", got)
	}
}
