package parse

import "testing"

func TestSmartHealth(t *testing.T) {
	passed := `smartctl 7.2 2020-12-30 r5155 [x86_64-linux-5.15.0] (local build)
=== START OF READ SMART DATA SECTION ===
SMART overall-health self-assessment test result: PASSED`
	got, err := SmartHealth(passed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "PASSED" {
		t.Fatalf("got %q", got)
	}

	failed := "SMART overall-health self-assessment test result: FAILED!\nDrive failure expected in less than 24 hours."
	got, err = SmartHealth(failed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != "FAILED" {
		t.Fatalf("got %q", got)
	}

	if _, err := SmartHealth("smartctl: device open failed"); err == nil {
		t.Fatalf("expected error without verdict")
	}
}

func TestBlockDevices(t *testing.T) {
	out := `{
  "blockdevices": [
    {"name": "sda", "size": "447.1G", "type": "disk", "mountpoint": null,
     "children": [
       {"name": "sda1", "size": "1G", "type": "part", "mountpoint": "/boot"},
       {"name": "sda2", "size": "446.1G", "type": "part", "mountpoint": "/"}
     ]},
    {"name": "nvme0n1", "size": "3.5T", "type": "disk", "mountpoint": null}
  ]
}`
	devs, err := BlockDevices(out)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(devs) != 4 {
		t.Fatalf("got %d devices", len(devs))
	}
	if devs[0].Name != "sda" || devs[0].Mountpoint != "" {
		t.Fatalf("first device %+v", devs[0])
	}
	if devs[1].Name != "sda1" || devs[1].Mountpoint != "/boot" {
		t.Fatalf("child device %+v", devs[1])
	}
	if devs[3].Name != "nvme0n1" || devs[3].Size != "3.5T" {
		t.Fatalf("last device %+v", devs[3])
	}
}

func TestBlockDevicesBadJSON(t *testing.T) {
	if _, err := BlockDevices("lsblk: invalid option"); err == nil {
		t.Fatalf("expected error for non-JSON input")
	}
}
