package parse

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SmartHealth classifies smartctl -H output as PASSED or FAILED. Output
// matching neither verdict is a parse failure.
func SmartHealth(text string) (string, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "self-assessment test result: passed"):
		return "PASSED", nil
	case strings.Contains(lower, "self-assessment test result: failed"):
		return "FAILED", nil
	}
	return "", fmt.Errorf("no self-assessment verdict in smartctl output")
}

// BlockDevice is one row of the flattened lsblk tree.
type BlockDevice struct {
	Name       string
	Size       string
	Type       string
	Mountpoint string
}

type lsblkDevice struct {
	Name       string        `json:"name"`
	Size       string        `json:"size"`
	Type       string        `json:"type"`
	Mountpoint *string       `json:"mountpoint"`
	Children   []lsblkDevice `json:"children"`
}

type lsblkDoc struct {
	BlockDevices []lsblkDevice `json:"blockdevices"`
}

// BlockDevices parses lsblk -J output and flattens the device tree, children
// after their parent. A null mountpoint becomes the empty string.
func BlockDevices(text string) ([]BlockDevice, error) {
	var doc lsblkDoc
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parse lsblk json: %w", err)
	}
	var out []BlockDevice
	var walk func(devs []lsblkDevice)
	walk = func(devs []lsblkDevice) {
		for _, d := range devs {
			mp := ""
			if d.Mountpoint != nil {
				mp = *d.Mountpoint
			}
			out = append(out, BlockDevice{Name: d.Name, Size: d.Size, Type: d.Type, Mountpoint: mp})
			walk(d.Children)
		}
	}
	walk(doc.BlockDevices)
	return out, nil
}
