package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

// LocalSession runs commands on the probe host itself instead of over SSH.
// Useful when the probe is co-located with the hardware it inspects.
type LocalSession struct{}

func (LocalSession) Run(ctx context.Context, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return stdout.String(), stderr.String(), -1, ctx.Err()
	}
	if err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			return stdout.String(), stderr.String(), exit.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}

func (LocalSession) ReadFile(ctx context.Context, path string) ([]byte, error) {
	_ = ctx
	return os.ReadFile(path)
}
