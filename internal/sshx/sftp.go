package sshx

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/sftp"
)

// ReadFile fetches the contents of a remote file via SFTP. Used for sysfs
// attributes that are files rather than command output.
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	cli, err := c.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("ssh dial: %w", err)
	}
	defer cli.Close()

	sf, err := sftp.NewClient(cli)
	if err != nil {
		return nil, fmt.Errorf("sftp client: %w", err)
	}
	defer sf.Close()

	f, err := sf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open remote: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read remote: %w", err)
	}
	return data, nil
}
