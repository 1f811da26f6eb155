package sshx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	xssh "golang.org/x/crypto/ssh"
)

// Dialer abstracts the TCP dial so tests can substitute a fake transport.
type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
}

type NetDialer struct{ Timeout time.Duration }

func (d NetDialer) Dial(network, addr string) (net.Conn, error) {
	nd := &net.Dialer{Timeout: d.Timeout}
	return nd.Dial(network, addr)
}

// Client opens one SSH session per call against a fixed target host. There is
// no connection reuse: every diagnostic invocation owns its session.
type Client struct {
	Addr           string
	User           string
	Signer         xssh.Signer
	HostKey        xssh.HostKeyCallback
	ConnectTimeout time.Duration
	Dialer         Dialer
}

func (c *Client) makeConfig() (*xssh.ClientConfig, error) {
	if c.Signer == nil {
		return nil, errors.New("sshx: signer required")
	}
	hostKey := c.HostKey
	if hostKey == nil {
		// Host-key checking is disabled by default; the strict known_hosts
		// callback is opted into through configuration.
		hostKey = xssh.InsecureIgnoreHostKey()
	}
	return &xssh.ClientConfig{
		User:            c.User,
		Auth:            []xssh.AuthMethod{xssh.PublicKeys(c.Signer)},
		HostKeyCallback: hostKey,
		Timeout:         c.ConnectTimeout,
	}, nil
}

func (c *Client) dial(ctx context.Context) (*xssh.Client, error) {
	cfg, err := c.makeConfig()
	if err != nil {
		return nil, err
	}
	type res struct {
		cli *xssh.Client
		err error
	}
	ch := make(chan res, 1)
	go func() {
		if c.Dialer != nil {
			conn, err := c.Dialer.Dial("tcp", c.Addr)
			if err != nil {
				ch <- res{err: err}
				return
			}
			sc, chans, reqs, err := xssh.NewClientConn(conn, c.Addr, cfg)
			if err != nil {
				ch <- res{err: err}
				return
			}
			ch <- res{cli: xssh.NewClient(sc, chans, reqs)}
			return
		}
		cli, err := xssh.Dial("tcp", c.Addr, cfg)
		ch <- res{cli: cli, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.cli, r.err
	}
}

// Run executes one command on the target host and returns captured stdout,
// stderr and the remote exit status. A non-zero exit from the command itself
// is not an error; err is reserved for channel-level failures.
func (c *Client) Run(ctx context.Context, command string) (string, string, int, error) {
	cli, err := c.dial(ctx)
	if err != nil {
		return "", "", -1, fmt.Errorf("ssh dial: %w", err)
	}
	defer cli.Close()

	session, err := cli.NewSession()
	if err != nil {
		return "", "", -1, fmt.Errorf("ssh session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(xssh.SIGKILL)
		return stdout.String(), stderr.String(), -1, ctx.Err()
	case err = <-done:
	}

	exit := 0
	if err != nil {
		var exitErr *xssh.ExitError
		if errors.As(err, &exitErr) {
			exit = exitErr.ExitStatus()
		} else {
			return stdout.String(), stderr.String(), -1, fmt.Errorf("run command: %w", err)
		}
	}
	return stdout.String(), stderr.String(), exit, nil
}
