package runner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeSession scripts the remote channel.
type fakeSession struct {
	lastCommand string
	stdout      string
	stderr      string
	exitCode    int
	err         error
	delay       time.Duration
	files       map[string]string
}

func (f *fakeSession) Run(ctx context.Context, command string) (string, string, int, error) {
	f.lastCommand = command
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", "", -1, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.stdout, f.stderr, f.exitCode, f.err
}

func (f *fakeSession) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if content, ok := f.files[path]; ok {
		return []byte(content), nil
	}
	return nil, errors.New("no such file")
}

func newTestRunner(sess Session, opts Options) *Runner {
	return New(sess, opts, zerolog.Nop())
}

func TestExecuteSuccess(t *testing.T) {
	sess := &fakeSession{stdout: "  hello\n", stderr: "\n", exitCode: 0}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	res := r.Execute(context.Background(), Command{Argv: []string{"echo", "hello"}})
	if res.ExitCode != 0 {
		t.Fatalf("exit %d", res.ExitCode)
	}
	if res.Stdout != "hello" {
		t.Fatalf("stdout not trimmed: %q", res.Stdout)
	}
	if res.Stderr != "" {
		t.Fatalf("stderr not trimmed: %q", res.Stderr)
	}
}

func TestExecuteNonZeroExitIsNotRunnerFailure(t *testing.T) {
	sess := &fakeSession{stderr: "No such device", exitCode: 1}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	res := r.Execute(context.Background(), Command{Argv: []string{"ethtool", "-S", "eth0"}})
	if res.ExitCode != 1 {
		t.Fatalf("exit %d, want the command's own code", res.ExitCode)
	}
	if res.Stderr != "No such device" {
		t.Fatalf("stderr %q", res.Stderr)
	}
}

func TestExecuteTimeout(t *testing.T) {
	sess := &fakeSession{delay: 5 * time.Second}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	start := time.Now()
	res := r.Execute(context.Background(), Command{Argv: []string{"sleep", "60"}, Timeout: 50 * time.Millisecond})
	if time.Since(start) > 2*time.Second {
		t.Fatalf("timeout not enforced")
	}
	if res.ExitCode != -1 {
		t.Fatalf("exit %d, want -1", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "timeout") && !strings.Contains(res.Stderr, "Timeout") {
		t.Fatalf("stderr lacks timeout marker: %q", res.Stderr)
	}
	if res.Stdout != "" {
		t.Fatalf("stdout must be empty on timeout")
	}
}

func TestExecuteChannelError(t *testing.T) {
	sess := &fakeSession{err: errors.New("ssh dial: connection refused")}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	res := r.Execute(context.Background(), Command{Argv: []string{"true"}})
	if res.ExitCode != -1 {
		t.Fatalf("exit %d, want -1", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "connection refused") {
		t.Fatalf("stderr %q", res.Stderr)
	}
}

func TestElevationAndQuoting(t *testing.T) {
	sess := &fakeSession{}
	r := newTestRunner(sess, Options{Timeout: time.Second, Elevate: true})
	r.Execute(context.Background(), Command{Argv: []string{"lspci", "-vvvs", "0000:9b:00.0"}})
	if sess.lastCommand != "sudo lspci -vvvs 0000:9b:00.0" {
		t.Fatalf("command %q", sess.lastCommand)
	}

	r.Execute(context.Background(), Command{Shell: "top -bn1 | grep 'Cpu(s)'", UseShell: true})
	if !strings.HasPrefix(sess.lastCommand, "sudo sh -c ") {
		t.Fatalf("shell wrapping missing: %q", sess.lastCommand)
	}
	if !strings.Contains(sess.lastCommand, `'\''Cpu(s)'\''`) {
		t.Fatalf("quote escaping wrong: %q", sess.lastCommand)
	}
}

func TestNoElevation(t *testing.T) {
	sess := &fakeSession{}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	r.Execute(context.Background(), Command{Argv: []string{"free", "-m"}})
	if sess.lastCommand != "free -m" {
		t.Fatalf("command %q", sess.lastCommand)
	}
}

func TestShellQuote(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", "''"},
		{"has space", "'has space'"},
		{"a'b", `'a'\''b'`},
		{"$(rm -rf /)", `'$(rm -rf /)'`},
	}
	for _, c := range cases {
		if got := shellQuote(c.in); got != c.want {
			t.Fatalf("shellQuote(%q): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestReadFile(t *testing.T) {
	sess := &fakeSession{files: map[string]string{"/sys/class/nvme/nvme0/address": "0000:17:00.0\n"}}
	r := newTestRunner(sess, Options{Timeout: time.Second})
	got, err := r.ReadFile(context.Background(), "/sys/class/nvme/nvme0/address")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "0000:17:00.0" {
		t.Fatalf("got %q", got)
	}
	if _, err := r.ReadFile(context.Background(), "/missing"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
