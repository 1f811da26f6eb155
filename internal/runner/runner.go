package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Session is the opaque remote-exec channel a Runner executes through. The
// SSH client satisfies it; tests substitute a fake.
type Session interface {
	// Run executes one command line, returning stdout, stderr and the remote
	// exit status. err is reserved for channel-level failures.
	Run(ctx context.Context, command string) (string, string, int, error)
	// ReadFile fetches a remote file (sysfs attributes).
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// Command describes one execution request. Either Argv or Shell is set;
// UseShell selects between them. Immutable once constructed.
type Command struct {
	Argv     []string
	Shell    string
	UseShell bool
	// Timeout overrides the runner default when positive.
	Timeout time.Duration
}

// Result carries captured output and the exit status. ExitCode -1 is reserved
// for failures of the execution path itself (timeout, channel error), distinct
// from a command's own non-zero exit.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Failed reports whether the command did not complete with exit 0.
func (r Result) Failed() bool { return r.ExitCode != 0 }

// Options configures a Runner. Threaded in explicitly, never ambient.
type Options struct {
	// Timeout bounds each command's execution, connect time excluded.
	Timeout time.Duration
	// Elevate prefixes every command with sudo.
	Elevate bool
}

// Runner executes commands through a Session with timeout enforcement and
// bounded diagnostic logging. Execute never returns an error: every failure
// mode is captured in the Result.
type Runner struct {
	sess Session
	opts Options
	log  zerolog.Logger
}

func New(sess Session, opts Options, log zerolog.Logger) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	return &Runner{sess: sess, opts: opts, log: log}
}

// Execute runs one command. The sudo/SSH wrapping is opaque to the caller:
// conceptually the command runs as root on the target host within the timeout.
func (r *Runner) Execute(ctx context.Context, cmd Command) Result {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = r.opts.Timeout
	}
	line := r.buildLine(cmd)
	r.log.Debug().Str("command", line).Msg("executing remote command")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout, stderr, exit, err := r.sess.Run(ctx, line)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			msg := fmt.Sprintf("Command timeout after %ds", int(timeout.Seconds()))
			r.log.Error().Str("command", line).Msg(msg)
			return Result{Stdout: "", Stderr: msg, ExitCode: -1}
		}
		msg := fmt.Sprintf("Command execution failed: %v", err)
		r.log.Error().Str("command", line).Msg(msg)
		return Result{Stdout: "", Stderr: msg, ExitCode: -1}
	}

	res := Result{
		Stdout:   strings.TrimSpace(stdout),
		Stderr:   strings.TrimSpace(stderr),
		ExitCode: exit,
	}
	r.logOutput(res)
	if exit == 0 {
		r.log.Debug().Str("command", line).Msg("command completed")
	} else {
		r.log.Warn().Str("command", line).Int("exit_code", exit).Msg("command completed with non-zero exit")
	}
	return res
}

// ReadFile fetches a remote file through the channel with the same timeout
// bound as command execution. Contents are trimmed like command output.
func (r *Runner) ReadFile(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	data, err := r.sess.ReadFile(ctx, path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Runner) buildLine(cmd Command) string {
	var line string
	if cmd.UseShell {
		line = "sh -c " + shellQuote(cmd.Shell)
	} else {
		quoted := make([]string, 0, len(cmd.Argv))
		for _, a := range cmd.Argv {
			quoted = append(quoted, shellQuote(a))
		}
		line = strings.Join(quoted, " ")
	}
	if r.opts.Elevate {
		line = "sudo " + line
	}
	return line
}

// shellQuote single-quotes a token when it contains anything the remote shell
// would interpret. Plain tokens pass through untouched.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n\"'`$&|;<>()*?[]#~!{}\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// logOutput emits a bounded view of the captured streams: everything when the
// line count is small, head and tail around an elision marker otherwise.
func (r *Runner) logOutput(res Result) {
	if res.Stdout != "" {
		lines := strings.Split(res.Stdout, "\n")
		if len(lines) <= 10 {
			r.log.Debug().Int("lines", len(lines)).Str("stdout", res.Stdout).Msg("command stdout")
		} else {
			head := strings.Join(lines[:5], "\n")
			tail := strings.Join(lines[len(lines)-5:], "\n")
			r.log.Debug().
				Int("lines", len(lines)).
				Str("stdout", head+"\n... (truncated "+fmt.Sprint(len(lines)-10)+" lines) ...\n"+tail).
				Msg("command stdout")
		}
	}
	if res.Stderr != "" {
		lines := strings.Split(res.Stderr, "\n")
		if len(lines) <= 5 {
			r.log.Warn().Int("lines", len(lines)).Str("stderr", res.Stderr).Msg("command stderr")
		} else {
			head := strings.Join(lines[:3], "\n")
			tail := strings.Join(lines[len(lines)-3:], "\n")
			r.log.Warn().
				Int("lines", len(lines)).
				Str("stderr", head+"\n... (truncated "+fmt.Sprint(len(lines)-6)+" lines) ...\n"+tail).
				Msg("command stderr")
		}
	}
}
