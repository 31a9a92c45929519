package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sevaagent/seva/internal/command"
)

// DefaultExecTimeout is the hard ceiling the executor imposes on a single
// CLI invocation.
const DefaultExecTimeout = 30 * time.Second

// ErrExecTimeout marks a run that hit the execution ceiling. Callers report
// it as its own failure kind, not a generic error; a retry decision belongs
// to them.
var ErrExecTimeout = errors.New("command execution timed out")

// ExecOptions tune a single command run.
type ExecOptions struct {
	Profile string
	Timeout time.Duration
}

// RunCommand executes a validated CLI command and returns its stdout. The
// command is split into argv words (no shell involved) and killed when the
// timeout elapses. Callers must validate the command first; this function
// runs whatever it is given.
func RunCommand(ctx context.Context, cmdLine string, opts ExecOptions) (string, error) {
	words, err := command.SplitWords(cmdLine)
	if err != nil {
		return "", fmt.Errorf("cannot split command: %w", err)
	}
	if len(words) == 0 {
		return "", fmt.Errorf("empty command")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, words[0], words[1:]...)
	if opts.Profile != "" {
		cmd.Env = append(os.Environ(), fmt.Sprintf("AWS_PROFILE=%s", opts.Profile))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w after %s: %s", ErrExecTimeout, timeout, cmdLine)
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("AWS CLI error: %s", msg)
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		output = "Command executed successfully but returned no data."
	}
	return output, nil
}
