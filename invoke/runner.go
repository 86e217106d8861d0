package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// stderrTailLimit bounds how much process stderr is retained for error
// reporting.
const stderrTailLimit = 4 << 10 // 4 KB

// RunResult carries what the caller needs from a finished process.
type RunResult struct {
	// ExitCode is the process exit code; -1 if the process never ran
	// or was killed.
	ExitCode int

	// StderrTail holds the last captured bytes of stderr.
	StderrTail string
}

// Runner executes one external process invocation. Implementations must
// honor ctx cancellation by terminating the process.
type Runner interface {
	Run(ctx context.Context, bin string, args []string) (RunResult, error)
}

// ExecRunner runs the backend binary with os/exec.
type ExecRunner struct {
	// Dir is the working directory for spawned processes. Empty means
	// the calling process's working directory.
	Dir string
}

// Run executes bin with args, returning once the process exits. A
// non-zero exit returns the RunResult alongside a non-nil error.
func (r *ExecRunner) Run(ctx context.Context, bin string, args []string) (RunResult, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := RunResult{ExitCode: -1, StderrTail: tail(stderr.Bytes())}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, fmt.Errorf("run %s: %w", bin, err)
		}
		return res, fmt.Errorf("start %s: %w", bin, err)
	}
	return res, nil
}

func tail(b []byte) string {
	if len(b) > stderrTailLimit {
		b = b[len(b)-stderrTailLimit:]
	}
	return string(bytes.TrimSpace(b))
}
