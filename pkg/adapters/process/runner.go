package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sort"
	"time"

	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
)

// stderrTail bounds how much of the tool's stderr is kept for diagnostics.
const stderrTail = 4096

// Runner implements ports.ToolRunner by executing the annotation tool as a local process.
type Runner struct {
	config  ToolConfig
	baseDir string
	output  io.Writer
	logger  *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithOutput forwards the tool's stdout and stderr to w.
func WithOutput(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.output = w
	}
}

// WithLogger configures a logger for the runner.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(config ToolConfig, opts ...RunnerOption) *Runner {
	r := &Runner{
		config: config,
		output: io.Discard,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Annotate runs the tool and waits for it to exit.
// There is no timeout; only cancellation of ctx stops a hung tool.
func (r *Runner) Annotate(ctx context.Context, input, output string) (domain.ToolOutcome, error) {
	argv := r.config.Argv(input, output)
	outcome := domain.ToolOutcome{Command: argv}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.baseDir
	cmd.Env = append(cmd.Environ(), r.environ()...)

	tail := &tailBuffer{limit: stderrTail}
	cmd.Stdout = r.output
	cmd.Stderr = io.MultiWriter(r.output, tail)

	r.logger.Info("Running annotation tool", "cmd", argv, "dir", r.baseDir)

	start := time.Now()
	err := cmd.Run()
	outcome.Duration = time.Since(start)
	outcome.Stderr = tail.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			outcome.ExitCode = exitErr.ExitCode()
			r.logger.Info("Annotation tool finished", "exit_code", outcome.ExitCode, "duration", outcome.Duration)
			return outcome, nil
		}
		outcome.ExitCode = -1
		return outcome, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	r.logger.Info("Annotation tool finished", "exit_code", 0, "duration", outcome.Duration)
	return outcome, nil
}

func (r *Runner) environ() []string {
	keys := make([]string, 0, len(r.config.Env))
	for k := range r.config.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+r.config.Env[k])
	}
	return env
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
