package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// DefaultPlayerCommand is the external player invoked when none is configured.
const DefaultPlayerCommand = "afplay"

// Runner runs an external command to completion.
type Runner func(ctx context.Context, name string, args ...string) error

// ExecRunner runs the command with os/exec. The player's stderr is passed
// through; stdout is discarded so it cannot interleave with our output.
func ExecRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// CommandOptions configures a CommandProvider.
type CommandOptions struct {
	// Command is the player executable. Defaults to DefaultPlayerCommand.
	Command string
	// Args are passed before the sound file path.
	Args []string
	// StrictExitStatus treats a non-zero exit status as a failure. When
	// false, any command that starts counts as played.
	StrictExitStatus bool

	Runner   Runner
	LookPath func(file string) (string, error)
}

// CommandProvider hands the file path to an external player. It does not
// check the platform first; a missing player shows up as a start failure.
type CommandProvider struct {
	logger *slog.Logger
	opts   CommandOptions
}

// NewCommandProvider creates an external player provider.
func NewCommandProvider(opts CommandOptions, logger *slog.Logger) *CommandProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Command == "" {
		opts.Command = DefaultPlayerCommand
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	return &CommandProvider{
		logger: logger,
		opts:   opts,
	}
}

// Name implements Provider.
func (p *CommandProvider) Name() string {
	return "command:" + p.opts.Command
}

// Play runs the player with the file path as its last argument.
func (p *CommandProvider) Play(ctx context.Context, path string) error {
	args := make([]string, 0, len(p.opts.Args)+1)
	args = append(args, p.opts.Args...)
	args = append(args, path)

	p.logger.Debug("running external player", "command", p.opts.Command, "args", args)

	err := p.opts.Runner(ctx, p.opts.Command, args...)
	if err == nil {
		return nil
	}

	// A player killed by cancellation also reports an exit status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", p.opts.Command, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if p.opts.StrictExitStatus {
			return fmt.Errorf("%s exited with status %d", p.opts.Command, exitErr.ExitCode())
		}
		// The player started, which is all the weak success signal asks for.
		p.logger.Warn("external player exited with non-zero status",
			"command", p.opts.Command,
			"status", exitErr.ExitCode())
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return unavailable("%s: %v", p.opts.Command, err)
	}
	return fmt.Errorf("failed to run %s: %w", p.opts.Command, err)
}

// Probe checks that the player can be found on PATH.
func (p *CommandProvider) Probe(_ context.Context) error {
	if _, err := p.opts.LookPath(p.opts.Command); err != nil {
		return unavailable("%s: %v", p.opts.Command, err)
	}
	return nil
}
