package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrUnavailable reports that a provider's capability is missing on this
// host. Providers wrap it so callers can tell "cannot try" from "tried and failed".
var ErrUnavailable = errors.New("capability unavailable")

// Provider is a single playback strategy.
type Provider interface {
	// Name identifies the provider in logs and diagnostics.
	Name() string
	// Play plays the file at path and blocks until the provider is done with it.
	Play(ctx context.Context, path string) error
}

// Prober is implemented by providers that can check their capability
// without playing anything.
type Prober interface {
	Probe(ctx context.Context) error
}

// unavailable wraps err so that it matches ErrUnavailable.
func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

// Attempt records the outcome of one provider.
type Attempt struct {
	Provider string
	Err      error
}

// Result is the outcome of a chain run.
type Result struct {
	// Provider is the name of the provider that played the file, or empty.
	Provider string
	Attempts []Attempt
	// Err is the error of the last attempted provider when nothing played.
	Err error
}

// Played reports whether any provider succeeded.
func (r Result) Played() bool {
	return r.Provider != ""
}

// Unavailable reports whether the chain failed because the last provider
// had no capability to play at all.
func (r Result) Unavailable() bool {
	return !r.Played() && errors.Is(r.Err, ErrUnavailable)
}

// Message renders the single line shown to the user for this result.
func (r Result) Message(path string) string {
	switch {
	case r.Played():
		return fmt.Sprintf("Playing %s", path)
	case r.Unavailable():
		return fmt.Sprintf("Error: no playback capability found (%v). %s", r.Err, installHint)
	default:
		return fmt.Sprintf("Error playing audio: %v", r.Err)
	}
}

// installHint tells the user what the playback library needs to find an output.
const installHint = "Install ALSA (libasound2) or PulseAudio so the beep speaker can open an audio device"

// Chain tries providers in order until one plays the file.
type Chain struct {
	logger    *slog.Logger
	providers []Provider
}

// NewChain creates a chain over the given providers.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		logger:    logger,
		providers: providers,
	}
}

// Providers returns the providers in attempt order.
func (c *Chain) Providers() []Provider {
	out := make([]Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

// Play attempts each provider once. Failures are logged and the next
// provider is tried; the chain never retries a provider.
func (c *Chain) Play(ctx context.Context, path string) Result {
	var res Result

	if len(c.providers) == 0 {
		res.Err = unavailable("no playback providers configured")
		return res
	}

	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		err := p.Play(ctx, path)
		res.Attempts = append(res.Attempts, Attempt{Provider: p.Name(), Err: err})

		if err == nil {
			c.logger.Debug("playback succeeded", "provider", p.Name(), "path", path)
			res.Provider = p.Name()
			res.Err = nil
			return res
		}

		if errors.Is(err, ErrUnavailable) {
			c.logger.Debug("playback provider unavailable", "provider", p.Name(), "error", err)
		} else {
			c.logger.Warn("playback provider failed", "provider", p.Name(), "error", err)
		}
		res.Err = err
	}

	return res
}
