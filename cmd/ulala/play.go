package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/ulala/internal/asset"
	"github.com/jmylchreest/ulala/internal/config"
	"github.com/jmylchreest/ulala/internal/playback"
)

// assetLocator resolves the sound file path.
type assetLocator interface {
	Locate() (string, error)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := getConfig()
	chain, closeChain := buildChain(c, logger)
	defer closeChain()

	playAsset(ctx, cmd.OutOrStdout(), asset.NewLocator(c.Asset.Name), chain)
	return nil
}

// playAsset locates the asset and runs the chain, writing exactly one
// result line to out. It never fails: every outcome is a printed message.
func playAsset(ctx context.Context, out io.Writer, loc assetLocator, chain *playback.Chain) playback.Result {
	path, err := loc.Locate()
	if err != nil {
		var notFound *asset.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(out, "Error: %s not found\n", notFound.Path)
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return playback.Result{Err: err}
	}

	res := chain.Play(ctx, path)
	fmt.Fprintln(out, res.Message(path))
	return res
}

// buildChain creates the providers for the strategies cfg enables, in
// attempt order. The returned func releases resources held by the providers.
func buildChain(cfg *config.Config, logger *slog.Logger) (*playback.Chain, func()) {
	var providers []playback.Provider
	closeFn := func() {}

	for _, name := range cfg.Strategies() {
		switch name {
		case config.StrategyDevice:
			opener := playback.DefaultDeviceOpener(cfg.Device.Paths, cfg.Device.Pulse)
			providers = append(providers, playback.NewDeviceProvider(opener, logger))

		case config.StrategyCommand:
			providers = append(providers, playback.NewCommandProvider(playback.CommandOptions{
				Command:          cfg.Player.Command,
				Args:             cfg.Player.Args,
				StrictExitStatus: cfg.Player.StrictExitStatus,
			}, logger))

		case config.StrategyLibrary:
			lib := playback.NewLibraryProvider(cfg.Library.Buffer.Duration(), logger)
			providers = append(providers, lib)
			closeFn = lib.Close
		}
	}

	return playback.NewChain(logger, providers...), closeFn
}
