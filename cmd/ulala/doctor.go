package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/ulala/internal/asset"
	"github.com/jmylchreest/ulala/internal/playback"
)

var doctorOpts struct {
	yaml bool
}

// doctorReport is the result of probing the asset and every strategy.
type doctorReport struct {
	Asset      assetReport      `yaml:"asset"`
	Strategies []strategyReport `yaml:"strategies"`
}

type assetReport struct {
	Path  string `yaml:"path"`
	Found bool   `yaml:"found"`
	Size  string `yaml:"size,omitempty"`
}

type strategyReport struct {
	Name      string `yaml:"name"`
	Available bool   `yaml:"available"`
	Detail    string `yaml:"detail,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which playback strategies work on this host",
	Long: `Check the bundled sound file and probe each playback strategy
without playing anything.

Strategies are listed in the order ulala tries them. A strategy that
reports "unavailable" is skipped at play time.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().BoolVar(&doctorOpts.yaml, "yaml", false,
		"Output the report as YAML")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	c := getConfig()
	chain, closeChain := buildChain(c, logger)
	defer closeChain()

	report := buildReport(ctx, asset.NewLocator(c.Asset.Name), chain)

	if doctorOpts.yaml {
		return writeReportYAML(cmd.OutOrStdout(), report)
	}
	writeReportText(cmd.OutOrStdout(), report)
	return nil
}

// buildReport probes the asset and each provider that supports probing.
func buildReport(ctx context.Context, loc *asset.Locator, chain *playback.Chain) doctorReport {
	var report doctorReport

	path, err := loc.Path()
	if err != nil {
		report.Asset.Path = err.Error()
	} else {
		report.Asset.Path = path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			report.Asset.Found = true
			report.Asset.Size = humanize.Bytes(uint64(info.Size()))
		}
	}

	for _, p := range chain.Providers() {
		sr := strategyReport{Name: p.Name(), Available: true}

		prober, ok := p.(playback.Prober)
		if !ok {
			sr.Detail = "not probed"
			report.Strategies = append(report.Strategies, sr)
			continue
		}

		if err := prober.Probe(ctx); err != nil {
			sr.Available = false
			sr.Detail = err.Error()
		}
		report.Strategies = append(report.Strategies, sr)
	}

	return report
}

func writeReportText(w io.Writer, report doctorReport) {
	fmt.Fprintln(w, "ulala doctor")
	fmt.Fprintln(w)

	if report.Asset.Found {
		fmt.Fprintf(w, "asset: %s (%s)\n", report.Asset.Path, report.Asset.Size)
	} else {
		fmt.Fprintf(w, "asset: %s (not found)\n", report.Asset.Path)
	}

	if len(report.Strategies) == 0 {
		fmt.Fprintln(w, "no strategies enabled")
		return
	}

	for i, s := range report.Strategies {
		status := "ok"
		if !s.Available {
			status = "unavailable"
		}
		line := fmt.Sprintf("[%d/%d] %-20s %s", i+1, len(report.Strategies), s.Name, status)
		if s.Detail != "" {
			line += ": " + s.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func writeReportYAML(w io.Writer, report doctorReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
