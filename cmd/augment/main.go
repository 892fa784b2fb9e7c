package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/checklist-wind-map/internal/adapter/herbie"
	"github.com/couchcryptid/checklist-wind-map/internal/adapter/mapbox"
	"github.com/couchcryptid/checklist-wind-map/internal/config"
	"github.com/couchcryptid/checklist-wind-map/internal/extract"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
	"github.com/couchcryptid/checklist-wind-map/internal/orchestrator"
	"github.com/couchcryptid/checklist-wind-map/internal/page"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
	"github.com/couchcryptid/checklist-wind-map/internal/relay"
)

var (
	pageURL    string
	outputFile string
	inline     bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "augment [page.html]",
		Short: "Add the weather options panel to a saved eBird checklist page",
		Long: `augment reads a checklist page (from a file or stdin), injects the
weather options panel, and writes the augmented page. With --inline it also
loads every pressure level from the wind-data server and embeds the inline map.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAugment,
	}

	rootCmd.PersistentFlags().StringVarP(&pageURL, "url", "u", "", "Address the page was loaded from (used for the checklist ID)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output HTML file path (default stdout)")
	rootCmd.Flags().BoolVar(&inline, "inline", false, "Embed the inline wind map")

	addExtractCmd(rootCmd)
	addLaunchCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAugment(cmd *cobra.Command, args []string) error {
	cfg, logger, metrics, err := setup()
	if err != nil {
		return err
	}
	doc, err := readPage(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	upstream := herbie.NewClient(cfg.RelayURL, herbie.Options{
		Timeout:         cfg.RelayTimeout,
		BreakerFailures: cfg.RelayBreakerFailures,
		BreakerTimeout:  cfg.RelayBreakerTimeout,
	}, logger)
	bridge := relay.NewBridge(upstream, cfg.RelayQueueSize, logger, metrics)
	bridgeCtx, stopBridge := context.WithCancel(ctx)
	defer stopBridge()
	go bridge.Serve(bridgeCtx) //nolint:errcheck // Serve only returns nil

	opts := orchestrator.Options{Libraries: cfg.MapLibraries}
	if cfg.MapboxEnabled {
		opts.Geocoder = mapbox.NewCachedGeocoder(mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger), cfg.MapboxCacheSize, metrics)
	}
	renderer := panel.NewRenderer(cfg.WeatherSiteURL, cfg.DisplayTimezone, cfg.DisplayDateLayout, cfg.DisplayTimeLayout)
	o := orchestrator.New(orchestrator.NewRegistry(), renderer, relay.NewRequester(bridge), opts, logger, metrics)

	s, err := o.Inject(ctx, doc)
	if err != nil {
		return fmt.Errorf("inject weather options: %w", err)
	}
	defer s.Close()

	if inline {
		select {
		case <-bridge.Started():
		case <-ctx.Done():
			return ctx.Err()
		}
		dataset, err := s.ShowInline(ctx)
		if err != nil {
			cmd.PrintErrln(fmt.Errorf("inline map unavailable: %w", err))
		} else if verbose {
			cmd.PrintErrln(fmt.Sprintf("Loaded %d of 6 pressure levels", len(dataset)))
		}
	}

	html, err := s.HTML()
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return writeOutput(cmd, html)
}

// addExtractCmd adds an 'extract' subcommand that prints the checklist record as JSON.
func addExtractCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "extract [page.html]",
		Short: "Print the checklist record extracted from a page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, _, err := setup()
			if err != nil {
				return err
			}
			doc, err := readPage(args)
			if err != nil {
				return err
			}
			rec, err := extract.Record(doc, logger)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"record":     rec,
				"launch_url": panel.LaunchURL(cfg.WeatherSiteURL, rec),
			})
		},
	})
}

// addLaunchCmd adds a 'launch' subcommand that prints only the external map link.
func addLaunchCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "launch [page.html]",
		Short: "Print the external weather map link for a page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, _, err := setup()
			if err != nil {
				return err
			}
			doc, err := readPage(args)
			if err != nil {
				return err
			}
			rec, err := extract.Record(doc, logger)
			if err != nil {
				return err
			}
			cmd.Println(panel.LaunchURL(cfg.WeatherSiteURL, rec))
			return nil
		},
	})
}

func setup() (*config.Config, *slog.Logger, *observability.Metrics, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.LogFormat = "text"
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, observability.NewLogger(cfg), observability.NewMetrics(), nil
}

func readPage(args []string) (*page.Document, error) {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return page.Parse(r, pageURL)
}

func writeOutput(cmd *cobra.Command, html string) error {
	if outputFile == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(html), 0o644); err != nil { //nolint:gosec // user-chosen output path
		return err
	}
	if verbose {
		cmd.PrintErrln(fmt.Sprintf("Augmented page saved to %s", outputFile))
	}
	return nil
}
