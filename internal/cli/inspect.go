package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/myrho/hovercard/pkg/config"
	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/place"
	"github.com/myrho/hovercard/pkg/probe"
)

// inspectResult is the JSON document printed by the inspect command.
type inspectResult struct {
	Snapshot  measure.Snapshot `json:"snapshot"`
	Placement place.Placement  `json:"placement"`
}

// inspectCommand creates the inspect command for probing a live page.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		configPath string
		variant    string
		noCache    bool
		timeout    int
	)

	cmd := &cobra.Command{
		Use:   "inspect [url] [element-id]",
		Short: "Probe a live page element and compute its placement",
		Long: `Probe a live page element and compute its placement.

The inspect command opens the page in headless Chrome, measures the element
with the given id and, when present, the panel element mounted under
"<element-id>-hovercard", then computes and prints the placement the engine
would use. Pages without a mounted panel yield a hidden placement, the same
intermediate state a live card passes through before its first measurement.

Probe results are cached locally for a short time to keep repeated
inspections of one page cheap.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], args[1], configPath, variant, noCache, timeout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file (default: built-in defaults)")
	cmd.Flags().StringVar(&variant, "variant", "", "placement variant: centered, maxbox (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the probe cache")
	cmd.Flags().IntVar(&timeout, "timeout", 30, "probe timeout in seconds")

	return cmd
}

// runInspect probes the page and prints snapshot and placement.
func (c *CLI) runInspect(ctx context.Context, url, id, configPath, variant string, noCache bool, timeout int) error {
	card := config.Default()
	var err error
	if configPath != "" {
		card, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if variant != "" {
		card.Variant = variant
		if err := card.Validate(); err != nil {
			return err
		}
	}
	strategy, err := card.Strategy()
	if err != nil {
		return err
	}
	cfg := card.PlaceConfig()
	cfg.SetDefaults()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	browser, err := probe.NewBrowser(ctx, url)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer browser.Close()

	store := newCache(noCache)
	defer store.Close()
	prober := probe.NewCached(browser, store, url, 0)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Probing %s...", id))
	spinner.Start()

	tracker := newProgress(loggerFromContext(ctx))
	snap, err := measure.Acquire(ctx, prober, id)
	if err != nil {
		if errors.Is(err, errors.ErrCodeElementNotFound) {
			spinner.StopWithError(fmt.Sprintf("No element with id %q", id))
			return err
		}
		spinner.StopWithError("Probe failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	tracker.done(fmt.Sprintf("Measured %s", snap.Phase))

	placement := strategy.Place(snap.Reference, snap.Viewport, snap.Panel, snap.Measured(), cfg)

	out := inspectResult{Snapshot: snap, Placement: placement}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}
