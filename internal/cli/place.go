package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/myrho/hovercard/pkg/config"
	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/geom"
)

// placeInput is the boxes JSON format consumed by the place command.
type placeInput struct {
	Reference geom.Box   `json:"reference"`
	Viewport  geom.Box   `json:"viewport"`
	Panel     *geom.Size `json:"panel"`
}

// placeCommand creates the place command for computing placement from a file.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		configPath string
		variant    string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "place [boxes.json]",
		Short: "Compute hovercard placement from recorded geometry",
		Long: `Compute hovercard placement from recorded geometry.

The place command takes a boxes JSON file holding the reference element box,
the viewport box, and optionally the panel size, and prints the computed
placement as JSON. When the panel size is omitted the placement is computed
as hidden, the same way a live card behaves before its first measurement.

Placement options (variant, tick length, max box, viewport override) come
from a TOML config file; --variant overrides the configured variant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(args[0], configPath, variant, output)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file (default: built-in defaults)")
	cmd.Flags().StringVar(&variant, "variant", "", "placement variant: centered, maxbox (overrides config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

// runPlace loads the geometry and config, computes the placement, and writes it.
func (c *CLI) runPlace(input, configPath, variant, output string) error {
	in, err := readPlaceInput(input)
	if err != nil {
		return err
	}

	card := config.Default()
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

	var panel geom.Size
	measured := in.Panel != nil
	if measured {
		panel = *in.Panel
	}

	p := strategy.Place(in.Reference, in.Viewport, panel, measured, cfg)
	c.Logger.Debug("placement computed", "variant", strategy.Name(), "side", p.Side, "visible", p.Visible)

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode placement: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Placement written")
	printDetail("%s", output)
	return nil
}

// readPlaceInput loads and validates a boxes JSON file.
func readPlaceInput(path string) (placeInput, error) {
	var in placeInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, errors.Wrap(errors.ErrCodeInvalidInput, err, "read boxes %s", path)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse boxes %s", path)
	}
	if in.Viewport.Width <= 0 || in.Viewport.Height <= 0 {
		return in, errors.New(errors.ErrCodeInvalidInput, "viewport must have positive dimensions, got %vx%v", in.Viewport.Width, in.Viewport.Height)
	}
	return in, nil
}
