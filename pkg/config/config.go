// Package config loads hovercard configuration files.
//
// Configuration is TOML, covering the recognized card options: variant,
// tick length, border/background styling, max-box caps, stacking order, and
// an optional viewport override. The CLI, TUI, and demo server all consume
// the same format.
//
// Example:
//
//	variant = "maxbox"
//	tick_length = 16
//	border_width = 1
//	border_color = "#333"
//	background_color = "white"
//	max_width = 320
//	max_height = 240
//	z_index = 100
//
//	[viewport]
//	x = 0
//	y = 0
//	width = 800
//	height = 600
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/myrho/hovercard/pkg/errors"
	"github.com/myrho/hovercard/pkg/geom"
	"github.com/myrho/hovercard/pkg/place"
	"github.com/myrho/hovercard/pkg/render"
)

// Viewport is an optional clipping region replacing the ambient viewport.
type Viewport struct {
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Card is the full configuration surface of a hovercard.
type Card struct {
	Variant         string    `toml:"variant"`
	TickLength      float64   `toml:"tick_length"`
	BorderWidth     float64   `toml:"border_width"`
	BorderColor     string    `toml:"border_color"`
	BackgroundColor string    `toml:"background_color"`
	MaxWidth        float64   `toml:"max_width"`
	MaxHeight       float64   `toml:"max_height"`
	ZIndex          int       `toml:"z_index"`
	Viewport        *Viewport `toml:"viewport"`
}

// Default returns the configuration used when no file is given.
func Default() Card {
	return Card{
		Variant:         place.VariantCentered,
		TickLength:      place.DefaultTickLength,
		BorderWidth:     1,
		BorderColor:     "black",
		BackgroundColor: "white",
	}
}

// Load reads a TOML configuration file and applies defaults to unset fields.
func Load(path string) (Card, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if c.Variant == "" {
		c.Variant = place.VariantCentered
	}
	if c.TickLength == 0 {
		c.TickLength = place.DefaultTickLength
	}
	return c, c.Validate()
}

// Validate checks the configuration against its variant's rules.
func (c Card) Validate() error {
	if _, err := place.ForVariant(c.Variant); err != nil {
		return err
	}
	return c.PlaceConfig().Validate(c.Variant)
}

// Strategy returns the configured placement strategy.
func (c Card) Strategy() (place.Strategy, error) {
	return place.ForVariant(c.Variant)
}

// PlaceConfig converts the card configuration into engine options.
func (c Card) PlaceConfig() place.Config {
	cfg := place.Config{
		TickLength:  c.TickLength,
		BorderWidth: c.BorderWidth,
		MaxWidth:    c.MaxWidth,
		MaxHeight:   c.MaxHeight,
	}
	if c.Viewport != nil {
		cfg.Viewport = &geom.Box{
			X:      c.Viewport.X,
			Y:      c.Viewport.Y,
			Width:  c.Viewport.Width,
			Height: c.Viewport.Height,
		}
	}
	return cfg
}

// RenderStyle converts the card configuration into renderer styling.
func (c Card) RenderStyle() render.Style {
	return render.Style{
		BorderWidth:     c.BorderWidth,
		BorderColor:     c.BorderColor,
		BackgroundColor: c.BackgroundColor,
		ZIndex:          c.ZIndex,
	}
}
