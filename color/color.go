/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Package color supports declaring color spaces and coloring renderable
// items.
//
// A single scene Datum may be annotated with colors for up to three different
// types: a primary, secondary, and stroke color.  These correspond to Material
// Design's primary, secondary, and text/iconography/stroke colors, as
// described in https://material.io/design/color/the-color-system.html.
//
// Within a chart, these different color types have specific meanings:
//
//   - The primary color is the fill of a mark.  If the mark's color conveys
//     information about it, such as a bucketed temperature or the platform a
//     game was released on, that semantic color should be the primary.
//   - The secondary color is used for accents, such as the tooltip
//     background.
//   - The stroke color is used for text, outlines and strokes, including the
//     categorical outline of a scatter plot point.
//
// Coloring may be specified in multiple ways:
//
//   - A specific, fixed color may be applied with Primary(), Secondary(), or
//     Stroke(), which all expect a string value containing an SVG color: a
//     color name or a RGB, RGBA, HSL, HSLA, or hex color specifier.
//   - Alternatively, a color space comprising a sequence of hex colors may be
//     defined; then individual Datums may be annotated with their position
//     along that sequence ranging from 0.0 ('the leftmost color') to 1.0
//     ('the rightmost color').  The annotated color is that position in the
//     interpolation of the sequence, resolved when the property is applied.
//
// So, a single datum may be given the blue, purple, and white as primary,
// secondary, and stroke colors respectively via:
//
//	myDatum.With(
//	  color.Primary("blue"),
//	  color.Secondary("purple"),
//	  color.Stroke("white"),
//	)
//
// Or, a heatmap in which cells are colored on the turbo continuum depending on
// their bucketed temperature might define that continuum once, then color
// each cell according to its bucket:
//
//	turbo, _ := color.NewScheme("turbo")
//	swatches := turbo.Swatches(buckets)
//	for _, cell := range cells {
//	  layer.Child().With(color.Primary(swatches[cell.bucket]))
//	}
package color

import (
	"fmt"
	imagecolor "image/color"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/ilhamster/chartkit/util"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// colorSpaceNamePrefix defines a color space.
	colorSpaceNamePrefix = "color_space_"
	// The primary color space and value, or raw color.
	primaryColorSpaceKey      = "primary_color_space"
	primaryColorSpaceValueKey = "primary_color_space_value"
	primaryColorKey           = "primary_color"
	// The secondary color space and value, or raw color.
	secondaryColorSpaceKey      = "secondary_color_space"
	secondaryColorSpaceValueKey = "secondary_color_space_value"
	secondaryColorKey           = "secondary_color"
	// The stroke color space and value, or raw color.
	strokeColorSpaceKey      = "stroke_color_space"
	strokeColorSpaceValueKey = "stroke_color_space_value"
	strokeColorKey           = "stroke_color"
)

// Space represents a color space: a color continuum that can map double
// values to colors.  A Space is immutable once constructed.
type Space struct {
	name   string
	colors []string
	// gradient leads with a duplicate of the first color, since
	// RGBGradient.Map does not blend within its first segment.
	gradient palette.RGBGradient
}

// NewSpace defines a new color space.  Colors in this space will be
// interpolated between the specified hex colors ('#rgb' or '#rrggbb').
func NewSpace(name string, colors ...string) (*Space, error) {
	if len(colors) == 0 {
		return nil, fmt.Errorf("color space '%s' has no colors", name)
	}
	rgbas := make([]imagecolor.RGBA, len(colors)+1)
	for idx, c := range colors {
		rgba, err := parseHex(c)
		if err != nil {
			return nil, fmt.Errorf("color space '%s': %w", name, err)
		}
		rgbas[idx+1] = rgba
	}
	rgbas[0] = rgbas[1]
	return &Space{
		name:     name,
		colors:   append([]string{}, colors...),
		gradient: palette.RGBGradient{Colors: rgbas},
	}, nil
}

func parseHex(hex string) (imagecolor.RGBA, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 3 && len(digits) != 6 {
		return imagecolor.RGBA{}, fmt.Errorf("'%s' is not a hex color", hex)
	}
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return imagecolor.RGBA{}, fmt.Errorf("'%s' is not a hex color", hex)
		}
	}
	c := drawing.ColorFromHex(digits)
	return imagecolor.RGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
}

// Hex formats the provided color as an opaque '#rrggbb' SVG color.
func Hex(c imagecolor.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Name returns the Space's name.
func (s *Space) Name() string {
	return s.name
}

// Colors returns the colors defining the Space.
func (s *Space) Colors() []string {
	return append([]string{}, s.colors...)
}

// At returns the color at the specified position along the Space, clamped to
// [0, 1].
func (s *Space) At(x float64) string {
	switch {
	case math.IsNaN(x) || x <= 0:
		return Hex(s.gradient.Colors[0])
	case x >= 1:
		return Hex(s.gradient.Colors[len(s.gradient.Colors)-1])
	}
	n := float64(len(s.colors))
	return Hex(s.gradient.Map((x*(n-1) + 1) / n))
}

// Swatches returns n colors evenly spaced along the receiver, from its first
// to its last color.  A single swatch is the Space's midpoint.
func (s *Space) Swatches(n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{s.At(.5)}
	}
	ret := make([]string, n)
	for idx := range ret {
		ret[idx] = s.At(float64(idx) / float64(n-1))
	}
	return ret
}

// Cycle returns the receiver's idx'th defining color, wrapping around.  It
// suits categorical schemes, whose colors should not be interpolated.
func (s *Space) Cycle(idx int) string {
	if idx < 0 {
		idx = -idx
	}
	return s.colors[idx%len(s.colors)]
}

// Define annotates with a definition of the receiving Space.
func (s *Space) Define() util.PropertyUpdate {
	return util.StringsProperty(colorSpaceNamePrefix+s.name, s.colors...)
}

// PrimaryColor annotates a Datum with a primary color along the receiving
// color space.
func (s *Space) PrimaryColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(primaryColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(primaryColorSpaceValueKey, colorValue),
		Primary(s.At(colorValue)),
	)
}

// Primary annotates a Datum with the specified primary color.
func Primary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(primaryColorKey, colorValue)
}

// SecondaryColor annotates a Datum with a secondary color along the receiving
// color space.
func (s *Space) SecondaryColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(secondaryColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(secondaryColorSpaceValueKey, colorValue),
		Secondary(s.At(colorValue)),
	)
}

// Secondary annotates a Datum with the specified secondary color.
func Secondary(colorValue string) util.PropertyUpdate {
	return util.StringProperty(secondaryColorKey, colorValue)
}

// StrokeColor annotates a Datum with a stroke color along the receiving
// color space.
func (s *Space) StrokeColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(strokeColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(strokeColorSpaceValueKey, colorValue),
		Stroke(s.At(colorValue)),
	)
}

// Stroke annotates a Datum with the specified stroke color.
func Stroke(colorValue string) util.PropertyUpdate {
	return util.StringProperty(strokeColorKey, colorValue)
}

// PrimaryOf returns the primary color of the provided Datum.
func PrimaryOf(d *util.Datum) (string, bool) {
	return d.GetString(primaryColorKey)
}

// SecondaryOf returns the secondary color of the provided Datum.
func SecondaryOf(d *util.Datum) (string, bool) {
	return d.GetString(secondaryColorKey)
}

// StrokeOf returns the stroke color of the provided Datum.
func StrokeOf(d *util.Datum) (string, bool) {
	return d.GetString(strokeColorKey)
}

// Named schemes.  Sequential schemes are sampled from the continuous
// palettes of the same name; Tableau10 is categorical.
var schemes = map[string][]string{
	"turbo": {
		"#23171b", "#4a58dd", "#2f9df5", "#27d7c4", "#4df884", "#95fb51",
		"#dedd32", "#ffa423", "#f65f18", "#ba2208", "#900c00",
	},
	"inferno": {
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446",
		"#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
	},
	"viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89",
		"#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"tableau10": {
		"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f", "#edc949",
		"#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
	},
}

// NewScheme returns a new Space holding the named scheme.
func NewScheme(name string) (*Space, error) {
	colors, ok := schemes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown color scheme '%s' (known: %s)", name, strings.Join(SchemeNames(), ", "))
	}
	return NewSpace(strings.ToLower(name), colors...)
}

// SchemeNames returns the names of the known schemes, sorted.
func SchemeNames() []string {
	ret := make([]string, 0, len(schemes))
	for name := range schemes {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
