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

// Package scale resolves axis specifications against normalized rows into
// Scales: immutable mappings from field values to pixel positions, or, for
// quantize and ordinal scales, to buckets and colors.
//
// Resolve is deterministic and has no side effects; a Scale must be resolved
// anew whenever its rows or its pixel range change.
package scale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
)

// ErrDegenerateDomain is returned when an AxisSpec pins both ends of a
// continuous domain to the same value.
var ErrDegenerateDomain = errors.New("degenerate domain")

// Kind is a kind of scale.
type Kind int

const (
	// Linear scales map a numeric domain linearly onto a pixel range.
	Linear Kind = iota
	// Time scales map a timestamp domain linearly onto a pixel range.
	Time
	// Band scales divide a pixel range into equal slots, one per distinct
	// value.
	Band
	// Quantize scales divide a numeric domain into equal-width buckets,
	// each with its own palette swatch.
	Quantize
	// Ordinal scales assign each distinct value a palette color.
	Ordinal
)

var kindNames = map[Kind]string{
	Linear:   "linear",
	Time:     "time",
	Band:     "band",
	Quantize: "quantize",
	Ordinal:  "ordinal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the provided name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == strings.ToLower(name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown scale kind '%s'", name)
}

const defaultTicks = 10

// AxisSpec specifies a scale.
type AxisSpec struct {
	// Field names the row field the scale maps.
	Field string
	Kind  Kind
	// Label is the axis title.
	Label string
	// ZeroFloor starts a linear or quantize domain at zero, regardless of
	// the observed minimum.  The domain ends at the observed maximum, or at
	// the observed minimum if all values are negative, so that bars of
	// negative data hang from zero.
	ZeroFloor bool
	// Min and Max, if set, pin the ends of a continuous domain.  They take
	// precedence over ZeroFloor.
	Min, Max *util.V
	// Categories declares the leading order of a band or ordinal domain.
	// Observed values not declared follow in insertion order.
	Categories []string
	// CategoryLabels optionally gives legend display names for ordinal
	// values.
	CategoryLabels map[string]string
	// Range is the pixel interval onto which the domain maps.  For quantize
	// scales, it is the extent of the legend.
	Range [2]float64
	// Padding is the fraction of each band step left empty.
	Padding float64
	// Buckets is the number of quantize buckets; if zero, the palette's
	// color count.
	Buckets int
	// Palette names the color scheme of a quantize or ordinal scale.
	Palette string
	// Ticks bounds the number of continuous ticks; if zero, 10.
	Ticks int
	// TickEvery labels only every TickEvery'th band.
	TickEvery int
	// TickWhere, if set, selects the band values to label.
	TickWhere func(value string) bool
	// Format names the tick label format; see FormatValue.
	Format string
}

func (spec AxisSpec) ticks() int {
	if spec.Ticks > 0 {
		return spec.Ticks
	}
	return defaultTicks
}

// Tick is a labeled position along a Scale.
type Tick struct {
	Value *util.V
	// Pos is the tick's pixel position: the center of its band for band
	// scales.
	Pos   float64
	Label string
}

// Scale is a resolved AxisSpec.
type Scale interface {
	Spec() AxisSpec
	// Map returns the pixel position of the provided value (the start of its
	// band, for band scales, or its bucket or category index, for quantize
	// and ordinal scales), or false if the value cannot be mapped.
	Map(v *util.V) (float64, bool)
	// Range returns the scale's pixel range.
	Range() (r0, r1 float64)
	Ticks() []Tick
	// Define annotates with a definition of the scale.
	Define() util.PropertyUpdate
}

// Banded is implemented by Scales whose values occupy bands.
type Banded interface {
	Scale
	Bandwidth() float64
	// Lookup returns the value whose band step contains the pixel position.
	Lookup(px float64) (string, bool)
}

// Baseliner is implemented by continuous Scales.
type Baseliner interface {
	Scale
	// Baseline returns the pixel position of the domain value nearest zero.
	Baseline() float64
}

// LegendEntry is a single legend swatch.
type LegendEntry struct {
	Color string
	Label string
}

// Colorer is implemented by Scales mapping values to colors.
type Colorer interface {
	Scale
	Color(v *util.V) (string, bool)
	Legend() []LegendEntry
}

// Resolve resolves the provided AxisSpec against the provided rows.  Rows
// whose field is absent or of the wrong type do not contribute to the
// domain.  A domain observed to be empty or a single point yields a usable
// scale mapping everything to the start of its range; only a domain whose
// ends are both pinned to the same value is an error.
func Resolve(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	var s Scale
	var err error
	switch spec.Kind {
	case Linear:
		s, err = resolveLinear(rows, spec)
	case Time:
		s, err = resolveTime(rows, spec)
	case Band:
		s, err = resolveBand(rows, spec)
	case Quantize:
		s, err = resolveQuantize(rows, spec)
	case Ordinal:
		s, err = resolveOrdinal(rows, spec)
	default:
		err = fmt.Errorf("unsupported scale kind %s", spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s scale over '%s': %w", spec.Kind, spec.Field, err)
	}
	return s, nil
}

// distinct returns the declared categories followed by the undeclared
// values of the provided field, in insertion order.
func distinct(rows []dataset.Row, spec AxisSpec) []string {
	seen := map[string]struct{}{}
	ret := []string{}
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		ret = append(ret, v)
	}
	for _, c := range spec.Categories {
		add(c)
	}
	for _, row := range rows {
		if v := row[spec.Field]; v != nil {
			add(v.Text())
		}
	}
	return ret
}
