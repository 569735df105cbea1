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

// Package categoryaxis provides band axes: axes whose domain is an ordered
// set of distinct category values, each of which has a distinct, equal-width
// slot (a 'band') of the axis' pixel range.
//
// A band axis with n values over the range [r0, r1] has a step of
// (r1-r0)/n.  Each band is the step less its padding, a fraction of the step
// split evenly before and after the band, so adjacent bands never overlap.
package categoryaxis

import (
	"fmt"

	"github.com/ilhamster/chartkit/category"
	"github.com/ilhamster/chartkit/util"
)

const (
	axisTypeKey       = "axis_type"
	bandAxisType      = "band"
	bandValuesKey     = "band_values"
	bandPaddingKey    = "band_padding"
	bandRangeMinPxKey = "band_range_min_px"
	bandRangeMaxPxKey = "band_range_max_px"
	bandTickEveryKey  = "band_tick_every"
)

// RenderSettings is a collection of rendering settings for band axes.
type RenderSettings struct {
	// Only every TickEvery'th band is labeled.  Values below 1 label every
	// band.
	TickEvery int64
}

// Define applies the receiver as a set of properties.
func (rs *RenderSettings) Define() util.PropertyUpdate {
	return util.IntegerProperty(bandTickEveryKey, rs.TickEvery)
}

// Band is a band axis.
type Band struct {
	cat     *category.Category
	values  []string
	indices map[string]int
	r0, r1  float64
	padding float64
}

// New returns a new Band with the specified category.  If values are
// provided, they form the start of the axis' domain in the order given;
// repeated values are ignored.
func New(cat *category.Category, values ...string) *Band {
	b := &Band{
		cat:     cat,
		indices: map[string]int{},
		r1:      1,
	}
	for _, v := range values {
		b.Add(v)
	}
	return b
}

// Add appends the provided value to the receiver's domain if it is not
// already present, returning its index.
func (b *Band) Add(v string) int {
	if idx, ok := b.indices[v]; ok {
		return idx
	}
	idx := len(b.values)
	b.values = append(b.values, v)
	b.indices[v] = idx
	return idx
}

// WithRange sets the pixel range the receiver's bands subdivide.  The range
// is normalized so that r0 <= r1.
func (b *Band) WithRange(r0, r1 float64) *Band {
	if r0 > r1 {
		r0, r1 = r1, r0
	}
	b.r0, b.r1 = r0, r1
	return b
}

// WithPadding sets the fraction of each step left empty around its band.
// Padding must lie in [0, 1).
func (b *Band) WithPadding(padding float64) (*Band, error) {
	if padding < 0 || padding >= 1 {
		return nil, fmt.Errorf("band padding must be in [0, 1), got %v", padding)
	}
	b.padding = padding
	return b, nil
}

// Range returns the receiver's pixel range.
func (b *Band) Range() (r0, r1 float64) {
	return b.r0, b.r1
}

// Padding returns the receiver's padding fraction.
func (b *Band) Padding() float64 {
	return b.padding
}

// Len returns the number of values in the receiver's domain.
func (b *Band) Len() int {
	return len(b.values)
}

// Values returns the receiver's domain, in order.
func (b *Band) Values() []string {
	return append([]string{}, b.values...)
}

// Index returns the position of the provided value in the receiver's domain.
func (b *Band) Index(v string) (int, bool) {
	idx, ok := b.indices[v]
	return idx, ok
}

// Step returns the distance between the starts of adjacent bands.  An empty
// axis has a single band spanning its range.
func (b *Band) Step() float64 {
	n := len(b.values)
	if n == 0 {
		n = 1
	}
	return (b.r1 - b.r0) / float64(n)
}

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 {
	return b.Step() * (1 - b.padding)
}

// Map returns the start of the provided value's band, or false if the value
// is not in the receiver's domain.
func (b *Band) Map(v string) (float64, bool) {
	idx, ok := b.indices[v]
	if !ok {
		return 0, false
	}
	return b.At(idx), true
}

// At returns the start of the band at the provided index.
func (b *Band) At(idx int) float64 {
	step := b.Step()
	return b.r0 + float64(idx)*step + step*b.padding/2
}

// Center returns the middle of the provided value's band.
func (b *Band) Center(v string) (float64, bool) {
	start, ok := b.Map(v)
	if !ok {
		return 0, false
	}
	return start + b.Bandwidth()/2, true
}

// Lookup returns the value whose step contains the provided pixel position.
func (b *Band) Lookup(px float64) (string, bool) {
	if len(b.values) == 0 || px < b.r0 || px >= b.r1 {
		return "", false
	}
	idx := int((px - b.r0) / b.Step())
	if idx >= len(b.values) {
		idx = len(b.values) - 1
	}
	return b.values[idx], true
}

// Ticks returns every n'th value of the receiver's domain, starting with the
// first.  Values of n below 1 return every value.
func (b *Band) Ticks(n int) []string {
	if n < 1 {
		n = 1
	}
	ret := []string{}
	for idx := 0; idx < len(b.values); idx += n {
		ret = append(ret, b.values[idx])
	}
	return ret
}

// TicksWhere returns the values of the receiver's domain satisfying the
// provided predicate, in order.
func (b *Band) TicksWhere(pred func(v string) bool) []string {
	ret := []string{}
	for _, v := range b.values {
		if pred(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// Define annotates with a definition of the receiver.
func (b *Band) Define() util.PropertyUpdate {
	return util.Chain(
		b.cat.Define(),
		util.StringProperty(axisTypeKey, bandAxisType),
		util.StringsProperty(bandValuesKey, b.values...),
		util.DoubleProperty(bandPaddingKey, b.padding),
		util.DoubleProperty(bandRangeMinPxKey, b.r0),
		util.DoubleProperty(bandRangeMaxPxKey, b.r1),
	)
}

// CategoryID returns the category ID of the receiving Band.
func (b *Band) CategoryID() string {
	return b.cat.ID()
}

// Category returns the receiver's category.
func (b *Band) Category() *category.Category {
	return b.cat
}
