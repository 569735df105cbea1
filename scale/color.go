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

package scale

import (
	"fmt"

	"github.com/ilhamster/chartkit/category"
	"github.com/ilhamster/chartkit/color"
	continuousaxis "github.com/ilhamster/chartkit/continuous_axis"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
)

const (
	defaultQuantizePalette = "viridis"
	defaultOrdinalPalette  = "tableau10"
)

func palette(spec AxisSpec, fallback string) (*color.Space, error) {
	name := spec.Palette
	if name == "" {
		name = fallback
	}
	return color.NewScheme(name)
}

// Quantizer is implemented by quantize Scales.
type Quantizer interface {
	Colorer
	// Bucket returns the bucket index of the provided value.
	Bucket(v *util.V) (int, bool)
	Buckets() int
	// Thresholds returns the domain values separating adjacent buckets.
	Thresholds() []float64
}

type quantize struct {
	*continuous[float64]
	space    *color.Space
	swatches []string
}

func resolveQuantize(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	space, err := palette(spec, defaultQuantizePalette)
	if err != nil {
		return nil, err
	}
	n := spec.Buckets
	if n == 0 {
		n = len(space.Colors())
	}
	if n < 1 {
		return nil, fmt.Errorf("quantize scales need at least one bucket, got %d", n)
	}
	var zero float64
	s, err := buildContinuous(rows, spec,
		continuousaxis.NewDoubleAxis(axisCategory(spec)),
		numberOf, util.DoubleValue, &zero)
	if err != nil {
		return nil, err
	}
	return &quantize{
		continuous: s.(*continuous[float64]),
		space:      space,
		swatches:   space.Swatches(n),
	}, nil
}

func (q *quantize) Buckets() int {
	return len(q.swatches)
}

func (q *quantize) Bucket(v *util.V) (int, bool) {
	f, err := numberOf(v)
	if err != nil {
		return 0, false
	}
	return q.axis.Bucket(f, len(q.swatches)), true
}

// Map returns the bucket index of the provided value.
func (q *quantize) Map(v *util.V) (float64, bool) {
	idx, ok := q.Bucket(v)
	return float64(idx), ok
}

func (q *quantize) Color(v *util.V) (string, bool) {
	idx, ok := q.Bucket(v)
	if !ok {
		return "", false
	}
	return q.swatches[idx], true
}

func (q *quantize) Thresholds() []float64 {
	return q.axis.Thresholds(len(q.swatches))
}

// Ticks returns the bucket boundaries, including both ends of the domain,
// positioned along the legend range.
func (q *quantize) Ticks() []Tick {
	min, max := q.axis.Domain()
	bounds := append(append([]float64{min}, q.Thresholds()...), max)
	r0, r1 := q.Range()
	n := float64(len(q.swatches))
	ret := make([]Tick, len(bounds))
	for idx, b := range bounds {
		v := util.DoubleValue(b)
		ret[idx] = Tick{
			Value: v,
			Pos:   r0 + float64(idx)*(r1-r0)/n,
			Label: FormatValue(q.spec.Format, v),
		}
	}
	return ret
}

// Legend returns one entry per bucket, labeled with its lower bound.
func (q *quantize) Legend() []LegendEntry {
	ticks := q.Ticks()
	ret := make([]LegendEntry, len(q.swatches))
	for idx, swatch := range q.swatches {
		ret[idx] = LegendEntry{
			Color: swatch,
			Label: ticks[idx].Label,
		}
	}
	return ret
}

func (q *quantize) Define() util.PropertyUpdate {
	return util.Chain(
		q.continuous.Define(),
		q.space.Define(),
	)
}

type ordinal struct {
	spec  AxisSpec
	cats  *category.Set
	space *color.Space
}

func resolveOrdinal(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	space, err := palette(spec, defaultOrdinalPalette)
	if err != nil {
		return nil, err
	}
	cats := category.NewSet()
	for _, value := range distinct(rows, spec) {
		display := value
		if l, ok := spec.CategoryLabels[value]; ok {
			display = l
		}
		cats.Add(category.New(value, display, ""))
	}
	return &ordinal{
		spec:  spec,
		cats:  cats,
		space: space,
	}, nil
}

func (o *ordinal) Spec() AxisSpec {
	return o.spec
}

// Map returns the category index of the provided value.
func (o *ordinal) Map(v *util.V) (float64, bool) {
	if v == nil {
		return 0, false
	}
	idx, ok := o.cats.Index(v.Text())
	return float64(idx), ok
}

func (o *ordinal) Range() (r0, r1 float64) {
	return o.spec.Range[0], o.spec.Range[1]
}

func (o *ordinal) Color(v *util.V) (string, bool) {
	if v == nil {
		return "", false
	}
	idx, ok := o.cats.Index(v.Text())
	if !ok {
		return "", false
	}
	return o.space.Cycle(idx), true
}

// Category returns the category of the provided value.
func (o *ordinal) Category(v *util.V) (*category.Category, bool) {
	if v == nil {
		return nil, false
	}
	return o.cats.Get(v.Text())
}

// Ticks returns one tick per category, spread evenly along the range.
func (o *ordinal) Ticks() []Tick {
	cats := o.cats.Categories()
	ret := make([]Tick, len(cats))
	r0, r1 := o.Range()
	for idx, cat := range cats {
		ret[idx] = Tick{
			Value: util.StringValue(cat.ID()),
			Pos:   r0 + (float64(idx)+.5)*(r1-r0)/float64(len(cats)),
			Label: cat.DisplayName(),
		}
	}
	return ret
}

func (o *ordinal) Legend() []LegendEntry {
	cats := o.cats.Categories()
	ret := make([]LegendEntry, len(cats))
	for idx, cat := range cats {
		ret[idx] = LegendEntry{
			Color: o.space.Cycle(idx),
			Label: cat.DisplayName(),
		}
	}
	return ret
}

func (o *ordinal) Define() util.PropertyUpdate {
	updates := []util.PropertyUpdate{
		axisCategory(o.spec).Define(),
		o.space.Define(),
	}
	for _, cat := range o.cats.Categories() {
		updates = append(updates, cat.Tag())
	}
	return util.Chain(updates...)
}

// Categorizer is implemented by ordinal Scales.
type Categorizer interface {
	Colorer
	Category(v *util.V) (*category.Category, bool)
}
