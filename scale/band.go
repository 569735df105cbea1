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
	categoryaxis "github.com/ilhamster/chartkit/category_axis"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
)

type band struct {
	spec AxisSpec
	axis *categoryaxis.Band
}

func resolveBand(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	axis, err := categoryaxis.New(axisCategory(spec), distinct(rows, spec)...).
		WithRange(spec.Range[0], spec.Range[1]).
		WithPadding(spec.Padding)
	if err != nil {
		return nil, err
	}
	return &band{
		spec: spec,
		axis: axis,
	}, nil
}

func (b *band) Spec() AxisSpec {
	return b.spec
}

func (b *band) Map(v *util.V) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return b.axis.Map(v.Text())
}

func (b *band) Range() (r0, r1 float64) {
	return b.axis.Range()
}

func (b *band) Bandwidth() float64 {
	return b.axis.Bandwidth()
}

func (b *band) Lookup(px float64) (string, bool) {
	return b.axis.Lookup(px)
}

func (b *band) Ticks() []Tick {
	var values []string
	if b.spec.TickWhere != nil {
		values = b.axis.TicksWhere(b.spec.TickWhere)
	} else {
		values = b.axis.Ticks(b.spec.TickEvery)
	}
	ret := make([]Tick, len(values))
	for idx, value := range values {
		pos, _ := b.axis.Center(value)
		ret[idx] = Tick{
			Value: util.StringValue(value),
			Pos:   pos,
			Label: value,
		}
	}
	return ret
}

func (b *band) Define() util.PropertyUpdate {
	rs := categoryaxis.RenderSettings{TickEvery: int64(b.spec.TickEvery)}
	return util.Chain(
		b.axis.Define(),
		rs.Define(),
	)
}
