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
	"time"

	"github.com/ilhamster/chartkit/category"
	continuousaxis "github.com/ilhamster/chartkit/continuous_axis"
	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
)

// continuous is a linear or time Scale over a continuousaxis.Axis.
type continuous[T float64 | time.Duration | time.Time] struct {
	spec AxisSpec
	axis *continuousaxis.Axis[T]
	from func(*util.V) (T, error)
	to   func(T) *util.V
}

func (c *continuous[T]) Spec() AxisSpec {
	return c.spec
}

func (c *continuous[T]) Map(v *util.V) (float64, bool) {
	t, err := c.from(v)
	if err != nil {
		return 0, false
	}
	return c.axis.Map(t), true
}

func (c *continuous[T]) Range() (r0, r1 float64) {
	return c.axis.Range()
}

func (c *continuous[T]) Baseline() float64 {
	return c.axis.Baseline()
}

// Domain returns the receiver's domain.
func (c *continuous[T]) Domain() (min, max *util.V) {
	tmin, tmax := c.axis.Domain()
	return c.to(tmin), c.to(tmax)
}

func (c *continuous[T]) Ticks() []Tick {
	values := c.axis.Ticks(c.spec.ticks())
	ret := make([]Tick, len(values))
	for idx, t := range values {
		v := c.to(t)
		ret[idx] = Tick{
			Value: v,
			Pos:   c.axis.Map(t),
			Label: FormatValue(c.spec.Format, v),
		}
	}
	return ret
}

func (c *continuous[T]) Define() util.PropertyUpdate {
	return c.axis.Define()
}

// Domainer is implemented by continuous Scales.
type Domainer interface {
	Scale
	Domain() (min, max *util.V)
}

func numberOf(v *util.V) (float64, error) {
	return util.ExpectNumberValue(v)
}

func durationOf(v *util.V) (time.Duration, error) {
	if v != nil && v.T == util.DurationValueType {
		return util.ExpectDurationValue(v)
	}
	secs, err := util.ExpectNumberValue(v)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func buildContinuous[T float64 | time.Duration | time.Time](
	rows []dataset.Row, spec AxisSpec,
	axis *continuousaxis.Axis[T],
	from func(*util.V) (T, error),
	to func(T) *util.V,
	zero *T) (Scale, error) {
	if spec.Format != DefaultFormat {
		if err := CheckFormat(spec.Format); err != nil {
			return nil, err
		}
	}
	for _, row := range rows {
		v := row[spec.Field]
		if v == nil {
			continue
		}
		if t, err := from(v); err == nil {
			axis.Include(t)
		}
	}
	if spec.ZeroFloor {
		if zero == nil {
			return nil, fmt.Errorf("a zero floor applies only to numeric domains")
		}
		axis.SetFloor(*zero)
	}
	if spec.Min != nil {
		t, err := from(spec.Min)
		if err != nil {
			return nil, fmt.Errorf("bad domain minimum: %w", err)
		}
		axis.SetMin(t)
	}
	if spec.Max != nil {
		t, err := from(spec.Max)
		if err != nil {
			return nil, fmt.Errorf("bad domain maximum: %w", err)
		}
		axis.SetMax(t)
	}
	if spec.Min != nil && spec.Max != nil && axis.Degenerate() {
		return nil, fmt.Errorf("pinned to [%s, %s]: %w", spec.Min.Text(), spec.Max.Text(), ErrDegenerateDomain)
	}
	axis.WithRange(spec.Range[0], spec.Range[1])
	return &continuous[T]{
		spec: spec,
		axis: axis,
		from: from,
		to:   to,
	}, nil
}

func axisCategory(spec AxisSpec) *category.Category {
	return category.New(spec.Field, spec.Label, "")
}

// holdsDurations reports whether the provided field's first present value is
// a duration.
func holdsDurations(rows []dataset.Row, spec AxisSpec) bool {
	for _, row := range rows {
		if v := row[spec.Field]; v != nil {
			return v.T == util.DurationValueType
		}
	}
	for _, pin := range []*util.V{spec.Min, spec.Max} {
		if pin != nil {
			return pin.T == util.DurationValueType
		}
	}
	return false
}

func resolveLinear(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	if holdsDurations(rows, spec) {
		var zero time.Duration
		return buildContinuous(rows, spec,
			continuousaxis.NewDurationAxis(axisCategory(spec)),
			durationOf, util.DurationValue, &zero)
	}
	var zero float64
	return buildContinuous(rows, spec,
		continuousaxis.NewDoubleAxis(axisCategory(spec)),
		numberOf, util.DoubleValue, &zero)
}

func resolveTime(rows []dataset.Row, spec AxisSpec) (Scale, error) {
	return buildContinuous(rows, spec,
		continuousaxis.NewTimestampAxis(axisCategory(spec)),
		util.ExpectTimestampValue, util.TimestampValue, nil)
}
