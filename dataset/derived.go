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

package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilhamster/chartkit/util"
)

// Offset derives `row[field] + meta[metaField]`, such as an absolute
// temperature from a variance and a base temperature.
func Offset(name, field, metaField string) Derived {
	return Derived{
		Name: name,
		Derive: func(row, meta Row) (*util.V, error) {
			v, ok := row.Number(field)
			if !ok {
				return nil, fmt.Errorf("field '%s' is not a number", field)
			}
			base, ok := meta.Number(metaField)
			if !ok {
				return nil, fmt.Errorf("dataset field '%s' is not a number", metaField)
			}
			return util.DoubleValue(v + base), nil
		},
	}
}

// MonthName derives the English name of the 1-based month number in field.
func MonthName(name, field string) Derived {
	return Derived{
		Name: name,
		Derive: func(row, meta Row) (*util.V, error) {
			m, ok := row.Number(field)
			if !ok || m < 1 || m > 12 || m != float64(int(m)) {
				return nil, fmt.Errorf("'%s' is not a month number", row.Text(field))
			}
			return util.StringValue(time.Month(int(m)).String()), nil
		},
	}
}

// MonthNames returns the English month names, January first.
func MonthNames() []string {
	ret := make([]string, 12)
	for idx := range ret {
		ret[idx] = time.Month(idx + 1).String()
	}
	return ret
}

// Quarter derives a `Qn-yyyy` label from the timestamp in field.
func Quarter(name, field string) Derived {
	return Derived{
		Name: name,
		Derive: func(row, meta Row) (*util.V, error) {
			t, ok := row.Time(field)
			if !ok {
				return nil, fmt.Errorf("field '%s' is not a time", field)
			}
			return util.StringValue(QuarterOf(t)), nil
		},
	}
}

// QuarterOf returns the `Qn-yyyy` quarter label of the provided time.
func QuarterOf(t time.Time) string {
	return fmt.Sprintf("Q%d-%d", (int(t.Month())-1)/3+1, t.Year())
}

// Status derives one of two labels depending on whether field is present and
// non-blank, such as whether a rider has doping allegations.
func Status(name, field, present, absent string) Derived {
	return Derived{
		Name: name,
		Derive: func(row, meta Row) (*util.V, error) {
			if strings.TrimSpace(row.Text(field)) != "" {
				return util.StringValue(present), nil
			}
			return util.StringValue(absent), nil
		},
	}
}
