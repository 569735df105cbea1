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
	"math"
	"strconv"
	"time"

	"github.com/ilhamster/chartkit/dataset"
	"github.com/ilhamster/chartkit/util"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Value formats.
const (
	// DefaultFormat formats strings as-is, numbers as grouped decimals,
	// durations as mm:ss and timestamps as years.
	DefaultFormat = ""
	NumberFormat  = "number"
	// PlainFormat formats numbers without digit grouping.
	PlainFormat   = "plain"
	YearFormat    = "year"
	ClockFormat   = "mmss"
	MonthFormat   = "month"
	QuarterFormat = "quarter"
	DateFormat    = "date"
)

var formats = map[string]struct{}{
	DefaultFormat: {}, NumberFormat: {}, PlainFormat: {}, YearFormat: {},
	ClockFormat: {}, MonthFormat: {}, QuarterFormat: {}, DateFormat: {},
}

// CheckFormat returns an error if the provided format is unknown.
func CheckFormat(format string) error {
	if _, ok := formats[format]; !ok {
		return fmt.Errorf("unknown value format '%s'", format)
	}
	return nil
}

// FormatNumber formats the provided number in English, with digit grouping
// and at most six fractional digits.
func FormatNumber(f float64) string {
	p := message.NewPrinter(language.English)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return p.Sprint(int64(f))
	}
	return p.Sprint(number.Decimal(f, number.MaxFractionDigits(6)))
}

// FormatValue formats the provided value in the named format.  Values the
// format does not apply to fall back to the default format; nil formats as
// "".
func FormatValue(format string, v *util.V) string {
	if v == nil {
		return ""
	}
	switch v.T {
	case util.TimestampValueType:
		t := v.V.(time.Time)
		switch format {
		case QuarterFormat:
			return dataset.QuarterOf(t)
		case DateFormat:
			return t.Format("2006-01-02")
		case MonthFormat:
			return t.Month().String()
		}
		return strconv.Itoa(t.Year())
	case util.DurationValueType:
		d := v.V.(time.Duration)
		switch format {
		case NumberFormat:
			return FormatNumber(d.Seconds())
		case PlainFormat:
			return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
		}
		return dataset.FormatClock(d)
	case util.IntegerValueType, util.DoubleValueType:
		f, _ := util.ExpectNumberValue(v)
		switch format {
		case PlainFormat:
			return strconv.FormatFloat(f, 'f', -1, 64)
		case YearFormat:
			return strconv.FormatInt(int64(math.Round(f)), 10)
		case ClockFormat:
			return dataset.FormatClock(time.Duration(math.Round(f)) * time.Second)
		case MonthFormat:
			if m := int(f); float64(m) == f && m >= 1 && m <= 12 {
				return time.Month(m).String()
			}
		}
		return FormatNumber(f)
	}
	return v.Text()
}
