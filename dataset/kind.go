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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ilhamster/chartkit/util"
)

// Kind is the declared kind of a field.
type Kind int

// Field kinds.
const (
	// Number fields hold doubles.  They accept JSON numbers and numeric
	// strings.
	Number Kind = iota
	// Integer fields hold integers.
	Integer
	// String fields hold strings.  JSON numbers are kept in their literal
	// form.
	String
	// Time fields hold timestamps parsed from strings.
	Time
	// Duration fields accept `mm:ss` or `hh:mm:ss` strings, or numbers of
	// seconds.
	Duration
)

var kindNames = map[Kind]string{
	Number:   "number",
	Integer:  "integer",
	String:   "string",
	Time:     "time",
	Duration: "duration",
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
	return 0, fmt.Errorf("unknown field kind '%s'", name)
}

const defaultTimeLayout = "2006-01-02"

var errMissing = errors.New("missing value")

func (f Field) parse(raw any) (*util.V, error) {
	if raw == nil || raw == "" {
		if f.Optional {
			return nil, nil
		}
		return nil, errMissing
	}
	switch f.Kind {
	case Number:
		n, err := number(raw)
		if err != nil {
			return nil, err
		}
		return util.DoubleValue(n), nil
	case Integer:
		var s string
		switch r := raw.(type) {
		case json.Number:
			s = r.String()
		case string:
			s = strings.TrimSpace(r)
		default:
			return nil, fmt.Errorf("expected an integer, got %T", raw)
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not an integer", s)
		}
		return util.IntegerValue(i), nil
	case String:
		switch r := raw.(type) {
		case string:
			return util.StringValue(r), nil
		case json.Number:
			return util.StringValue(r.String()), nil
		}
		return nil, fmt.Errorf("expected a string, got %T", raw)
	case Time:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a time string, got %T", raw)
		}
		layout := f.Layout
		if layout == "" {
			layout = defaultTimeLayout
		}
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a time in layout '%s'", s, layout)
		}
		return util.TimestampValue(t), nil
	case Duration:
		if s, ok := raw.(string); ok && strings.Contains(s, ":") {
			d, err := ParseClock(s)
			if err != nil {
				return nil, err
			}
			return util.DurationValue(d), nil
		}
		secs, err := number(raw)
		if err != nil {
			return nil, err
		}
		return util.DurationValue(time.Duration(secs * float64(time.Second))), nil
	}
	return nil, fmt.Errorf("unsupported field kind %s", f.Kind)
}

func number(raw any) (float64, error) {
	var s string
	switch r := raw.(type) {
	case json.Number:
		s = r.String()
	case string:
		s = strings.TrimSpace(r)
	case float64:
		return r, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("'%s' is not a number", s)
	}
	return n, nil
}

// ParseClock parses a `mm:ss` or `hh:mm:ss` clock reading into a Duration.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("'%s' is not a mm:ss time", s)
	}
	var ret time.Duration
	for idx, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (idx > 0 && n >= 60) {
			return 0, fmt.Errorf("'%s' is not a mm:ss time", s)
		}
		ret = ret*60 + time.Duration(n)
	}
	return ret * time.Second, nil
}

// FormatClock formats a Duration as `mm:ss`, with minutes zero-padded to
// two digits and unbounded above.
func FormatClock(d time.Duration) string {
	secs := int64(d.Round(time.Second) / time.Second)
	sign := ""
	if secs < 0 {
		sign, secs = "-", -secs
	}
	return fmt.Sprintf("%s%02d:%02d", sign, secs/60, secs%60)
}
