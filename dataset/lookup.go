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

	"github.com/ilhamster/chartkit/util"
)

// KeyFunc converts a field value into a lookup key.
type KeyFunc func(v *util.V) string

// TextKey keys by a value's display text.
func TextKey(v *util.V) string {
	return v.Text()
}

// PadKey keys by a value's display text, left-padded with zeroes to width.
// County FIPS codes, for instance, are five digits but often stored as
// numbers that lose their leading zero.
func PadKey(width int) KeyFunc {
	return func(v *util.V) string {
		s := v.Text()
		if len(s) >= width {
			return s
		}
		return strings.Repeat("0", width-len(s)) + s
	}
}

// Lookup is an immutable index of rows by key.
type Lookup struct {
	rows map[string]Row
}

// NewLookup indexes the provided rows by the key of their keyField.  Later
// rows with a duplicate key are reported as an error and ignored.
func NewLookup(rows []Row, keyField string, key KeyFunc) (*Lookup, error) {
	l := &Lookup{
		rows: make(map[string]Row, len(rows)),
	}
	var dups []string
	for _, row := range rows {
		v := row.Value(keyField)
		if v == nil {
			continue
		}
		k := key(v)
		if _, ok := l.rows[k]; ok {
			dups = append(dups, k)
			continue
		}
		l.rows[k] = row
	}
	if len(dups) > 0 {
		return l, fmt.Errorf("duplicate lookup keys: %s", strings.Join(dups, ", "))
	}
	return l, nil
}

// Get returns the row with the specified key.
func (l *Lookup) Get(key string) (Row, bool) {
	row, ok := l.rows[key]
	return row, ok
}

// Len returns the number of indexed rows.
func (l *Lookup) Len() int {
	return len(l.rows)
}
