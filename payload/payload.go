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

// Package payload supports attaching typed side-data to scene Datums.  A
// payload is a child Datum carrying a payload type; a mark's source row, for
// instance, travels as a "row" payload so that containers can emit it as
// data attributes and tooltips can format it.
package payload

import (
	"sort"

	"github.com/ilhamster/chartkit/util"
)

const (
	// TypeKey is the property key holding a payload's type.
	TypeKey = "payload_type"
)

// Payloader is implemented by types that can produce a DataBuilder for a new
// payload.
type Payloader interface {
	Payload() util.DataBuilder
}

// New returns a new payload of the specified type.
func New(parent Payloader, payloadType string) util.DataBuilder {
	return parent.Payload().With(
		util.StringProperty(TypeKey, payloadType),
	)
}

// Child adapts a DataBuilder into a Payloader whose payloads are children of
// that DataBuilder.
func Child(db util.DataBuilder) Payloader {
	return childPayloader{db}
}

type childPayloader struct {
	db util.DataBuilder
}

func (cp childPayloader) Payload() util.DataBuilder {
	return cp.db.Child()
}

// Values returns a PropertyUpdate setting each of the provided values, in key
// order.  Unset (nil) values are skipped.
func Values(values map[string]*util.V) util.PropertyUpdate {
	keys := make([]string, 0, len(values))
	for key, val := range values {
		if val != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	ret := make([]util.PropertyUpdate, len(keys))
	for idx, key := range keys {
		ret[idx] = util.ValueProperty(key, values[key])
	}
	return util.Chain(ret...)
}

// Find returns the first child of the provided Datum that is a payload of
// the specified type.
func Find(d *util.Datum, payloadType string) (*util.Datum, bool) {
	for _, child := range d.Children {
		if pt, ok := child.GetString(TypeKey); ok && pt == payloadType {
			return child, true
		}
	}
	return nil, false
}

// ValuesOf returns the properties of the provided payload Datum, excluding
// its type.
func ValuesOf(d *util.Datum) map[string]*util.V {
	ret := make(map[string]*util.V, len(d.Properties))
	for key, val := range d.Properties {
		if key != TypeKey {
			ret[key] = val
		}
	}
	return ret
}
