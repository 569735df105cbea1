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

// Package util defines utilities for building chart scenes in Go:
//
// SceneBuilder, for assembling a scene: a tree of Datums, each carrying a
// set of typed properties;
//
// {type}Value functions (type={String, Strings, Integer, Double, Duration,
// Timestamp}) for safely constructing Values of the specified type;
//
// Expect{type}Value functions, over the same types, for safely retrieving
// values of the specified types from Values, returning an error if there's a
// type mismatch;
//
// PropertyUpdate, for decorating Datums under construction.
package util

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type valueType int

// Enumerated value types.
const (
	unsetValue valueType = iota
	StringValueType
	StringsValueType
	IntegerValueType
	DoubleValueType
	DurationValueType
	TimestampValueType
)

// V represents a single typed value: a dataset field or a scene property.
type V struct {
	V any
	T valueType
}

// PrettyPrint returns the receiver, deterministically prettyprinted.  Only for
// use in tests.
func (v *V) PrettyPrint() string {
	var ret string
	var err error
	switch v.T {
	case unsetValue:
		ret = "unset"
	case StringValueType:
		ret, err = ExpectStringValue(v)
		ret = "'" + ret + "'"
	case StringsValueType:
		var strs []string
		strs, err = ExpectStringsValue(v)
		ret = "[ '" + strings.Join(strs, "', '") + "' ]"
	case IntegerValueType:
		var i int64
		i, err = ExpectIntegerValue(v)
		if err == nil {
			ret = strconv.FormatInt(i, 10)
		}
	case DoubleValueType:
		var d float64
		d, err = ExpectDoubleValue(v)
		if err == nil {
			ret = fmt.Sprintf("%.6f", d)
		}
	case DurationValueType:
		var dur time.Duration
		dur, err = ExpectDurationValue(v)
		ret = dur.String()
	case TimestampValueType:
		var ts time.Time
		ts, err = ExpectTimestampValue(v)
		ret = ts.Format(time.RFC3339Nano)
	}
	if err != nil {
		return "error: " + err.Error()
	}
	return ret
}

// Text returns the receiver's display text: strings as-is, numbers in their
// shortest exact decimal form, durations and timestamps in their canonical Go
// formats.  Distinct values of one type have distinct texts, so Text may be
// used as a category key.
func (v *V) Text() string {
	if v == nil {
		return ""
	}
	switch v.T {
	case StringValueType:
		return v.V.(string)
	case StringsValueType:
		return strings.Join(v.V.([]string), ", ")
	case IntegerValueType:
		return strconv.FormatInt(v.V.(int64), 10)
	case DoubleValueType:
		return strconv.FormatFloat(v.V.(float64), 'f', -1, 64)
	case DurationValueType:
		return v.V.(time.Duration).String()
	case TimestampValueType:
		return v.V.(time.Time).Format(time.RFC3339)
	}
	return ""
}

// MarshalJSON encodes a V as the JSON array `[type, value]`, where a
// timestamp's value is `[seconds, nanos]` from the epoch and a duration's value
// is its nanosecond count.
func (v *V) MarshalJSON() ([]byte, error) {
	val := v.V
	switch v.T {
	case TimestampValueType:
		ts := v.V.(time.Time)
		val = [2]int64{ts.Unix(), int64(ts.Nanosecond())}
	case DurationValueType:
		val = int64(v.V.(time.Duration))
	}
	return json.Marshal([2]any{v.T, val})
}

// Datum represents a single node in a scene: a set of properties and an
// ordered list of children.
type Datum struct {
	Properties map[string]*V
	Children   []*Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Datum) PrettyPrint(indent string) string {
	ret := []string{}
	// Emit properties in increasing alphabetic order.
	keys := make([]string, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ret = append(ret,
			fmt.Sprintf("%sProp '%s': %s", indent, k, d.Properties[k].PrettyPrint()),
		)
	}
	for _, child := range d.Children {
		ret = append(ret,
			fmt.Sprintf("%sChild:", indent),
			child.PrettyPrint(indent+"  "),
		)
	}
	return strings.Join(ret, "\n")
}

// MarshalJSON encodes a Datum as the JSON array:
//
//	type KV = [string, V]
//	type Datum = [
//	  KV[],                        ; its Properties, sorted by key
//	  Datum[],                     ; its Children
//	]
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, d.Properties[k]}
	}
	children := make([]any, len(d.Children))
	for idx, child := range d.Children {
		children[idx] = child
	}
	return json.Marshal([]any{props, children})
}

// Get returns the receiver's value for the specified key.
func (d *Datum) Get(key string) (*V, bool) {
	v, ok := d.Properties[key]
	return v, ok
}

// GetString returns the receiver's string property with the specified key.
// It returns false if the property is absent or not a string.
func (d *Datum) GetString(key string) (string, bool) {
	v, ok := d.Properties[key]
	if !ok {
		return "", false
	}
	s, err := ExpectStringValue(v)
	return s, err == nil
}

// GetStrings returns the receiver's string slice property with the specified
// key.
func (d *Datum) GetStrings(key string) ([]string, bool) {
	v, ok := d.Properties[key]
	if !ok {
		return nil, false
	}
	strs, err := ExpectStringsValue(v)
	return strs, err == nil
}

// GetInteger returns the receiver's integer property with the specified key.
func (d *Datum) GetInteger(key string) (int64, bool) {
	v, ok := d.Properties[key]
	if !ok {
		return 0, false
	}
	i, err := ExpectIntegerValue(v)
	return i, err == nil
}

// GetDouble returns the receiver's double property with the specified key.
func (d *Datum) GetDouble(key string) (float64, bool) {
	v, ok := d.Properties[key]
	if !ok {
		return 0, false
	}
	f, err := ExpectDoubleValue(v)
	return f, err == nil
}

type errors struct {
	hasError bool
	errs     []error
	mu       sync.Mutex
}

func (errs *errors) add(err error) {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	errs.hasError = true
	errs.errs = append(errs.errs, err)
}

func (errs *errors) Error() string {
	if len(errs.errs) == 0 {
		return ""
	}
	ret := []string{}
	for _, err := range errs.errs {
		ret = append(ret, err.Error())
	}
	return strings.Join(ret, ", ")
}

func (errs *errors) toError() error {
	if len(errs.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", errs.Error())
}

// SceneBuilder streamlines assembling a scene.
type SceneBuilder struct {
	errs *errors
	root *datumBuilder
}

// NewSceneBuilder returns a new SceneBuilder with an empty root Datum.
func NewSceneBuilder() *SceneBuilder {
	errs := &errors{}
	return &SceneBuilder{
		errs: errs,
		root: newDatumBuilder(errs),
	}
}

// DataBuilder is implemented by types that can assemble scenes.
type DataBuilder interface {
	With(updates ...PropertyUpdate) DataBuilder
	Child() DataBuilder
}

// Root returns a DataBuilder for the root of the scene under construction.
func (sb *SceneBuilder) Root() DataBuilder {
	return sb.root
}

// Scene completes and returns the scene under construction.  If any
// PropertyUpdate failed, the first such failure is returned instead.
func (sb *SceneBuilder) Scene() (*Datum, error) {
	if sb.errs.hasError {
		return nil, sb.errs.toError()
	}
	return sb.root.d, nil
}

// Quick builders for Value types.

// StringValue returns a new Value wrapping the provided string.
func StringValue(str string) *V {
	return &V{
		V: str,
		T: StringValueType,
	}
}

// StringsValue returns a new Value wrapping the provided strings.
func StringsValue(strs ...string) *V {
	return &V{
		V: strs,
		T: StringsValueType,
	}
}

// IntegerValue returns a new Value wrapping the provided int64.
func IntegerValue(i int64) *V {
	return &V{
		V: i,
		T: IntegerValueType,
	}
}

// DoubleValue returns a new Value wrapping the provided float64.
func DoubleValue(f float64) *V {
	return &V{
		V: f,
		T: DoubleValueType,
	}
}

// DurationValue returns a new Value wrapping the provided Duration.
func DurationValue(dur time.Duration) *V {
	return &V{
		V: dur,
		T: DurationValueType,
	}
}

// TimestampValue returns a new Value wrapping the provided Timestamp.
func TimestampValue(t time.Time) *V {
	return &V{
		V: t,
		T: TimestampValueType,
	}
}

// expect returns the payload of val if it holds a value of type want.
func expect[T any](val *V, want valueType, name string) (T, error) {
	var zero T
	if val == nil || val.T != want {
		return zero, fmt.Errorf("expected value type '%s'", name)
	}
	return val.V.(T), nil
}

// ExpectStringValue returns the string held by val, or an error if val is
// not a string.
func ExpectStringValue(val *V) (string, error) {
	return expect[string](val, StringValueType, "str")
}

// ExpectStringsValue returns the string list held by val.
func ExpectStringsValue(val *V) ([]string, error) {
	return expect[[]string](val, StringsValueType, "strs")
}

// ExpectIntegerValue returns the integer held by val.
func ExpectIntegerValue(val *V) (int64, error) {
	return expect[int64](val, IntegerValueType, "int")
}

// ExpectDoubleValue returns the float held by val.
func ExpectDoubleValue(val *V) (float64, error) {
	return expect[float64](val, DoubleValueType, "dbl")
}

// ExpectDurationValue returns the duration held by val.
func ExpectDurationValue(val *V) (time.Duration, error) {
	return expect[time.Duration](val, DurationValueType, "duration")
}

// ExpectTimestampValue returns the timestamp held by val.
func ExpectTimestampValue(val *V) (time.Time, error) {
	return expect[time.Time](val, TimestampValueType, "timestamp")
}

// ExpectNumberValue expects the provided Value to be numeric: an integer, a
// double, or a duration (in seconds).  It returns that number as a float64,
// or an error if the value isn't numeric.
func ExpectNumberValue(val *V) (float64, error) {
	if val == nil {
		return 0, fmt.Errorf("expected a numeric value")
	}
	switch val.T {
	case IntegerValueType:
		return float64(val.V.(int64)), nil
	case DoubleValueType:
		return val.V.(float64), nil
	case DurationValueType:
		return val.V.(time.Duration).Seconds(), nil
	}
	return 0, fmt.Errorf("expected a numeric value, got type %d", val.T)
}

// PropertyUpdate is a function that updates a provided datumBuilder.  A nil
// PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

// ErrorProperty injects an error into the scene under construction.
func ErrorProperty(err error) PropertyUpdate {
	return func(db *datumBuilder) error {
		return err
	}
}

// datumBuilder provides a utility for programmatically assembling
// maps of Properties.
type datumBuilder struct {
	errs      *errors
	valsByKey map[string]*V
	d         *Datum
}

// newDatumBuilder returns a new, empty datumBuilder.
func newDatumBuilder(errs *errors) *datumBuilder {
	valsByKey := map[string]*V{}
	return &datumBuilder{
		errs:      errs,
		valsByKey: valsByKey,
		d: &Datum{
			Properties: valsByKey,
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdate to the receiver in order.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if !db.errs.hasError {
		for _, update := range updates {
			if update != nil {
				if err := update(db); err != nil {
					db.errs.add(err)
					break
				}
			}
		}
	}
	return db
}

func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

// withStrs sets the specified string slice value to the specified key within
// the map.  It supports chaining.
func (db *datumBuilder) withStrs(key string, values ...string) *datumBuilder {
	db.valsByKey[key] = StringsValue(append([]string{}, values...)...)
	return db
}

// appendStrs appends the specified string slices to the value associated with
// the specified key within the map.  It supports chaining.
func (db *datumBuilder) appendStrs(key string, values ...string) *datumBuilder {
	val, ok := db.valsByKey[key]
	if !ok {
		return db.withStrs(key, values...)
	}
	strs, err := ExpectStringsValue(val)
	if err != nil {
		db.errs.add(err)
		return db
	}
	val.V = append(strs, values...)
	return db
}

// withValue sets the specified value to the specified key within the map.
// It supports chaining.
func (db *datumBuilder) withValue(key string, value *V) *datumBuilder {
	db.valsByKey[key] = value
	return db
}

// If applies the provided PropertyUpdate if the provided predicate is true.
func If(predicate bool, du PropertyUpdate) PropertyUpdate {
	if predicate {
		return du
	}
	return EmptyUpdate
}

// IfElse applies PropertyUpdate t if the provided predicate is true, and applies
// f otherwise.
func IfElse(predicate bool, t, f PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		if predicate {
			db.With(t)
		} else {
			db.With(f)
		}
		return nil
	}
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.With(updates...)
		return nil
	}
}

// StringProperty returns a PropertyUpdate adding the specified string property.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withValue(key, StringValue(value))
		return nil
	}
}

// StringsProperty returns a PropertyUpdate adding the specified string slice
// property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStrs(key, values...)
		return nil
	}
}

// StringsPropertyExtended returns a PropertyUpdate extending the specified string
// slice property.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.appendStrs(key, values...)
		return nil
	}
}

// IntegerProperty returns a PropertyUpdate adding the specified integer property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withValue(key, IntegerValue(value))
		return nil
	}
}

// DoubleProperty returns a PropertyUpdate adding the specified double property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withValue(key, DoubleValue(value))
		return nil
	}
}

// DurationProperty returns a PropertyUpdate adding the specified duration property.
func DurationProperty(key string, value time.Duration) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withValue(key, DurationValue(value))
		return nil
	}
}

// TimestampProperty returns a PropertyUpdate adding the specified timestamp
// property.
func TimestampProperty(key string, value time.Time) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withValue(key, TimestampValue(value))
		return nil
	}
}

// ValueProperty returns a PropertyUpdate adding a copy of the provided Value
// under the specified key.  A nil Value is an error.
func ValueProperty(key string, value *V) PropertyUpdate {
	return func(db *datumBuilder) error {
		if value == nil {
			return fmt.Errorf("no value for property '%s'", key)
		}
		cp := *value
		if strs, ok := cp.V.([]string); ok {
			cp.V = append([]string{}, strs...)
		}
		db.withValue(key, &cp)
		return nil
	}
}
