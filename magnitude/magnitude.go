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

// Package magnitude annotates hierarchical items, such as treemap tiles, with
// their weights.
package magnitude

import "github.com/ilhamster/chartkit/util"

const (
	selfMagnitudeKey  = "self_magnitude"
	totalMagnitudeKey = "total_magnitude"
)

// SelfMagnitude annotates an item with the weight it holds itself, excluding
// any descendants.
func SelfMagnitude(selfMagnitude float64) util.PropertyUpdate {
	return util.DoubleProperty(selfMagnitudeKey, selfMagnitude)
}

// TotalMagnitude annotates an item with the weight of its entire subtree.
func TotalMagnitude(totalMagnitude float64) util.PropertyUpdate {
	return util.DoubleProperty(totalMagnitudeKey, totalMagnitude)
}

// SelfOf returns the self magnitude of the provided Datum.
func SelfOf(d *util.Datum) (float64, bool) {
	return d.GetDouble(selfMagnitudeKey)
}

// TotalOf returns the total magnitude of the provided Datum.
func TotalOf(d *util.Datum) (float64, bool) {
	return d.GetDouble(totalMagnitudeKey)
}
