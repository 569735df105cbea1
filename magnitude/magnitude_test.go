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

package magnitude

import (
	"testing"

	"github.com/ilhamster/chartkit/util"
)

func TestMagnitudes(t *testing.T) {
	sb := util.NewSceneBuilder()
	sb.Root().With(SelfMagnitude(82.53), TotalMagnitude(100))
	scene, err := sb.Scene()
	if err != nil {
		t.Fatalf("Scene() yielded unexpected error %s", err)
	}
	if got, ok := SelfOf(scene); !ok || got != 82.53 {
		t.Errorf("SelfOf() = %v, %t, want 82.53, true", got, ok)
	}
	if got, ok := TotalOf(scene); !ok || got != 100 {
		t.Errorf("TotalOf() = %v, %t, want 100, true", got, ok)
	}
}
