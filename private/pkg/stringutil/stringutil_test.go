// Copyright 2023-2025 Valigen Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUpperSnakeCase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ToUpperSnakeCase(""))
	assert.Equal(t, "PASCAL_CASE", ToUpperSnakeCase("PascalCase"))
	assert.Equal(t, "FOO_BAR", ToUpperSnakeCase("foo.bar"))
	assert.Equal(t, "FOO_BAR_BAZ", ToUpperSnakeCase("foo-bar_baz"))
	assert.Equal(
		t,
		"DEMO_V1_DEMO_PB_VALIDATE_H",
		ToUpperSnakeCase("demo/v1/demo.pb.validate.h"),
	)
}

func TestToLowerSnakeCase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ToLowerSnakeCase(""))
	assert.Equal(t, "pascal_case", ToLowerSnakeCase("PascalCase"))
	assert.Equal(t, "foo_bar", ToLowerSnakeCase("foo.bar"))
}

func TestToPascalCase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", ToPascalCase(""))
	assert.Equal(t, "FooBar", ToPascalCase("foo_bar"))
	assert.Equal(t, "FooBar", ToPascalCase("foo-bar"))
	assert.Equal(t, "FooBar", ToPascalCase("FooBar"))
	assert.Equal(t, "Email", ToPascalCase("email"))
	assert.Equal(t, "CreatedAt", ToPascalCase("created_at"))
}

func TestSliceToHumanString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", SliceToHumanString(nil))
	assert.Equal(t, "a", SliceToHumanString([]string{"a"}))
	assert.Equal(t, "a and b", SliceToHumanString([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", SliceToHumanString([]string{"a", "b", "c"}))
}

func TestJoinSliceQuoted(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "", JoinSliceQuoted(nil, ", "))
	assert.Equal(t, `"a", "b"`, JoinSliceQuoted([]string{"a", "b"}, ", "))
}
