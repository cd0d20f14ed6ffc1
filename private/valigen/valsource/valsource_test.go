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

package valsource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtesting"
)

const testProto = `syntax = "proto3";
package test.v1;

message Outer {
  int32 age = 1;
  repeated int32 scores = 2;
  map<string, int32> ages = 3;
  Inner inner = 4;
  Color color = 5;
  oneof contact {
    string email = 6;
    string phone = 7;
  }
  optional string nickname = 8;

  message Inner {
    string name = 1;
  }

  enum Color {
    COLOR_UNSPECIFIED = 0;
    COLOR_RED = 1;
  }
}
`

func compileTestFile(t *testing.T) valsource.File {
	t.Helper()
	files := valtesting.CompileFiles(
		t,
		map[string]string{"test/v1/test.proto": testProto},
		"test/v1/test.proto",
	)
	require.Len(t, files, 1)
	return files[0]
}

func TestFileBasics(t *testing.T) {
	t.Parallel()
	file := compileTestFile(t)
	assert.Equal(t, "test/v1/test.proto", file.Path())
	assert.Equal(t, "test.v1", file.Package())
	require.Len(t, file.Messages(), 1)
	assert.Empty(t, file.Enums())
}

func TestMessageShape(t *testing.T) {
	t.Parallel()
	file := compileTestFile(t)
	outer := valtesting.RequireMessage(t, file, "Outer")
	assert.Equal(t, "test.v1.Outer", outer.FullName())
	assert.Equal(t, "Outer", outer.NestedName())
	assert.Nil(t, outer.Parent())
	assert.False(t, outer.IsMapEntry())

	// The synthesized AgesEntry map entry must not leak into Messages.
	require.Len(t, outer.Messages(), 1)
	inner := outer.Messages()[0]
	assert.Equal(t, "Outer.Inner", inner.NestedName())
	assert.Equal(t, "test.v1.Outer.Inner", inner.FullName())
	assert.Equal(t, outer, inner.Parent())

	require.Len(t, outer.Enums(), 1)
	color := outer.Enums()[0]
	assert.Equal(t, "Outer.Color", color.NestedName())
	require.Len(t, color.Values(), 2)
	assert.Equal(t, "COLOR_RED", color.Values()[1].Name())
	assert.Equal(t, int32(1), color.Values()[1].Number())
}

func TestFieldTypes(t *testing.T) {
	t.Parallel()
	file := compileTestFile(t)

	age := valtesting.RequireField(t, file, "Outer", "age")
	assert.Equal(t, valsource.TypeInt32, age.Type())
	assert.Equal(t, "test.v1.Outer.age", age.FullName())
	assert.Equal(t, int32(1), age.Number())
	assert.False(t, age.IsRepeated())
	assert.False(t, age.IsMap())
	assert.Nil(t, age.Oneof())

	scores := valtesting.RequireField(t, file, "Outer", "scores")
	assert.Equal(t, valsource.TypeInt32, scores.Type())
	assert.True(t, scores.IsRepeated())
	assert.False(t, scores.IsMap())

	inner := valtesting.RequireField(t, file, "Outer", "inner")
	assert.Equal(t, valsource.TypeMessage, inner.Type())
	require.NotNil(t, inner.Embed())
	assert.Equal(t, "test.v1.Outer.Inner", inner.Embed().FullName())
	assert.True(t, inner.HasPresence())

	color := valtesting.RequireField(t, file, "Outer", "color")
	assert.Equal(t, valsource.TypeEnum, color.Type())
	require.NotNil(t, color.Enum())
	assert.Equal(t, "Outer.Color", color.Enum().NestedName())
}

func TestMapField(t *testing.T) {
	t.Parallel()
	file := compileTestFile(t)
	ages := valtesting.RequireField(t, file, "Outer", "ages")
	assert.True(t, ages.IsMap())
	assert.False(t, ages.IsRepeated())
	require.NotNil(t, ages.MapKey())
	require.NotNil(t, ages.MapValue())
	assert.Equal(t, valsource.TypeString, ages.MapKey().Type())
	assert.Equal(t, valsource.TypeInt32, ages.MapValue().Type())
	assert.True(t, ages.MapKey().ParentMessage().IsMapEntry())
}

func TestOneofs(t *testing.T) {
	t.Parallel()
	file := compileTestFile(t)
	outer := valtesting.RequireMessage(t, file, "Outer")

	// The proto3 optional synthetic oneof must not be reported.
	require.Len(t, outer.Oneofs(), 1)
	contact := outer.Oneofs()[0]
	assert.Equal(t, "contact", contact.Name())
	require.Len(t, contact.Fields(), 2)
	assert.Equal(t, "email", contact.Fields()[0].Name())

	email := valtesting.RequireField(t, file, "Outer", "email")
	require.NotNil(t, email.Oneof())
	assert.Equal(t, "contact", email.Oneof().Name())

	nickname := valtesting.RequireField(t, file, "Outer", "nickname")
	assert.Nil(t, nickname.Oneof())
	assert.True(t, nickname.HasPresence())
}

func TestTypeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "int32", valsource.TypeInt32.String())
	assert.Equal(t, "sfixed64", valsource.TypeSfixed64.String())
	assert.Equal(t, "message", valsource.TypeMessage.String())
	assert.True(t, valsource.TypeDouble.IsNumeric())
	assert.False(t, valsource.TypeString.IsNumeric())
}
