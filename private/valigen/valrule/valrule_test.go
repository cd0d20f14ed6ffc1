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

package valrule_test

import (
	"testing"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valigen/valigen/private/pkg/protoencoding"
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtesting"
)

const rulesProto = `syntax = "proto3";
package rules.v1;

import "buf/validate/validate.proto";
import "google/protobuf/duration.proto";
import "google/protobuf/timestamp.proto";
import "google/protobuf/wrappers.proto";
import "google/protobuf/any.proto";

message Subject {
  int32 age = 1 [(buf.validate.field).int32.gt = 0];
  string name = 2 [(buf.validate.field).string.min_len = 1];
  repeated int32 scores = 3 [(buf.validate.field).repeated.items.int32.gte = 0];
  map<string, int32> ages = 4 [
    (buf.validate.field).map.keys.string.min_len = 1,
    (buf.validate.field).map.values.int32.gte = 0
  ];
  Child child = 5;
  google.protobuf.Duration ttl = 6 [(buf.validate.field).duration.lt.seconds = 60];
  google.protobuf.Timestamp created_at = 7;
  google.protobuf.UInt32Value count = 8 [(buf.validate.field).uint32.lte = 10];
  google.protobuf.Any payload = 9;
  bytes digest = 10;
  oneof contact {
    option (buf.validate.oneof).required = true;
    string email = 11;
    string phone = 12;
  }
  int32 legacy = 13 [
    (buf.validate.field).ignore = IGNORE_ALWAYS,
    (buf.validate.field).int32.gt = 0
  ];
}

message Child {
  string name = 1;
}

message Custom {
  option (buf.validate.message).cel = {
    id: "custom"
    message: "n must stay custom"
    expression: "true"
  };
  int32 n = 1;
}
`

func compileRules(t *testing.T) valsource.File {
	t.Helper()
	files := valtesting.CompileFiles(
		t,
		map[string]string{"rules/v1/rules.proto": rulesProto},
		"rules/v1/rules.proto",
	)
	require.Len(t, files, 1)
	return files[0]
}

func newTestResolver() valrule.Resolver {
	return valrule.NewResolver(protoencoding.GlobalResolver)
}

func TestRuleTypeForField(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	for fieldName, expected := range map[string]valrule.RuleType{
		"age":        valrule.RuleTypeInt32,
		"name":       valrule.RuleTypeString,
		"scores":     valrule.RuleTypeRepeated,
		"ages":       valrule.RuleTypeMap,
		"child":      valrule.RuleTypeMessage,
		"ttl":        valrule.RuleTypeDuration,
		"created_at": valrule.RuleTypeTimestamp,
		"count":      valrule.RuleTypeWrapper,
		"payload":    valrule.RuleTypeAny,
		"digest":     valrule.RuleTypeBytes,
	} {
		field := valtesting.RequireField(t, file, "Subject", fieldName)
		ruleType, err := valrule.RuleTypeForField(field)
		require.NoError(t, err, fieldName)
		assert.Equal(t, expected, ruleType, fieldName)
	}
}

func TestRuleTypeString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "none", valrule.RuleTypeNone.String())
	assert.Equal(t, "sfixed64", valrule.RuleTypeSfixed64.String())
	assert.Equal(t, "wrapper", valrule.RuleTypeWrapper.String())
	assert.Equal(t, "repeated", valrule.RuleTypeRepeated.String())
}

func TestResolveFieldRules(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	age := valtesting.RequireField(t, file, "Subject", "age")
	fieldRules, err := resolver.FieldRules(age)
	require.NoError(t, err)
	require.NotNil(t, fieldRules)
	require.NotNil(t, fieldRules.GetInt32())
	gt, ok := fieldRules.GetInt32().GetGreaterThan().(*validate.Int32Rules_Gt)
	require.True(t, ok)
	assert.Equal(t, int32(0), gt.Gt)

	// No rules at all resolves to nil, not an empty message.
	createdAt := valtesting.RequireField(t, file, "Subject", "created_at")
	fieldRules, err = resolver.FieldRules(createdAt)
	require.NoError(t, err)
	assert.Nil(t, fieldRules)
}

func TestResolveMessageAndOneofRules(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	custom := valtesting.RequireMessage(t, file, "Custom")
	messageRules, err := resolver.MessageRules(custom)
	require.NoError(t, err)
	require.Len(t, messageRules.GetCel(), 1)
	assert.Equal(t, "custom", messageRules.GetCel()[0].GetId())

	subject := valtesting.RequireMessage(t, file, "Subject")
	require.Len(t, subject.Oneofs(), 1)
	oneofRules, err := resolver.OneofRules(subject.Oneofs()[0])
	require.NoError(t, err)
	assert.True(t, oneofRules.GetRequired())
}

func TestNewRuleContext(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	age := valtesting.RequireField(t, file, "Subject", "age")
	fieldRules, err := resolver.FieldRules(age)
	require.NoError(t, err)
	ruleContext, err := valrule.NewRuleContext(age, fieldRules)
	require.NoError(t, err)
	assert.Equal(t, valrule.RuleTypeInt32, ruleContext.Type)
	assert.Equal(t, age, ruleContext.Field)
	assert.Equal(t, age, ruleContext.ErrorField)
	require.IsType(t, &validate.Int32Rules{}, ruleContext.Rules)

	// An unconstrained scalar renders nothing.
	child := valtesting.RequireMessage(t, file, "Child")
	name := child.Fields()[0]
	ruleContext, err = valrule.NewRuleContext(name, nil)
	require.NoError(t, err)
	assert.Equal(t, valrule.RuleTypeNone, ruleContext.Type)

	// Ignore always suppresses the category even when rules are present.
	legacy := valtesting.RequireField(t, file, "Subject", "legacy")
	fieldRules, err = resolver.FieldRules(legacy)
	require.NoError(t, err)
	require.NotNil(t, fieldRules)
	ruleContext, err = valrule.NewRuleContext(legacy, fieldRules)
	require.NoError(t, err)
	assert.Equal(t, valrule.RuleTypeNone, ruleContext.Type)
}

func TestElemContext(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	scores := valtesting.RequireField(t, file, "Subject", "scores")
	fieldRules, err := resolver.FieldRules(scores)
	require.NoError(t, err)
	ruleContext, err := valrule.NewRuleContext(scores, fieldRules)
	require.NoError(t, err)
	require.Equal(t, valrule.RuleTypeRepeated, ruleContext.Type)

	elemContext, err := ruleContext.Elem("item", "i")
	require.NoError(t, err)
	assert.Equal(t, valrule.RuleTypeInt32, elemContext.Type)
	assert.Equal(t, "item", elemContext.AccessorOverride)
	assert.Equal(t, "i", elemContext.Index)
	assert.False(t, elemContext.OnKey)
	require.IsType(t, &validate.Int32Rules{}, elemContext.Rules)

	_, err = elemContext.Elem("x", "j")
	require.Error(t, err)
}

func TestMapContexts(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	ages := valtesting.RequireField(t, file, "Subject", "ages")
	fieldRules, err := resolver.FieldRules(ages)
	require.NoError(t, err)
	ruleContext, err := valrule.NewRuleContext(ages, fieldRules)
	require.NoError(t, err)
	require.Equal(t, valrule.RuleTypeMap, ruleContext.Type)

	keyContext, err := ruleContext.Key("key", "key")
	require.NoError(t, err)
	assert.True(t, keyContext.OnKey)
	assert.Equal(t, valrule.RuleTypeString, keyContext.Type)
	// Errors must name the declared map field, not the entry field.
	assert.Equal(t, ages, keyContext.ErrorField)
	require.IsType(t, &validate.StringRules{}, keyContext.Rules)

	valueContext, err := ruleContext.Value("val", "key")
	require.NoError(t, err)
	assert.False(t, valueContext.OnKey)
	assert.Equal(t, valrule.RuleTypeInt32, valueContext.Type)
	assert.Equal(t, ages, valueContext.ErrorField)
}

func TestUnwrapContext(t *testing.T) {
	t.Parallel()
	file := compileRules(t)
	resolver := newTestResolver()

	count := valtesting.RequireField(t, file, "Subject", "count")
	fieldRules, err := resolver.FieldRules(count)
	require.NoError(t, err)
	ruleContext, err := valrule.NewRuleContext(count, fieldRules)
	require.NoError(t, err)
	require.Equal(t, valrule.RuleTypeWrapper, ruleContext.Type)

	innerContext, err := ruleContext.Unwrap("wrapped.value()")
	require.NoError(t, err)
	assert.Equal(t, valrule.RuleTypeUint32, innerContext.Type)
	assert.Equal(t, valrule.RuleTypeWrapper, innerContext.WrapperType)
	assert.Equal(t, "wrapped.value()", innerContext.AccessorOverride)
	require.IsType(t, &validate.UInt32Rules{}, innerContext.Rules)

	_, err = innerContext.Unwrap("again")
	require.Error(t, err)
}

func TestRuleShapeMismatch(t *testing.T) {
	t.Parallel()
	const mismatchProto = `syntax = "proto3";
package mismatch.v1;

import "buf/validate/validate.proto";

message Broken {
  int32 bad = 1 [(buf.validate.field).string.min_len = 3];
}
`
	files := valtesting.CompileFiles(
		t,
		map[string]string{"mismatch/v1/mismatch.proto": mismatchProto},
		"mismatch/v1/mismatch.proto",
	)
	require.Len(t, files, 1)
	resolver := newTestResolver()

	bad := valtesting.RequireField(t, files[0], "Broken", "bad")
	fieldRules, err := resolver.FieldRules(bad)
	require.NoError(t, err)
	require.NotNil(t, fieldRules)

	_, err = valrule.NewRuleContext(bad, fieldRules)
	require.Error(t, err)
	var shapeError *valrule.ShapeError
	require.ErrorAs(t, err, &shapeError)
	assert.Equal(t, "bad", shapeError.FieldName)
	assert.Equal(t, "mismatch.v1.Broken", shapeError.MessageName)
	assert.Contains(t, err.Error(), "bad")
	assert.Contains(t, err.Error(), "mismatch.v1.Broken")
}
