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

package cctarget

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtesting"
)

const funcsProto = `syntax = "proto3";
package funcs.v1;

message Account {
  int32 balance = 1;
  Kind kind = 2;
  oneof handle {
    string email = 3;
    string phone = 4;
  }
  message Nested {
    string name = 1;
  }
  enum Kind {
    KIND_UNSPECIFIED = 0;
    KIND_PERSONAL = 1;
  }
}
`

func compileFuncsFile(t *testing.T) valsource.File {
	t.Helper()
	files := valtesting.CompileFiles(
		t,
		map[string]string{"funcs/v1/funcs.proto": funcsProto},
		"funcs/v1/funcs.proto",
	)
	require.Len(t, files, 1)
	return files[0]
}

func TestFloatLiteralRoundTrip(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	for _, f := range []float64{0, 1, -1, 0.1, 1e300, -2.5e-300, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		literal := fns.lit(f)
		parsed, err := strconv.ParseFloat(literal, 64)
		require.NoError(t, err, literal)
		assert.Equal(t, math.Float64bits(f), math.Float64bits(parsed), literal)
	}
	for _, f := range []float32{0, 1, -1, 0.1, 3.4e38, math.MaxFloat32, math.SmallestNonzeroFloat32} {
		literal := fns.lit(f)
		require.True(t, strings.HasSuffix(literal, "F"), literal)
		parsed, err := strconv.ParseFloat(strings.TrimSuffix(literal, "F"), 32)
		require.NoError(t, err, literal)
		assert.Equal(t, math.Float32bits(f), math.Float32bits(float32(parsed)), literal)
	}
}

func TestFloatLiteralAlwaysFloatSyntax(t *testing.T) {
	t.Parallel()
	// Integral values still need a decimal point so the C++ literal is
	// not silently an int.
	assert.Equal(t, "3.0", floatLiteral(3, 64))
	assert.Equal(t, "-17.0", floatLiteral(-17, 64))
	assert.Equal(t, "1e+300", floatLiteral(1e300, 64))
}

func TestLit(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	assert.Equal(t, `"hello"`, fns.lit("hello"))
	assert.Equal(t, "42", fns.lit(int32(42)))
	assert.Equal(t, "42", fns.lit(uint64(42)))
	assert.Equal(t, "true", fns.lit(true))
	assert.Equal(t, `"\x00\xFFa"`, fns.lit([]byte{0x00, 0xFF, 0x61}))
}

func TestByteStr(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	assert.Equal(t, `""`, fns.byteStr(nil))
	assert.Equal(t, `"\x01\x0A\xFF"`, fns.byteStr([]byte{0x01, 0x0A, 0xFF}))
}

func TestNames(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	account := valtesting.RequireMessage(t, file, "Account")
	nested := valtesting.RequireMessage(t, file, "Account.Nested")

	assert.Equal(t, "Account", fns.classBaseName(account))
	assert.Equal(t, "Account_Nested", fns.classBaseName(nested))
	assert.Equal(t, "::funcs::v1::Account", fns.className(account))
	assert.Equal(t, "::funcs::v1::Account_Nested", fns.className(nested))
	assert.Equal(t, "::funcs::v1", fns.packageName(account))
	assert.Equal(t, []string{"funcs", "v1"}, fns.namespaces(file))
	assert.Equal(t, []string{"v1", "funcs"}, fns.reverse(fns.namespaces(file)))
}

func TestOneofTypeName(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	email := valtesting.RequireField(t, file, "Account", "email")
	name, err := fns.oneofTypeName(email)
	require.NoError(t, err)
	assert.Equal(t, "::funcs::v1::Account::HandleCase::kEmail", name)

	balance := valtesting.RequireField(t, file, "Account", "balance")
	_, err = fns.oneofTypeName(balance)
	require.Error(t, err)
}

func TestEnumName(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	kind := valtesting.RequireField(t, file, "Account", "kind")
	name, err := fns.enumName(kind)
	require.NoError(t, err)
	// Same file, so the short nested name suffices.
	assert.Equal(t, "Account_Kind", name)
}

func TestEnumNameCrossFile(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	files := valtesting.CompileFiles(
		t,
		map[string]string{
			"kinds/v1/kinds.proto": `syntax = "proto3";
package kinds.v1;
enum Level {
  LEVEL_UNSPECIFIED = 0;
}
`,
			"users/v1/users.proto": `syntax = "proto3";
package users.v1;
import "kinds/v1/kinds.proto";
message User {
  kinds.v1.Level level = 1;
}
`,
		},
		"users/v1/users.proto",
	)
	require.Len(t, files, 1)
	level := valtesting.RequireField(t, files[0], "User", "level")
	name, err := fns.enumName(level)
	require.NoError(t, err)
	assert.Equal(t, "::kinds::v1::Level", name)
}

func TestErrorBlocks(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	balance := valtesting.RequireField(t, file, "Account", "balance")
	ctx := valrule.RuleContext{Field: balance, ErrorField: balance}

	block := fns.err(ctx, "value must be greater than ", fns.lit(int32(0)))
	assert.Contains(t, block, `msg << "invalid ";`)
	assert.Contains(t, block, `msg << "AccountValidationError" << "." << "balance";`)
	assert.Contains(t, block, `msg << ": " << "value must be greater than 0";`)
	assert.Contains(t, block, "*err = msg.str();")
	assert.Contains(t, block, "return false;")
	assert.NotContains(t, block, "caused by")
	assert.NotContains(t, block, "key for")

	indexed := fns.errIdx(ctx, "i", "repeated value must contain unique items")
	assert.Contains(t, indexed, `msg << "[" << i << "]";`)

	caused := fns.errCause(ctx, "embedded_err", "embedded message failed validation")
	assert.Contains(t, caused, `msg << " | caused by " << embedded_err;`)

	keyed := fns.errIdxCause(
		valrule.RuleContext{Field: balance, ErrorField: balance, OnKey: true, Index: "key"},
		"", "",
		"value length must be at least 1 characters",
	)
	assert.Contains(t, keyed, `msg << "key for ";`)
	assert.Contains(t, keyed, `msg << "[" << key << "]";`)
}

func TestErrOneof(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	account := valtesting.RequireMessage(t, file, "Account")
	require.Len(t, account.Oneofs(), 1)
	block := fns.errOneof(account.Oneofs()[0])
	assert.Contains(t, block, `msg << "AccountValidationError" << "." << "handle";`)
	assert.Contains(t, block, "exactly one field is required in oneof")
}

func TestLookup(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	balance := valtesting.RequireField(t, file, "Account", "balance")
	assert.Equal(t, "_Account_Balance_InLookup", fns.lookup(balance, "InLookup"))
}

func TestDurationAndTimestampLiterals(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	dur := &durationpb.Duration{Seconds: 60, Nanos: 500}
	assert.Equal(
		t,
		"valigen::protobuf::util::TimeUtil::SecondsToDuration(60) + valigen::protobuf::util::TimeUtil::NanosecondsToDuration(500)",
		fns.durLit(dur),
	)

	ts := &timestamppb.Timestamp{Seconds: 1700000000, Nanos: 1}
	assert.Equal(
		t,
		"valigen::protobuf::util::TimeUtil::SecondsToTimestamp(1700000000) + valigen::protobuf::util::TimeUtil::NanosecondsToDuration(1)",
		fns.tsLit(ts),
	)
}

func TestAccessors(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	file := compileFuncsFile(t)
	balance := valtesting.RequireField(t, file, "Account", "balance")

	ctx := valrule.RuleContext{Field: balance}
	assert.Equal(t, "m.balance()", fns.accessor(ctx))
	assert.Equal(t, "m.has_balance()", fns.hasAccessor(ctx))

	ctx.AccessorOverride = "item"
	assert.Equal(t, "item", fns.accessor(ctx))
	assert.Equal(t, "true", fns.hasAccessor(ctx))
}

func TestMethodName(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	assert.Equal(t, "const_", fns.methodName("const"))
	assert.Equal(t, "inline_", fns.methodName("inline"))
	assert.Equal(t, "balance", fns.methodName("balance"))
}

func TestOutput(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	assert.Equal(t, "demo/v1/demo.pb.validate.h", fns.output("demo/v1/demo.proto", ".validate.h"))
	assert.Equal(t, "demo.pb.validate.cc", fns.output("demo.proto", ".validate.cc"))
}

func TestRuleReflection(t *testing.T) {
	t.Parallel()
	fns := ccFuncs{}
	rules := &validate.Int32Rules{
		LessThan: &validate.Int32Rules_Lt{Lt: 10},
		In:       []int32{1, 2, 3},
	}

	has, err := fns.ruleSet(rules, "lt")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = fns.ruleSet(rules, "gt")
	require.NoError(t, err)
	assert.False(t, has)

	value, err := fns.ruleValue(rules, "lt")
	require.NoError(t, err)
	assert.Equal(t, int32(10), value)
	value, err = fns.ruleValue(rules, "in")
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(2), int32(3)}, value)
	value, err = fns.ruleValue(rules, "gt")
	require.NoError(t, err)
	assert.Nil(t, value)

	_, err = fns.ruleSet(rules, "no_such_rule")
	require.Error(t, err)

	// Nil rules are probed by fragments unconditionally.
	has, err = fns.ruleSet(nil, "lt")
	require.NoError(t, err)
	assert.False(t, has)
}
