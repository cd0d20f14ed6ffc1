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
	"fmt"
	"path"
	"reflect"
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/valigen/valigen/private/pkg/stringutil"
	"github.com/valigen/valigen/private/pkg/syserror"
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
)

// ccFuncs is the template func set for the C++ target.
//
// All methods are pure string transforms over the render model; nothing
// here touches the filesystem or mutates shared state.
type ccFuncs struct{}

// methodName mangles field names that collide with C++ keywords the same
// way the protobuf C++ generator does.
func (fns ccFuncs) methodName(name string) string {
	switch name {
	case "const":
		return "const_"
	case "inline":
		return "inline_"
	default:
		return name
	}
}

// accessor renders the expression that reads the context's current value.
func (fns ccFuncs) accessor(ctx valrule.RuleContext) string {
	if ctx.AccessorOverride != "" {
		return ctx.AccessorOverride
	}
	return fmt.Sprintf("m.%s()", fns.methodName(ctx.Field.Name()))
}

// hasAccessor renders the presence check for the context's value. Bound
// iteration variables are always present.
func (fns ccFuncs) hasAccessor(ctx valrule.RuleContext) string {
	if ctx.AccessorOverride != "" {
		return "true"
	}
	return fmt.Sprintf("m.has_%s()", fns.methodName(ctx.Field.Name()))
}

// classBaseName renders the C++ class name without namespace. Nesting
// turns into underscore joining, matching the protobuf C++ generator.
func (fns ccFuncs) classBaseName(descriptor valsource.NamedDescriptor) string {
	return strings.ReplaceAll(descriptor.NestedName(), ".", "_")
}

// className renders the fully qualified C++ class name.
func (fns ccFuncs) className(descriptor valsource.NamedDescriptor) string {
	return fns.packageName(descriptor) + "::" + fns.classBaseName(descriptor)
}

// packageName renders the leading-qualified C++ namespace of the
// descriptor's package.
func (fns ccFuncs) packageName(descriptor valsource.Descriptor) string {
	packageName := descriptor.File().Package()
	if packageName == "" {
		return ""
	}
	return "::" + strings.Join(strings.Split(packageName, "."), "::")
}

// namespaces returns the namespace parts to open for a file, outermost
// first.
func (fns ccFuncs) namespaces(file valsource.File) []string {
	if file.Package() == "" {
		return nil
	}
	return strings.Split(file.Package(), ".")
}

// reverse returns a reversed copy, for closing namespace blocks.
func (fns ccFuncs) reverse(elems []string) []string {
	out := make([]string, len(elems))
	for i, elem := range elems {
		out[len(elems)-1-i] = elem
	}
	return out
}

func (fns ccFuncs) quote(s string) string {
	return strconv.Quote(s)
}

// err emits the failure block for the context with no explicit index and
// no cause.
func (fns ccFuncs) err(ctx valrule.RuleContext, reason ...any) string {
	return fns.errIdxCause(ctx, "", "", reason...)
}

// errCause emits the failure block wrapping a nested validation failure.
func (fns ccFuncs) errCause(ctx valrule.RuleContext, cause string, reason ...any) string {
	return fns.errIdxCause(ctx, "", cause, reason...)
}

// errIdx emits the failure block with an explicit index expression.
func (fns ccFuncs) errIdx(ctx valrule.RuleContext, idx string, reason ...any) string {
	return fns.errIdxCause(ctx, idx, "", reason...)
}

// errIdxCause emits the full failure block: build the error text, assign
// the out-parameter, return false.
//
// The reported field is the declared schema field, so map key and value
// violations name the map field itself, with the offending key as the
// index expression and a "key for" qualifier on key violations.
func (fns ccFuncs) errIdxCause(ctx valrule.RuleContext, idx string, cause string, reason ...any) string {
	field := ctx.ErrorField
	index := idx
	if index == "" {
		index = ctx.Index
	}
	return fns.buildError(
		field.ParentMessage().Name()+"ValidationError",
		field.Name(),
		ctx.OnKey,
		index,
		fmt.Sprint(reason...),
		cause,
	)
}

// errOneof emits the failure block for a required oneof with no member set.
func (fns ccFuncs) errOneof(oneof valsource.Oneof) string {
	return fns.buildError(
		oneof.Message().Name()+"ValidationError",
		oneof.Name(),
		false,
		"",
		"exactly one field is required in oneof",
		"",
	)
}

func (fns ccFuncs) buildError(errName string, fieldName string, onKey bool, index string, reason string, cause string) string {
	output := []string{
		"{",
		"std::ostringstream msg;",
		`msg << "invalid ";`,
	}
	if onKey {
		output = append(output, `msg << "key for ";`)
	}
	output = append(output, fmt.Sprintf(`msg << %q << "." << %q;`, errName, fieldName))
	if index != "" {
		output = append(output, fmt.Sprintf(`msg << "[" << %s << "]";`, index))
	}
	output = append(output, fmt.Sprintf(`msg << ": " << %q;`, reason))
	if cause != "" && cause != "nil" {
		output = append(output, fmt.Sprintf(`msg << " | caused by " << %s;`, cause))
	}
	output = append(output,
		"*err = msg.str();",
		"return false;",
		"}",
	)
	return strings.Join(output, "\n")
}

// lookup renders a stable identifier for per-field static values such as
// compiled patterns and membership sets.
func (fns ccFuncs) lookup(field valsource.Field, name string) string {
	return fmt.Sprintf(
		"_%s_%s_%s",
		stringutil.ToPascalCase(field.ParentMessage().Name()),
		stringutil.ToPascalCase(field.Name()),
		name,
	)
}

// lit renders a typed constraint value as C++ source syntax.
//
// Floats use the shortest representation that round-trips bit-for-bit and
// carry an F suffix; byte strings defer to byteStr.
func (fns ccFuncs) lit(x any) string {
	value := reflect.ValueOf(x)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	switch value.Kind() {
	case reflect.String:
		return strconv.Quote(value.String())
	case reflect.Float32:
		return floatLiteral(value.Float(), 32) + "F"
	case reflect.Float64:
		return floatLiteral(value.Float(), 64)
	case reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			return fns.byteStr(value.Bytes())
		}
		return fmt.Sprint(x)
	default:
		return fmt.Sprint(x)
	}
}

func floatLiteral(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// byteStr renders bytes as an escaped hex-per-byte C++ string literal.
func (fns ccFuncs) byteStr(x []byte) string {
	elems := make([]string, len(x))
	for i, b := range x {
		elems[i] = fmt.Sprintf(`\x%02X`, b)
	}
	return fmt.Sprintf(`"%s"`, strings.Join(elems, ""))
}

// oneofTypeName renders the generated case constant for a oneof member.
func (fns ccFuncs) oneofTypeName(field valsource.Field) (string, error) {
	fieldOneof := field.Oneof()
	if fieldOneof == nil {
		return "", syserror.Newf("field %s is not a member of a oneof", field.FullName())
	}
	return fmt.Sprintf(
		"%s::%sCase::k%s",
		fns.className(field.ParentMessage()),
		stringutil.ToPascalCase(fieldOneof.Name()),
		stringutil.ToPascalCase(field.Name()),
	), nil
}

// enumName renders the C++ name of a field's enum type. Enums declared in
// the same file stay short; enums from another file are fully package
// qualified so the reference compiles regardless of the including file.
func (fns ccFuncs) enumName(field valsource.Field) (string, error) {
	fieldEnum := field.Enum()
	if fieldEnum == nil {
		return "", syserror.Newf("field %s has no enum type", field.FullName())
	}
	if field.File().Path() == fieldEnum.File().Path() {
		return fns.classBaseName(fieldEnum), nil
	}
	return fns.className(fieldEnum), nil
}

// inType renders the element type of membership sets for in/not_in rules.
func (fns ccFuncs) inType(field valsource.Field) (string, error) {
	switch field.Type() {
	case valsource.TypeString, valsource.TypeBytes:
		return "std::string", nil
	case valsource.TypeEnum:
		return fns.enumName(field)
	case valsource.TypeMessage:
		switch field.Embed().FullName() {
		case "google.protobuf.Any":
			// Any membership is by type URL.
			return "std::string", nil
		case "google.protobuf.Duration":
			return "valigen::protobuf_wkt::Duration", nil
		case "google.protobuf.Timestamp":
			return "valigen::protobuf_wkt::Timestamp", nil
		default:
			return fns.className(field.Embed()), nil
		}
	default:
		return cPrimitive(field.Type())
	}
}

// inKey renders one member of an in/not_in set.
func (fns ccFuncs) inKey(field valsource.Field, x any) (string, error) {
	switch field.Type() {
	case valsource.TypeBytes:
		b, ok := x.([]byte)
		if !ok {
			return "", syserror.Newf("bytes rule value of type %T on field %s", x, field.FullName())
		}
		return fns.byteStr(b), nil
	case valsource.TypeEnum:
		number, ok := x.(int32)
		if !ok {
			return "", syserror.Newf("enum rule value of type %T on field %s", x, field.FullName())
		}
		enumName, err := fns.enumName(field)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%d)", enumName, number), nil
	case valsource.TypeMessage:
		if duration, ok := x.(*durationpb.Duration); ok {
			return fns.durLit(duration), nil
		}
		return fns.lit(x), nil
	default:
		return fns.lit(x), nil
	}
}

// cType renders the C++ type of a field's value.
func (fns ccFuncs) cType(field valsource.Field) (string, error) {
	switch {
	case field.IsMap():
		return fns.cType(field.MapValue())
	case field.Type() == valsource.TypeMessage:
		return fns.className(field.Embed()), nil
	case field.Type() == valsource.TypeEnum:
		return fns.enumName(field)
	default:
		return cPrimitive(field.Type())
	}
}

func cPrimitive(t valsource.Type) (string, error) {
	switch t {
	case valsource.TypeDouble:
		return "double", nil
	case valsource.TypeFloat:
		return "float", nil
	case valsource.TypeInt32, valsource.TypeSint32, valsource.TypeSfixed32:
		return "int32_t", nil
	case valsource.TypeInt64, valsource.TypeSint64, valsource.TypeSfixed64:
		return "int64_t", nil
	case valsource.TypeUint32, valsource.TypeFixed32:
		return "uint32_t", nil
	case valsource.TypeUint64, valsource.TypeFixed64:
		return "uint64_t", nil
	case valsource.TypeBool:
		return "bool", nil
	case valsource.TypeString, valsource.TypeBytes:
		return "std::string", nil
	default:
		return "", syserror.Newf("no C++ primitive for protocol type %v", t)
	}
}

// durLit renders a duration constant as a two-part seconds + nanos
// constructor expression.
func (fns ccFuncs) durLit(duration *durationpb.Duration) string {
	return fmt.Sprintf(
		"valigen::protobuf::util::TimeUtil::SecondsToDuration(%d) + valigen::protobuf::util::TimeUtil::NanosecondsToDuration(%d)",
		duration.GetSeconds(), duration.GetNanos())
}

func (fns ccFuncs) durStr(duration *durationpb.Duration) string {
	return duration.AsDuration().String()
}

// tsLit renders a timestamp constant as a two-part seconds + nanos
// constructor expression.
func (fns ccFuncs) tsLit(ts *timestamppb.Timestamp) string {
	return fmt.Sprintf(
		"valigen::protobuf::util::TimeUtil::SecondsToTimestamp(%d) + valigen::protobuf::util::TimeUtil::NanosecondsToDuration(%d)",
		ts.GetSeconds(), ts.GetNanos())
}

func (fns ccFuncs) tsStr(ts *timestamppb.Timestamp) string {
	return ts.AsTime().UTC().String()
}

// unwrap derives the inner scalar context for a wrapper field, bound to the
// wrapped value's inner accessor.
func (fns ccFuncs) unwrap(ctx valrule.RuleContext, name string) (valrule.RuleContext, error) {
	embed := ctx.Field.Embed()
	if embed == nil || len(embed.Fields()) == 0 {
		return ctx, syserror.Newf("field %s is not a wrapper type", ctx.Field.FullName())
	}
	return ctx.Unwrap(fmt.Sprintf("%s.%s()", name, embed.Fields()[0].Name()))
}

// recurse reports whether an embedded message field gets a nested
// validation call. Well-known types have no generated validator.
func (fns ccFuncs) recurse(ctx valrule.RuleContext) bool {
	embed := ctx.Field.Embed()
	return embed != nil && embed.File().Package() != "google.protobuf"
}

// failUnimplemented renders a throw for constructs with no generated
// implementation.
func (fns ccFuncs) failUnimplemented(message string) string {
	if message == "" {
		return "throw valigen::UnimplementedException();"
	}
	return fmt.Sprintf("throw valigen::UnimplementedException(%q);", message)
}

// staticVarName renders the identifier for a message's registered
// validator instance.
func (fns ccFuncs) staticVarName(message valsource.Message) string {
	return "validator_" + strings.ReplaceAll(fns.className(message), ":", "_")
}

// output maps an input schema file path to a generated file path by
// extension substitution.
func (fns ccFuncs) output(filePath string, ext string) string {
	return strings.TrimSuffix(filePath, path.Ext(filePath)) + ".pb" + ext
}

// ruleSet reports whether the named rule field is populated. Safe on nil
// rules so fragments can probe unconditionally.
func (fns ccFuncs) ruleSet(rules protoreflect.ProtoMessage, name string) (bool, error) {
	fieldDescriptor, reflectMessage, err := ruleField(rules, name)
	if err != nil || fieldDescriptor == nil {
		return false, err
	}
	return reflectMessage.Has(fieldDescriptor), nil
}

// ruleValue returns the named rule field's value as a plain Go value, or
// nil when unset. Lists come back as []any, enum numbers as int32, and
// message values as their concrete types.
func (fns ccFuncs) ruleValue(rules protoreflect.ProtoMessage, name string) (any, error) {
	fieldDescriptor, reflectMessage, err := ruleField(rules, name)
	if err != nil || fieldDescriptor == nil {
		return nil, err
	}
	if !reflectMessage.Has(fieldDescriptor) {
		return nil, nil
	}
	return goValue(fieldDescriptor, reflectMessage.Get(fieldDescriptor)), nil
}

func ruleField(rules protoreflect.ProtoMessage, name string) (protoreflect.FieldDescriptor, protoreflect.Message, error) {
	if rules == nil {
		return nil, nil, nil
	}
	reflectMessage := rules.ProtoReflect()
	fieldDescriptor := reflectMessage.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fieldDescriptor == nil {
		return nil, nil, syserror.Newf(
			"rules %s have no field %q",
			reflectMessage.Descriptor().FullName(),
			name,
		)
	}
	return fieldDescriptor, reflectMessage, nil
}

func goValue(fieldDescriptor protoreflect.FieldDescriptor, value protoreflect.Value) any {
	if fieldDescriptor.IsList() {
		list := value.List()
		out := make([]any, list.Len())
		for i := 0; i < list.Len(); i++ {
			out[i] = goScalarValue(fieldDescriptor, list.Get(i))
		}
		return out
	}
	return goScalarValue(fieldDescriptor, value)
}

func goScalarValue(fieldDescriptor protoreflect.FieldDescriptor, value protoreflect.Value) any {
	switch fieldDescriptor.Kind() {
	case protoreflect.EnumKind:
		return int32(value.Enum())
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return value.Message().Interface()
	default:
		return value.Interface()
	}
}
