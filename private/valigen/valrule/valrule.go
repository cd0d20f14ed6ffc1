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

// Package valrule resolves constraint options and classifies fields into
// rule categories.
//
// Every field maps to exactly one RuleType, and the RuleType's string form
// is the name of the template fragment that renders it. Repetition and
// mapping are structural wrappers: a repeated field is always RuleTypeRepeated
// and its element re-dispatches on the element's own shape, never both at once.
package valrule

import (
	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/valigen/valigen/private/pkg/syserror"
	"github.com/valigen/valigen/private/valigen/valsource"
)

const (
	// RuleTypeNone renders no constraint checks.
	RuleTypeNone RuleType = iota
	// RuleTypeFloat is the float numeric category.
	RuleTypeFloat
	// RuleTypeDouble is the double numeric category.
	RuleTypeDouble
	// RuleTypeInt32 is the int32 numeric category.
	RuleTypeInt32
	// RuleTypeInt64 is the int64 numeric category.
	RuleTypeInt64
	// RuleTypeUint32 is the uint32 numeric category.
	RuleTypeUint32
	// RuleTypeUint64 is the uint64 numeric category.
	RuleTypeUint64
	// RuleTypeSint32 is the sint32 numeric category.
	RuleTypeSint32
	// RuleTypeSint64 is the sint64 numeric category.
	RuleTypeSint64
	// RuleTypeFixed32 is the fixed32 numeric category.
	RuleTypeFixed32
	// RuleTypeFixed64 is the fixed64 numeric category.
	RuleTypeFixed64
	// RuleTypeSfixed32 is the sfixed32 numeric category.
	RuleTypeSfixed32
	// RuleTypeSfixed64 is the sfixed64 numeric category.
	RuleTypeSfixed64
	// RuleTypeBool is the bool category.
	RuleTypeBool
	// RuleTypeString is the string category.
	RuleTypeString
	// RuleTypeBytes is the bytes category.
	RuleTypeBytes
	// RuleTypeEnum is the enum category.
	RuleTypeEnum
	// RuleTypeMessage is the embedded message category.
	RuleTypeMessage
	// RuleTypeRepeated is the repeated structural category.
	RuleTypeRepeated
	// RuleTypeMap is the map structural category.
	RuleTypeMap
	// RuleTypeAny is the google.protobuf.Any category.
	RuleTypeAny
	// RuleTypeDuration is the google.protobuf.Duration category.
	RuleTypeDuration
	// RuleTypeTimestamp is the google.protobuf.Timestamp category.
	RuleTypeTimestamp
	// RuleTypeWrapper is the well-known wrapper category.
	//
	// Wrapper contexts are always unwrapped to their inner scalar before
	// the inner fragment runs.
	RuleTypeWrapper
)

// RuleType is the rule category of a field occurrence.
type RuleType int

// String implements fmt.Stringer.
//
// The string form is the template fragment name.
func (r RuleType) String() string {
	switch r {
	case RuleTypeNone:
		return "none"
	case RuleTypeFloat:
		return "float"
	case RuleTypeDouble:
		return "double"
	case RuleTypeInt32:
		return "int32"
	case RuleTypeInt64:
		return "int64"
	case RuleTypeUint32:
		return "uint32"
	case RuleTypeUint64:
		return "uint64"
	case RuleTypeSint32:
		return "sint32"
	case RuleTypeSint64:
		return "sint64"
	case RuleTypeFixed32:
		return "fixed32"
	case RuleTypeFixed64:
		return "fixed64"
	case RuleTypeSfixed32:
		return "sfixed32"
	case RuleTypeSfixed64:
		return "sfixed64"
	case RuleTypeBool:
		return "bool"
	case RuleTypeString:
		return "string"
	case RuleTypeBytes:
		return "bytes"
	case RuleTypeEnum:
		return "enum"
	case RuleTypeMessage:
		return "message"
	case RuleTypeRepeated:
		return "repeated"
	case RuleTypeMap:
		return "map"
	case RuleTypeAny:
		return "any"
	case RuleTypeDuration:
		return "duration"
	case RuleTypeTimestamp:
		return "timestamp"
	case RuleTypeWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

var (
	fieldRulesDescriptor      = (&validate.FieldRules{}).ProtoReflect().Descriptor()
	fieldRulesOneofDescriptor = fieldRulesDescriptor.Oneofs().ByName("type")

	// scalarRuleTypes maps scalar protocol types to their rule category.
	scalarRuleTypes = map[valsource.Type]RuleType{
		valsource.TypeFloat:    RuleTypeFloat,
		valsource.TypeDouble:   RuleTypeDouble,
		valsource.TypeInt32:    RuleTypeInt32,
		valsource.TypeInt64:    RuleTypeInt64,
		valsource.TypeUint32:   RuleTypeUint32,
		valsource.TypeUint64:   RuleTypeUint64,
		valsource.TypeSint32:   RuleTypeSint32,
		valsource.TypeSint64:   RuleTypeSint64,
		valsource.TypeFixed32:  RuleTypeFixed32,
		valsource.TypeFixed64:  RuleTypeFixed64,
		valsource.TypeSfixed32: RuleTypeSfixed32,
		valsource.TypeSfixed64: RuleTypeSfixed64,
		valsource.TypeBool:     RuleTypeBool,
		valsource.TypeString:   RuleTypeString,
		valsource.TypeBytes:    RuleTypeBytes,
		valsource.TypeEnum:     RuleTypeEnum,
	}

	// wellKnownRuleTypes maps special well-known message types to their
	// dedicated rule categories.
	wellKnownRuleTypes = map[string]RuleType{
		"google.protobuf.Any":       RuleTypeAny,
		"google.protobuf.Duration":  RuleTypeDuration,
		"google.protobuf.Timestamp": RuleTypeTimestamp,
	}

	// wrapperRuleTypes maps wrapper well-known types to the rule category
	// of their inner scalar.
	wrapperRuleTypes = map[string]RuleType{
		"google.protobuf.BoolValue":   RuleTypeBool,
		"google.protobuf.BytesValue":  RuleTypeBytes,
		"google.protobuf.DoubleValue": RuleTypeDouble,
		"google.protobuf.FloatValue":  RuleTypeFloat,
		"google.protobuf.Int32Value":  RuleTypeInt32,
		"google.protobuf.Int64Value":  RuleTypeInt64,
		"google.protobuf.StringValue": RuleTypeString,
		"google.protobuf.UInt32Value": RuleTypeUint32,
		"google.protobuf.UInt64Value": RuleTypeUint64,
	}
)

// RuleTypeForField returns the rule category for the field as declared,
// including the structural repeated/map wrappers.
func RuleTypeForField(field valsource.Field) (RuleType, error) {
	if field.IsMap() {
		return RuleTypeMap, nil
	}
	if field.IsRepeated() {
		return RuleTypeRepeated, nil
	}
	return ruleTypeForElement(field)
}

// ruleTypeForElement returns the rule category for the field's element
// shape, ignoring repetition. For maps this is never called; map key and
// value shapes dispatch through their own entry fields.
func ruleTypeForElement(field valsource.Field) (RuleType, error) {
	switch fieldType := field.Type(); fieldType {
	case valsource.TypeMessage:
		fullName := field.Embed().FullName()
		if ruleType, ok := wellKnownRuleTypes[fullName]; ok {
			return ruleType, nil
		}
		if _, ok := wrapperRuleTypes[fullName]; ok {
			return RuleTypeWrapper, nil
		}
		return RuleTypeMessage, nil
	case valsource.TypeGroup:
		return 0, syserror.Newf("constraint generation for groups is not implemented: %s", field.FullName())
	default:
		ruleType, ok := scalarRuleTypes[fieldType]
		if !ok {
			return 0, syserror.Newf("no rule category for protocol type %v on field %s", fieldType, field.FullName())
		}
		return ruleType, nil
	}
}

// wrapperInnerRuleType returns the inner scalar category for a wrapper field.
func wrapperInnerRuleType(field valsource.Field) (RuleType, error) {
	fullName := field.Embed().FullName()
	ruleType, ok := wrapperRuleTypes[fullName]
	if !ok {
		return 0, syserror.Newf("field %s is not a well-known wrapper type", field.FullName())
	}
	return ruleType, nil
}

// checkRuleShape verifies that the constraint rules attached to a field
// match the field's declared shape.
//
// A mismatch (say, string rules on an int32 field) is a schema authoring
// error: it aborts generation with an error naming the field and message
// rather than emitting a miscompiled validator.
func checkRuleShape(field valsource.Field, fieldRules *validate.FieldRules, ruleType RuleType) error {
	if fieldRules == nil {
		return nil
	}
	whichOneof := fieldRules.ProtoReflect().WhichOneof(fieldRulesOneofDescriptor)
	if whichOneof == nil {
		return nil
	}
	setName := string(whichOneof.Name())
	expectedName, ok := expectedRuleName(field, ruleType)
	if !ok || setName != expectedName {
		return &ShapeError{
			FieldName:   field.Name(),
			MessageName: field.ParentMessage().FullName(),
			RuleName:    setName,
		}
	}
	return nil
}

// ShapeError reports constraint rules attached to a field of an
// incompatible shape, for example string rules on an int32 field.
type ShapeError struct {
	FieldName   string
	MessageName string
	RuleName    string
}

// Error implements error.
func (e *ShapeError) Error() string {
	return "field " + e.FieldName + " of message " + e.MessageName +
		": " + e.RuleName + " rules cannot be applied to this field"
}

func expectedRuleName(field valsource.Field, ruleType RuleType) (string, bool) {
	switch ruleType {
	case RuleTypeNone, RuleTypeMessage:
		return "", false
	case RuleTypeWrapper:
		innerRuleType, err := wrapperInnerRuleType(field)
		if err != nil {
			return "", false
		}
		return innerRuleType.String(), true
	default:
		return ruleType.String(), true
	}
}

// specificRules extracts the concrete rules message (Int32Rules, StringRules,
// RepeatedRules, ...) set on the field rules, or nil if none is set.
func specificRules(fieldRules *validate.FieldRules) protoreflect.ProtoMessage {
	if fieldRules == nil {
		return nil
	}
	whichOneof := fieldRules.ProtoReflect().WhichOneof(fieldRulesOneofDescriptor)
	if whichOneof == nil {
		return nil
	}
	return fieldRules.ProtoReflect().Get(whichOneof).Message().Interface()
}
