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

package valrule

import (
	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/valigen/valigen/private/pkg/syserror"
	"github.com/valigen/valigen/private/valigen/valsource"
)

// RuleContext is the unit of template rendering: one field occurrence
// together with its classified rules.
//
// The same field can yield several contexts. A map field renders once as
// RuleTypeMap, and its key and value each render again through the Key and
// Value derivations. Derived contexts carry the positional state (Index,
// OnKey, AccessorOverride) the fragments need to report where in the
// container a violation happened.
type RuleContext struct {
	// Field is the field occurrence being rendered.
	Field valsource.Field
	// ErrorField is the field reported in emitted errors. For map key and
	// value occurrences this stays the declared map field, since the entry
	// message's synthesized key/value fields never appear in the schema
	// author's source.
	ErrorField valsource.Field
	// FieldRules is the full resolved rule set for this occurrence, or nil.
	FieldRules *validate.FieldRules
	// Rules is the concrete per-type rules message set in FieldRules
	// (Int32Rules, StringRules, RepeatedRules, ...), or nil. Templates
	// reach its getters dynamically, so one numeric fragment serves all
	// twelve numeric categories.
	Rules protoreflect.ProtoMessage
	// Type selects the template fragment.
	Type RuleType
	// WrapperType is the original category when this context was derived
	// by Unwrap, and RuleTypeNone otherwise.
	WrapperType RuleType
	// OnKey reports that this context validates a map key.
	OnKey bool
	// Index is the target-language expression for the element index or map
	// key currently being validated, or empty outside containers.
	Index string
	// AccessorOverride replaces the generated field accessor expression
	// when the value under validation is a bound variable rather than the
	// field itself.
	AccessorOverride string
}

// NewRuleContext classifies the field and its resolved rules into a
// renderable context.
//
// Rules whose type does not match the field's shape are rejected here,
// before any output is produced.
func NewRuleContext(field valsource.Field, fieldRules *validate.FieldRules) (RuleContext, error) {
	ruleType, err := RuleTypeForField(field)
	if err != nil {
		return RuleContext{}, err
	}
	if err := checkRuleShape(field, fieldRules, ruleType); err != nil {
		return RuleContext{}, err
	}
	return RuleContext{
		Field:      field,
		ErrorField: field,
		FieldRules: fieldRules,
		Rules:      specificRules(fieldRules),
		Type:       noneIfUnconstrained(ruleType, fieldRules),
	}, nil
}

// noneIfUnconstrained collapses scalar categories to RuleTypeNone when no
// constraint can fire: no rules at all, or ignore always. Structural and
// message categories keep their shape since they may still need to recurse.
func noneIfUnconstrained(ruleType RuleType, fieldRules *validate.FieldRules) RuleType {
	if fieldRules != nil {
		if fieldRules.GetIgnore() == validate.Ignore_IGNORE_ALWAYS {
			return RuleTypeNone
		}
		return ruleType
	}
	switch ruleType {
	case RuleTypeFloat, RuleTypeDouble,
		RuleTypeInt32, RuleTypeInt64, RuleTypeUint32, RuleTypeUint64,
		RuleTypeSint32, RuleTypeSint64,
		RuleTypeFixed32, RuleTypeFixed64, RuleTypeSfixed32, RuleTypeSfixed64,
		RuleTypeBool, RuleTypeString, RuleTypeBytes, RuleTypeEnum:
		return RuleTypeNone
	default:
		return ruleType
	}
}

// Elem derives the context for one element of a repeated field.
//
// The element re-dispatches on the field's element shape and carries the
// item rules, the loop variable accessor, and the index expression.
func (c RuleContext) Elem(accessor string, index string) (RuleContext, error) {
	if c.Type != RuleTypeRepeated {
		return RuleContext{}, syserror.Newf("cannot derive an element context from a %s context", c.Type)
	}
	elemType, err := ruleTypeForElement(c.Field)
	if err != nil {
		return RuleContext{}, err
	}
	var elemFieldRules *validate.FieldRules
	if repeatedRules := c.FieldRules.GetRepeated(); repeatedRules != nil {
		elemFieldRules = repeatedRules.GetItems()
	}
	if err := checkElementRuleShape(c.Field, elemFieldRules, elemType); err != nil {
		return RuleContext{}, err
	}
	return RuleContext{
		Field:            c.Field,
		ErrorField:       c.ErrorField,
		FieldRules:       elemFieldRules,
		Rules:            specificRules(elemFieldRules),
		Type:             noneIfUnconstrained(elemType, elemFieldRules),
		Index:            index,
		AccessorOverride: accessor,
	}, nil
}

// Key derives the context for the key of a map field.
func (c RuleContext) Key(accessor string, index string) (RuleContext, error) {
	if c.Type != RuleTypeMap {
		return RuleContext{}, syserror.Newf("cannot derive a key context from a %s context", c.Type)
	}
	keyField := c.Field.MapKey()
	var keyFieldRules *validate.FieldRules
	if mapRules := c.FieldRules.GetMap(); mapRules != nil {
		keyFieldRules = mapRules.GetKeys()
	}
	keyContext, err := NewRuleContext(keyField, keyFieldRules)
	if err != nil {
		return RuleContext{}, err
	}
	keyContext.ErrorField = c.ErrorField
	keyContext.OnKey = true
	keyContext.Index = index
	keyContext.AccessorOverride = accessor
	return keyContext, nil
}

// Value derives the context for the value of a map field.
func (c RuleContext) Value(accessor string, index string) (RuleContext, error) {
	if c.Type != RuleTypeMap {
		return RuleContext{}, syserror.Newf("cannot derive a value context from a %s context", c.Type)
	}
	valueField := c.Field.MapValue()
	var valueFieldRules *validate.FieldRules
	if mapRules := c.FieldRules.GetMap(); mapRules != nil {
		valueFieldRules = mapRules.GetValues()
	}
	valueContext, err := NewRuleContext(valueField, valueFieldRules)
	if err != nil {
		return RuleContext{}, err
	}
	valueContext.ErrorField = c.ErrorField
	valueContext.Index = index
	valueContext.AccessorOverride = accessor
	return valueContext, nil
}

// Unwrap derives the inner scalar context for a well-known wrapper field.
//
// The rules attached to a wrapper field are already the inner scalar's
// rules, so only the category and the accessor change. The original
// wrapper category is preserved in WrapperType.
func (c RuleContext) Unwrap(accessor string) (RuleContext, error) {
	if c.Type != RuleTypeWrapper {
		return RuleContext{}, syserror.Newf("cannot unwrap a %s context", c.Type)
	}
	innerType, err := wrapperInnerRuleType(c.Field)
	if err != nil {
		return RuleContext{}, err
	}
	inner := c
	inner.Type = innerType
	inner.WrapperType = RuleTypeWrapper
	inner.AccessorOverride = accessor
	return inner, nil
}

// checkElementRuleShape validates item rules against the element shape of
// a repeated field. The structural check in checkRuleShape compares
// against the declared field, which for items would wrongly expect
// repeated rules again.
func checkElementRuleShape(field valsource.Field, fieldRules *validate.FieldRules, elemType RuleType) error {
	if fieldRules == nil {
		return nil
	}
	whichOneof := fieldRules.ProtoReflect().WhichOneof(fieldRulesOneofDescriptor)
	if whichOneof == nil {
		return nil
	}
	setName := string(whichOneof.Name())
	expectedName, ok := expectedRuleName(field, elemType)
	if !ok || setName != expectedName {
		return &ShapeError{
			FieldName:   field.Name(),
			MessageName: field.ParentMessage().FullName(),
			RuleName:    setName,
		}
	}
	return nil
}
