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
	"sort"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valtarget"
)

// UnsupportedRuleError reports a populated constraint that no fragment
// renders. Generation aborts instead of emitting a validator that silently
// accepts values the constraint was written to reject.
type UnsupportedRuleError struct {
	FieldName   string
	MessageName string
	RuleName    string
}

// Error implements error.
func (e *UnsupportedRuleError) Error() string {
	return "field " + e.FieldName + " of message " + e.MessageName +
		": " + e.RuleName + " rules are not implemented for this target"
}

var numericRuleFields = map[string]bool{
	"const":  true,
	"lt":     true,
	"lte":    true,
	"gt":     true,
	"gte":    true,
	"in":     true,
	"not_in": true,
}

// supportedRuleFields names, per rules message, the fields the fragments
// consume. Anything populated outside its set aborts generation. Note that
// FloatRules/DoubleRules finite and the StringRules ipv4/ipv6/uri/tuuid
// and prefix-length families are deliberately absent.
var supportedRuleFields = map[protoreflect.FullName]map[string]bool{
	"buf.validate.FloatRules":    numericRuleFields,
	"buf.validate.DoubleRules":   numericRuleFields,
	"buf.validate.Int32Rules":    numericRuleFields,
	"buf.validate.Int64Rules":    numericRuleFields,
	"buf.validate.UInt32Rules":   numericRuleFields,
	"buf.validate.UInt64Rules":   numericRuleFields,
	"buf.validate.SInt32Rules":   numericRuleFields,
	"buf.validate.SInt64Rules":   numericRuleFields,
	"buf.validate.Fixed32Rules":  numericRuleFields,
	"buf.validate.Fixed64Rules":  numericRuleFields,
	"buf.validate.SFixed32Rules": numericRuleFields,
	"buf.validate.SFixed64Rules": numericRuleFields,
	"buf.validate.BoolRules": {
		"const": true,
	},
	"buf.validate.StringRules": {
		"const":        true,
		"len":          true,
		"min_len":      true,
		"max_len":      true,
		"pattern":      true,
		"prefix":       true,
		"suffix":       true,
		"contains":     true,
		"not_contains": true,
		"in":           true,
		"not_in":       true,
		"email":        true,
		"hostname":     true,
		"ip":           true,
		"address":      true,
		"uuid":         true,
	},
	"buf.validate.BytesRules": {
		"const":    true,
		"len":      true,
		"min_len":  true,
		"max_len":  true,
		"prefix":   true,
		"suffix":   true,
		"contains": true,
		"in":       true,
		"not_in":   true,
	},
	"buf.validate.EnumRules": {
		"const":        true,
		"defined_only": true,
		"in":           true,
		"not_in":       true,
	},
	"buf.validate.RepeatedRules": {
		"min_items": true,
		"max_items": true,
		"unique":    true,
		"items":     true,
	},
	"buf.validate.MapRules": {
		"min_pairs": true,
		"max_pairs": true,
		"keys":      true,
		"values":    true,
	},
	"buf.validate.AnyRules": {
		"in":     true,
		"not_in": true,
	},
	"buf.validate.DurationRules": numericRuleFields,
	"buf.validate.TimestampRules": {
		"const":  true,
		"lt":     true,
		"lte":    true,
		"gt":     true,
		"gte":    true,
		"lt_now": true,
		"gt_now": true,
		"within": true,
	},
}

// checkMessageSupported verifies that every constraint populated on the
// message's fields has a fragment that renders it.
func checkMessageSupported(message valtarget.Message) error {
	for _, ruleContext := range message.Fields {
		if err := checkRuleContextSupported(ruleContext); err != nil {
			return err
		}
	}
	for _, messageOneof := range message.Oneofs {
		for _, ruleContext := range messageOneof.Fields {
			if err := checkRuleContextSupported(ruleContext); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRuleContextSupported(ruleContext valrule.RuleContext) error {
	if ruleContext.Type == valrule.RuleTypeNone {
		// Either no rules at all, or ignore always; nothing renders and
		// nothing is silently dropped.
		return nil
	}
	if fieldRules := ruleContext.FieldRules; fieldRules != nil {
		if len(fieldRules.GetCel()) > 0 {
			return newUnsupportedRuleError(ruleContext, "cel")
		}
		if fieldRules.GetRequired() && !requiredSupported(ruleContext.Type) {
			return newUnsupportedRuleError(ruleContext, "required")
		}
	}
	if err := checkRulesSupported(ruleContext); err != nil {
		return err
	}
	switch ruleContext.Type {
	case valrule.RuleTypeRepeated:
		elemContext, err := ruleContext.Elem("item", "i")
		if err != nil {
			return err
		}
		return checkRuleContextSupported(elemContext)
	case valrule.RuleTypeMap:
		keyContext, err := ruleContext.Key("key", "key")
		if err != nil {
			return err
		}
		if err := checkRuleContextSupported(keyContext); err != nil {
			return err
		}
		valueContext, err := ruleContext.Value("val", "key")
		if err != nil {
			return err
		}
		return checkRuleContextSupported(valueContext)
	default:
		return nil
	}
}

func checkRulesSupported(ruleContext valrule.RuleContext) error {
	rules := ruleContext.Rules
	if rules == nil {
		return nil
	}
	reflectMessage := rules.ProtoReflect()
	supported := supportedRuleFields[reflectMessage.Descriptor().FullName()]
	var unsupported []string
	reflectMessage.Range(func(fieldDescriptor protoreflect.FieldDescriptor, _ protoreflect.Value) bool {
		name := string(fieldDescriptor.Name())
		if name == "example" {
			// Non-validating documentation field.
			return true
		}
		if !supported[name] {
			unsupported = append(unsupported, name)
		}
		return true
	})
	if len(unsupported) == 0 {
		return nil
	}
	sort.Strings(unsupported)
	return newUnsupportedRuleError(ruleContext, strings.Join(unsupported, ", "))
}

// requiredSupported reports whether the fragment for the category emits a
// presence check. Scalar categories have no has accessor to probe.
func requiredSupported(ruleType valrule.RuleType) bool {
	switch ruleType {
	case valrule.RuleTypeMessage,
		valrule.RuleTypeAny,
		valrule.RuleTypeDuration,
		valrule.RuleTypeTimestamp,
		valrule.RuleTypeWrapper:
		return true
	default:
		return false
	}
}

func newUnsupportedRuleError(ruleContext valrule.RuleContext, ruleName string) error {
	return &UnsupportedRuleError{
		FieldName:   ruleContext.ErrorField.Name(),
		MessageName: ruleContext.ErrorField.ParentMessage().FullName(),
		RuleName:    ruleName,
	}
}
