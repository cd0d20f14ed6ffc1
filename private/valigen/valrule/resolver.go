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
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/valigen/valigen/private/pkg/protoencoding"
	"github.com/valigen/valigen/private/pkg/syserror"
	"github.com/valigen/valigen/private/valigen/valsource"
)

// Resolver extracts constraint options from schema elements.
type Resolver interface {
	// FieldRules returns the constraint rules attached to the field, or
	// nil if the field carries none.
	FieldRules(field valsource.Field) (*validate.FieldRules, error)
	// MessageRules returns the message-level constraint options, or nil.
	MessageRules(message valsource.Message) (*validate.MessageRules, error)
	// OneofRules returns the oneof-level constraint options, or nil.
	OneofRules(oneof valsource.Oneof) (*validate.OneofRules, error)
}

// NewResolver returns a Resolver that reparses descriptor options against
// the given extension resolver before reading them.
//
// Descriptors arriving over the plugin protocol usually carry constraint
// options as unknown fields, since the compiler that produced them had no
// Go types for the extensions. Reparsing against a resolver that knows the
// constraint extensions makes them readable. The linked-in constraint
// types are always consulted as a fallback.
func NewResolver(extensionResolver protoencoding.Resolver) Resolver {
	return &resolver{
		extensionResolver: protoencoding.CombineResolvers(
			extensionResolver,
			protoencoding.GlobalResolver,
		),
	}
}

type resolver struct {
	extensionResolver protoencoding.Resolver
}

func (r *resolver) FieldRules(field valsource.Field) (*validate.FieldRules, error) {
	message, err := r.resolveExtension(field.FieldDescriptor().Options(), validate.E_Field)
	if err != nil || message == nil {
		return nil, err
	}
	fieldRules, ok := message.(*validate.FieldRules)
	if !ok {
		return nil, newUnexpectedExtensionTypeError(validate.E_Field, message)
	}
	return fieldRules, nil
}

func (r *resolver) MessageRules(message valsource.Message) (*validate.MessageRules, error) {
	extensionMessage, err := r.resolveExtension(message.Descriptor().Options(), validate.E_Message)
	if err != nil || extensionMessage == nil {
		return nil, err
	}
	messageRules, ok := extensionMessage.(*validate.MessageRules)
	if !ok {
		return nil, newUnexpectedExtensionTypeError(validate.E_Message, extensionMessage)
	}
	return messageRules, nil
}

func (r *resolver) OneofRules(oneof valsource.Oneof) (*validate.OneofRules, error) {
	extensionMessage, err := r.resolveExtension(oneof.Descriptor().Options(), validate.E_Oneof)
	if err != nil || extensionMessage == nil {
		return nil, err
	}
	oneofRules, ok := extensionMessage.(*validate.OneofRules)
	if !ok {
		return nil, newUnexpectedExtensionTypeError(validate.E_Oneof, extensionMessage)
	}
	return oneofRules, nil
}

// resolveExtension reparses a clone of the options against the extension
// resolver and returns the extension value, or nil if absent.
//
// The clone keeps the reparse from mutating descriptors shared with other
// readers.
func (r *resolver) resolveExtension(
	options proto.Message,
	extensionType protoreflect.ExtensionType,
) (proto.Message, error) {
	if options == nil || !options.ProtoReflect().IsValid() {
		return nil, nil
	}
	clone := proto.Clone(options)
	if err := protoencoding.ReparseExtensions(r.extensionResolver, clone.ProtoReflect()); err != nil {
		return nil, err
	}
	if !proto.HasExtension(clone, extensionType) {
		return nil, nil
	}
	value, ok := proto.GetExtension(clone, extensionType).(proto.Message)
	if !ok {
		return nil, newUnexpectedExtensionTypeError(extensionType, nil)
	}
	return value, nil
}

func newUnexpectedExtensionTypeError(extensionType protoreflect.ExtensionType, value proto.Message) error {
	return syserror.Newf(
		"extension %s resolved to unexpected type %T",
		extensionType.TypeDescriptor().FullName(),
		value,
	)
}
