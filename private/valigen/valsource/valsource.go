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

// Package valsource defines minimal interfaces over Protobuf descriptors.
//
// This is done so that the generator proper never touches the backing
// descriptor library directly: everything it needs to know about a field
// (protocol type, cardinality, map shapes, oneof membership, owning message)
// is answered here, and unknown descriptor shapes fail loudly instead of
// leaking into emitted code.
//
// All values are immutable once constructed and live for the duration of a
// single generator invocation.
package valsource

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/valigen/valigen/private/pkg/syserror"
)

const (
	// TypeDouble is the double protocol type.
	TypeDouble Type = iota + 1
	// TypeFloat is the float protocol type.
	TypeFloat
	// TypeInt64 is the int64 protocol type.
	TypeInt64
	// TypeUint64 is the uint64 protocol type.
	TypeUint64
	// TypeInt32 is the int32 protocol type.
	TypeInt32
	// TypeFixed64 is the fixed64 protocol type.
	TypeFixed64
	// TypeFixed32 is the fixed32 protocol type.
	TypeFixed32
	// TypeBool is the bool protocol type.
	TypeBool
	// TypeString is the string protocol type.
	TypeString
	// TypeGroup is the group protocol type.
	TypeGroup
	// TypeMessage is the message protocol type.
	TypeMessage
	// TypeBytes is the bytes protocol type.
	TypeBytes
	// TypeUint32 is the uint32 protocol type.
	TypeUint32
	// TypeEnum is the enum protocol type.
	TypeEnum
	// TypeSfixed32 is the sfixed32 protocol type.
	TypeSfixed32
	// TypeSfixed64 is the sfixed64 protocol type.
	TypeSfixed64
	// TypeSint32 is the sint32 protocol type.
	TypeSint32
	// TypeSint64 is the sint64 protocol type.
	TypeSint64
)

// Type is a protocol field type.
type Type int

// String implements fmt.Stringer.
//
// The string form doubles as the numeric fragment name in targets, so it
// must match the .proto keyword exactly.
func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeFloat:
		return "float"
	case TypeInt64:
		return "int64"
	case TypeUint64:
		return "uint64"
	case TypeInt32:
		return "int32"
	case TypeFixed64:
		return "fixed64"
	case TypeFixed32:
		return "fixed32"
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeGroup:
		return "group"
	case TypeMessage:
		return "message"
	case TypeBytes:
		return "bytes"
	case TypeUint32:
		return "uint32"
	case TypeEnum:
		return "enum"
	case TypeSfixed32:
		return "sfixed32"
	case TypeSfixed64:
		return "sfixed64"
	case TypeSint32:
		return "sint32"
	case TypeSint64:
		return "sint64"
	default:
		return "unknown"
	}
}

// IsNumeric returns true if the type is one of the twelve numeric kinds.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeDouble, TypeFloat,
		TypeInt32, TypeInt64, TypeUint32, TypeUint64,
		TypeSint32, TypeSint64,
		TypeFixed32, TypeFixed64, TypeSfixed32, TypeSfixed64:
		return true
	default:
		return false
	}
}

// Descriptor is the base interface for a descriptor type.
type Descriptor interface {
	// File returns the associated File.
	//
	// Always non-nil.
	File() File
}

// NamedDescriptor is the base interface for a named descriptor type.
type NamedDescriptor interface {
	Descriptor

	// FullName returns the fully-qualified dotted name,
	// i.e. some.pkg.Outer.Inner.
	FullName() string
	// NestedName returns the full nested name without the package,
	// i.e. Outer.Inner.
	NestedName() string
	// Name returns the short name, i.e. Inner.
	Name() string
}

// File is a single schema file.
type File interface {
	// Path is the path of the file as given to the compiler,
	// i.e. foo/bar.proto.
	Path() string
	// Package is the proto package, i.e. foo.bar. May be empty.
	Package() string
	// Messages returns the top-level messages in declaration order.
	Messages() []Message
	// Enums returns the top-level enums in declaration order.
	Enums() []Enum

	// FileDescriptor returns the backing descriptor.
	FileDescriptor() protoreflect.FileDescriptor
}

// Message is a message definition.
type Message interface {
	NamedDescriptor

	// Parent returns the enclosing message for nested messages.
	Parent() Message
	// Fields returns the message's fields in declaration order,
	// including fields that belong to oneofs.
	Fields() []Field
	// Oneofs returns the real (non-synthetic) oneofs in declaration order.
	Oneofs() []Oneof
	// Messages returns nested messages in declaration order,
	// excluding synthesized map entries.
	Messages() []Message
	// Enums returns nested enums in declaration order.
	Enums() []Enum
	// IsMapEntry returns true for synthesized map entry messages.
	IsMapEntry() bool

	// Descriptor returns the backing descriptor.
	Descriptor() protoreflect.MessageDescriptor
}

// Field is a single field of a message.
type Field interface {
	Descriptor

	// Name returns the declared schema name, i.e. my_field.
	Name() string
	// FullName returns the fully-qualified dotted name of the field.
	FullName() string
	// Number returns the wire number.
	Number() int32
	// ParentMessage returns the owning message.
	//
	// For map entry key/value fields this is the synthesized entry message.
	ParentMessage() Message
	// Type returns the protocol type.
	Type() Type
	// IsRepeated returns true for repeated fields. False for maps.
	IsRepeated() bool
	// IsMap returns true for map fields.
	IsMap() bool
	// MapKey returns the key field shape of a map field, or nil.
	MapKey() Field
	// MapValue returns the value field shape of a map field, or nil.
	MapValue() Field
	// Embed returns the message type for message-typed fields, or nil.
	//
	// For repeated message fields this is the element message. For map
	// fields this is nil; use MapValue().Embed().
	Embed() Message
	// Enum returns the enum type for enum-typed fields, or nil.
	//
	// For repeated enum fields this is the element enum.
	Enum() Enum
	// Oneof returns the containing oneof, or nil.
	//
	// Synthetic proto3 optional oneofs are not reported here.
	Oneof() Oneof
	// HasPresence returns true if the field tracks explicit presence
	// (proto2 optional, proto3 optional, oneof member, or singular message).
	HasPresence() bool

	// FieldDescriptor returns the backing descriptor.
	FieldDescriptor() protoreflect.FieldDescriptor
}

// Oneof is a oneof definition.
type Oneof interface {
	Descriptor

	// Name returns the declared oneof name.
	Name() string
	// Message returns the owning message.
	Message() Message
	// Fields returns the member fields in declaration order.
	Fields() []Field

	// Descriptor returns the backing descriptor.
	Descriptor() protoreflect.OneofDescriptor
}

// Enum is an enum definition.
type Enum interface {
	NamedDescriptor

	// Values returns the enum values in declaration order.
	Values() []EnumValue

	// Descriptor returns the backing descriptor.
	Descriptor() protoreflect.EnumDescriptor
}

// EnumValue is a single value of an enum.
type EnumValue interface {
	// Name returns the declared value name.
	Name() string
	// Number returns the declared value number.
	Number() int32
	// Enum returns the owning enum.
	Enum() Enum
}

// NewFile wraps the given descriptor.
//
// Returns an error for descriptor shapes the generator does not understand;
// this is fatal and the caller must not emit anything for the file.
func NewFile(fileDescriptor protoreflect.FileDescriptor) (File, error) {
	return newFile(fileDescriptor)
}

// NewFiles wraps all the given descriptors in order.
func NewFiles(fileDescriptors ...protoreflect.FileDescriptor) ([]File, error) {
	files := make([]File, len(fileDescriptors))
	for i, fileDescriptor := range fileDescriptors {
		file, err := newFile(fileDescriptor)
		if err != nil {
			return nil, err
		}
		files[i] = file
	}
	return files, nil
}

func typeForKind(kind protoreflect.Kind) (Type, error) {
	switch kind {
	case protoreflect.DoubleKind:
		return TypeDouble, nil
	case protoreflect.FloatKind:
		return TypeFloat, nil
	case protoreflect.Int64Kind:
		return TypeInt64, nil
	case protoreflect.Uint64Kind:
		return TypeUint64, nil
	case protoreflect.Int32Kind:
		return TypeInt32, nil
	case protoreflect.Fixed64Kind:
		return TypeFixed64, nil
	case protoreflect.Fixed32Kind:
		return TypeFixed32, nil
	case protoreflect.BoolKind:
		return TypeBool, nil
	case protoreflect.StringKind:
		return TypeString, nil
	case protoreflect.GroupKind:
		return TypeGroup, nil
	case protoreflect.MessageKind:
		return TypeMessage, nil
	case protoreflect.BytesKind:
		return TypeBytes, nil
	case protoreflect.Uint32Kind:
		return TypeUint32, nil
	case protoreflect.EnumKind:
		return TypeEnum, nil
	case protoreflect.Sfixed32Kind:
		return TypeSfixed32, nil
	case protoreflect.Sfixed64Kind:
		return TypeSfixed64, nil
	case protoreflect.Sint32Kind:
		return TypeSint32, nil
	case protoreflect.Sint64Kind:
		return TypeSint64, nil
	default:
		return 0, syserror.Newf("unknown protocol field kind: %v", kind)
	}
}
