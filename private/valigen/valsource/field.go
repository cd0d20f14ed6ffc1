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

package valsource

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

type field struct {
	fieldDescriptor protoreflect.FieldDescriptor

	parentMessage *message
	fieldType     Type
	fieldOneof    *oneof
	mapKey        Field
	mapValue      Field
	embed         *message
	enum          *enum
}

func newField(
	b *builder,
	fieldDescriptor protoreflect.FieldDescriptor,
	parentMessage *message,
	fieldOneof *oneof,
) (*field, error) {
	fieldType, err := typeForKind(fieldDescriptor.Kind())
	if err != nil {
		return nil, err
	}
	f := &field{
		fieldDescriptor: fieldDescriptor,
		parentMessage:   parentMessage,
		fieldType:       fieldType,
		fieldOneof:      fieldOneof,
	}
	switch {
	case fieldDescriptor.IsMap():
		entry, err := b.messageFor(fieldDescriptor.Message())
		if err != nil {
			return nil, err
		}
		entryFields := entry.Fields()
		f.mapKey = entryFields[0]
		f.mapValue = entryFields[1]
	case fieldType == TypeMessage || fieldType == TypeGroup:
		embed, err := b.messageFor(fieldDescriptor.Message())
		if err != nil {
			return nil, err
		}
		f.embed = embed
	case fieldType == TypeEnum:
		enum, err := b.enumFor(fieldDescriptor.Enum())
		if err != nil {
			return nil, err
		}
		f.enum = enum
	}
	return f, nil
}

func (f *field) File() File {
	return f.parentMessage.file
}

func (f *field) Name() string {
	return string(f.fieldDescriptor.Name())
}

func (f *field) FullName() string {
	return string(f.fieldDescriptor.FullName())
}

func (f *field) Number() int32 {
	return int32(f.fieldDescriptor.Number())
}

func (f *field) ParentMessage() Message {
	return f.parentMessage
}

func (f *field) Type() Type {
	return f.fieldType
}

func (f *field) IsRepeated() bool {
	return f.fieldDescriptor.IsList()
}

func (f *field) IsMap() bool {
	return f.fieldDescriptor.IsMap()
}

func (f *field) MapKey() Field {
	return f.mapKey
}

func (f *field) MapValue() Field {
	return f.mapValue
}

func (f *field) Embed() Message {
	if f.embed == nil {
		return nil
	}
	return f.embed
}

func (f *field) Enum() Enum {
	if f.enum == nil {
		return nil
	}
	return f.enum
}

func (f *field) Oneof() Oneof {
	if f.fieldOneof == nil {
		return nil
	}
	return f.fieldOneof
}

func (f *field) HasPresence() bool {
	return f.fieldDescriptor.HasPresence()
}

func (f *field) FieldDescriptor() protoreflect.FieldDescriptor {
	return f.fieldDescriptor
}
