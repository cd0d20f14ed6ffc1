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
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

type message struct {
	messageDescriptor protoreflect.MessageDescriptor

	file   *file
	parent *message

	fields   []Field
	oneofs   []Oneof
	messages []Message
	enums    []Enum
}

func newMessage(b *builder, messageDescriptor protoreflect.MessageDescriptor) (*message, error) {
	m := &message{messageDescriptor: messageDescriptor}
	// Register before resolving fields so that recursive references
	// terminate.
	b.messages[messageDescriptor.FullName()] = m
	f, err := b.fileFor(messageDescriptor.ParentFile())
	if err != nil {
		return nil, err
	}
	m.file = f
	if parentDescriptor, ok := messageDescriptor.Parent().(protoreflect.MessageDescriptor); ok {
		parent, err := b.messageFor(parentDescriptor)
		if err != nil {
			return nil, err
		}
		m.parent = parent
	}
	oneofDescriptors := messageDescriptor.Oneofs()
	oneofByIndex := make(map[int]*oneof)
	for i := 0; i < oneofDescriptors.Len(); i++ {
		oneofDescriptor := oneofDescriptors.Get(i)
		if oneofDescriptor.IsSynthetic() {
			continue
		}
		o := newOneof(oneofDescriptor, m)
		oneofByIndex[oneofDescriptor.Index()] = o
		m.oneofs = append(m.oneofs, o)
	}
	fieldDescriptors := messageDescriptor.Fields()
	for i := 0; i < fieldDescriptors.Len(); i++ {
		fieldDescriptor := fieldDescriptors.Get(i)
		var fieldOneof *oneof
		if oneofDescriptor := fieldDescriptor.ContainingOneof(); oneofDescriptor != nil && !oneofDescriptor.IsSynthetic() {
			fieldOneof = oneofByIndex[oneofDescriptor.Index()]
		}
		field, err := newField(b, fieldDescriptor, m, fieldOneof)
		if err != nil {
			return nil, err
		}
		m.fields = append(m.fields, field)
		if fieldOneof != nil {
			fieldOneof.addField(field)
		}
	}
	nestedDescriptors := messageDescriptor.Messages()
	for i := 0; i < nestedDescriptors.Len(); i++ {
		nestedDescriptor := nestedDescriptors.Get(i)
		nested, err := b.messageFor(nestedDescriptor)
		if err != nil {
			return nil, err
		}
		if nestedDescriptor.IsMapEntry() {
			continue
		}
		m.messages = append(m.messages, nested)
	}
	enumDescriptors := messageDescriptor.Enums()
	for i := 0; i < enumDescriptors.Len(); i++ {
		e, err := b.enumFor(enumDescriptors.Get(i))
		if err != nil {
			return nil, err
		}
		m.enums = append(m.enums, e)
	}
	return m, nil
}

func (m *message) File() File {
	return m.file
}

func (m *message) FullName() string {
	return string(m.messageDescriptor.FullName())
}

func (m *message) NestedName() string {
	return nestedName(m.messageDescriptor)
}

func (m *message) Name() string {
	return string(m.messageDescriptor.Name())
}

func (m *message) Parent() Message {
	if m.parent == nil {
		return nil
	}
	return m.parent
}

func (m *message) Fields() []Field {
	return m.fields
}

func (m *message) Oneofs() []Oneof {
	return m.oneofs
}

func (m *message) Messages() []Message {
	return m.messages
}

func (m *message) Enums() []Enum {
	return m.enums
}

func (m *message) IsMapEntry() bool {
	return m.messageDescriptor.IsMapEntry()
}

func (m *message) Descriptor() protoreflect.MessageDescriptor {
	return m.messageDescriptor
}

func nestedName(descriptor protoreflect.Descriptor) string {
	fullName := string(descriptor.FullName())
	if packageName := string(descriptor.ParentFile().Package()); packageName != "" {
		return strings.TrimPrefix(fullName, packageName+".")
	}
	return fullName
}
