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

type enum struct {
	enumDescriptor protoreflect.EnumDescriptor

	file   *file
	values []EnumValue
}

func newEnum(b *builder, enumDescriptor protoreflect.EnumDescriptor) (*enum, error) {
	e := &enum{enumDescriptor: enumDescriptor}
	b.enums[enumDescriptor.FullName()] = e
	f, err := b.fileFor(enumDescriptor.ParentFile())
	if err != nil {
		return nil, err
	}
	e.file = f
	valueDescriptors := enumDescriptor.Values()
	for i := 0; i < valueDescriptors.Len(); i++ {
		e.values = append(e.values, newEnumValue(valueDescriptors.Get(i), e))
	}
	return e, nil
}

func (e *enum) File() File {
	return e.file
}

func (e *enum) FullName() string {
	return string(e.enumDescriptor.FullName())
}

func (e *enum) NestedName() string {
	return nestedName(e.enumDescriptor)
}

func (e *enum) Name() string {
	return string(e.enumDescriptor.Name())
}

func (e *enum) Values() []EnumValue {
	return e.values
}

func (e *enum) Descriptor() protoreflect.EnumDescriptor {
	return e.enumDescriptor
}

type enumValue struct {
	enumValueDescriptor protoreflect.EnumValueDescriptor

	enum *enum
}

func newEnumValue(enumValueDescriptor protoreflect.EnumValueDescriptor, enum *enum) *enumValue {
	return &enumValue{
		enumValueDescriptor: enumValueDescriptor,
		enum:                enum,
	}
}

func (v *enumValue) Name() string {
	return string(v.enumValueDescriptor.Name())
}

func (v *enumValue) Number() int32 {
	return int32(v.enumValueDescriptor.Number())
}

func (v *enumValue) Enum() Enum {
	return v.enum
}
