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

type oneof struct {
	oneofDescriptor protoreflect.OneofDescriptor

	message *message
	fields  []Field
}

func newOneof(oneofDescriptor protoreflect.OneofDescriptor, message *message) *oneof {
	return &oneof{
		oneofDescriptor: oneofDescriptor,
		message:         message,
	}
}

func (o *oneof) File() File {
	return o.message.file
}

func (o *oneof) Name() string {
	return string(o.oneofDescriptor.Name())
}

func (o *oneof) Message() Message {
	return o.message
}

func (o *oneof) Fields() []Field {
	return o.fields
}

func (o *oneof) Descriptor() protoreflect.OneofDescriptor {
	return o.oneofDescriptor
}

func (o *oneof) addField(field Field) {
	o.fields = append(o.fields, field)
}
