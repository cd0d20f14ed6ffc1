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

type file struct {
	fileDescriptor protoreflect.FileDescriptor

	messages []Message
	enums    []Enum
}

func newFile(fileDescriptor protoreflect.FileDescriptor) (*file, error) {
	return newBuilder().fileFor(fileDescriptor)
}

func (f *file) Path() string {
	return f.fileDescriptor.Path()
}

func (f *file) Package() string {
	return string(f.fileDescriptor.Package())
}

func (f *file) Messages() []Message {
	return f.messages
}

func (f *file) Enums() []Enum {
	return f.enums
}

func (f *file) FileDescriptor() protoreflect.FileDescriptor {
	return f.fileDescriptor
}

// builder interns wrappers so that cyclic and cross-file references resolve
// to the same value. Wrappers register themselves before resolving their own
// references, which is what breaks recursion for self-referential messages.
type builder struct {
	files    map[string]*file
	messages map[protoreflect.FullName]*message
	enums    map[protoreflect.FullName]*enum
}

func newBuilder() *builder {
	return &builder{
		files:    make(map[string]*file),
		messages: make(map[protoreflect.FullName]*message),
		enums:    make(map[protoreflect.FullName]*enum),
	}
}

func (b *builder) fileFor(fileDescriptor protoreflect.FileDescriptor) (*file, error) {
	if existing, ok := b.files[fileDescriptor.Path()]; ok {
		return existing, nil
	}
	f := &file{fileDescriptor: fileDescriptor}
	b.files[fileDescriptor.Path()] = f
	messageDescriptors := fileDescriptor.Messages()
	for i := 0; i < messageDescriptors.Len(); i++ {
		m, err := b.messageFor(messageDescriptors.Get(i))
		if err != nil {
			return nil, err
		}
		f.messages = append(f.messages, m)
	}
	enumDescriptors := fileDescriptor.Enums()
	for i := 0; i < enumDescriptors.Len(); i++ {
		e, err := b.enumFor(enumDescriptors.Get(i))
		if err != nil {
			return nil, err
		}
		f.enums = append(f.enums, e)
	}
	return f, nil
}

func (b *builder) messageFor(messageDescriptor protoreflect.MessageDescriptor) (*message, error) {
	if existing, ok := b.messages[messageDescriptor.FullName()]; ok {
		return existing, nil
	}
	return newMessage(b, messageDescriptor)
}

func (b *builder) enumFor(enumDescriptor protoreflect.EnumDescriptor) (*enum, error) {
	if existing, ok := b.enums[enumDescriptor.FullName()]; ok {
		return existing, nil
	}
	return newEnum(b, enumDescriptor)
}
