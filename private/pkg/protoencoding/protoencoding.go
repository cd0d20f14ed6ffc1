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

// Package protoencoding provides extension-aware descriptor resolution.
//
// A CodeGeneratorRequest carries FileDescriptorProtos whose options were
// serialized by a compiler that may not have had the constraint extensions
// linked in; the extension values then arrive as unknown fields. A Resolver
// built over the request's own files (plus anything in the global registry)
// lets us reparse those options into typed values.
package protoencoding

import (
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Resolver can resolve files, messages, enums, and extensions.
type Resolver interface {
	protodesc.Resolver
	protoregistry.ExtensionTypeResolver
	protoregistry.MessageTypeResolver
	FindEnumByName(enum protoreflect.FullName) (protoreflect.EnumType, error)
}

// NewResolver creates a new Resolver.
//
// The given FileDescriptorProtos must be self-contained, that is they must
// contain all of their imports. This is guaranteed for CodeGeneratorRequests,
// which always include the transitive closure.
func NewResolver(fileDescriptorProtos ...*descriptorpb.FileDescriptorProto) (Resolver, error) {
	return newResolver(fileDescriptorProtos...)
}

// NewLazyResolver creates a new Resolver that is constructed from the given
// descriptors only as needed, if invoked.
//
// If there is an error when constructing the resolver, it will be returned by
// all method calls of the returned resolver.
func NewLazyResolver(fileDescriptorProtos ...*descriptorpb.FileDescriptorProto) Resolver {
	return &lazyResolver{fn: func() (Resolver, error) {
		return newResolver(fileDescriptorProtos...)
	}}
}

// CombineResolvers returns a resolver that uses all of the given resolvers.
//
// It will use the first resolver, and if it returns an error, the second will
// be tried, and so on.
func CombineResolvers(resolvers ...Resolver) Resolver {
	return combinedResolver(resolvers)
}
