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

// Package valtesting compiles in-memory .proto sources for tests.
package valtesting

import (
	"context"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	// Registers buf/validate/validate.proto so test schemas can import it.
	_ "buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"

	"github.com/valigen/valigen/private/valigen/valsource"
)

// Compile compiles the given path-to-source map and returns the descriptors
// for the requested paths, in order.
//
// Imports resolve against the map first, then the standard imports, then
// anything linked into the test binary (notably buf/validate/validate.proto).
func Compile(t *testing.T, fileContents map[string]string, paths ...string) []protoreflect.FileDescriptor {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(
			protocompile.CompositeResolver{
				&protocompile.SourceResolver{
					Accessor: protocompile.SourceAccessorFromMap(fileContents),
				},
				protocompile.ResolverFunc(func(path string) (protocompile.SearchResult, error) {
					fileDescriptor, err := protoregistry.GlobalFiles.FindFileByPath(path)
					if err != nil {
						return protocompile.SearchResult{}, err
					}
					return protocompile.SearchResult{Desc: fileDescriptor}, nil
				}),
			},
		),
	}
	compiledFiles, err := compiler.Compile(context.Background(), paths...)
	require.NoError(t, err)
	fileDescriptors := make([]protoreflect.FileDescriptor, len(compiledFiles))
	for i, compiledFile := range compiledFiles {
		fileDescriptors[i] = compiledFile
	}
	return fileDescriptors
}

// CompileFiles is Compile followed by wrapping in valsource.
func CompileFiles(t *testing.T, fileContents map[string]string, paths ...string) []valsource.File {
	t.Helper()
	fileDescriptors := Compile(t, fileContents, paths...)
	files, err := valsource.NewFiles(fileDescriptors...)
	require.NoError(t, err)
	return files
}

// RequireField returns the named field of the named message.
func RequireField(t *testing.T, file valsource.File, messageName string, fieldName string) valsource.Field {
	t.Helper()
	message := RequireMessage(t, file, messageName)
	for _, field := range message.Fields() {
		if field.Name() == fieldName {
			return field
		}
	}
	t.Fatalf("message %s has no field %s", messageName, fieldName)
	return nil
}

// RequireMessage returns the named top-level or nested message.
func RequireMessage(t *testing.T, file valsource.File, messageName string) valsource.Message {
	t.Helper()
	var find func(messages []valsource.Message) valsource.Message
	find = func(messages []valsource.Message) valsource.Message {
		for _, message := range messages {
			if message.Name() == messageName || message.NestedName() == messageName {
				return message
			}
			if found := find(message.Messages()); found != nil {
				return found
			}
		}
		return nil
	}
	if message := find(file.Messages()); message != nil {
		return message
	}
	t.Fatalf("file %s has no message %s", file.Path(), messageName)
	return nil
}
