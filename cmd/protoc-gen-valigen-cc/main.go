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

// Package main implements the protoc-gen-valigen-cc plugin: for every
// schema file it is asked to generate, it emits a C++ translation unit
// and header with one validation routine per message, driven by
// buf.validate constraint options on the schema's fields.
package main

import (
	"github.com/bufbuild/protoplugin"

	"github.com/valigen/valigen/private/valigen"
)

func main() {
	protoplugin.Main(
		protoplugin.HandlerFunc(valigen.Handle),
		protoplugin.WithVersion(valigen.Version),
	)
}
