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

// Package valtarget defines the contract between the generation driver and
// a target language backend.
//
// The driver resolves constraints and builds one File render model per input
// schema file; the backend turns a render model into emitted source text.
// Literal formatting, accessor syntax, and error-site synthesis all live
// behind the Target interface, one implementation per host language.
package valtarget

import (
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
)

// Target is a single host-language backend.
type Target interface {
	// Name identifies the target, i.e. "cc".
	Name() string
	// Generate renders all emitted files for one input schema file.
	//
	// Generation of a file is all-or-nothing: on error no files are
	// returned and nothing may be emitted for the input file.
	Generate(file File) ([]GeneratedFile, error)
}

// GeneratedFile is one emitted output file.
type GeneratedFile struct {
	// Name is the output path, derived from the input schema file path.
	Name string
	// Content is the full file content.
	Content string
}

// File is the render model for one input schema file.
type File struct {
	// File is the schema file.
	File valsource.File
	// Messages contains every message to render, in deterministic order:
	// declaration order with nested messages before their parent.
	Messages []Message
}

// Message is the render model for one message.
type Message struct {
	// Message is the schema message.
	Message valsource.Message
	// Fields holds one rule context per field outside of any oneof,
	// in declaration order.
	Fields []valrule.RuleContext
	// Oneofs holds the message's oneofs in declaration order.
	Oneofs []Oneof
}

// Oneof is the render model for one oneof.
type Oneof struct {
	// Oneof is the schema oneof.
	Oneof valsource.Oneof
	// Required reports that exactly one member must be set.
	Required bool
	// Fields holds one rule context per member field, in declaration order.
	Fields []valrule.RuleContext
}
