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

// Package valigen drives validation code generation: it resolves
// constraint options over a schema, builds per-file render models, and
// hands them to a target backend.
//
// Generation is a single-pass synchronous batch transform. A fatal
// condition anywhere (unknown field shape, misplaced constraint rules)
// aborts the whole run with no partial output; given the same input
// schema the emitted bytes are identical run to run.
package valigen

// Version is the plugin and CLI version.
const Version = "0.3.0-dev"
