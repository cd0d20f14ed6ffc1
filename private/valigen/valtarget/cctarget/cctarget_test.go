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

package cctarget_test

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valigen/valigen/private/valigen/valtarget/cctarget"
)

func TestNewTarget(t *testing.T) {
	t.Parallel()
	target, err := cctarget.NewTarget()
	require.NoError(t, err)
	assert.Equal(t, "cc", target.Name())
}

func TestRegisterModuleTwice(t *testing.T) {
	t.Parallel()
	tpl := template.New("cc")
	require.NoError(t, cctarget.RegisterModule(tpl))
	err := cctarget.RegisterModule(tpl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterHeaderTwice(t *testing.T) {
	t.Parallel()
	tpl := template.New("h")
	require.NoError(t, cctarget.RegisterHeader(tpl))
	err := cctarget.RegisterHeader(tpl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestOutputFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(
		t,
		"demo/v1/demo.pb.validate.cc",
		cctarget.OutputFileName("demo/v1/demo.proto", "cc"),
	)
	assert.Equal(
		t,
		"demo/v1/demo.pb.validate.h",
		cctarget.OutputFileName("demo/v1/demo.proto", "h"),
	)
}
