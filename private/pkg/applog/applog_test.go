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

package applog

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGetZapLevel(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		levelString string
		expected    zapcore.Level
		expectError bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"", zapcore.InfoLevel, false},
		{"foobar", zapcore.InfoLevel, true},
	}
	for _, testCase := range testCases {
		actual, err := getZapLevel(testCase.levelString)
		if testCase.expectError {
			assert.Error(t, err, "level %q", testCase.levelString)
		} else {
			assert.NoError(t, err, "level %q", testCase.levelString)
		}
		assert.Equal(t, testCase.expected, actual, "level %q", testCase.levelString)
	}
}

func TestGetZapEncoder(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"text", "color", "json", "TEXT", "COLOR", "JSON"} {
		format := format
		t.Run(fmt.Sprintf("valid format %s", format), func(t *testing.T) {
			t.Parallel()
			encoder, err := getZapEncoder(format)
			assert.NoError(t, err)
			assert.NotNil(t, encoder)
		})
	}
	unknownFormat := "invalid"
	_, err := getZapEncoder(unknownFormat)
	assert.EqualError(t, err, fmt.Sprintf("unknown log format [text,color,json]: %q", unknownFormat))
}

func TestNewLoggerWrites(t *testing.T) {
	t.Parallel()
	buffer := bytes.NewBuffer(nil)
	logger, err := NewLogger(buffer, "debug", "text")
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())
	assert.Contains(t, buffer.String(), "hello")
}
