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

// Package stringutil implements the string transforms the generator needs
// when mapping schema identifiers into target-language identifiers.
package stringutil

import (
	"strings"
	"unicode"
)

// ToUpperSnakeCase transforms s to UPPER_SNAKE_CASE.
//
// Splits on '.', '-', '_', '/' and whitespace, and on lower-to-upper
// transitions. Used for C++ header include guards.
func ToUpperSnakeCase(s string) string {
	return strings.ToUpper(toSnakeCase(s))
}

// ToLowerSnakeCase transforms s to lower_snake_case.
func ToLowerSnakeCase(s string) string {
	return strings.ToLower(toSnakeCase(s))
}

// ToPascalCase converts s to PascalCase.
//
// Splits on '-', '_' and whitespace. Uppercase letters stay uppercase.
func ToPascalCase(s string) string {
	var builder strings.Builder
	var previous rune
	for i, c := range strings.TrimSpace(s) {
		if !isDelimiter(c) {
			if i == 0 || isDelimiter(previous) || unicode.IsUpper(c) {
				builder.WriteRune(unicode.ToUpper(c))
			} else {
				builder.WriteRune(unicode.ToLower(c))
			}
		}
		previous = c
	}
	return builder.String()
}

// JoinSliceQuoted joins the slice with quotes.
func JoinSliceQuoted(s []string, sep string) string {
	if len(s) == 0 {
		return ""
	}
	return `"` + strings.Join(s, `"`+sep+`"`) + `"`
}

// SliceToHumanString prints the slice as "e1, e2, and e3".
func SliceToHumanString(s []string) string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return s[0]
	case 2:
		return s[0] + " and " + s[1]
	default:
		return strings.Join(s[:len(s)-1], ", ") + ", and " + s[len(s)-1]
	}
}

func toSnakeCase(s string) string {
	var builder strings.Builder
	s = strings.TrimFunc(s, isDelimiter)
	for i, c := range s {
		if isDelimiter(c) || c == '/' {
			c = '_'
		}
		switch {
		case i == 0:
			builder.WriteRune(c)
		case unicode.IsUpper(c) && builder.Len() > 0 &&
			builder.String()[builder.Len()-1] != '_' &&
			unicode.IsLower(rune(s[i-1])):
			builder.WriteString("_")
			builder.WriteRune(c)
		case c == '_' && builder.String()[builder.Len()-1] == '_':
			// collapse runs of delimiters
		default:
			builder.WriteRune(c)
		}
	}
	return builder.String()
}

func isDelimiter(r rune) bool {
	return r == '.' || r == '-' || r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
