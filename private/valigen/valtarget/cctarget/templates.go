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

package cctarget

// The module namespace renders one .pb.validate.cc translation unit per
// input schema file; the header namespace renders the matching
// .pb.validate.h. Fragment templates are named after rule categories and
// selected through the render func, so the emitted shape of every field
// is decided by its RuleContext alone.

const moduleFileTpl = `// Generated by protoc-gen-valigen-cc. DO NOT EDIT.
// source: {{ .File.Path }}

#include "{{ output .File.Path ".validate.h" }}"

#include <algorithm>
#include <set>
#include <sstream>
#include <string>
#include <vector>

{{ range namespaces .File }}namespace {{ . }} {
{{ end }}
{{- range .Messages }}
{{ template "msg" . }}
{{ end }}
{{- range reverse (namespaces .File) }}}  // namespace {{ . }}
{{ end }}`

const msgTpl = `bool Validate(const {{ class .Message }}& m, std::string* err) {
  (void)m;
  (void)err;
{{- range .Fields }}
{{ render . }}
{{- end }}
{{- range .Oneofs }}
  switch (m.{{ .Oneof.Name }}_case()) {
{{- range .Fields }}
    case {{ oneof .Field }}: {
{{ render . }}
    } break;
{{- end }}
    default:
{{- if .Required }}
{{ errOneof .Oneof }}
{{- else }}
      break;
{{- end }}
  }
{{- end }}
  return true;
}`

const noneTpl = ``

const numTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if ({{ accessor . }} != {{ lit $v }})
{{ err . "value must equal " (lit $v) }}
{{- end }}
{{- if has $r "lt" }}{{ $v := rule $r "lt" }}
if (!({{ accessor . }} < {{ lit $v }}))
{{ err . "value must be less than " (lit $v) }}
{{- end }}
{{- if has $r "lte" }}{{ $v := rule $r "lte" }}
if (!({{ accessor . }} <= {{ lit $v }}))
{{ err . "value must be less than or equal to " (lit $v) }}
{{- end }}
{{- if has $r "gt" }}{{ $v := rule $r "gt" }}
if (!({{ accessor . }} > {{ lit $v }}))
{{ err . "value must be greater than " (lit $v) }}
{{- end }}
{{- if has $r "gte" }}{{ $v := rule $r "gte" }}
if (!({{ accessor . }} >= {{ lit $v }}))
{{ err . "value must be greater than or equal to " (lit $v) }}
{{- end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
{
static const std::set<{{ inType $f }}> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "In" }}.find({{ accessor . }}) == {{ lookup $f "In" }}.end())
{{ err . "value must be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
{
static const std::set<{{ inType $f }}> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "NotIn" }}.find({{ accessor . }}) != {{ lookup $f "NotIn" }}.end())
{{ err . "value must not be in list " (lit $vs) }}
}
{{- end }}`

const constTpl = `{{ $r := .Rules }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if ({{ accessor . }} != {{ lit $v }})
{{ err . "value must equal " (lit $v) }}
{{- end }}`

const strTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if ({{ accessor . }} != {{ lit $v }})
{{ err . "value must equal " (lit $v) }}
{{- end }}
{{- if has $r "len" }}{{ $v := rule $r "len" }}
if (valigen::Utf8Len({{ accessor . }}) != {{ $v }})
{{ err . "value length must be " $v " characters" }}
{{- end }}
{{- if has $r "min_len" }}{{ $v := rule $r "min_len" }}
if (valigen::Utf8Len({{ accessor . }}) < {{ $v }})
{{ err . "value length must be at least " $v " characters" }}
{{- end }}
{{- if has $r "max_len" }}{{ $v := rule $r "max_len" }}
if (valigen::Utf8Len({{ accessor . }}) > {{ $v }})
{{ err . "value length must be at most " $v " characters" }}
{{- end }}
{{- if has $r "pattern" }}{{ $v := rule $r "pattern" }}
{
static const re2::RE2 {{ lookup $f "Pattern" }}({{ lit $v }});
if (!re2::RE2::PartialMatch({{ accessor . }}, {{ lookup $f "Pattern" }}))
{{ err . "value does not match regex pattern " (lit $v) }}
}
{{- end }}
{{- if has $r "prefix" }}{{ $v := rule $r "prefix" }}
if (!valigen::StartsWith({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not have prefix " (lit $v) }}
{{- end }}
{{- if has $r "suffix" }}{{ $v := rule $r "suffix" }}
if (!valigen::EndsWith({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not have suffix " (lit $v) }}
{{- end }}
{{- if has $r "contains" }}{{ $v := rule $r "contains" }}
if (!valigen::Contains({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not contain substring " (lit $v) }}
{{- end }}
{{- if has $r "not_contains" }}{{ $v := rule $r "not_contains" }}
if (valigen::Contains({{ accessor . }}, {{ lit $v }}))
{{ err . "value contains substring " (lit $v) }}
{{- end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
{
static const std::set<std::string> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ lit $v }}{{ end }} };
if ({{ lookup $f "In" }}.find({{ accessor . }}) == {{ lookup $f "In" }}.end())
{{ err . "value must be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
{
static const std::set<std::string> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ lit $v }}{{ end }} };
if ({{ lookup $f "NotIn" }}.find({{ accessor . }}) != {{ lookup $f "NotIn" }}.end())
{{ err . "value must not be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "email" }}{{ if rule $r "email" }}{{ template "email" . }}{{ end }}{{ end }}
{{- if has $r "hostname" }}{{ if rule $r "hostname" }}{{ template "hostname" . }}{{ end }}{{ end }}
{{- if has $r "address" }}{{ if rule $r "address" }}{{ template "address" . }}{{ end }}{{ end }}
{{- if has $r "uuid" }}{{ if rule $r "uuid" }}{{ template "uuid" . }}{{ end }}{{ end }}
{{- if has $r "ip" }}{{ if rule $r "ip" }}
if (!valigen::IsIp({{ accessor . }}))
{{ err . "value must be a valid IP address" }}
{{- end }}{{ end }}`

const emailTpl = `
if (!valigen::IsEmail({{ accessor . }}))
{{ err . "value must be a valid email address" }}`

const hostTpl = `
if (!valigen::IsHostname({{ accessor . }}))
{{ err . "value must be a valid hostname" }}`

const uuidTpl = `
if (!valigen::IsUuid({{ accessor . }}))
{{ err . "value must be a valid UUID" }}`

const bytesTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if ({{ accessor . }} != {{ lit $v }})
{{ err . "value must equal " (lit $v) }}
{{- end }}
{{- if has $r "len" }}{{ $v := rule $r "len" }}
if ({{ accessor . }}.size() != {{ $v }})
{{ err . "value length must be " $v " bytes" }}
{{- end }}
{{- if has $r "min_len" }}{{ $v := rule $r "min_len" }}
if ({{ accessor . }}.size() < {{ $v }})
{{ err . "value length must be at least " $v " bytes" }}
{{- end }}
{{- if has $r "max_len" }}{{ $v := rule $r "max_len" }}
if ({{ accessor . }}.size() > {{ $v }})
{{ err . "value length must be at most " $v " bytes" }}
{{- end }}
{{- if has $r "prefix" }}{{ $v := rule $r "prefix" }}
if (!valigen::StartsWith({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not have prefix " (lit $v) }}
{{- end }}
{{- if has $r "suffix" }}{{ $v := rule $r "suffix" }}
if (!valigen::EndsWith({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not have suffix " (lit $v) }}
{{- end }}
{{- if has $r "contains" }}{{ $v := rule $r "contains" }}
if (!valigen::Contains({{ accessor . }}, {{ lit $v }}))
{{ err . "value does not contain " (lit $v) }}
{{- end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
{
static const std::set<std::string> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "In" }}.find({{ accessor . }}) == {{ lookup $f "In" }}.end())
{{ err . "value must be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
{
static const std::set<std::string> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "NotIn" }}.find({{ accessor . }}) != {{ lookup $f "NotIn" }}.end())
{{ err . "value must not be in list " (lit $vs) }}
}
{{- end }}`

const enumTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if ({{ accessor . }} != {{ inKey $f $v }})
{{ err . "value must equal " $v }}
{{- end }}
{{- if has $r "defined_only" }}{{ if rule $r "defined_only" }}
if (!{{ enumName $f }}_IsValid(static_cast<int>({{ accessor . }})))
{{ err . "value must be one of the defined enum values" }}
{{- end }}{{ end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
{
static const std::set<{{ inType $f }}> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "In" }}.find({{ accessor . }}) == {{ lookup $f "In" }}.end())
{{ err . "value must be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
{
static const std::set<{{ inType $f }}> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if ({{ lookup $f "NotIn" }}.find({{ accessor . }}) != {{ lookup $f "NotIn" }}.end())
{{ err . "value must not be in list " (lit $vs) }}
}
{{- end }}`

const messageTpl = `
{{- if .FieldRules.GetRequired }}
if (!{{ hasAccessor . }})
{{ err . "value is required" }}
{{- end }}
{{- if recurse . }}
if ({{ hasAccessor . }}) {
std::string embedded_err;
if (!Validate({{ accessor . }}, &embedded_err))
{{ errCause . "embedded_err" "embedded message failed validation" }}
}
{{- end }}`

const repTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if has $r "min_items" }}{{ $v := rule $r "min_items" }}
if (static_cast<uint64_t>({{ accessor . }}.size()) < {{ $v }}ULL)
{{ err . "value must contain at least " $v " item(s)" }}
{{- end }}
{{- if has $r "max_items" }}{{ $v := rule $r "max_items" }}
if (static_cast<uint64_t>({{ accessor . }}.size()) > {{ $v }}ULL)
{{ err . "value must contain at most " $v " item(s)" }}
{{- end }}
{{- $unique := false }}
{{- if has $r "unique" }}{{ if rule $r "unique" }}{{ $unique = true }}{{ end }}{{ end }}
{{- $e := .Elem "item" "i" }}{{ $body := render $e }}
{{- if or $body $unique }}
{{- if $unique }}
std::set<{{ inType $f }}> {{ lookup $f "Unique" }};
{{- end }}
for (int i = 0; i < {{ accessor . }}.size(); ++i) {
const auto& item = {{ accessor . }}.Get(i);
(void)item;
{{- if $unique }}
if (!{{ lookup $f "Unique" }}.insert(item).second)
{{ errIdx . "i" "repeated value must contain unique items" }}
{{- end }}
{{ $body }}
}
{{- end }}`

const mapTpl = `{{ $r := .Rules }}
{{- if has $r "min_pairs" }}{{ $v := rule $r "min_pairs" }}
if (static_cast<uint64_t>({{ accessor . }}.size()) < {{ $v }}ULL)
{{ err . "value must contain at least " $v " pair(s)" }}
{{- end }}
{{- if has $r "max_pairs" }}{{ $v := rule $r "max_pairs" }}
if (static_cast<uint64_t>({{ accessor . }}.size()) > {{ $v }}ULL)
{{ err . "value must contain at most " $v " pair(s)" }}
{{- end }}
{{- $k := .Key "key" "key" }}{{ $kb := render $k }}
{{- $val := .Value "val" "key" }}{{ $vb := render $val }}
{{- if or $kb $vb }}
for (const auto& pair : {{ accessor . }}) {
const auto& key = pair.first;
const auto& val = pair.second;
(void)key;
(void)val;
{{ $kb }}
{{ $vb }}
}
{{- end }}`

const anyTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if .FieldRules.GetRequired }}
if (!{{ hasAccessor . }})
{{ err . "value is required" }}
{{- end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
if ({{ hasAccessor . }}) {
static const std::set<std::string> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ lit $v }}{{ end }} };
if ({{ lookup $f "In" }}.find({{ accessor . }}.type_url()) == {{ lookup $f "In" }}.end())
{{ err . "type URL must be in list " (lit $vs) }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
if ({{ hasAccessor . }}) {
static const std::set<std::string> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ lit $v }}{{ end }} };
if ({{ lookup $f "NotIn" }}.find({{ accessor . }}.type_url()) != {{ lookup $f "NotIn" }}.end())
{{ err . "type URL must not be in list " (lit $vs) }}
}
{{- end }}`

const durationTpl = `{{ $f := .Field }}{{ $r := .Rules }}
{{- if .FieldRules.GetRequired }}
if (!{{ hasAccessor . }})
{{ err . "value is required" }}
{{- end }}
if ({{ hasAccessor . }}) {
const auto& dur = {{ accessor . }};
(void)dur;
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if (dur != {{ durLit $v }})
{{ err . "value must equal " (durStr $v) }}
{{- end }}
{{- if has $r "lt" }}{{ $v := rule $r "lt" }}
if (!(dur < {{ durLit $v }}))
{{ err . "value must be less than " (durStr $v) }}
{{- end }}
{{- if has $r "lte" }}{{ $v := rule $r "lte" }}
if (!(dur <= {{ durLit $v }}))
{{ err . "value must be less than or equal to " (durStr $v) }}
{{- end }}
{{- if has $r "gt" }}{{ $v := rule $r "gt" }}
if (!(dur > {{ durLit $v }}))
{{ err . "value must be greater than " (durStr $v) }}
{{- end }}
{{- if has $r "gte" }}{{ $v := rule $r "gte" }}
if (!(dur >= {{ durLit $v }}))
{{ err . "value must be greater than or equal to " (durStr $v) }}
{{- end }}
{{- if has $r "in" }}{{ $vs := rule $r "in" }}
{
static const std::vector<{{ inType $f }}> {{ lookup $f "In" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if (std::find({{ lookup $f "In" }}.begin(), {{ lookup $f "In" }}.end(), dur) == {{ lookup $f "In" }}.end())
{{ err . "value must be in list" }}
}
{{- end }}
{{- if has $r "not_in" }}{{ $vs := rule $r "not_in" }}
{
static const std::vector<{{ inType $f }}> {{ lookup $f "NotIn" }} = { {{ range $i, $v := $vs }}{{ if $i }}, {{ end }}{{ inKey $f $v }}{{ end }} };
if (std::find({{ lookup $f "NotIn" }}.begin(), {{ lookup $f "NotIn" }}.end(), dur) != {{ lookup $f "NotIn" }}.end())
{{ err . "value must not be in list" }}
}
{{- end }}
}`

const timestampTpl = `{{ $r := .Rules }}
{{- if .FieldRules.GetRequired }}
if (!{{ hasAccessor . }})
{{ err . "value is required" }}
{{- end }}
if ({{ hasAccessor . }}) {
const auto& ts = {{ accessor . }};
(void)ts;
{{- if or (has $r "lt_now") (has $r "gt_now") (has $r "within") }}
const auto now_ts = valigen::protobuf::util::TimeUtil::GetCurrentTime();
{{- end }}
{{- if has $r "const" }}{{ $v := rule $r "const" }}
if (ts != {{ tsLit $v }})
{{ err . "value must equal " (tsStr $v) }}
{{- end }}
{{- if has $r "lt" }}{{ $v := rule $r "lt" }}
if (!(ts < {{ tsLit $v }}))
{{ err . "value must be less than " (tsStr $v) }}
{{- end }}
{{- if has $r "lte" }}{{ $v := rule $r "lte" }}
if (!(ts <= {{ tsLit $v }}))
{{ err . "value must be less than or equal to " (tsStr $v) }}
{{- end }}
{{- if has $r "gt" }}{{ $v := rule $r "gt" }}
if (!(ts > {{ tsLit $v }}))
{{ err . "value must be greater than " (tsStr $v) }}
{{- end }}
{{- if has $r "gte" }}{{ $v := rule $r "gte" }}
if (!(ts >= {{ tsLit $v }}))
{{ err . "value must be greater than or equal to " (tsStr $v) }}
{{- end }}
{{- if has $r "lt_now" }}{{ if rule $r "lt_now" }}
if (!(ts < now_ts))
{{ err . "value must be less than now" }}
{{- end }}{{ end }}
{{- if has $r "gt_now" }}{{ if rule $r "gt_now" }}
if (!(ts > now_ts))
{{ err . "value must be greater than now" }}
{{- end }}{{ end }}
{{- if has $r "within" }}{{ $v := rule $r "within" }}
if (ts < now_ts - ({{ durLit $v }}) || ts > now_ts + ({{ durLit $v }}))
{{ err . "value must be within " (durStr $v) " of now" }}
{{- end }}
}`

const wrapperTpl = `
{{- if .FieldRules.GetRequired }}
if (!{{ hasAccessor . }})
{{ err . "value is required" }}
{{- end }}
if ({{ hasAccessor . }}) {
const auto& wrapped = {{ accessor . }};
(void)wrapped;
{{- $u := unwrap . "wrapped" }}
{{ render $u }}
}`

const headerFileTpl = `// Generated by protoc-gen-valigen-cc. DO NOT EDIT.
// source: {{ .File.Path }}

#ifndef {{ guard .File.Path }}
#define {{ guard .File.Path }}

#include <string>

#include "valigen/validate.h"
#include "{{ output .File.Path ".h" }}"

{{ range namespaces .File }}namespace {{ . }} {
{{ end }}
{{- range .Messages }}
{{ template "decl" . }}
{{- end }}

{{ range reverse (namespaces .File) }}}  // namespace {{ . }}
{{ end }}
#endif  // {{ guard .File.Path }}`

const declTpl = `bool Validate(const {{ class .Message }}& m, std::string* err);`
