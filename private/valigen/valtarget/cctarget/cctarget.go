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

// Package cctarget is the C++ backend: it renders validation routines as
// free functions overloaded per message, one translation unit and one
// header per input schema file.
package cctarget

import (
	"fmt"
	"path"
	"strings"
	"text/template"

	"github.com/valigen/valigen/private/pkg/stringutil"
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valtarget"
)

// NewTarget returns the C++ target with both template namespaces
// registered and ready to render.
func NewTarget() (valtarget.Target, error) {
	moduleTemplate := template.New("cc")
	if err := RegisterModule(moduleTemplate); err != nil {
		return nil, err
	}
	headerTemplate := template.New("h")
	if err := RegisterHeader(headerTemplate); err != nil {
		return nil, err
	}
	return &target{
		moduleTemplate: moduleTemplate,
		headerTemplate: headerTemplate,
	}, nil
}

// RegisterModule installs the C++ code fragments and their func set into
// the given template namespace. The namespace's own name becomes the
// output extension suffix.
//
// Registering fragments into a namespace that already carries them is a
// hard error: fragment lookups are global to the namespace, so a second
// registration would silently redefine what every prior caller renders.
func RegisterModule(tpl *template.Template) error {
	if tpl.Lookup("msg") != nil {
		return fmt.Errorf("template namespace %q: validation fragments already registered", tpl.Name())
	}
	fns := ccFuncs{}
	tpl.Funcs(template.FuncMap{
		"accessor":      fns.accessor,
		"byteStr":       fns.byteStr,
		"class":         fns.className,
		"ctype":         fns.cType,
		"durLit":        fns.durLit,
		"durStr":        fns.durStr,
		"enumName":      fns.enumName,
		"err":           fns.err,
		"errCause":      fns.errCause,
		"errIdx":        fns.errIdx,
		"errIdxCause":   fns.errIdxCause,
		"errOneof":      fns.errOneof,
		"has":           fns.ruleSet,
		"hasAccessor":   fns.hasAccessor,
		"inKey":         fns.inKey,
		"inType":        fns.inType,
		"lit":           fns.lit,
		"lookup":        fns.lookup,
		"namespaces":    fns.namespaces,
		"oneof":         fns.oneofTypeName,
		"output":        fns.output,
		"package":       fns.packageName,
		"quote":         fns.quote,
		"recurse":       fns.recurse,
		"reverse":       fns.reverse,
		"rule":          fns.ruleValue,
		"staticVarName": fns.staticVarName,
		"tsLit":         fns.tsLit,
		"tsStr":         fns.tsStr,
		"unimplemented": fns.failUnimplemented,
		"unwrap":        fns.unwrap,
		"render": func(ctx valrule.RuleContext) (string, error) {
			var sb strings.Builder
			if err := tpl.ExecuteTemplate(&sb, ctx.Type.String(), ctx); err != nil {
				return "", err
			}
			return strings.TrimSpace(sb.String()), nil
		},
	})
	template.Must(tpl.Parse(moduleFileTpl))
	template.Must(tpl.New("msg").Parse(msgTpl))

	template.Must(tpl.New("none").Parse(noneTpl))
	template.Must(tpl.New("float").Parse(numTpl))
	template.Must(tpl.New("double").Parse(numTpl))
	template.Must(tpl.New("int32").Parse(numTpl))
	template.Must(tpl.New("int64").Parse(numTpl))
	template.Must(tpl.New("uint32").Parse(numTpl))
	template.Must(tpl.New("uint64").Parse(numTpl))
	template.Must(tpl.New("sint32").Parse(numTpl))
	template.Must(tpl.New("sint64").Parse(numTpl))
	template.Must(tpl.New("fixed32").Parse(numTpl))
	template.Must(tpl.New("fixed64").Parse(numTpl))
	template.Must(tpl.New("sfixed32").Parse(numTpl))
	template.Must(tpl.New("sfixed64").Parse(numTpl))

	template.Must(tpl.New("bool").Parse(constTpl))
	template.Must(tpl.New("string").Parse(strTpl))
	template.Must(tpl.New("bytes").Parse(bytesTpl))

	template.Must(tpl.New("email").Parse(emailTpl))
	template.Must(tpl.New("hostname").Parse(hostTpl))
	template.Must(tpl.New("address").Parse(hostTpl))
	template.Must(tpl.New("uuid").Parse(uuidTpl))

	template.Must(tpl.New("enum").Parse(enumTpl))
	template.Must(tpl.New("message").Parse(messageTpl))
	template.Must(tpl.New("repeated").Parse(repTpl))
	template.Must(tpl.New("map").Parse(mapTpl))

	template.Must(tpl.New("any").Parse(anyTpl))
	template.Must(tpl.New("duration").Parse(durationTpl))
	template.Must(tpl.New("timestamp").Parse(timestampTpl))

	template.Must(tpl.New("wrapper").Parse(wrapperTpl))
	return nil
}

// RegisterHeader installs the declarations-only fragments into the given
// template namespace.
func RegisterHeader(tpl *template.Template) error {
	if tpl.Lookup("decl") != nil {
		return fmt.Errorf("template namespace %q: declaration fragments already registered", tpl.Name())
	}
	fns := ccFuncs{}
	tpl.Funcs(template.FuncMap{
		"class":      fns.className,
		"namespaces": fns.namespaces,
		"output":     fns.output,
		"reverse":    fns.reverse,
		"guard": func(filePath string) string {
			return stringutil.ToUpperSnakeCase(fns.output(filePath, ".validate.h")) + "_"
		},
	})
	template.Must(tpl.Parse(headerFileTpl))
	template.Must(tpl.New("decl").Parse(declTpl))
	return nil
}

// OutputFileName maps an input schema file path to the emitted file name
// for the given template namespace: name.proto becomes
// name.pb.validate.<namespace>.
func OutputFileName(filePath string, templateName string) string {
	return strings.TrimSuffix(filePath, path.Ext(filePath)) + ".pb.validate." + templateName
}

type target struct {
	moduleTemplate *template.Template
	headerTemplate *template.Template
}

func (t *target) Name() string {
	return "cc"
}

func (t *target) Generate(file valtarget.File) ([]valtarget.GeneratedFile, error) {
	for _, message := range file.Messages {
		if err := checkMessageSupported(message); err != nil {
			return nil, err
		}
	}
	var moduleBuilder strings.Builder
	if err := t.moduleTemplate.Execute(&moduleBuilder, file); err != nil {
		return nil, err
	}
	var headerBuilder strings.Builder
	if err := t.headerTemplate.Execute(&headerBuilder, file); err != nil {
		return nil, err
	}
	return []valtarget.GeneratedFile{
		{
			Name:    OutputFileName(file.File.Path(), t.moduleTemplate.Name()),
			Content: moduleBuilder.String(),
		},
		{
			Name:    OutputFileName(file.File.Path(), t.headerTemplate.Name()),
			Content: headerBuilder.String(),
		},
	}, nil
}
