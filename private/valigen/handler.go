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

package valigen

import (
	"context"
	"fmt"
	"strings"

	"github.com/bufbuild/protoplugin"

	"github.com/valigen/valigen/private/pkg/applog"
	"github.com/valigen/valigen/private/pkg/protoencoding"
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtarget/cctarget"
)

// Handle implements the CodeGeneratorRequest protocol for the C++ target.
//
// Recognized plugin parameters: log_level ([debug,info,warn,error]) and
// log_format ([text,color,json]). Logs go to the plugin's stderr.
func Handle(
	_ context.Context,
	pluginEnv protoplugin.PluginEnv,
	responseWriter protoplugin.ResponseWriter,
	request protoplugin.Request,
) error {
	parameters, err := parseParameter(request.Parameter())
	if err != nil {
		return err
	}
	logger, err := applog.NewLogger(
		pluginEnv.Stderr,
		parameters["log_level"],
		parameters["log_format"],
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// The request carries every transitive dependency; the resolver built
	// over all of them both links the files to generate and reparses
	// constraint extensions that arrived as unknown fields.
	resolver, err := protoencoding.NewResolver(request.AllFileDescriptorProtos()...)
	if err != nil {
		return err
	}
	var files []valsource.File
	for _, fileDescriptorProto := range request.FileDescriptorProtosToGenerate() {
		fileDescriptor, err := resolver.FindFileByPath(fileDescriptorProto.GetName())
		if err != nil {
			return err
		}
		file, err := valsource.NewFile(fileDescriptor)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	target, err := cctarget.NewTarget()
	if err != nil {
		return err
	}
	generator := NewGenerator(logger, target, valrule.NewResolver(resolver))
	generatedFiles, err := generator.GenerateFiles(files)
	if err != nil {
		return err
	}

	responseWriter.SetFeatureProto3Optional()
	for _, generatedFile := range generatedFiles {
		responseWriter.AddFile(generatedFile.Name, generatedFile.Content)
	}
	return nil
}

// parseParameter parses the comma-separated key=value plugin parameter
// string.
func parseParameter(parameter string) (map[string]string, error) {
	parameters := make(map[string]string)
	if parameter == "" {
		return parameters, nil
	}
	for _, pair := range strings.Split(parameter, ",") {
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			return nil, fmt.Errorf("invalid plugin parameter: %q", parameter)
		}
		parameters[key] = value
	}
	return parameters, nil
}
