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

// Package main implements the standalone valigen CLI. It compiles .proto
// sources in-process and writes the same C++ validation code the
// protoc-gen-valigen-cc plugin produces, without needing protoc or buf.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bufbuild/protocompile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/valigen/valigen/private/pkg/applog"
	"github.com/valigen/valigen/private/pkg/protoencoding"
	"github.com/valigen/valigen/private/valigen"
	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtarget"
	"github.com/valigen/valigen/private/valigen/valtarget/cctarget"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "valigen",
		Short:         "Generate validation code from protobuf constraint options",
		Version:       valigen.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCommand.AddCommand(newGenerateCommand())
	return rootCommand
}

type generateFlags struct {
	includePaths []string
	outDirPath   string
	logLevel     string
	logFormat    string
}

func newGenerateCommand() *cobra.Command {
	flags := &generateFlags{}
	generateCommand := &cobra.Command{
		Use:   "generate <file.proto> [...]",
		Short: "Compile schema files and write C++ validation code",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), flags, args)
		},
	}
	bindGenerateFlags(generateCommand.Flags(), flags)
	return generateCommand
}

func bindGenerateFlags(flagSet *pflag.FlagSet, flags *generateFlags) {
	flagSet.StringSliceVarP(
		&flags.includePaths,
		"include",
		"I",
		[]string{"."},
		"Directories to search for imports",
	)
	flagSet.StringVarP(
		&flags.outDirPath,
		"out",
		"o",
		".",
		"Directory to write generated files to",
	)
	flagSet.StringVar(
		&flags.logLevel,
		"log-level",
		"info",
		"Log level [debug,info,warn,error]",
	)
	flagSet.StringVar(
		&flags.logFormat,
		"log-format",
		"color",
		"Log format [text,color,json]",
	)
}

func runGenerate(ctx context.Context, flags *generateFlags, filePaths []string) error {
	logger, err := applog.NewLogger(os.Stderr, flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(
			protocompile.CompositeResolver{
				&protocompile.SourceResolver{
					ImportPaths: flags.includePaths,
				},
				// Constraint option definitions ship linked into the
				// binary, so schemas can import buf/validate/validate.proto
				// without a copy on disk.
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
	compiledFiles, err := compiler.Compile(ctx, filePaths...)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	fileDescriptors := make([]protoreflect.FileDescriptor, len(compiledFiles))
	for i, compiledFile := range compiledFiles {
		fileDescriptors[i] = compiledFile
	}
	files, err := valsource.NewFiles(fileDescriptors...)
	if err != nil {
		return err
	}

	target, err := cctarget.NewTarget()
	if err != nil {
		return err
	}
	generator := valigen.NewGenerator(
		logger,
		target,
		valrule.NewResolver(protoencoding.GlobalResolver),
	)
	generatedFiles, err := generator.GenerateFiles(files)
	if err != nil {
		return err
	}
	return writeFiles(flags.outDirPath, generatedFiles)
}

func writeFiles(
	outDirPath string,
	generatedFiles []valtarget.GeneratedFile,
) (retErr error) {
	for _, generatedFile := range generatedFiles {
		outFilePath := filepath.Join(outDirPath, filepath.FromSlash(generatedFile.Name))
		if err := os.MkdirAll(filepath.Dir(outFilePath), 0o755); err != nil {
			retErr = multierr.Append(retErr, err)
			continue
		}
		if err := os.WriteFile(outFilePath, []byte(generatedFile.Content), 0o644); err != nil {
			retErr = multierr.Append(retErr, err)
		}
	}
	return retErr
}
