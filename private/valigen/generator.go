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
	"fmt"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"go.uber.org/zap"

	"github.com/valigen/valigen/private/valigen/valrule"
	"github.com/valigen/valigen/private/valigen/valsource"
	"github.com/valigen/valigen/private/valigen/valtarget"
)

// Generator renders validation code for schema files through one target
// backend.
type Generator struct {
	logger   *zap.Logger
	target   valtarget.Target
	resolver valrule.Resolver
}

// NewGenerator returns a new Generator.
func NewGenerator(
	logger *zap.Logger,
	target valtarget.Target,
	resolver valrule.Resolver,
) *Generator {
	return &Generator{
		logger:   logger,
		target:   target,
		resolver: resolver,
	}
}

// GenerateFiles renders all output files for the given schema files, in
// input order.
//
// Any error aborts the whole run; no output from a partially processed
// run is returned.
func (g *Generator) GenerateFiles(files []valsource.File) ([]valtarget.GeneratedFile, error) {
	var generatedFiles []valtarget.GeneratedFile
	for _, file := range files {
		fileGeneratedFiles, err := g.generateFile(file)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", file.Path(), err)
		}
		generatedFiles = append(generatedFiles, fileGeneratedFiles...)
	}
	return generatedFiles, nil
}

func (g *Generator) generateFile(file valsource.File) ([]valtarget.GeneratedFile, error) {
	var messages []valtarget.Message
	for _, message := range collectMessages(file) {
		targetMessage, err := g.buildMessage(message)
		if err != nil {
			return nil, err
		}
		messages = append(messages, targetMessage)
	}
	generatedFiles, err := g.target.Generate(
		valtarget.File{
			File:     file,
			Messages: messages,
		},
	)
	if err != nil {
		return nil, err
	}
	for _, generatedFile := range generatedFiles {
		g.logger.Debug(
			"generated",
			zap.String("input", file.Path()),
			zap.String("output", generatedFile.Name),
			zap.Int("size", len(generatedFile.Content)),
		)
	}
	return generatedFiles, nil
}

func (g *Generator) buildMessage(message valsource.Message) (valtarget.Message, error) {
	messageRules, err := g.resolver.MessageRules(message)
	if err != nil {
		return valtarget.Message{}, err
	}
	if err := checkMessageRules(message, messageRules); err != nil {
		return valtarget.Message{}, err
	}
	targetMessage := valtarget.Message{
		Message: message,
	}
	for _, field := range message.Fields() {
		if field.Oneof() != nil {
			continue
		}
		ruleContext, err := g.buildRuleContext(field)
		if err != nil {
			return valtarget.Message{}, err
		}
		targetMessage.Fields = append(targetMessage.Fields, ruleContext)
	}
	for _, fieldOneof := range message.Oneofs() {
		oneofRules, err := g.resolver.OneofRules(fieldOneof)
		if err != nil {
			return valtarget.Message{}, err
		}
		targetOneof := valtarget.Oneof{
			Oneof:    fieldOneof,
			Required: oneofRules.GetRequired(),
		}
		for _, field := range fieldOneof.Fields() {
			ruleContext, err := g.buildRuleContext(field)
			if err != nil {
				return valtarget.Message{}, err
			}
			targetOneof.Fields = append(targetOneof.Fields, ruleContext)
		}
		targetMessage.Oneofs = append(targetMessage.Oneofs, targetOneof)
	}
	return targetMessage, nil
}

// checkMessageRules rejects message-level constraint options that no
// target consumes. A validator that ignored them would accept messages
// the constraints were written to reject.
func checkMessageRules(message valsource.Message, messageRules *validate.MessageRules) error {
	if len(messageRules.GetCel()) > 0 {
		return fmt.Errorf("message %s: cel constraints are not implemented", message.FullName())
	}
	if len(messageRules.GetOneof()) > 0 {
		return fmt.Errorf("message %s: message-level oneof constraints are not implemented", message.FullName())
	}
	return nil
}

func (g *Generator) buildRuleContext(field valsource.Field) (valrule.RuleContext, error) {
	fieldRules, err := g.resolver.FieldRules(field)
	if err != nil {
		return valrule.RuleContext{}, err
	}
	return valrule.NewRuleContext(field, fieldRules)
}

// collectMessages returns every message to render for a file in
// deterministic order: declaration order, nested messages before their
// parent.
func collectMessages(file valsource.File) []valsource.Message {
	var messages []valsource.Message
	for _, message := range file.Messages() {
		messages = appendMessages(messages, message)
	}
	return messages
}

func appendMessages(messages []valsource.Message, message valsource.Message) []valsource.Message {
	for _, nested := range message.Messages() {
		messages = appendMessages(messages, nested)
	}
	return append(messages, message)
}
