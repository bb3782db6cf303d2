/*
Copyright © 2022 Red Hat, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package evaluator contains the expression processing pipeline: normalizer,
// tokenizer, infix to postfix converter and postfix evaluator. Each input
// line is processed independently, no state is shared between lines.
package evaluator

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/expression-evaluator/evaluator

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/types"
)

// characters that make the whole line invalid
const rejectedCharacters = "{}[]"

// Pipeline processes input lines. It holds configuration only, so the same
// instance can be used for any number of lines.
type Pipeline struct {
	Limits Limits
}

// NewPipeline function constructs new pipeline with given tokenizer limits
func NewPipeline(limits Limits) Pipeline {
	return Pipeline{Limits: limits}
}

// IsInvalidLine function checks if the line needs to be rejected before
// processing: it is empty, contains whitespaces only, or contains a bracket
// or a brace.
func IsInvalidLine(line string) bool {
	if strings.ContainsAny(line, rejectedCharacters) {
		return true
	}
	return strings.Trim(line, " \t\r\n") == ""
}

// Process method runs all stages of the pipeline for one input line. The
// returned record always contains the stage where the processing stopped.
func (p Pipeline) Process(lineNumber types.LineNumber, line string) types.ExpressionRecord {
	record := types.ExpressionRecord{
		LineNumber: lineNumber,
		Expression: line,
		Stage:      types.StageRejected,
	}

	if IsInvalidLine(line) {
		record.Err = &StructuralError{Reason: "empty line or line with brackets"}
		return p.failed(record)
	}

	record.Normalized = Normalize(line)

	record.Stage = types.StageTokenize
	tokens, err := Tokenize(record.Normalized, p.Limits)
	if err != nil {
		record.Err = err
		return p.failed(record)
	}
	record.Tokens = tokens

	record.Stage = types.StageConvert
	postfix, err := ToPostfix(tokens)
	if err != nil {
		record.Err = err
		return p.failed(record)
	}
	record.Postfix = postfix

	record.Stage = types.StageEvaluate
	result, err := EvaluatePostfix(postfix)
	if err != nil {
		record.Err = err
		return p.failed(record)
	}

	record.Result = result
	record.Stage = types.StageDone
	return record
}

func (p Pipeline) failed(record types.ExpressionRecord) types.ExpressionRecord {
	log.Debug().
		Int("line", int(record.LineNumber)).
		Str("stage", record.Stage.String()).
		Err(record.Err).
		Msg("Expression can not be evaluated")
	return record
}
