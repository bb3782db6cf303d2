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

package evaluator

import "fmt"

// StructuralError is returned for lines that are rejected before any
// processing (blank lines, lines with brackets or braces)
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "invalid line: " + e.Reason
}

// TokenizationError occurs when the normalized line can not be split into
// tokens
type TokenizationError struct {
	Position int
	Msg      string
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenization failed at position %d: %s", e.Position, e.Msg)
}

// ConversionError occurs when infix to postfix conversion fails, typically
// because of unbalanced parentheses
type ConversionError struct {
	Msg string
}

func (e *ConversionError) Error() string {
	return "conversion to postfix failed: " + e.Msg
}

// EvaluationError is related to any problem found during postfix
// evaluation
type EvaluationError struct {
	Msg string
}

func (e *EvaluationError) Error() string {
	return "evaluation failed: " + e.Msg
}
