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

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RedHatInsights/expression-evaluator/types"
)

// EvaluatePostfix function evaluates expression in postfix notation by
// using a value stack. Exactly one value needs to remain on the stack at the
// end.
//
// Non-finite results of `^` (like (-8)^(1/3)) are not reported as errors.
func EvaluatePostfix(postfix types.Tokens) (float64, error) {
	var values stack[float64]

	for _, token := range postfix {
		switch token.Kind {
		case types.NumberToken:
			values.push(token.Value)
		case types.OperatorToken:
			if values.size() < 2 {
				return 0, &EvaluationError{
					Msg: "not enough operands for operator " + token.Operator.String(),
				}
			}
			right, _ := values.pop()
			left, _ := values.pop()
			if token.Operator == types.Div && right == 0 {
				return 0, &EvaluationError{Msg: "division by zero"}
			}
			values.push(token.Operator.Apply(left, right))
		default:
			return 0, &EvaluationError{Msg: "unexpected token " + token.Kind.String()}
		}
	}

	if values.size() != 1 {
		return 0, &EvaluationError{
			Msg: fmt.Sprintf("%d values left on stack, expected exactly one", values.size()),
		}
	}

	result, _ := values.pop()
	return result, nil
}

// FormatPostfix returns postfix tokens separated by spaces. Numbers are
// written as they appeared in the expression.
func FormatPostfix(postfix types.Tokens) string {
	texts := make([]string, len(postfix))
	for i, token := range postfix {
		texts[i] = token.String()
	}
	return strings.Join(texts, " ")
}

// ParsePostfix reads postfix listing produced by FormatPostfix back into
// tokens. Every whitespace separated field is either an operator symbol or
// a numeric literal (possibly signed).
func ParsePostfix(listing string) (types.Tokens, error) {
	fields := strings.Fields(listing)
	tokens := make(types.Tokens, 0, len(fields))
	cursor := 0

	for _, field := range fields {
		position := strings.Index(listing[cursor:], field) + cursor
		cursor = position + len(field)

		if len(field) == 1 {
			if op, ok := types.OperatorFromSymbol(field[0]); ok {
				tokens = append(tokens, types.NewOperator(op))
				continue
			}
		}

		value, err := parseLiteral(field)
		if err != nil {
			return nil, &TokenizationError{
				Position: position,
				Msg:      "malformed postfix item " + strconv.Quote(field),
			}
		}
		tokens = append(tokens, types.NewNumber(field, value))
	}

	return tokens, nil
}

// FormatResult formats evaluated value with given number of decimal places.
// Infinities and NaN are written as `inf`, `-inf` and `nan`.
func FormatResult(value float64, precision int) string {
	switch {
	case math.IsNaN(value):
		return "nan"
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
