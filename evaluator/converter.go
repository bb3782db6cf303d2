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
	"github.com/RedHatInsights/expression-evaluator/types"
)

const unbalancedParenthesesMessage = "unbalanced parentheses"

// ToPostfix function converts sequence of tokens in infix notation into
// postfix notation (RPN) by using the shunting-yard algorithm.
//
// All operators are treated as left-associative, `^` included. So `2^3^2`
// is evaluated as `(2^3)^2`.
func ToPostfix(tokens types.Tokens) (types.Tokens, error) {
	output := make(types.Tokens, 0, len(tokens))

	// contains operators and left parentheses only
	var operators stack[types.Token]

	for _, token := range tokens {
		switch token.Kind {
		case types.NumberToken:
			output = append(output, token)
		case types.LeftParenToken:
			operators.push(token)
		case types.RightParenToken:
			found := false
			for !found {
				top, ok := operators.pop()
				if !ok {
					return nil, &ConversionError{Msg: unbalancedParenthesesMessage}
				}
				if top.Kind == types.LeftParenToken {
					found = true
				} else {
					output = append(output, top)
				}
			}
		case types.OperatorToken:
			for {
				top, ok := operators.peek()
				if !ok || top.Kind != types.OperatorToken ||
					top.Operator.Precedence() < token.Operator.Precedence() {
					break
				}
				operators.pop()
				output = append(output, top)
			}
			operators.push(token)
		default:
			return nil, &ConversionError{Msg: "unexpected token " + token.Kind.String()}
		}
	}

	for operators.size() > 0 {
		top, _ := operators.pop()
		if top.Kind == types.LeftParenToken {
			return nil, &ConversionError{Msg: unbalancedParenthesesMessage}
		}
		output = append(output, top)
	}

	return output, nil
}
