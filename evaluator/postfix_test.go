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

package evaluator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/RedHatInsights/insights-operator-utils/tests/helpers"
	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/types"
)

// mustParsePostfix function reads postfix listing and fails the test when
// the listing is malformed
func mustParsePostfix(t *testing.T, listing string) types.Tokens {
	tokens, err := evaluator.ParsePostfix(listing)
	helpers.FailOnError(t, err)
	return tokens
}

// TestEvaluatePostfix function checks evaluation of correct postfix
// expressions
func TestEvaluatePostfix(t *testing.T) {
	var testScenarios = []struct {
		postfix  string
		expected float64
	}{
		{"42", 42},
		{"3 4 2 * +", 11},
		{"-1.0 2 +", 1},
		{"2 3 ^", 8},
		{"8 3 - 2 -", 3},
		{"8 4 / 2 /", 1},
		{"2 3 ^ 2 ^", 64},
		{"1 2 3 2 ^ * + 4 2 / -", 17},
		{"-1 2 3 + *", -5},
		{"2 -3 ^", 0.125},
		{"0 5 /", 0},
	}

	for _, scenario := range testScenarios {
		t.Run(scenario.postfix, func(t *testing.T) {
			result, err := evaluator.EvaluatePostfix(mustParsePostfix(t, scenario.postfix))
			assert.NoError(t, err)
			assert.Equal(t, scenario.expected, result)
		})
	}
}

// TestEvaluatePostfixNonFinite function checks that domain errors of power
// operator are not trapped
func TestEvaluatePostfixNonFinite(t *testing.T) {
	result, err := evaluator.EvaluatePostfix(mustParsePostfix(t, "-8 0.5 ^"))
	assert.NoError(t, err)
	assert.True(t, math.IsNaN(result))

	result, err = evaluator.EvaluatePostfix(mustParsePostfix(t, "0 -1 ^"))
	assert.NoError(t, err)
	assert.True(t, math.IsInf(result, 1))
}

// TestEvaluatePostfixErrors function checks all evaluation failures
func TestEvaluatePostfixErrors(t *testing.T) {
	var testScenarios = []struct {
		postfix string
		message string
	}{
		{"5 0 /", "evaluation failed: division by zero"},
		{"5 -0 /", "evaluation failed: division by zero"},
		{"5 0.0 /", "evaluation failed: division by zero"},
		{"+", "evaluation failed: not enough operands for operator +"},
		{"1 ^", "evaluation failed: not enough operands for operator ^"},
		{"1 2", "evaluation failed: 2 values left on stack, expected exactly one"},
		{"", "evaluation failed: 0 values left on stack, expected exactly one"},
	}

	for _, scenario := range testScenarios {
		t.Run(scenario.postfix, func(t *testing.T) {
			_, err := evaluator.EvaluatePostfix(mustParsePostfix(t, scenario.postfix))

			var evaluationError *evaluator.EvaluationError
			assert.True(t, errors.As(err, &evaluationError))
			assert.EqualError(t, err, scenario.message)
		})
	}
}

// TestEvaluatePostfixUnexpectedToken function checks that parentheses are
// refused by evaluator
func TestEvaluatePostfixUnexpectedToken(t *testing.T) {
	_, err := evaluator.EvaluatePostfix(types.Tokens{types.NewLeftParen()})
	assert.EqualError(t, err, "evaluation failed: unexpected token left parenthesis")
}

// TestParsePostfixErrors function checks malformed postfix listings
func TestParsePostfixErrors(t *testing.T) {
	_, err := evaluator.ParsePostfix("1 2 ++")
	assert.EqualError(t, err, `tokenization failed at position 4: malformed postfix item "++"`)

	_, err = evaluator.ParsePostfix("1 1 Inf")
	assert.EqualError(t, err, `tokenization failed at position 4: malformed postfix item "Inf"`)

	_, err = evaluator.ParsePostfix("1 1 (")
	assert.Error(t, err)
}

// TestFormatResult function checks result formatting
func TestFormatResult(t *testing.T) {
	assert.Equal(t, "11.00", evaluator.FormatResult(11, 2))
	assert.Equal(t, "-0.33", evaluator.FormatResult(-1.0/3, 2))
	assert.Equal(t, "2.718", evaluator.FormatResult(2.7182818, 3))
	assert.Equal(t, "nan", evaluator.FormatResult(math.NaN(), 2))
	assert.Equal(t, "inf", evaluator.FormatResult(math.Inf(1), 2))
	assert.Equal(t, "-inf", evaluator.FormatResult(math.Inf(-1), 0))
}
