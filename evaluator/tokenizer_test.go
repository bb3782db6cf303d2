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

	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/types"
)

var noLimits = evaluator.Limits{}

// tokenTexts returns textual form of all tokens
func tokenTexts(tokens types.Tokens) []string {
	texts := []string{}
	for _, token := range tokens {
		texts = append(texts, token.String())
	}
	return texts
}

// TestTokenize function checks tokenizer for valid input
func TestTokenize(t *testing.T) {
	var testScenarios = []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"3 + 4 * 2", []string{"3", "+", "4", "*", "2"}},
		{"3+4*2", []string{"3", "+", "4", "*", "2"}},
		{"(-1.0) + 2", []string{"-1.0", "+", "2"}},
		{"(+2)", []string{"+2"}},
		{"( -1 )", []string{"(", "-1", ")"}},
		{"( - 1 )", []string{"(", "-", "1", ")"}},
		{"(-1 )", []string{"-1", ")"}},
		{"(-1 + 2)", []string{"-1", "+", "2", ")"}},
		{"(-3+4)", []string{"-3", "+", "4", ")"}},
		{"(+2)*3", []string{"+2", "*", "3"}},
		{"-3.5e0 * 2", []string{"-3.5e0", "*", "2"}},
		{"2 - -3", []string{"2", "-", "-3"}},
		{"2-3", []string{"2", "-", "3"}},
		{"2 ^ +3", []string{"2", "^", "+3"}},
		{"- 5", []string{"-", "5"}},
		{"+5", []string{"+5"}},
		{".5 + 5.", []string{".5", "+", "5."}},
		{"1e-3 * 1E+3", []string{"1e-3", "*", "1E+3"}},
		{"(1 + 2) - 3", []string{"(", "1", "+", "2", ")", "-", "3"}},
		{"(1) -2", []string{"(", "1", ")", "-", "2"}},
		{"-1*(2)", []string{"-1", "*", "(", "2", ")"}},
		{"2 (-1)", []string{"2", "-1"}},
		{"\t1\r\n", []string{"1"}},
	}

	for _, scenario := range testScenarios {
		t.Run(scenario.input, func(t *testing.T) {
			tokens, err := evaluator.Tokenize(scenario.input, noLimits)
			assert.NoError(t, err)
			assert.Equal(t, scenario.expected, tokenTexts(tokens))
		})
	}
}

// TestTokenizeKindsAndValues function checks token kinds and parsed values
func TestTokenizeKindsAndValues(t *testing.T) {
	tokens, err := evaluator.Tokenize("(-1.5) * (2 ^ 3)", noLimits)
	assert.NoError(t, err)

	expected := types.Tokens{
		types.NewNumber("-1.5", -1.5),
		types.NewOperator(types.Mul),
		types.NewLeftParen(),
		types.NewNumber("2", 2),
		types.NewOperator(types.Pow),
		types.NewNumber("3", 3),
		types.NewRightParen(),
	}
	assert.Equal(t, expected, tokens)
}

// TestTokenizeOutOfRangeLiteral function checks that too big literal is
// accepted as infinity
func TestTokenizeOutOfRangeLiteral(t *testing.T) {
	tokens, err := evaluator.Tokenize("1e999", noLimits)
	assert.NoError(t, err)
	assert.Len(t, tokens, 1)
	assert.True(t, math.IsInf(tokens[0].Value, 1))
}

// TestTokenizeErrors function checks tokenizer for malformed input
func TestTokenizeErrors(t *testing.T) {
	var testScenarios = []struct {
		input    string
		position int
	}{
		{"2 % 3", 2},
		{"x", 0},
		{"2e", 1},
		{"2e+", 1},
		{"1.2.3", 0},
		{"(-.)", 1},
		{"1 + .", 4},
		{"2 ≠ 3", 2},
	}

	for _, scenario := range testScenarios {
		t.Run(scenario.input, func(t *testing.T) {
			tokens, err := evaluator.Tokenize(scenario.input, noLimits)
			assert.Nil(t, tokens)

			var tokenizationError *evaluator.TokenizationError
			if assert.True(t, errors.As(err, &tokenizationError)) {
				assert.Equal(t, scenario.position, tokenizationError.Position)
			}
		})
	}
}

// TestTokenizeLimits function checks the configurable safety limits
func TestTokenizeLimits(t *testing.T) {
	limits := evaluator.Limits{MaxTokens: 3, MaxLiteralLength: 4}

	_, err := evaluator.Tokenize("1 + 2", limits)
	assert.NoError(t, err)

	_, err = evaluator.Tokenize("1 + 2 + 3", limits)
	assert.EqualError(t, err, "tokenization failed at position 6: too many tokens")

	_, err = evaluator.Tokenize("1234", limits)
	assert.NoError(t, err)

	_, err = evaluator.Tokenize("12345", limits)
	assert.EqualError(t, err, "tokenization failed at position 0: numeric literal is too long")
}
