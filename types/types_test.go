// Copyright 2022 Red Hat, Inc
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

package types_test

import (
	"errors"
	"math"
	"testing"

	"github.com/RedHatInsights/expression-evaluator/types"
	"github.com/stretchr/testify/assert"
)

func TestOperatorFromSymbol(t *testing.T) {
	var testScenarios = []struct {
		symbol     byte
		expected   types.Operator
		precedence int
		found      bool
	}{
		{'+', types.Add, 1, true},
		{'-', types.Sub, 1, true},
		{'*', types.Mul, 2, true},
		{'/', types.Div, 2, true},
		{'^', types.Pow, 3, true},
		{'%', 0, 0, false},
		{'(', 0, 0, false},
	}

	for _, scenario := range testScenarios {
		op, found := types.OperatorFromSymbol(scenario.symbol)
		assert.Equal(t, scenario.found, found)
		if !found {
			continue
		}
		assert.Equal(t, scenario.expected, op)
		assert.Equal(t, scenario.precedence, op.Precedence())
		assert.Equal(t, string(scenario.symbol), op.String())
	}
}

func TestOperatorApply(t *testing.T) {
	assert.Equal(t, 5.0, types.Add.Apply(2, 3))
	assert.Equal(t, -1.0, types.Sub.Apply(2, 3))
	assert.Equal(t, 6.0, types.Mul.Apply(2, 3))
	assert.Equal(t, 2.5, types.Div.Apply(5, 2))
	assert.Equal(t, 8.0, types.Pow.Apply(2, 3))

	// domain errors are not trapped
	assert.True(t, math.IsNaN(types.Pow.Apply(-8, 1.0/3)))
}

func TestTokenConstructors(t *testing.T) {
	number := types.NewNumber("-1.0", -1)
	assert.Equal(t, types.NumberToken, number.Kind)
	assert.Equal(t, "-1.0", number.String())
	assert.Equal(t, -1.0, number.Value)

	op := types.NewOperator(types.Pow)
	assert.Equal(t, types.OperatorToken, op.Kind)
	assert.Equal(t, "^", op.String())

	assert.Equal(t, "(", types.NewLeftParen().String())
	assert.Equal(t, ")", types.NewRightParen().String())
	assert.Equal(t, "right parenthesis", types.NewRightParen().Kind.String())
}

func TestExpressionRecordValid(t *testing.T) {
	assert.True(t, types.ExpressionRecord{Stage: types.StageDone}.Valid())
	assert.False(t, types.ExpressionRecord{Stage: types.StageEvaluate}.Valid())
	assert.False(t, types.ExpressionRecord{Stage: types.StageDone, Err: errors.New("x")}.Valid())
	assert.Equal(t, "convert", types.StageConvert.String())
}
