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

package processor_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/expression-evaluator/processor"
)

// failingWriter refuses all writes
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write error")
}

// TestWriteRecord checks report written for each kind of processed line
func TestWriteRecord(t *testing.T) {
	var testScenarios = []struct {
		expression string
		precision  int
		expected   string
	}{
		{"3 + 4 * 2", 2, "Postfix: 3 4 2 * +\nResult: 11.00\n"},
		{"1 / 3", 4, "Postfix: 1 3 /\nResult: 0.3333\n"},
		{"(-1.0) + 2", 0, "Postfix: -1.0 2 +\nResult: 1\n"},
		{"[1 + 2]", 2, "invalid expression\n"},
		{"", 2, "invalid expression\n"},
		{"2 $ 3", 2, "Postfix:\nResult: invalid expression\n"},
		{"(3 + 4", 2, "Postfix:\nResult: invalid expression\n"},
		{"5 / 0", 2, "Postfix: 5 0 /\nResult: invalid expression\n"},
		{"1e999", 2, "Postfix: 1e999\nResult: inf\n"},
		{"-1e999 * 2", 2, "Postfix: -1e999 2 *\nResult: -inf\n"},
	}

	for _, scenario := range testScenarios {
		t.Run(scenario.expression, func(t *testing.T) {
			record := processExpression(1, scenario.expression)

			buffer := new(bytes.Buffer)
			err := processor.WriteRecord(buffer, &record, scenario.precision)

			assert.NoError(t, err)
			assert.Equal(t, scenario.expected, buffer.String())
		})
	}
}

// TestWriteRecordOnError checks that write error is returned
func TestWriteRecordOnError(t *testing.T) {
	valid := processExpression(1, "1 + 1")
	rejected := processExpression(2, "[")

	assert.Error(t, processor.WriteRecord(failingWriter{}, &valid, 2))
	assert.Error(t, processor.WriteRecord(failingWriter{}, &rejected, 2))
}
