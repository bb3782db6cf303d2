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

package processor

import (
	"io"

	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/types"
)

// Output lines
const (
	InvalidExpressionIndicator = "invalid expression"
	postfixLabel               = "Postfix:"
	resultLabel                = "Result: "
)

// WriteRecord writes textual report about one processed line. Rejected line
// is reported by single indicator line, otherwise postfix listing and result
// lines are written.
func WriteRecord(writer io.Writer, record *types.ExpressionRecord, precision int) error {
	if record.Stage == types.StageRejected {
		_, err := io.WriteString(writer, InvalidExpressionIndicator+"\n")
		return err
	}

	postfix := postfixLabel
	if listing := evaluator.FormatPostfix(record.Postfix); listing != "" {
		postfix += " " + listing
	}

	result := resultLabel + InvalidExpressionIndicator
	if record.Valid() {
		result = resultLabel + evaluator.FormatResult(record.Result, precision)
	}

	_, err := io.WriteString(writer, postfix+"\n"+result+"\n")
	return err
}
