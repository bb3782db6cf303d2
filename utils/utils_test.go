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

package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/expression-evaluator/utils"
)

// TestSetHTTPPrefix checks that the prefix is added only when needed
func TestSetHTTPPrefix(t *testing.T) {
	assert.Equal(t, "http://localhost:9091", utils.SetHTTPPrefix("localhost:9091"))
	assert.Equal(t, "http://:9091", utils.SetHTTPPrefix(":9091"))
	assert.Equal(t, "http://localhost:9091", utils.SetHTTPPrefix("http://localhost:9091"))
	assert.Equal(t, "https://localhost:9091", utils.SetHTTPPrefix("https://localhost:9091"))
}

// TestGetPrintableStatement checks that SQL statement is put on one line
func TestGetPrintableStatement(t *testing.T) {
	statement := `
		DELETE
		  FROM expressions
		 WHERE processed_at < $1
`
	assert.Equal(t, "DELETE   FROM expressions  WHERE processed_at < $1",
		utils.GetPrintableStatement(statement))
}
