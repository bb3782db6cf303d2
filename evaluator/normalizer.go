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

// This source file contains the normalizer, the first stage of expression
// processing. The normalizer rewrites input line into a form that is
// understood by tokenizer:
//
// en dash and em dash  ->  -
// **                   ->  ^
// standalone e         ->  2.7182818
// f                    ->  (dropped, float literal suffix)
// -(                   ->  -1*(
//
// All rules are applied in one left-to-right pass, so the output of one rule
// is never seen by another one. Neighbors of `e` are checked in the
// original input.

import "strings"

const (
	enDash = '–'
	emDash = '—'

	eulerNumber = "2.7182818"
	negatedOpen = "-1*("
)

// Normalize function rewrites raw input line into canonical form.
//
// Please note that every `f` is dropped, not just the one used as a float
// literal suffix.
func Normalize(line string) string {
	runes := []rune(line)

	var builder strings.Builder
	builder.Grow(len(line))

	for i := 0; i < len(runes); {
		current := runes[i]
		next := runeAt(runes, i+1)

		switch {
		case current == enDash || current == emDash:
			builder.WriteByte('-')
			i++
		case current == '*' && next == '*':
			builder.WriteByte('^')
			i += 2
		case current == 'e' && !isASCIIAlnum(runeAt(runes, i-1)) && !isASCIIAlnum(next):
			builder.WriteString(eulerNumber)
			i++
		case current == 'f':
			i++
		case current == '-' && next == '(':
			builder.WriteString(negatedOpen)
			i += 2
		default:
			builder.WriteRune(current)
			i++
		}
	}

	return builder.String()
}

// runeAt returns rune at given index or zero when the index is out of range
func runeAt(runes []rune, index int) rune {
	if index < 0 || index >= len(runes) {
		return 0
	}
	return runes[index]
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
