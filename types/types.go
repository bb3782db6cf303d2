/*
Copyright © 2021 Red Hat, Inc.

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

package types

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/expression-evaluator/types

import (
	"math"
	"time"
)

// Timestamp represents any timestamp in a form gathered from database
type Timestamp time.Time

// BatchID identifies one run of the evaluator. All records written into
// storage or produced to Kafka during one run share the same batch ID.
type BatchID string

// LineNumber is a 1-based number of line in the input file.
type LineNumber int

// DBDriver type for db driver enum
type DBDriver int

const (
	// DBDriverSQLite3 shows that db driver is sqlite
	DBDriverSQLite3 DBDriver = iota
	// DBDriverPostgres shows that db driver is postgres
	DBDriverPostgres
	// DBDriverMySQL shows that db driver is MySQL or MariaDB
	DBDriverMySQL
	// DBDriverGeneral general sql(used for mock now)
	DBDriverGeneral
)

// Operator is a closed enumeration of binary arithmetic operators.
type Operator int

// All supported operators
const (
	Add Operator = iota
	Sub
	Mul
	Div
	Pow
)

// operatorInfo holds everything that is known about one operator.
type operatorInfo struct {
	symbol     string
	precedence int
	apply      func(left, right float64) float64
}

var operators = [...]operatorInfo{
	Add: {"+", 1, func(l, r float64) float64 { return l + r }},
	Sub: {"-", 1, func(l, r float64) float64 { return l - r }},
	Mul: {"*", 2, func(l, r float64) float64 { return l * r }},
	Div: {"/", 2, func(l, r float64) float64 { return l / r }},
	Pow: {"^", 3, math.Pow},
}

// String returns symbol used for given operator in expressions
func (o Operator) String() string {
	return operators[o].symbol
}

// Precedence returns operator precedence. Higher value binds tighter.
func (o Operator) Precedence() int {
	return operators[o].precedence
}

// Apply computes left <op> right. Division by zero is not checked there.
func (o Operator) Apply(left, right float64) float64 {
	return operators[o].apply(left, right)
}

// OperatorFromSymbol returns operator for given one-character symbol
func OperatorFromSymbol(symbol byte) (Operator, bool) {
	switch symbol {
	case '+':
		return Add, true
	case '-':
		return Sub, true
	case '*':
		return Mul, true
	case '/':
		return Div, true
	case '^':
		return Pow, true
	}
	return 0, false
}

// TokenKind represents the kind of lexical token
type TokenKind int

// Token kinds as enum
const (
	NumberToken TokenKind = iota
	OperatorToken
	LeftParenToken
	RightParenToken
)

// String function returns string representation of given token kind
func (k TokenKind) String() string {
	return [...]string{"number", "operator", "left parenthesis", "right parenthesis"}[k]
}

// Token is one lexical token. Tokens are values and are never modified
// after they are produced by tokenizer. Text holds the literal as written in
// the normalized expression.
type Token struct {
	Kind     TokenKind
	Operator Operator
	Value    float64
	Text     string
}

// NewNumber constructs a number token
func NewNumber(text string, value float64) Token {
	return Token{Kind: NumberToken, Value: value, Text: text}
}

// NewOperator constructs an operator token
func NewOperator(op Operator) Token {
	return Token{Kind: OperatorToken, Operator: op, Text: op.String()}
}

// NewLeftParen constructs a token for "("
func NewLeftParen() Token {
	return Token{Kind: LeftParenToken, Text: "("}
}

// NewRightParen constructs a token for ")"
func NewRightParen() Token {
	return Token{Kind: RightParenToken, Text: ")"}
}

// String returns the textual form of token
func (t Token) String() string {
	return t.Text
}

// Tokens is an ordered sequence of tokens
type Tokens []Token

// Stage represents the pipeline stage where processing of one line ended
type Stage int

// Pipeline stages as enum
const (
	StageRejected Stage = iota
	StageTokenize
	StageConvert
	StageEvaluate
	StageDone
)

// String function returns string representation of given stage
func (s Stage) String() string {
	return [...]string{"rejected", "tokenize", "convert", "evaluate", "done"}[s]
}

// ExpressionRecord represents the outcome of processing one input line
type ExpressionRecord struct {
	LineNumber LineNumber
	Expression string
	Normalized string
	Tokens     Tokens
	Postfix    Tokens
	Result     float64
	Stage      Stage
	Err        error
}

// Valid returns true if the expression has been evaluated successfully
func (r ExpressionRecord) Valid() bool {
	return r.Stage == StageDone && r.Err == nil
}

// ProducerMessage represents message that can be sent by any producer
type ProducerMessage []byte

// ResultMessage is a payload describing one evaluated expression. It is
// produced to Kafka as JSON.
type ResultMessage struct {
	BatchID    BatchID    `json:"batch_id"`
	LineNumber LineNumber `json:"line"`
	Expression string     `json:"expression"`
	Postfix    string     `json:"postfix"`
	Result     string     `json:"result,omitempty"`
	Valid      bool       `json:"valid"`
	Stage      string     `json:"stage"`
	Error      string     `json:"error,omitempty"`
	Timestamp  string     `json:"timestamp"`
}

// CliFlags represents structure holding all command line arguments/flags.
type CliFlags struct {
	ShowVersion               bool
	ShowAuthors               bool
	ShowConfiguration         bool
	Verbose                   bool
	InitDatabase              bool
	PrintOldRecordsForCleanup bool
	PerformOldRecordsCleanup  bool
	InputFile                 string
	MaxAge                    string
}
