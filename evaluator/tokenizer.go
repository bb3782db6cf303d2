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

// This source file contains the tokenizer (lexer). It splits the normalized
// expression into numbers, operators, and parentheses.
//
// The lexer is either expecting an operand (at the beginning, after an
// operator and after left parenthesis) or an operator (after number and
// after right parenthesis). A sign followed by a digit in the former state
// is part of the numeric literal. Additionally `(-1.0)` and `(+2)` are read
// as one signed number, the parentheses are not emitted at all. A left
// parenthesis directly followed by a signed literal is never emitted.

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/RedHatInsights/expression-evaluator/types"
)

// Limits contains safety limits for tokenizer. Zero value means that the
// limit is not checked.
type Limits struct {
	MaxTokens        int
	MaxLiteralLength int
}

type lexerState int

const (
	operandExpected lexerState = iota
	operatorExpected
)

type lexer struct {
	input  string
	pos    int
	state  lexerState
	limits Limits
	tokens types.Tokens
}

// Tokenize function splits the normalized line into sequence of tokens
func Tokenize(line string, limits Limits) (types.Tokens, error) {
	lx := lexer{
		input:  line,
		state:  operandExpected,
		limits: limits,
	}

	for {
		lx.skipWhitespace()
		if lx.pos >= len(lx.input) {
			return lx.tokens, nil
		}
		if err := lx.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (lx *lexer) scanToken() error {
	if err := lx.checkTokenLimit(); err != nil {
		return err
	}

	current := lx.peek(0)

	switch {
	case current == '(' && isSign(lx.peek(1)) && startsNumber(lx.peek(2)):
		return lx.scanGroupedLiteral()
	case isSign(current) && lx.state == operandExpected && startsNumber(lx.peek(1)):
		start := lx.pos
		lx.pos++
		return lx.scanLiteral(start)
	case current == '(':
		lx.pos++
		return lx.emit(types.NewLeftParen(), operandExpected)
	case current == ')':
		lx.pos++
		return lx.emit(types.NewRightParen(), operatorExpected)
	case startsNumber(current):
		return lx.scanLiteral(lx.pos)
	}

	if op, ok := types.OperatorFromSymbol(current); ok {
		lx.pos++
		return lx.emit(types.NewOperator(op), operandExpected)
	}

	unexpected, _ := utf8.DecodeRuneInString(lx.input[lx.pos:])
	return &TokenizationError{
		Position: lx.pos,
		Msg:      "unexpected character " + strconv.QuoteRune(unexpected),
	}
}

// scanGroupedLiteral reads `(-1.0)` as a single number. The left
// parenthesis is always consumed, the right one only when it immediately
// follows the literal. Otherwise the group stays open on the right side,
// for example `(-1 + 2)` yields `-1 + 2 )`.
func (lx *lexer) scanGroupedLiteral() error {
	start := lx.pos + 1
	lx.pos = start + 1

	token, err := lx.readLiteral(start)
	if err != nil {
		return err
	}

	if lx.peek(0) == ')' {
		lx.pos++
	}
	return lx.emit(token, operatorExpected)
}

// scanLiteral reads numeric literal starting at given position (which might
// point to its sign) and emits it
func (lx *lexer) scanLiteral(start int) error {
	token, err := lx.readLiteral(start)
	if err != nil {
		return err
	}
	return lx.emit(token, operatorExpected)
}

// readLiteral consumes digits, decimal points and an optional exponent. The
// literal text is input[start:pos] after the call.
func (lx *lexer) readLiteral(start int) (types.Token, error) {
	for isDigit(lx.peek(0)) || lx.peek(0) == '.' {
		lx.pos++
	}

	// exponent is consumed only when it is complete
	if c := lx.peek(0); c == 'e' || c == 'E' {
		digits := lx.pos + 1
		if isSign(lx.peekAt(digits)) {
			digits++
		}
		if isDigit(lx.peekAt(digits)) {
			lx.pos = digits
			for isDigit(lx.peek(0)) {
				lx.pos++
			}
		}
	}

	text := lx.input[start:lx.pos]
	if lx.limits.MaxLiteralLength > 0 && len(text) > lx.limits.MaxLiteralLength {
		return types.Token{}, &TokenizationError{
			Position: start,
			Msg:      "numeric literal is too long",
		}
	}

	value, err := parseLiteral(text)
	if err != nil {
		return types.Token{}, &TokenizationError{
			Position: start,
			Msg:      "malformed numeric literal " + strconv.Quote(text),
		}
	}

	return types.NewNumber(text, value), nil
}

func (lx *lexer) emit(token types.Token, next lexerState) error {
	if err := lx.checkTokenLimit(); err != nil {
		return err
	}
	lx.tokens = append(lx.tokens, token)
	lx.state = next
	return nil
}

func (lx *lexer) checkTokenLimit() error {
	if lx.limits.MaxTokens > 0 && len(lx.tokens) >= lx.limits.MaxTokens {
		return &TokenizationError{
			Position: lx.pos,
			Msg:      "too many tokens",
		}
	}
	return nil
}

func (lx *lexer) skipWhitespace() {
	for isSpace(lx.peek(0)) {
		lx.pos++
	}
}

// peek returns byte at given offset from actual position, zero at the end
func (lx *lexer) peek(offset int) byte {
	return lx.peekAt(lx.pos + offset)
}

func (lx *lexer) peekAt(index int) byte {
	if index >= len(lx.input) {
		return 0
	}
	return lx.input[index]
}

// parseLiteral converts literal text into float64. Values out of range are
// accepted as infinity (or zero), the same way strtod does it.
func parseLiteral(text string) (float64, error) {
	for i := 0; i < len(text); i++ {
		if !isLiteralChar(text[i]) {
			return 0, strconv.ErrSyntax
		}
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return value, nil
}

func isLiteralChar(c byte) bool {
	return isDigit(c) || isSign(c) || c == '.' || c == 'e' || c == 'E'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

func startsNumber(c byte) bool {
	return isDigit(c) || c == '.'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
