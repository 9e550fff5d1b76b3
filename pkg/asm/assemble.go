// Package asm implements the assembler: a line-oriented text format,
// one instruction per line, translated to 16-bit machine words.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oisee/pipesim/pkg/inst"
)

// Diagnostic is one skipped or malformed line, collected rather than
// raised, so assembly continues with the successfully assembled
// prefix.
type Diagnostic struct {
	Line    int
	Text    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Message, d.Text)
}

// Assemble reads one instruction per non-empty line from r and
// returns the encoded word stream in file order. Unknown mnemonics,
// malformed operand lists, and out-of-range immediates are reported
// as Diagnostics and the offending line is skipped; err is non-nil
// only for an I/O failure reading r.
func Assemble(r io.Reader) (words []uint16, diags []Diagnostic, err error) {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, err := assembleLine(line)
		if err != nil {
			diags = append(diags, Diagnostic{Line: lineNo, Text: line, Message: err.Error()})
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, diags, fmt.Errorf("asm: reading input: %w", err)
	}
	return words, diags, nil
}

// assembleLine parses and encodes a single "MNEMONIC operand, operand"
// line.
func assembleLine(line string) (uint16, error) {
	mnemonic, operandText, ok := strings.Cut(line, " ")
	if !ok {
		mnemonic, operandText, ok = strings.Cut(line, "\t")
	}
	if !ok {
		return 0, fmt.Errorf("unrecognized instruction")
	}
	mnemonic = strings.ToUpper(strings.TrimSpace(mnemonic))

	op, ok := inst.ByMnemonic(mnemonic)
	if !ok {
		return 0, fmt.Errorf("unrecognized mnemonic %q", mnemonic)
	}

	operands := strings.Split(operandText, ",")
	if len(operands) != 2 {
		return 0, fmt.Errorf("%s requires two operands, got %q", mnemonic, operandText)
	}
	rd, err := parseRegister(operands[0])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", mnemonic, err)
	}

	if inst.Catalog[op].Format == inst.RType {
		rs, err := parseRegister(operands[1])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", mnemonic, err)
		}
		return inst.Encode(op, rd, rs, 0)
	}

	imm, err := parseImmediate(operands[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", mnemonic, err)
	}
	return inst.Encode(op, rd, 0, imm)
}

// parseRegister parses "R<0-63>".
func parseRegister(text string) (uint8, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || (text[0] != 'R' && text[0] != 'r') {
		return 0, fmt.Errorf("expected register operand Rn, got %q", text)
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil {
		return 0, fmt.Errorf("invalid register index %q", text)
	}
	if n < 0 || n > 63 {
		return 0, fmt.Errorf("register index R%d out of range 0..63", n)
	}
	return uint8(n), nil
}

// parseImmediate parses a decimal integer, positive or negative.
func parseImmediate(text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid immediate %q", text)
	}
	return n, nil
}
