// Package command parses the dialog's command-input syntax: one-line
// assignments ("name = value[unit]") and deletions ("del name").
package command

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind discriminates parsed commands.
type Kind string

const (
	KindAssign Kind = "assign"
	KindDelete Kind = "delete"
)

// Command is one parsed command-input line.
type Command struct {
	Kind Kind
	Name string

	// Expression is the right-hand side of an assignment, normalized to
	// "value unit" for plain numeric inputs.
	Expression string
	// Unit is the unit suffix of a plain numeric assignment, empty for
	// unitless values and for formula expressions.
	Unit string
}

// ParseError is a rejected command line.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid command %q: %s", e.Input, e.Reason)
}

func fail(input, format string, args ...any) error {
	return &ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// validUnit is injected so this package does not own the unit table.
var validUnit func(string) bool = func(string) bool { return true }

// SetUnitValidator installs the unit lookup used for numeric assignments.
func SetUnitValidator(fn func(string) bool) {
	validUnit = fn
}

// Parse parses one command-input line.
//
//	width = 10mm        assign numeric value with unit
//	sides = 6           assign unitless numeric value
//	height = width / 2  assign formula (units resolved by the host)
//	del width           delete
func Parse(input string) (*Command, error) {
	line := strings.TrimSpace(input)
	if line == "" {
		return nil, fail(input, "empty command")
	}

	if rest, ok := strings.CutPrefix(line, "del "); ok {
		name := strings.TrimSpace(rest)
		if name == "" {
			return nil, fail(input, "missing parameter name")
		}
		if !validName(name) {
			return nil, fail(input, "invalid parameter name %q", name)
		}
		return &Command{Kind: KindDelete, Name: name}, nil
	}

	name, value, ok := strings.Cut(line, "=")
	if !ok {
		return nil, fail(input, "expected 'name = value' or 'del name'")
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return nil, fail(input, "parameter name and value cannot be empty")
	}
	if !validName(name) {
		return nil, fail(input, "invalid parameter name %q", name)
	}

	// Plain "number[unit]" values get their unit split off and validated;
	// anything else is a formula for the host to evaluate.
	if num, unit, ok := splitNumeric(value); ok {
		if unit != "" && !validUnit(unit) {
			return nil, fail(input, "invalid unit type: %s", unit)
		}
		expr := num
		if unit != "" {
			expr = num + " " + unit
		}
		return &Command{Kind: KindAssign, Name: name, Expression: expr, Unit: unit}, nil
	}

	return &Command{Kind: KindAssign, Name: name, Expression: value}, nil
}

// splitNumeric splits "10mm", "10 mm", "-4.5" into number and unit parts.
// It reports false for anything that is not a single numeric value.
func splitNumeric(value string) (num, unit string, ok bool) {
	s := strings.TrimSpace(value)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := false
	for i < len(s) && (unicode.IsDigit(rune(s[i])) || s[i] == '.') {
		if unicode.IsDigit(rune(s[i])) {
			digits = true
		}
		i++
	}
	if !digits {
		return "", "", false
	}
	num = strings.TrimSpace(s[:i])
	if _, err := strconv.ParseFloat(num, 64); err != nil {
		return "", "", false
	}

	rest := strings.TrimSpace(s[i:])
	if rest == "" {
		return num, "", true
	}
	for _, c := range rest {
		if !unicode.IsLetter(c) && c != '_' {
			return "", "", false
		}
	}
	return num, rest, true
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		if i == 0 && !(c == '_' || unicode.IsLetter(c)) {
			return false
		}
		if i > 0 && !(c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return false
		}
	}
	return true
}
