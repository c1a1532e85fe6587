package memhost

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// exprResult is the outcome of evaluating one expression.
type exprResult struct {
	value float64
	// refs are the parameter names the expression mentioned, in first-use order.
	refs []string
}

// evalExpr parses and evaluates an arithmetic expression. Supported syntax:
// decimal numbers with an optional unit suffix ("10 mm", "10mm"), parameter
// references by name, + - * /, unary minus and parentheses. env resolves
// references to values; a nil resolution result is an unknown reference.
func evalExpr(expr string, env func(name string) (float64, bool)) (exprResult, error) {
	p := &exprParser{input: expr, env: env}
	p.next()
	value, err := p.parseSum()
	if err != nil {
		return exprResult{}, err
	}
	if p.tok.kind != tokEOF {
		return exprResult{}, fmt.Errorf("unexpected %q", p.tok.text)
	}
	return exprResult{value: value, refs: p.refs}, nil
}

// extractRefs returns the parameter names referenced by expr without needing
// their values. Invalid syntax still yields the references seen before the
// error; callers that care pass the error through evalExpr instead.
func extractRefs(expr string) []string {
	var refs []string
	p := &exprParser{input: expr, env: func(string) (float64, bool) { return 0, true }}
	p.next()
	if _, err := p.parseSum(); err == nil && p.tok.kind == tokEOF {
		refs = p.refs
	} else {
		// Fall back to a token scan so error-state records still report
		// what they mention.
		refs = scanIdents(expr)
	}
	return refs
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	num  float64
}

type exprParser struct {
	input string
	pos   int
	tok   token
	env   func(name string) (float64, bool)
	refs  []string
	seen  map[string]bool
}

func (p *exprParser) next() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF}
		return
	}

	c := p.input[p.pos]
	switch {
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
			p.pos++
		}
		text := p.input[start:p.pos]
		num, err := strconv.ParseFloat(text, 64)
		if err != nil {
			num = 0
			text = "?" + text
		}
		p.tok = token{kind: tokNumber, text: text, num: num}
	case isIdentStart(rune(c)):
		start := p.pos
		for p.pos < len(p.input) && isIdentPart(rune(p.input[p.pos])) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos]}
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "("}
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")"}
	case c == '+' || c == '-' || c == '*' || c == '/':
		p.pos++
		p.tok = token{kind: tokOp, text: string(c)}
	default:
		p.tok = token{kind: tokOp, text: "?" + string(c)}
		p.pos++
	}
}

func (p *exprParser) parseSum() (float64, error) {
	left, err := p.parseProduct()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *exprParser) parseProduct() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
	return left, nil
}

func (p *exprParser) parseFactor() (float64, error) {
	switch p.tok.kind {
	case tokNumber:
		if strings.HasPrefix(p.tok.text, "?") {
			return 0, fmt.Errorf("malformed number %q", p.tok.text[1:])
		}
		value := p.tok.num
		p.next()
		// A unit name directly after a number annotates it: "10 mm".
		if p.tok.kind == tokIdent && validUnits[p.tok.text] {
			p.next()
		}
		return value, nil

	case tokIdent:
		name := p.tok.text
		p.next()
		value, ok := p.env(name)
		if !ok {
			return 0, fmt.Errorf("unknown reference %q", name)
		}
		p.recordRef(name)
		return value, nil

	case tokLParen:
		p.next()
		value, err := p.parseSum()
		if err != nil {
			return 0, err
		}
		if p.tok.kind != tokRParen {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.next()
		return value, nil

	case tokOp:
		if p.tok.text == "-" {
			p.next()
			value, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			return -value, nil
		}
		if p.tok.text == "+" {
			p.next()
			return p.parseFactor()
		}
		return 0, fmt.Errorf("unexpected %q", strings.TrimPrefix(p.tok.text, "?"))

	default:
		return 0, fmt.Errorf("unexpected end of expression")
	}
}

func (p *exprParser) recordRef(name string) {
	if p.seen == nil {
		p.seen = make(map[string]bool)
	}
	if !p.seen[name] {
		p.seen[name] = true
		p.refs = append(p.refs, name)
	}
}

// scanIdents collects identifier tokens that are not unit annotations.
func scanIdents(expr string) []string {
	var refs []string
	seen := make(map[string]bool)
	i := 0
	prevNumber := false
	for i < len(expr) {
		c := rune(expr[i])
		switch {
		case unicode.IsDigit(c) || c == '.':
			for i < len(expr) && (unicode.IsDigit(rune(expr[i])) || expr[i] == '.') {
				i++
			}
			prevNumber = true
			continue
		case isIdentStart(c):
			start := i
			for i < len(expr) && isIdentPart(rune(expr[i])) {
				i++
			}
			name := expr[start:i]
			if prevNumber && validUnits[name] {
				prevNumber = false
				continue
			}
			if !seen[name] {
				seen[name] = true
				refs = append(refs, name)
			}
			prevNumber = false
			continue
		}
		if c != ' ' && c != '\t' {
			prevNumber = false
		}
		i++
	}
	return refs
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

// ValidName reports whether name is a legal parameter identifier.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		if i == 0 && !isIdentStart(c) {
			return false
		}
		if i > 0 && !isIdentPart(c) {
			return false
		}
	}
	return true
}
