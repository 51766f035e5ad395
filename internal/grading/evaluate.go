package grading

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// MaxInputLength bounds the size of an answer the engine will look at.
// Longer inputs are unevaluable without being parsed.
const MaxInputLength = 4096

// errSyntax marks input that is not an arithmetic expression.
var errSyntax = errors.New("syntax error")

// Evaluate parses a normalized expression and computes its value with
// Precision significant digits. It never fails: malformed input yields a
// KindText value and arithmetic failures yield a KindUnevaluable value.
func Evaluate(expr string) Value {
	if len(expr) > MaxInputLength {
		return Value{}
	}
	tree, err := parse(expr)
	if err != nil {
		return textValue(expr)
	}
	work := budget(maxLoopSteps)
	d, err := tree.eval(&work)
	if err != nil || d == nil {
		return Value{}
	}
	return numberValue(d)
}

// budget is the number of factorial and binomial loop steps one
// evaluation may still spend.
type budget int64

func (b *budget) spend(steps int64) error {
	if steps > int64(*b) {
		return errTooLarge
	}
	*b -= budget(steps)
	return nil
}

// node is an evaluable expression tree element.
type node interface {
	eval(b *budget) (*apd.Decimal, error)
}

type numberNode struct{ val *apd.Decimal }

func (n numberNode) eval(*budget) (*apd.Decimal, error) { return n.val, nil }

type negNode struct{ arg node }

func (n negNode) eval(b *budget) (*apd.Decimal, error) {
	v, err := n.arg.eval(b)
	if err != nil {
		return nil, err
	}
	return neg(v), nil
}

type binaryNode struct {
	op          byte
	left, right node
}

func (n binaryNode) eval(b *budget) (*apd.Decimal, error) {
	l, err := n.left.eval(b)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(b)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case '+':
		return add(l, r)
	case '-':
		return sub(l, r)
	case '*':
		return mul(l, r)
	case '/':
		return quo(l, r)
	case '^':
		return pow(l, r)
	}
	return nil, fmt.Errorf("unknown operator %q", n.op)
}

type callNode struct {
	fn   function
	args []node
}

func (n callNode) eval(b *budget) (*apd.Decimal, error) {
	vals := make([]*apd.Decimal, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(b)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	if n.fn.cost != nil {
		if err := b.spend(n.fn.cost(vals)); err != nil {
			return nil, err
		}
	}
	return n.fn.call(vals)
}

// function is an entry of the evaluation scope. cost, when set, reports
// the loop steps a call with args will take.
type function struct {
	arity int
	call  func(args []*apd.Decimal) (*apd.Decimal, error)
	cost  func(args []*apd.Decimal) int64
}

func unary(f func(*apd.Decimal) (*apd.Decimal, error)) function {
	return function{arity: 1, call: func(a []*apd.Decimal) (*apd.Decimal, error) { return f(a[0]) }}
}

func binary(f func(x, y *apd.Decimal) (*apd.Decimal, error)) function {
	return function{arity: 2, call: func(a []*apd.Decimal) (*apd.Decimal, error) { return f(a[0], a[1]) }}
}

func withCost(f function, cost func(args []*apd.Decimal) int64) function {
	f.cost = cost
	return f
}

var functions = map[string]function{
	"factorial":    withCost(unary(factorial), factorialSteps),
	"combinations": withCost(binary(combinations), combinationsSteps),
	"pow":          binary(pow),
	"sqrt":         unary(sqrt),
	"sin":          unary(sin),
	"cos":          unary(cos),
	"tan":          unary(tan),
}

var constants = map[string]*apd.Decimal{
	"pi": pi,
	"e":  euler,
}

// Tokens.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			j := scanNumber(s, i)
			if j == i || (j < len(s) && (isDigit(s[j]) || s[j] == '.')) {
				return nil, errSyntax
			}
			toks = append(toks, token{kind: tokNumber, text: s[i:j]})
			i = j
		case isLetter(c):
			j := i
			for j < len(s) && isLetter(s[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: s[i:j]})
			i = j
		case strings.IndexByte("+-*/^!(),", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: s[i : i+1]})
			i++
		default:
			return nil, errSyntax
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

// scanNumber returns the end of the numeric literal starting at i:
// digits, an optional fraction, and an optional exponent that is only
// consumed when digits follow it.
func scanNumber(s string, i int) int {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j == i+1 && s[i] == '.' {
		return i
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		if k < len(s) && isDigit(s[k]) {
			for k < len(s) && isDigit(s[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// parser is a recursive-descent parser for:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary | implicit)*
//	unary   := ('-' | '+') unary | power
//	power   := postfix ('^' unary)?
//	postfix := primary '!'*
//	primary := number | constant | ident '(' expr (',' expr)* ')' | '(' expr ')'
//
// Implicit multiplication applies when a term is directly followed by an
// identifier or an opening parenthesis, as in 2pi or 2sqrt(3).
type parser struct {
	toks []token
	pos  int
}

func parse(s string) (node, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, errSyntax
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == op
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		return errSyntax
	}
	p.next()
	return nil
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text[0]
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isOp("*") || p.isOp("/"):
			op := p.next().text[0]
			right, err := p.unary()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: op, left: left, right: right}
		case p.peek().kind == tokIdent || p.isOp("("):
			right, err := p.power()
			if err != nil {
				return nil, err
			}
			left = binaryNode{op: '*', left: left, right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) unary() (node, error) {
	switch {
	case p.isOp("-"):
		p.next()
		arg, err := p.unary()
		if err != nil {
			return nil, err
		}
		return negNode{arg: arg}, nil
	case p.isOp("+"):
		p.next()
		return p.unary()
	}
	return p.power()
}

func (p *parser) power() (node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return binaryNode{op: '^', left: base, right: exp}, nil
}

func (p *parser) postfix() (node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.isOp("!") {
		p.next()
		n = callNode{fn: functions["factorial"], args: []node{n}}
	}
	return n, nil
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		text := t.text
		if text[0] == '.' {
			text = "0" + text
		}
		d, _, err := apd.NewFromString(text)
		if err != nil {
			return nil, errSyntax
		}
		return numberNode{val: d}, nil

	case tokIdent:
		if p.isOp("(") {
			fn, ok := functions[t.text]
			if !ok {
				return nil, errSyntax
			}
			return p.call(fn)
		}
		c, ok := constants[t.text]
		if !ok {
			return nil, errSyntax
		}
		return numberNode{val: c}, nil

	case tokOp:
		if t.text == "(" {
			n, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return n, nil
		}
	}
	return nil, errSyntax
}

func (p *parser) call(fn function) (node, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var args []node
	for {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.isOp(",") {
			break
		}
		p.next()
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	if len(args) != fn.arity {
		return nil, errSyntax
	}
	return callNode{fn: fn, args: args}, nil
}
