package hfilter

import (
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a filter string into tokens. Strings are single quoted, a doubled quote
// inside a string is a literal quote.
func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case ch == ',':
			tokens = append(tokens, token{kind: tokComma, text: ",", pos: i})
			i++
		case ch == '\'':
			start := i
			var sb strings.Builder
			i++
			closed := false
			for i < len(input) {
				if input[i] == '\'' {
					if i+1 < len(input) && input[i+1] == '\'' {
						sb.WriteByte('\'')
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				sb.WriteByte(input[i])
				i++
			}
			if !closed {
				return nil, newError(ErrSyntax, "unterminated string at %d", start)
			}
			tokens = append(tokens, token{kind: tokString, text: sb.String(), pos: start})
		case ch == '=' || ch == '!' || ch == '<' || ch == '>':
			start := i
			i++
			if i < len(input) && input[i] == '=' {
				i++
			}
			op := input[start:i]
			if _, ok := compareOps[op]; !ok {
				return nil, newError(ErrSyntax, "unknown operator %q at %d", op, start)
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: start})
		case ch == '-' || (ch >= '0' && ch <= '9'):
			start := i
			i++
			for i < len(input) && input[i] >= '0' && input[i] <= '9' {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: input[start:i], pos: start})
		case isIdentByte(ch):
			start := i
			for i < len(input) && isIdentByte(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: input[start:i], pos: start})
		default:
			return nil, newError(ErrSyntax, "unexpected %q at %d", ch, i)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(input)}), nil
}

func isIdentByte(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

type parser struct {
	tokens []token
	pos    int
	opts   Options
}

// Parse compiles a filter string such as
//
//	PrefixFilter('user') AND (QualifierFilter(=, 'binary:name') OR KeyOnlyFilter())
//
// AND binds tighter than OR. An empty expression yields a nil filter.
func Parse(expr string, opts Options) (Filter, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	tokens, err := lex(expr)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, opts: opts}
	f, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, newError(ErrSyntax, "unexpected %q at %d", t.text, t.pos)
	}
	return f, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, newError(ErrSyntax, "expected %s at %d, got %q", what, t.pos, t.text)
	}
	return t, nil
}

func (p *parser) isKeyword(word string) bool {
	t := p.peek()
	return t.kind == tokIdent && strings.EqualFold(t.text, word)
}

func (p *parser) parseOr() (Filter, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	filters := []Filter{first}
	for p.isKeyword("OR") {
		p.next()
		f, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(filters) == 1 {
		return first, nil
	}
	return NewList(MustPassOne, filters...), nil
}

func (p *parser) parseAnd() (Filter, error) {
	first, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	filters := []Filter{first}
	for p.isKeyword("AND") {
		p.next()
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	if len(filters) == 1 {
		return first, nil
	}
	return NewList(MustPassAll, filters...), nil
}

func (p *parser) parseFactor() (Filter, error) {
	if p.peek().kind == tokLParen {
		p.next()
		f, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return f, nil
	}

	name, err := p.expect(tokIdent, "filter name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var args []token
	if p.peek().kind != tokRParen {
		for {
			t := p.next()
			switch t.kind {
			case tokString, tokNumber, tokOp, tokIdent:
				args = append(args, t)
			default:
				return nil, newError(ErrSyntax, "unexpected %q at %d", t.text, t.pos)
			}
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	return build(name.text, args, p.opts)
}

// build constructs a named filter from its arguments.
func build(name string, args []token, opts Options) (Filter, error) {
	a := argList{name: name, args: args}

	switch name {
	case "PrefixFilter":
		prefix, err := a.single()
		if err != nil {
			return nil, err
		}
		return &PrefixFilter{prefix: prefix, reversed: opts.Reversed}, nil
	case "InclusiveStopFilter":
		stop, err := a.single()
		if err != nil {
			return nil, err
		}
		return &InclusiveStopFilter{stop: stop, reversed: opts.Reversed}, nil
	case "ColumnPrefixFilter":
		prefix, err := a.single()
		if err != nil {
			return nil, err
		}
		return &ColumnPrefixFilter{prefix: prefix}, nil
	case "MultipleColumnPrefixFilter":
		if len(args) == 0 {
			return nil, newError(ErrBadArgument, "%s needs at least one prefix", name)
		}
		prefixes := make([][]byte, 0, len(args))
		for i := range args {
			b, err := a.bytes(i)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, b)
		}
		return newMultipleColumnPrefixFilter(prefixes), nil
	case "RowFilter", "QualifierFilter", "ValueFilter":
		if err := a.count(2); err != nil {
			return nil, err
		}
		op, cmp, err := a.comparison(0)
		if err != nil {
			return nil, err
		}
		switch name {
		case "RowFilter":
			return &RowKeyFilter{op: op, cmp: cmp}, nil
		case "QualifierFilter":
			return &QualifierFilter{op: op, cmp: cmp}, nil
		}
		return &ValueFilter{op: op, cmp: cmp}, nil
	case "ColumnRangeFilter":
		if err := a.count(4); err != nil {
			return nil, err
		}
		f := &ColumnRangeFilter{}
		var err error
		if f.min, err = a.bytes(0); err != nil {
			return nil, err
		}
		if f.minInclusive, err = a.bool(1); err != nil {
			return nil, err
		}
		if f.max, err = a.bytes(2); err != nil {
			return nil, err
		}
		if f.maxInclusive, err = a.bool(3); err != nil {
			return nil, err
		}
		return f, nil
	case "TimestampsFilter":
		ts := make([]int64, 0, len(args))
		for i := range args {
			n, err := a.int(i)
			if err != nil {
				return nil, err
			}
			ts = append(ts, n)
		}
		return newTimestampsFilter(ts), nil
	case "KeyOnlyFilter":
		if err := a.count(0); err != nil {
			return nil, err
		}
		return &KeyOnlyFilter{}, nil
	case "SingleColumnValueFilter":
		if len(args) != 4 && len(args) != 6 {
			return nil, newError(ErrBadArgument, "%s takes 4 or 6 arguments, got %d", name, len(args))
		}
		family, err := a.bytes(0)
		if err != nil {
			return nil, err
		}
		f := &SingleColumnValueFilter{
			latestOnly:    true,
			foreignFamily: opts.Family != "" && string(family) != opts.Family,
		}
		if f.qualifier, err = a.bytes(1); err != nil {
			return nil, err
		}
		if f.op, f.cmp, err = a.comparison(2); err != nil {
			return nil, err
		}
		if len(args) == 6 {
			if f.filterIfMissing, err = a.bool(4); err != nil {
				return nil, err
			}
			if f.latestOnly, err = a.bool(5); err != nil {
				return nil, err
			}
		}
		return f, nil
	}
	return nil, newError(ErrUnknownFilter, "%q", name)
}

type argList struct {
	name string
	args []token
}

func (a *argList) count(n int) error {
	if len(a.args) != n {
		return newError(ErrBadArgument, "%s takes %d arguments, got %d", a.name, n, len(a.args))
	}
	return nil
}

func (a *argList) single() ([]byte, error) {
	if err := a.count(1); err != nil {
		return nil, err
	}
	return a.bytes(0)
}

func (a *argList) bytes(i int) ([]byte, error) {
	t := a.args[i]
	if t.kind != tokString {
		return nil, newError(ErrBadArgument, "%s argument %d must be a quoted string", a.name, i+1)
	}
	return []byte(t.text), nil
}

func (a *argList) bool(i int) (bool, error) {
	t := a.args[i]
	if t.kind == tokIdent {
		switch strings.ToLower(t.text) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, newError(ErrBadArgument, "%s argument %d must be true or false", a.name, i+1)
}

func (a *argList) int(i int) (int64, error) {
	t := a.args[i]
	if t.kind != tokNumber {
		return 0, newError(ErrBadArgument, "%s argument %d must be a number", a.name, i+1)
	}
	n, err := strconv.ParseInt(t.text, 10, 64)
	if err != nil {
		return 0, newError(ErrBadArgument, "%s argument %d: %v", a.name, i+1, err)
	}
	return n, nil
}

// comparison reads an operator at i followed by a comparator string.
func (a *argList) comparison(i int) (CompareOp, Comparator, error) {
	t := a.args[i]
	if t.kind != tokOp {
		return 0, nil, newError(ErrBadArgument, "%s argument %d must be a compare operator", a.name, i+1)
	}
	op := compareOps[t.text]

	expr, err := a.bytes(i + 1)
	if err != nil {
		return 0, nil, err
	}
	cmp, err := NewComparator(string(expr))
	if err != nil {
		return 0, nil, err
	}
	if err := checkOp(op, cmp); err != nil {
		return 0, nil, err
	}
	return op, cmp, nil
}
