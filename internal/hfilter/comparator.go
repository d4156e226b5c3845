package hfilter

import (
	"bytes"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// CompareOp is the relational operator of a comparison filter.
type CompareOp uint8

const (
	Equal CompareOp = iota
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

var compareOps = map[string]CompareOp{
	"=":  Equal,
	"!=": NotEqual,
	"<":  Less,
	"<=": LessOrEqual,
	">":  Greater,
	">=": GreaterOrEqual,
}

func (op CompareOp) String() string {
	for k, v := range compareOps {
		if v == op {
			return k
		}
	}
	return "?"
}

// holds applies op to the result of a three-way comparison of the cell against the operand.
func (op CompareOp) holds(cmp int) bool {
	switch op {
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	case Less:
		return cmp < 0
	case LessOrEqual:
		return cmp <= 0
	case Greater:
		return cmp > 0
	case GreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// Comparator decides whether a row key, qualifier or value satisfies "v op operand".
type Comparator interface {
	Matches(op CompareOp, v []byte) bool
}

// BinaryComparator compares lexicographically against the operand.
type BinaryComparator struct {
	operand []byte
}

func (b *BinaryComparator) Matches(op CompareOp, v []byte) bool {
	return op.holds(bytes.Compare(v, b.operand))
}

// BinaryPrefixComparator compares only the first len(operand) bytes of the candidate.
type BinaryPrefixComparator struct {
	operand []byte
}

func (b *BinaryPrefixComparator) Matches(op CompareOp, v []byte) bool {
	if len(v) > len(b.operand) {
		v = v[:len(b.operand)]
	}
	return op.holds(bytes.Compare(v, b.operand))
}

// SubstringComparator matches when the candidate contains the operand, ignoring case.
// Only = and != are meaningful.
type SubstringComparator struct {
	operand string
}

func (s *SubstringComparator) Matches(op CompareOp, v []byte) bool {
	found := strings.Contains(strings.ToLower(string(v)), s.operand)
	if op == NotEqual {
		return !found
	}
	return found
}

// RegexComparator matches the candidate against a regular expression. Only = and != are
// meaningful.
type RegexComparator struct {
	re *regexp2.Regexp
}

func (r *RegexComparator) Matches(op CompareOp, v []byte) bool {
	found, err := r.re.MatchString(string(v))
	if err != nil {
		// a timed out match counts as no match
		found = false
	}
	if op == NotEqual {
		return !found
	}
	return found
}

const regexTimeout = 100 * time.Millisecond

// NewComparator builds a comparator from the "type:operand" form used in filter strings.
func NewComparator(expr string) (Comparator, error) {
	kind, operand, ok := strings.Cut(expr, ":")
	if !ok {
		return nil, newError(ErrBadArgument, "comparator %q has no type", expr)
	}

	switch kind {
	case "binary":
		return &BinaryComparator{operand: []byte(operand)}, nil
	case "binaryprefix":
		return &BinaryPrefixComparator{operand: []byte(operand)}, nil
	case "substring":
		return &SubstringComparator{operand: strings.ToLower(operand)}, nil
	case "regexstring":
		re, err := regexp2.Compile(operand, regexp2.None)
		if err != nil {
			return nil, newError(ErrBadArgument, "regexstring %q: %v", operand, err)
		}
		re.MatchTimeout = regexTimeout
		return &RegexComparator{re: re}, nil
	}
	return nil, newError(ErrBadArgument, "unknown comparator type %q", kind)
}

// checkOp rejects ordering operators on comparators that only support equality.
func checkOp(op CompareOp, c Comparator) error {
	switch c.(type) {
	case *SubstringComparator, *RegexComparator:
		if op != Equal && op != NotEqual {
			return newError(ErrBadArgument, "operator %s is not supported by %T", op, c)
		}
	}
	return nil
}
