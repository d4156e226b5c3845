package hfilter

import (
	"github.com/litetable/litetable-htable/internal/litetable"
)

// Operator joins the filters of a List.
type Operator uint8

const (
	// MustPassAll is AND: a cell is kept only if every filter keeps it.
	MustPassAll Operator = iota
	// MustPassOne is OR: a cell is kept if any filter keeps it.
	MustPassOne
)

// List combines filters with AND or OR.
type List struct {
	op      Operator
	filters []Filter
}

// NewList joins filters with op.
func NewList(op Operator, filters ...Filter) *List {
	return &List{op: op, filters: filters}
}

// restrictiveness ranks return codes for AND: the most restrictive code wins.
var restrictiveness = map[ReturnCode]int{
	Include:           0,
	Skip:              1,
	NextCol:           2,
	SeekNextUsingHint: 3,
	NextRow:           4,
	Done:              5,
}

func (l *List) FilterCell(c *litetable.Cell) (ReturnCode, error) {
	if len(l.filters) == 0 {
		return Include, nil
	}

	codes := make([]ReturnCode, 0, len(l.filters))
	for _, f := range l.filters {
		rc, err := f.FilterCell(c)
		if err != nil {
			return Done, err
		}
		codes = append(codes, rc)
	}

	if l.op == MustPassAll {
		out := Include
		for _, rc := range codes {
			if restrictiveness[rc] > restrictiveness[out] {
				out = rc
			}
		}
		return out, nil
	}
	return mergeAny(codes), nil
}

// mergeAny is the OR merge: the least restrictive code wins, and seeks are kept only when
// every filter agrees to move past the cell in the same way.
func mergeAny(codes []ReturnCode) ReturnCode {
	var counts [Done + 1]int
	for _, rc := range codes {
		if rc == Include {
			return Include
		}
		counts[rc]++
	}

	n := len(codes)
	switch {
	case counts[Done] == n:
		return Done
	case counts[Done]+counts[NextRow] == n:
		return NextRow
	case counts[SeekNextUsingHint] == n:
		return SeekNextUsingHint
	case counts[Done]+counts[NextRow]+counts[NextCol] == n:
		return NextCol
	}
	return Skip
}

// NextCellHint is the furthest hint for AND and the nearest for OR.
func (l *List) NextCellHint(c *litetable.Cell) (*litetable.Cell, error) {
	var hint *litetable.Cell
	for _, f := range l.filters {
		h, ok := f.(Hinter)
		if !ok {
			continue
		}
		rc, err := f.FilterCell(c)
		if err != nil {
			return nil, err
		}
		if rc != SeekNextUsingHint {
			continue
		}

		next, err := h.NextCellHint(c)
		if err != nil {
			return nil, err
		}
		if next == nil {
			continue
		}

		switch {
		case hint == nil:
			hint = next
		case l.op == MustPassAll && litetable.Compare(next, hint) > 0:
			hint = next
		case l.op == MustPassOne && litetable.Compare(next, hint) < 0:
			hint = next
		}
	}
	return hint, nil
}

func (l *List) TransformCell(c litetable.Cell) litetable.Cell {
	for _, f := range l.filters {
		if t, ok := f.(Transformer); ok {
			c = t.TransformCell(c)
		}
	}
	return c
}

func (l *List) FilterRow(cells []litetable.Cell) bool {
	if l.op == MustPassAll {
		for _, f := range l.filters {
			if rf, ok := f.(RowFilter); ok && rf.FilterRow(cells) {
				return true
			}
		}
		return false
	}

	for _, f := range l.filters {
		rf, ok := f.(RowFilter)
		if !ok || !rf.FilterRow(cells) {
			return false
		}
	}
	return len(l.filters) > 0
}
