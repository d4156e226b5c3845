package htable

import (
	"errors"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// seekStepLimit is how many cells a seek walks over with Next before it falls back to a
// real Seek on the scanner.
const seekStepLimit = 4

// cursor is how the row iterator moves through the store. Cells of one row always come
// in ascending qualifier then newest first order, whatever the scan direction.
type cursor interface {
	// current returns the cell under the cursor without moving, or litetable.ErrIterEnd.
	current() (*litetable.Cell, error)
	// advance moves past the current cell.
	advance() error
	// seek moves to the first cell at or after key within the scan order, and returns how
	// many cells were passed over on the way (the current cell included).
	seek(key litetable.Cell) (int, error)
	// skipRow moves to the first cell of the row that follows row in scan order.
	skipRow(row []byte) error
	close() error
}

// peekScanner wraps a forward CellScanner with a one cell lookahead.
type peekScanner struct {
	scanner   CellScanner
	cell      *litetable.Cell
	exhausted bool
}

func (p *peekScanner) current() (*litetable.Cell, error) {
	if p.cell != nil {
		return p.cell, nil
	}
	if p.exhausted {
		return nil, litetable.ErrIterEnd
	}

	c, err := p.scanner.Next()
	if err != nil {
		if errors.Is(err, litetable.ErrIterEnd) {
			p.exhausted = true
		}
		return nil, err
	}
	p.cell = c
	return c, nil
}

func (p *peekScanner) advance() error {
	if _, err := p.current(); err != nil {
		return ignoreEnd(err)
	}
	p.cell = nil
	return nil
}

func (p *peekScanner) seek(key litetable.Cell) (int, error) {
	skipped := 0
	for i := 0; i < seekStepLimit; i++ {
		c, err := p.current()
		if err != nil {
			return skipped, ignoreEnd(err)
		}
		if litetable.Compare(c, &key) >= 0 {
			return skipped, nil
		}
		p.cell = nil
		skipped++
	}

	c, err := p.current()
	if err != nil {
		return skipped, ignoreEnd(err)
	}
	if litetable.Compare(c, &key) >= 0 {
		return skipped, nil
	}
	p.cell = nil
	return skipped + 1, p.scanner.Seek(key)
}

func (p *peekScanner) close() error {
	p.cell = nil
	p.exhausted = true
	return p.scanner.Close()
}

func ignoreEnd(err error) error {
	if errors.Is(err, litetable.ErrIterEnd) {
		return nil
	}
	return err
}

// forwardCursor walks rows in ascending order straight off one scanner.
type forwardCursor struct {
	peekScanner
}

func newForwardCursor(s CellScanner) *forwardCursor {
	return &forwardCursor{peekScanner: peekScanner{scanner: s}}
}

func (f *forwardCursor) skipRow(row []byte) error {
	_, err := f.seek(litetable.LastOnRow(row))
	return err
}
