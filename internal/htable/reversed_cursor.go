package htable

import (
	"bytes"
	"errors"

	"github.com/litetable/litetable-htable/internal/litetable"
)

// rowWindow walks rows in descending order while still handing out the cells of each row
// in ascending order.
//
// A reverse scanner over the whole range only finds row keys. Each row it lands on is
// opened as its own forward scan, and all in-row movement happens there. Stepping to the
// preceding row seeks the reverse scanner to the first key of the current row, which puts
// it on the last cell of the row before.
type rowWindow struct {
	source ScanSource
	family string
	outer  CellScanner

	row       []byte
	inner     *peekScanner
	exhausted bool
}

func newRowWindow(source ScanSource, family string, outer CellScanner) *rowWindow {
	return &rowWindow{
		source: source,
		family: family,
		outer:  outer,
	}
}

func (w *rowWindow) current() (*litetable.Cell, error) {
	for {
		if w.exhausted {
			return nil, litetable.ErrIterEnd
		}
		if w.inner == nil {
			if err := w.openPrecedingRow(); err != nil {
				return nil, err
			}
			continue
		}

		c, err := w.inner.current()
		if errors.Is(err, litetable.ErrIterEnd) {
			// the row is drained, move the window down
			if err := w.skipRow(w.row); err != nil {
				return nil, err
			}
			continue
		}
		return c, err
	}
}

// openPrecedingRow reads the next row key off the reverse scanner and opens a forward
// scan over that row.
func (w *rowWindow) openPrecedingRow() error {
	c, err := w.outer.Next()
	if errors.Is(err, litetable.ErrIterEnd) {
		w.exhausted = true
		return nil
	}
	if err != nil {
		return err
	}

	w.row = append(w.row[:0], c.Row...)
	s, err := w.source.Open(litetable.SingleRow(w.family, bytes.Clone(w.row)))
	if err != nil {
		return err
	}
	w.inner = &peekScanner{scanner: s}
	return nil
}

func (w *rowWindow) closeInner() error {
	if w.inner == nil {
		return nil
	}
	err := w.inner.close()
	w.inner = nil
	return err
}

func (w *rowWindow) advance() error {
	if w.inner == nil {
		return nil
	}
	return w.inner.advance()
}

func (w *rowWindow) seek(key litetable.Cell) (int, error) {
	if w.inner == nil || w.exhausted {
		return 0, nil
	}

	switch cmp := bytes.Compare(key.Row, w.row); {
	case cmp == 0:
		return w.inner.seek(key)
	case cmp > 0:
		// rows above the window were already handed out
		return 0, w.skipRow(w.row)
	}

	// a key in an earlier row: land the reverse scanner on that row or the one before it
	if err := w.closeInner(); err != nil {
		return 0, err
	}
	if err := w.outer.Seek(litetable.LastOnRow(key.Row)); err != nil {
		return 0, err
	}
	if err := w.openPrecedingRow(); err != nil || w.exhausted {
		return 0, err
	}
	if bytes.Equal(w.row, key.Row) {
		return w.inner.seek(key)
	}
	return 0, nil
}

func (w *rowWindow) skipRow(row []byte) error {
	if err := w.closeInner(); err != nil {
		return err
	}
	return w.outer.Seek(litetable.FirstOnRow(bytes.Clone(row)))
}

func (w *rowWindow) close() error {
	return errors.Join(w.closeInner(), w.outer.Close())
}
