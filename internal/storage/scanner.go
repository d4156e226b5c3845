package storage

import (
	"bytes"

	"github.com/dgraph-io/badger/v4"
	"github.com/litetable/litetable-htable/internal/htable"
	"github.com/litetable/litetable-htable/internal/litetable"
)

var _ htable.ScanSource = (*Manager)(nil)

// scanner streams the cells of one ScanRange out of a read only badger transaction.
//
// Forward scanners cover encoded keys in [lower, upper), reverse scanners cover
// (lower, upper].
type scanner struct {
	txn     *badger.Txn
	it      *badger.Iterator
	family  string
	reverse bool
	lower   []byte
	upper   []byte

	// pending is set while the iterator sits on a key Next has not returned yet.
	pending bool
	cell    litetable.Cell
	closed  bool
}

// Open starts a scan over r. The scanner sees a snapshot of the store taken at Open.
func (m *Manager) Open(r litetable.ScanRange) (htable.CellScanner, error) {
	if r.Family == "" {
		return nil, newError(ErrInvalidFamily, "family is required")
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = r.Reverse

	txn := m.db.NewTransaction(false)
	s := &scanner{
		txn:     txn,
		it:      txn.NewIterator(opts),
		family:  r.Family,
		reverse: r.Reverse,
	}
	s.lower, s.upper = bounds(&r)

	if s.reverse {
		s.it.Seek(s.upper)
	} else {
		s.it.Seek(s.lower)
	}
	s.pending = true
	return s, nil
}

// bounds turns a row range into encoded key bounds.
func bounds(r *litetable.ScanRange) ([]byte, []byte) {
	f := r.Family
	if !r.Reverse {
		lower, upper := familyStart(f), familyEnd(f)
		if len(r.Start) > 0 {
			lower = seekKey(f, ptr(litetable.FirstOnRow(r.Start)))
		}
		if len(r.Stop) > 0 {
			if r.IncludeStop {
				upper = seekKey(f, ptr(litetable.LastOnRow(r.Stop)))
			} else {
				upper = seekKey(f, ptr(litetable.FirstOnRow(r.Stop)))
			}
		}
		return lower, upper
	}

	lower, upper := familyStart(f), familyEnd(f)
	if len(r.Start) > 0 {
		upper = seekKey(f, ptr(litetable.LastOnRow(r.Start)))
	}
	if len(r.Stop) > 0 {
		if r.IncludeStop {
			lower = seekKey(f, ptr(litetable.FirstOnRow(r.Stop)))
		} else {
			lower = seekKey(f, ptr(litetable.LastOnRow(r.Stop)))
		}
	}
	return lower, upper
}

func ptr(c litetable.Cell) *litetable.Cell {
	return &c
}

func (s *scanner) inRange(key []byte) bool {
	if s.reverse {
		return bytes.Compare(key, s.lower) > 0 && bytes.Compare(key, s.upper) <= 0
	}
	return bytes.Compare(key, s.lower) >= 0 && bytes.Compare(key, s.upper) < 0
}

func (s *scanner) Next() (*litetable.Cell, error) {
	if s.closed {
		return nil, litetable.ErrIterEnd
	}
	if !s.pending {
		s.it.Next()
	}
	s.pending = false

	if !s.it.Valid() {
		return nil, litetable.ErrIterEnd
	}
	item := s.it.Item()
	if !s.inRange(item.Key()) {
		return nil, litetable.ErrIterEnd
	}

	if err := decodeCellKey(item.Key(), &s.cell); err != nil {
		return nil, newError(ErrCorruptKey, "%x: %v", item.Key(), err)
	}
	v, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	s.cell.Value = v
	return &s.cell, nil
}

// Seek moves to the first key at or after key going forward, or at or before it going in
// reverse. A key outside the range is clamped to the nearest bound.
func (s *scanner) Seek(key litetable.Cell) error {
	if s.closed {
		return nil
	}
	k := seekKey(s.family, &key)
	switch {
	case !s.reverse && bytes.Compare(k, s.lower) < 0:
		k = s.lower
	case s.reverse && bytes.Compare(k, s.upper) > 0:
		k = s.upper
	}
	s.it.Seek(k)
	s.pending = true
	return nil
}

func (s *scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.it.Close()
	s.txn.Discard()
	return nil
}
