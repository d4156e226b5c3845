package htable

import (
	"github.com/litetable/litetable-htable/internal/litetable"
)

//go:generate mockgen -destination=./source_mock.go -package=htable -source=source.go

// CellScanner is an ordered stream of cells over one ScanRange.
//
// Next returns litetable.ErrIterEnd once the range is exhausted. The returned cell is only
// valid until the following call to Next or Seek.
//
// Seek repositions the stream: on a forward scanner the next cell is the first one at or
// after key, on a reverse scanner it is the first one at or before key.
type CellScanner interface {
	Next() (*litetable.Cell, error)
	Seek(key litetable.Cell) error
	Close() error
}

// ScanSource opens scanners over the underlying row store.
type ScanSource interface {
	Open(r litetable.ScanRange) (CellScanner, error)
}
