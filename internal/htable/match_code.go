package htable

// MatchCode is the single vocabulary the column trackers, the matcher and the row
// iterator use to steer a scan.
type MatchCode uint8

const (
	// Include the cell and move to the next one.
	Include MatchCode = iota
	// IncludeAndSeekNextCol includes the cell, then skips the remaining versions of its column.
	IncludeAndSeekNextCol
	// IncludeAndSeekNextRow includes the cell, then skips the rest of the row.
	IncludeAndSeekNextRow
	// Skip drops the cell and moves to the next one.
	Skip
	// SeekNextCol drops the cell and the remaining versions of its column.
	SeekNextCol
	// SeekNextRow drops the rest of the row.
	SeekNextRow
	// SeekNextUsingHint seeks to the key supplied by the filter.
	SeekNextUsingHint
	// Done finishes the current row.
	Done
	// DoneScan ends a forward scan.
	DoneScan
	// DoneReverseScan ends a reversed scan.
	DoneReverseScan
)

var matchCodeNames = [...]string{
	Include:               "INCLUDE",
	IncludeAndSeekNextCol: "INCLUDE_AND_SEEK_NEXT_COL",
	IncludeAndSeekNextRow: "INCLUDE_AND_SEEK_NEXT_ROW",
	Skip:                  "SKIP",
	SeekNextCol:           "SEEK_NEXT_COL",
	SeekNextRow:           "SEEK_NEXT_ROW",
	SeekNextUsingHint:     "SEEK_NEXT_USING_HINT",
	Done:                  "DONE",
	DoneScan:              "DONE_SCAN",
	DoneReverseScan:       "DONE_REVERSE_SCAN",
}

func (m MatchCode) String() string {
	if int(m) < len(matchCodeNames) {
		return matchCodeNames[m]
	}
	return "UNKNOWN"
}

// includes reports whether the cell being matched is part of the result.
func (m MatchCode) includes() bool {
	return m == Include || m == IncludeAndSeekNextCol || m == IncludeAndSeekNextRow
}
