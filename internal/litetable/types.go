package litetable

// TimestampedValue stores a value with its timestamp
type TimestampedValue struct {
	Value     []byte `json:"value"`
	Timestamp int64  `json:"timestamp"` // milliseconds since the epoch
}

// VersionedQualifier maps qualifiers to their timestamped values, newest first.
type VersionedQualifier map[string][]TimestampedValue

// Row defines a row of scan output in LiteTable:
//
// Example:
//
//	Row{
//	  Key: "row1",
//	  Columns: map[string]VersionedQualifier{
//	    "family1": {
//	      "qualifier1": {{Value: []byte("value1"), Timestamp: 1700000000000}},
//	      "qualifier2": {{Value: []byte("value2"), Timestamp: 1700000000000}},
//	    },
//	  },
//	}
//
// Qualifiers keeps the order in which qualifiers were emitted by the scan, since map
// iteration would lose it.
type Row struct {
	Key        string                        `json:"key"`
	Columns    map[string]VersionedQualifier `json:"cols"` // family → qualifier → []TimestampedValue
	Qualifiers []string                      `json:"-"`
}

// NewRow returns an empty row for key.
func NewRow(key string) *Row {
	return &Row{
		Key:     key,
		Columns: make(map[string]VersionedQualifier),
	}
}

// Append adds a cell of family to the row, keeping first-seen qualifier order.
func (r *Row) Append(family string, c *Cell) {
	fam, ok := r.Columns[family]
	if !ok {
		fam = make(VersionedQualifier)
		r.Columns[family] = fam
	}

	q := string(c.Qualifier)
	if _, seen := fam[q]; !seen {
		r.Qualifiers = append(r.Qualifiers, q)
	}
	fam[q] = append(fam[q], TimestampedValue{
		Value:     c.Value,
		Timestamp: c.Timestamp,
	})
}
