package htable

import (
	"encoding/json"
	"strings"
)

// ColumnDescriptor holds the retention settings of a column family.
type ColumnDescriptor struct {
	// TimeToLive in seconds, 0 keeps cells forever.
	TimeToLive int32 `json:"TimeToLive"`
	// MaxVersions kept per qualifier, 0 means unbounded.
	MaxVersions int32 `json:"MaxVersions"`
}

type kvAttributes struct {
	Hbase *ColumnDescriptor `json:"Hbase"`
}

// ParseDescriptor reads the kv attributes stored with a column family, for example
//
//	{"Hbase": {"TimeToLive": 3600, "MaxVersions": 3}}
//
// An empty string is a family with no retention settings.
func ParseDescriptor(attributes string) (ColumnDescriptor, error) {
	var d ColumnDescriptor
	if strings.TrimSpace(attributes) == "" {
		return d, nil
	}

	var attrs kvAttributes
	if err := json.Unmarshal([]byte(attributes), &attrs); err != nil {
		return d, newError(ErrInvalidDescriptor, "%v", err)
	}
	if attrs.Hbase != nil {
		d = *attrs.Hbase
	}
	if err := d.validate(); err != nil {
		return ColumnDescriptor{}, err
	}
	return d, nil
}

func (d *ColumnDescriptor) validate() error {
	if d.TimeToLive < 0 {
		return newError(ErrInvalidDescriptor, "TimeToLive must not be negative, got %d", d.TimeToLive)
	}
	if d.MaxVersions < 0 {
		return newError(ErrInvalidDescriptor, "MaxVersions must not be negative, got %d", d.MaxVersions)
	}
	return nil
}

// String renders the descriptor in the kv attributes form ParseDescriptor reads.
func (d ColumnDescriptor) String() string {
	b, _ := json.Marshal(kvAttributes{Hbase: &d})
	return string(b)
}
