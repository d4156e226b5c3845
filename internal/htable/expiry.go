package htable

//go:generate mockgen -destination=./expiry_mock.go -package=htable -source=expiry.go

// ExpiryReason says why a row was recorded for cleanup.
type ExpiryReason string

const (
	// ExpiredByTTL marks a row holding cells older than the family TTL.
	ExpiredByTTL ExpiryReason = "ttl"
	// ExpiredByVersions marks a row holding more versions than the family keeps.
	ExpiredByVersions ExpiryReason = "versions"
)

// ExpiredRow is a row the scan saw dead data in.
type ExpiredRow struct {
	Family      string       `json:"family"`
	RowKey      string       `json:"rowKey"`
	Reason      ExpiryReason `json:"reason"`
	TimeToLive  int32        `json:"ttl"`
	MaxVersions int32        `json:"maxVersions"`
}

// ExpiryRecorder takes expired rows for out of band cleanup. Record must not block.
type ExpiryRecorder interface {
	Record(row ExpiredRow)
}
