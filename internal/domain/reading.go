package domain

import "time"

// ReadingBatch is one completed session's worth of readings, shaped the way
// the persistence sink expects it.
type ReadingBatch struct {
	UserID       string
	OperatorName string
	LocationCode string
	Entries      []Entry
	Date         string // 2006-01-02
	Time         string // 15:04:05, sub-second precision dropped
}

// NewReadingBatch stamps a batch with the session date and time.
func NewReadingBatch(userID, operatorName, locationCode string, entries []Entry, now time.Time) *ReadingBatch {
	return &ReadingBatch{
		UserID:       userID,
		OperatorName: operatorName,
		LocationCode: locationCode,
		Entries:      entries,
		Date:         now.Format("2006-01-02"),
		Time:         now.Format("15:04:05"),
	}
}
