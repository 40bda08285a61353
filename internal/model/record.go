package model

import "time"

// Record is the contract every user-owned business entity satisfies. The
// generic repository and handler layers operate on records exclusively
// through it, so adding an entity means implementing these methods and
// nothing else.
type Record interface {
	RecordID() string
	SetRecordID(id string)
	OwnerID() string
	SetOwnerID(userID string)
	StampCreated(now time.Time)
	StampUpdated(now time.Time)
	Validate() error
	// SearchText returns the fields matched by the list search filter.
	SearchText() []string
}

var (
	_ Record = (*Customer)(nil)
	_ Record = (*Product)(nil)
	_ Record = (*Quote)(nil)
	_ Record = (*ServiceOrder)(nil)
)
