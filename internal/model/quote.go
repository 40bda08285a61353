package model

import (
	"errors"
	"time"
)

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// IsValid checks if the quote status is a known value.
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusApproved, QuoteStatusRejected:
		return true
	}
	return false
}

// ErrInvalidStatus indicates an unknown status value.
var ErrInvalidStatus = errors.New("invalid status")

// ErrTitleRequired indicates a record is missing its required title field.
var ErrTitleRequired = errors.New("title is required")

// Quote represents a price proposal for a customer, scoped to the owning user.
type Quote struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	CustomerID  string      `json:"customer_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      QuoteStatus `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	ValidUntil  *time.Time  `json:"valid_until,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (q *Quote) RecordID() string            { return q.ID }
func (q *Quote) SetRecordID(id string)       { q.ID = id }
func (q *Quote) OwnerID() string             { return q.UserID }
func (q *Quote) SetOwnerID(userID string)    { q.UserID = userID }
func (q *Quote) StampCreated(now time.Time)  { q.CreatedAt = now; q.UpdatedAt = now }
func (q *Quote) StampUpdated(now time.Time)  { q.UpdatedAt = now }

// Validate enforces required fields and status membership.
// An empty status defaults to draft.
func (q *Quote) Validate() error {
	if q.Title == "" {
		return ErrTitleRequired
	}
	if q.Status == "" {
		q.Status = QuoteStatusDraft
	}
	if !q.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// SearchText returns the fields matched by the list search filter.
func (q *Quote) SearchText() []string {
	return []string{q.Title, q.Description, string(q.Status)}
}
