package model

import (
	"errors"
	"time"
)

// OrderStatus is the lifecycle state of a service order.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusInProgress   OrderStatus = "in_progress"
	OrderStatusWaitingParts OrderStatus = "waiting_parts"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the states counted as "in progress" on the dashboard.
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusInProgress,
	OrderStatusWaitingParts,
}

// TerminalOrderStatuses are the states shown on the history screen.
var TerminalOrderStatuses = []OrderStatus{
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid checks if the order status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusWaitingParts,
		OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// orderTransitions maps each status to the statuses it may move to.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:      {OrderStatusInProgress, OrderStatusWaitingParts, OrderStatusCancelled},
	OrderStatusInProgress:   {OrderStatusWaitingParts, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusWaitingParts: {OrderStatusInProgress, OrderStatusCancelled},
	OrderStatusCompleted:    {OrderStatusDelivered},
	OrderStatusDelivered:    {},
	OrderStatusCancelled:    {},
}

// ErrInvalidTransition indicates a status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// CanTransition reports whether an order may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ServiceOrder represents a repair/service job, scoped to the owning user.
type ServiceOrder struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	CustomerID  string      `json:"customer_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Equipment   string      `json:"equipment"`
	Status      OrderStatus `json:"status"`
	LaborCost   float64     `json:"labor_cost"`
	PartsCost   float64     `json:"parts_cost"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (o *ServiceOrder) RecordID() string            { return o.ID }
func (o *ServiceOrder) SetRecordID(id string)       { o.ID = id }
func (o *ServiceOrder) OwnerID() string             { return o.UserID }
func (o *ServiceOrder) SetOwnerID(userID string)    { o.UserID = userID }
func (o *ServiceOrder) StampCreated(now time.Time)  { o.CreatedAt = now; o.UpdatedAt = now }
func (o *ServiceOrder) StampUpdated(now time.Time)  { o.UpdatedAt = now }

// Validate enforces required fields and status membership.
// An empty status defaults to pending.
func (o *ServiceOrder) Validate() error {
	if o.Title == "" {
		return ErrTitleRequired
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if !o.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// SearchText returns the fields matched by the list search filter.
func (o *ServiceOrder) SearchText() []string {
	return []string{o.Title, o.Equipment, string(o.Status)}
}

// Active reports whether the order counts toward the dashboard's active total.
func (o *ServiceOrder) Active() bool {
	for _, s := range ActiveOrderStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}
