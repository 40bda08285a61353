package model

import "time"

// Product represents a stock item, scoped to the owning user.
type Product struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Reference   string    `json:"reference"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
	CostPrice   float64   `json:"cost_price"`
	SalePrice   float64   `json:"sale_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultMinQuantity is the low-stock threshold applied when none is given.
const DefaultMinQuantity = 5

func (p *Product) RecordID() string            { return p.ID }
func (p *Product) SetRecordID(id string)       { p.ID = id }
func (p *Product) OwnerID() string             { return p.UserID }
func (p *Product) SetOwnerID(userID string)    { p.UserID = userID }
func (p *Product) StampCreated(now time.Time)  { p.CreatedAt = now; p.UpdatedAt = now }
func (p *Product) StampUpdated(now time.Time)  { p.UpdatedAt = now }

// Validate enforces required fields.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	return nil
}

// SearchText returns the fields matched by the list search filter.
func (p *Product) SearchText() []string {
	return []string{p.Name, p.Reference, p.Description}
}

// LowStock reports whether the product is at or below its threshold.
// The boundary is inclusive: quantity equal to min_quantity is low.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinQuantity
}
