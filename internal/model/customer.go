package model

import (
	"errors"
	"time"
)

// ErrNameRequired indicates a record is missing its required name field.
var ErrNameRequired = errors.New("name is required")

// Customer represents a client of the business, scoped to the owning user.
type Customer struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	CpfCnpj    string    `json:"cpf_cnpj"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Customer) RecordID() string            { return c.ID }
func (c *Customer) SetRecordID(id string)       { c.ID = id }
func (c *Customer) OwnerID() string             { return c.UserID }
func (c *Customer) SetOwnerID(userID string)    { c.UserID = userID }
func (c *Customer) StampCreated(now time.Time)  { c.CreatedAt = now; c.UpdatedAt = now }
func (c *Customer) StampUpdated(now time.Time)  { c.UpdatedAt = now }

// Validate enforces required fields.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	return nil
}

// SearchText returns the fields matched by the list search filter.
func (c *Customer) SearchText() []string {
	return []string{c.Name, c.Email, c.Phone}
}
