// Package store holds the source-side shapes used by the mapper fixtures.
package store

import (
	"time"
)

// Customer represents the user placing orders.
type Customer struct {
	ID       int64
	Email    string
	FullName string
	Address  *string
	Manager  *Customer // self reference, exercises cyclic resolution
	IsActive bool
	password string
}

// Order represents a transaction made by a customer.
type Order struct {
	ID         int64
	Customer   *Customer
	Status     OrderStatus
	TotalCents int32
	Items      []OrderItem
	Note       *string
	Discount   *int
	OrderedAt  time.Time
	Audit      string `mapper:"writeonly"`
}

// OrderItem is a product line within an order.
type OrderItem struct {
	ProductID int64
	Quantity  int
	Order     *Order
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
)

// Password exposes the unexported credential, keeping the field out of reach
// of generated mappings.
func (c *Customer) Password() string {
	return c.password
}
