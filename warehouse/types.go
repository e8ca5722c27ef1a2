// Package warehouse holds the target-side shapes used by the mapper fixtures.
package warehouse

import (
	"time"
)

// Customer is the warehouse view of a store customer.
type Customer struct {
	ID       int64
	Email    string
	Name     string
	Address  string
	Manager  *Customer
	IsActive bool
}

// Order is the warehouse view of a store order.
type Order struct {
	ID         int64
	Customer   Customer
	Status     string
	TotalCents int64
	Items      []OrderItem
	Note       string
	Discount   int
	OrderedAt  time.Time
	Revision   int    `mapper:"readonly"`
	Internal   string `mapper:"-"`
}

// OrderItem is a line item within an order.
type OrderItem struct {
	ProductID int64
	Quantity  int
	Order     *Order
}
