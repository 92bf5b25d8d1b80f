package order

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
)

type Line struct {
	MerchandiseUID string
	Quantity       int
	PriceCents     int64 // price at time of order
}

type Order struct {
	UID         string
	Email       string
	Lines       []Line
	AmountCents int64
	Status      OrderStatus
	CreatedAt   time.Time
}
