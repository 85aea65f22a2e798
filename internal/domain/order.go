package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "cod"
	PaymentUPI        PaymentMethod = "upi"
	PaymentCard       PaymentMethod = "card"
	PaymentNetBanking PaymentMethod = "netbanking"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentUPI, PaymentCard, PaymentNetBanking:
		return true
	}
	return false
}

type Order struct {
	ID              int64         `json:"Id"`
	CustomerName    string        `json:"customerName"`
	CustomerPhone   string        `json:"customerPhone"`
	Email           string        `json:"email,omitempty"`
	DeliveryAddress string        `json:"deliveryAddress"`
	Items           []CartLine    `json:"items"`
	TotalAmount     float64       `json:"totalAmount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (o *Order) RecordID() int64 { return o.ID }

func (o *Order) SetRecordID(id int64) { o.ID = id }

// Clone returns a copy whose Items slice is independent of o.
func (o *Order) Clone() Order {
	c := *o
	c.Items = CloneLines(o.Items)
	return c
}

// Touch stamps both timestamps on creation and updatedAt afterwards.
func (o *Order) Touch(now time.Time, created bool) {
	if created {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// OrderPatch is a partial order update: nil fields are left untouched.
type OrderPatch struct {
	CustomerName    *string        `json:"customerName,omitempty"`
	CustomerPhone   *string        `json:"customerPhone,omitempty"`
	Email           *string        `json:"email,omitempty"`
	DeliveryAddress *string        `json:"deliveryAddress,omitempty"`
	Items           []CartLine     `json:"items,omitempty"`
	TotalAmount     *float64       `json:"totalAmount,omitempty"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod,omitempty"`
	Status          *OrderStatus   `json:"status,omitempty"`
}

func (op OrderPatch) Apply(o *Order) {
	if op.CustomerName != nil {
		o.CustomerName = *op.CustomerName
	}
	if op.CustomerPhone != nil {
		o.CustomerPhone = *op.CustomerPhone
	}
	if op.Email != nil {
		o.Email = *op.Email
	}
	if op.DeliveryAddress != nil {
		o.DeliveryAddress = *op.DeliveryAddress
	}
	if op.Items != nil {
		o.Items = CloneLines(op.Items)
	}
	if op.TotalAmount != nil {
		o.TotalAmount = *op.TotalAmount
	}
	if op.PaymentMethod != nil {
		o.PaymentMethod = *op.PaymentMethod
	}
	if op.Status != nil {
		o.Status = *op.Status
	}
}
