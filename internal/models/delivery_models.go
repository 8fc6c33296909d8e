package models

import "time"

// Delivery status values. The lifecycle is strictly
// pending → accepted → in-transit → delivered; delivered is terminal.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusInTransit = "in-transit"
	StatusDelivered = "delivered"
)

// Delivery represents a customer delivery request moving through the lifecycle.
//
// PartnerID is nil until an agent accepts and is set exactly once; it is non-nil
// iff the status has passed pending. AcceptedAt and DeliveredAt follow the same
// rule for their respective transitions.
//
// DeliveryCharge and IsCancelled are reserved fields carried in the schema but
// never written by any transition.
type Delivery struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customer_id"`
	PartnerID       *string    `json:"partner_id,omitempty"`
	PickupLocation  string     `json:"pickup_location"`
	DropLocation    string     `json:"drop_location"`
	ItemDescription string     `json:"item_description"`
	PhoneNumber     string     `json:"phone_number"`
	Status          string     `json:"status"`
	DeliveryCharge  *float64   `json:"delivery_charge,omitempty"`
	IsCancelled     bool       `json:"is_cancelled"`
	RequestedAt     time.Time  `json:"requested_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
}

// CreateDeliveryRequest is the payload a customer posts to open a new request.
type CreateDeliveryRequest struct {
	PickupLocation  string `json:"pickup_location" validate:"required"`
	DropLocation    string `json:"drop_location" validate:"required"`
	ItemDescription string `json:"item_description" validate:"required"`
	PhoneNumber     string `json:"phone_number" validate:"required"`
}

// StatusUpdateRequest carries the next status an assigned agent wants to move to.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted in-transit delivered"`
}

// PendingDelivery is the public projection returned by the open job board:
// enough for an agent to decide whether to accept, nothing about the customer.
type PendingDelivery struct {
	ID              string    `json:"id"`
	PickupLocation  string    `json:"pickup_location"`
	DropLocation    string    `json:"drop_location"`
	ItemDescription string    `json:"item_description"`
	PhoneNumber     string    `json:"phone_number"`
	RequestedAt     time.Time `json:"requested_at"`
}
