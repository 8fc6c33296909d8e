package models

import "time"

// Feedback is a customer's one-time rating of a delivered delivery.
// CustomerID and DriverID are copied from the delivery record at submission
// time, never taken from the caller's claim.
type Feedback struct {
	ID         string    `json:"id"`
	DeliveryID string    `json:"delivery_id"`
	CustomerID string    `json:"customer_id"`
	DriverID   string    `json:"driver_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"timestamp"`
}

// SubmitFeedbackRequest is the payload for feedback submission.
type SubmitFeedbackRequest struct {
	DeliveryID string `json:"delivery_id" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment,omitempty" validate:"omitempty,max=200"`
}
