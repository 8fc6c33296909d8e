package models

// UserStats summarizes delivery activity for the authenticated principal.
// Customers are counted by customer_id, agents by partner_id.
type UserStats struct {
	UserID            string `json:"user_id"`
	Role              Role   `json:"role"`
	Email             string `json:"email"`
	TotalDeliveries   int    `json:"total_deliveries"`
	PendingDeliveries int    `json:"pending_deliveries"`
}

// AppStats is the global per-status delivery breakdown.
type AppStats struct {
	TotalDeliveries int `json:"total_deliveries"`
	TotalPending    int `json:"total_pending"`
	TotalAccepted   int `json:"total_accepted"`
	TotalInTransit  int `json:"total_in_transit"`
	TotalDelivered  int `json:"total_delivered"`
}

// DriverRating is the aggregate rating view for a single driver.
// AverageRating is the arithmetic mean rounded to 2 decimal places,
// 0 when the driver has no feedback.
type DriverRating struct {
	DriverID       string  `json:"driver_id"`
	AverageRating  float64 `json:"average_rating"`
	TotalFeedbacks int     `json:"total_feedbacks"`
}

// CustomerFeedbackSummary counts feedback a customer has submitted.
type CustomerFeedbackSummary struct {
	CustomerID          string `json:"customer_id"`
	TotalFeedbacksGiven int    `json:"total_feedbacks_given"`
}

// DriverCompleted counts deliveries a driver has brought to the terminal state.
type DriverCompleted struct {
	DriverID            string `json:"driver_id"`
	CompletedDeliveries int    `json:"completed_deliveries"`
}

// CustomerDeliveryCount counts deliveries a customer has requested.
type CustomerDeliveryCount struct {
	CustomerID      string `json:"customer_id"`
	TotalDeliveries int    `json:"total_deliveries"`
}
