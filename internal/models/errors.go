package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrUnauthorized = errors.New("missing or insufficient credentials")
var ErrInvalidCredentials = errors.New("invalid credentials") // email or password provided does not match database record
var ErrEmailTaken = errors.New("email address already registered")
var ErrInvalidID = errors.New("invalid id format")

// ErrInvalidTransition indicates a delivery status change that is not in the
// transition table (skipping a state, moving backwards, or leaving the terminal state).
var ErrInvalidTransition = errors.New("invalid delivery status transition")

// ErrDeliveryTaken indicates an accept attempt on a delivery that is no longer
// pending. Also returned when the conditional accept matched zero rows, i.e. the
// caller lost the race to another agent.
var ErrDeliveryTaken = errors.New("delivery already accepted")

// ErrNotYetDelivered indicates feedback submitted before the delivery reached
// the delivered state.
var ErrNotYetDelivered = errors.New("delivery is not yet delivered")

var ErrFeedbackExists = errors.New("feedback already submitted for this delivery")
