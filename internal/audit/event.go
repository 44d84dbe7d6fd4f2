package audit

import (
	"time"
)

const (
	EntityCheckout  = "CHECKOUT"
	EntityBorrowing = "BORROWING"
)

const (
	ActionCheckoutCreated   = "CHECKOUT_CREATED"
	ActionCheckoutCompleted = "CHECKOUT_COMPLETED"
	ActionCheckoutCancelled = "CHECKOUT_CANCELLED"
	ActionCheckoutReturned  = "CHECKOUT_RETURNED"
	ActionBorrowingOverdue  = "BORROWING_OVERDUE"
)

// SystemActor marks transitions not initiated by a user, e.g. the overdue sweep.
const SystemActor = "system"

type Event struct {
	EntityType string            `json:"entityType"`
	EntityID   string            `json:"entityId"`
	Action     string            `json:"action"`
	Actor      string            `json:"actor"`
	Timestamp  time.Time         `json:"timestamp"`
	Details    map[string]string `json:"details,omitempty"`
}
