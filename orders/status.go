package orders

import (
	"fmt"

	"ayurkart/models"
)

// transitions is the closed state machine for order status. Anything not
// listed here is rejected; status is never a free-form string.
var transitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {models.OrderStatusCompleted},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// InvalidTransitionError reports a rejected status change.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// ValidStatus reports whether s names a known order status.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns a typed error for rejected changes.
func Transition(from, to string) error {
	if !ValidStatus(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	if !CanTransition(from, to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}
