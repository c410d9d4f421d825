package orders

import (
	"errors"
	"testing"

	"ayurkart/models"
)

func TestAllowedTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		{models.OrderStatusDelivered, models.OrderStatusCompleted},
	}
	for _, tc := range allowed {
		if err := Transition(tc[0], tc[1]); err != nil {
			t.Errorf("expected %s -> %s allowed, got %v", tc[0], tc[1], err)
		}
	}
}

func TestRejectedTransitions(t *testing.T) {
	rejected := [][2]string{
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusProcessing},
		{models.OrderStatusCompleted, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusShipped},
		{models.OrderStatusPending, "refunded"}, // unknown status
	}
	for _, tc := range rejected {
		err := Transition(tc[0], tc[1])
		if err == nil {
			t.Errorf("expected %s -> %s rejected", tc[0], tc[1])
			continue
		}
		var ite *InvalidTransitionError
		if !errors.As(err, &ite) {
			t.Errorf("expected InvalidTransitionError, got %T", err)
		}
	}
}
