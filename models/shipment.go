package models

import "time"

const (
	ShipmentTaskPending = "pending"
	ShipmentTaskDone    = "done"
	ShipmentTaskFailed  = "failed"
)

// ShipmentTask is an outbox row: order creation enqueues one, the background
// worker drains them so a slow carrier never blocks the checkout response.
type ShipmentTask struct {
	TaskID        string    `json:"taskId" bson:"taskid"`
	OrderID       string    `json:"orderId" bson:"orderId"`
	Status        string    `json:"status" bson:"status"`
	Attempts      int       `json:"attempts" bson:"attempts"`
	LastError     string    `json:"lastError,omitempty" bson:"lastError,omitempty"`
	NextAttemptAt time.Time `json:"nextAttemptAt" bson:"nextAttemptAt"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
