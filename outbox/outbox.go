package outbox

import (
	"context"
	"log"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/settings"
	"ayurkart/shiprocket"
	"ayurkart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Carrier is the shared Shiprocket client; credentials resolve from the
// settings singleton on each token refresh. Tests swap this out.
var Carrier = shiprocket.New(func(ctx context.Context) (shiprocket.Credentials, error) {
	s, err := settings.ResolveCarrier(ctx)
	if err != nil {
		return shiprocket.Credentials{}, err
	}
	return shiprocket.Credentials{Email: s.ShiprocketEmail, Password: s.ShiprocketPassword}, nil
})

const (
	maxAttempts  = 5
	pollInterval = 15 * time.Second
)

// Enqueue records a create-shipment task for an order. The checkout response
// never waits on the carrier; the worker picks the task up asynchronously.
func Enqueue(ctx context.Context, orderID string) error {
	now := time.Now()
	task := models.ShipmentTask{
		TaskID:        utils.NewID("shp"),
		OrderID:       orderID,
		Status:        models.ShipmentTaskPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	_, err := db.ShipmentTasksCollection.InsertOne(ctx, task)
	return err
}

// backoffDelay grows exponentially per attempt: 1m, 2m, 4m, 8m, 16m.
func backoffDelay(attempts int) time.Duration {
	d := time.Minute
	for i := 1; i < attempts; i++ {
		d *= 2
	}
	return d
}

// claimTask atomically takes one due pending task so multiple workers do not
// double-submit the same order to the carrier.
func claimTask(ctx context.Context) (models.ShipmentTask, bool) {
	var task models.ShipmentTask
	err := db.ShipmentTasksCollection.FindOneAndUpdate(ctx,
		bson.M{"status": models.ShipmentTaskPending, "nextAttemptAt": bson.M{"$lte": time.Now()}},
		bson.M{"$set": bson.M{"nextAttemptAt": time.Now().Add(pollInterval), "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetSort(bson.M{"nextAttemptAt": 1}),
	).Decode(&task)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Println("outbox: claim error:", err)
		}
		return task, false
	}
	return task, true
}

func processTask(ctx context.Context, task models.ShipmentTask) {
	var order models.Order
	if err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": task.OrderID}).Decode(&order); err != nil {
		log.Printf("outbox: order %s not found for task %s: %v", task.OrderID, task.TaskID, err)
		markFailed(ctx, task, "order not found")
		return
	}

	// Cancelled before the shipment ever went out: drop the task.
	if order.Status == models.OrderStatusCancelled {
		finishTask(ctx, task, models.ShipmentTaskDone, "order cancelled before shipment")
		return
	}

	s, err := settings.ResolveCarrier(ctx)
	if err != nil {
		retryOrFail(ctx, task, err)
		return
	}

	res, err := Carrier.CreateShipment(ctx, order, shiprocket.PickupConfig{
		Location:  s.PickupLocation,
		ChannelID: s.ChannelID,
	})
	if err != nil {
		retryOrFail(ctx, task, err)
		return
	}

	_, err = db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": order.OrderID},
		bson.M{"$set": bson.M{
			"shipmentStatus":    models.ShipmentStatusCreated,
			"carrierOrderId":    res.OrderID,
			"carrierShipmentId": res.ShipmentID,
			"updatedAt":         time.Now(),
		}},
	)
	if err != nil {
		log.Printf("outbox: failed to record shipment ids for order %s: %v", order.OrderID, err)
	}

	finishTask(ctx, task, models.ShipmentTaskDone, "")
	log.Printf("outbox: shipment created for order %s (carrier order %s)", order.OrderID, res.OrderID)
}

func retryOrFail(ctx context.Context, task models.ShipmentTask, cause error) {
	attempts := task.Attempts + 1
	if attempts >= maxAttempts {
		log.Printf("outbox: task %s exhausted after %d attempts: %v", task.TaskID, attempts, cause)
		markFailed(ctx, task, cause.Error())
		return
	}

	delay := backoffDelay(attempts)
	_, err := db.ShipmentTasksCollection.UpdateOne(ctx,
		bson.M{"taskid": task.TaskID},
		bson.M{"$set": bson.M{
			"attempts":      attempts,
			"lastError":     cause.Error(),
			"nextAttemptAt": time.Now().Add(delay),
			"updatedAt":     time.Now(),
		}},
	)
	if err != nil {
		log.Println("outbox: retry update error:", err)
	}
	log.Printf("outbox: task %s attempt %d failed, retrying in %s: %v", task.TaskID, attempts, delay, cause)
}

func markFailed(ctx context.Context, task models.ShipmentTask, reason string) {
	finishTask(ctx, task, models.ShipmentTaskFailed, reason)
	// Leave the order paid; admins see shipmentStatus "failed" and intervene.
	_, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": task.OrderID, "shipmentStatus": models.ShipmentStatusQueued},
		bson.M{"$set": bson.M{"shipmentStatus": models.ShipmentStatusFailed, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("outbox: mark order failed error:", err)
	}
}

func finishTask(ctx context.Context, task models.ShipmentTask, status, lastErr string) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if lastErr != "" {
		set["lastError"] = lastErr
	}
	if _, err := db.ShipmentTasksCollection.UpdateOne(ctx, bson.M{"taskid": task.TaskID}, bson.M{"$set": set}); err != nil {
		log.Println("outbox: finish update error:", err)
	}
}

// StartWorker drains shipment tasks until ctx is cancelled.
func StartWorker(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Println("outbox: shipment worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("outbox: shipment worker stopped")
			return
		case <-ticker.C:
			for {
				task, ok := claimTask(ctx)
				if !ok {
					break
				}
				processTask(ctx, task)
			}
		}
	}
}
