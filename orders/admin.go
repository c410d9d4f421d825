package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"ayurkart/db"
	"ayurkart/models"
	"ayurkart/outbox"
	"ayurkart/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AdminListOrders returns all orders for the admin panel.
func AdminListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidStatus(status) {
			http.Error(w, "Unknown status filter", http.StatusBadRequest)
			return
		}
		filter["status"] = status
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrdersCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("AdminListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("AdminListOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	total, _ := db.OrdersCollection.CountDocuments(ctx, filter)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"orders": list, "total": total})
}

// UpdateOrderStatus moves an order through the state machine. Illegal
// transitions return 422 rather than writing a free-form status.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("UpdateOrderStatus lookup error:", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := Transition(order.Status, body.Status); err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	set := bson.M{"status": body.Status, "updatedAt": time.Now()}
	switch body.Status {
	case models.OrderStatusCancelled:
		if order.CarrierOrderID != "" {
			if err := outbox.Carrier.CancelShipment(ctx, order.CarrierOrderID, body.Reason); err != nil {
				log.Println("UpdateOrderStatus carrier cancel error:", err)
				utils.RespondWithError(w, http.StatusBadGateway, "Failed to cancel shipment: "+err.Error())
				return
			}
			set["shipmentStatus"] = models.ShipmentStatusCancelled
		}
	case models.OrderStatusDelivered:
		if order.PaymentMethod == models.PaymentMethodCOD {
			set["paymentStatus"] = models.PaymentStatusPaid
		}
	}

	if _, err := db.OrdersCollection.UpdateOne(ctx, bson.M{"orderid": order.OrderID}, bson.M{"$set": set}); err != nil {
		log.Println("UpdateOrderStatus update error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

// UpdatePackageDims records the parcel's physical attributes before shipment.
func UpdatePackageDims(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var dims models.PackageDims
	if err := json.NewDecoder(r.Body).Decode(&dims); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if dims.Length < 0 || dims.Breadth < 0 || dims.Height < 0 || dims.Weight < 0 {
		http.Error(w, "Dimensions must not be negative", http.StatusBadRequest)
		return
	}

	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": ps.ByName("id")},
		bson.M{"$set": bson.M{"package": dims, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("UpdatePackageDims error:", err)
		http.Error(w, "Failed to update package details", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RetryShipment re-enqueues a failed shipment task for an order.
func RetryShipment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("id")
	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID, "shipmentStatus": models.ShipmentStatusFailed},
		bson.M{"$set": bson.M{"shipmentStatus": models.ShipmentStatusQueued, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("RetryShipment update error:", err)
		http.Error(w, "Failed to retry shipment", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "No failed shipment for this order", http.StatusNotFound)
		return
	}

	if err := outbox.Enqueue(ctx, orderID); err != nil {
		log.Println("RetryShipment enqueue error:", err)
		http.Error(w, "Failed to enqueue shipment", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "queued"})
}
