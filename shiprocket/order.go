package shiprocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ayurkart/models"
)

// Defaults used when package dimensions were never collected at checkout.
const (
	defaultLength  = 10
	defaultBreadth = 10
	defaultHeight  = 10
	defaultWeight  = 0.5
)

// PickupConfig is the store-side half of a shipment payload.
type PickupConfig struct {
	Location  string
	ChannelID string
}

type orderItemPayload struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
}

type orderPayload struct {
	OrderID         string             `json:"order_id"`
	OrderDate       string             `json:"order_date"`
	PickupLocation  string             `json:"pickup_location"`
	ChannelID       string             `json:"channel_id,omitempty"`
	BillingName     string             `json:"billing_customer_name"`
	BillingAddress  string             `json:"billing_address"`
	BillingCity     string             `json:"billing_city"`
	BillingState    string             `json:"billing_state"`
	BillingPincode  string             `json:"billing_pincode"`
	BillingCountry  string             `json:"billing_country"`
	BillingEmail    string             `json:"billing_email"`
	BillingPhone    string             `json:"billing_phone"`
	ShippingIsBill  bool               `json:"shipping_is_billing"`
	ShippingName    string             `json:"shipping_customer_name"`
	ShippingAddress string             `json:"shipping_address"`
	ShippingCity    string             `json:"shipping_city"`
	ShippingState   string             `json:"shipping_state"`
	ShippingPincode string             `json:"shipping_pincode"`
	ShippingCountry string             `json:"shipping_country"`
	ShippingEmail   string             `json:"shipping_email"`
	ShippingPhone   string             `json:"shipping_phone"`
	OrderItems      []orderItemPayload `json:"order_items"`
	PaymentMethod   string             `json:"payment_method"`
	SubTotal        float64            `json:"sub_total"`
	Length          float64            `json:"length"`
	Breadth         float64            `json:"breadth"`
	Height          float64            `json:"height"`
	Weight          float64            `json:"weight"`
}

// CreateShipmentResult carries the carrier-side identifiers back to the order.
type CreateShipmentResult struct {
	OrderID    string `json:"order_id"`
	ShipmentID string `json:"shipment_id"`
}

type createResponse struct {
	OrderID    json.Number `json:"order_id"`
	ShipmentID json.Number `json:"shipment_id"`
}

// buildOrderPayload maps an order onto the carrier's adhoc-order shape.
// Address validation happens here, before any network call: a shipment with a
// missing required field must never be partially submitted.
func buildOrderPayload(order models.Order, pickup PickupConfig) (orderPayload, error) {
	required := map[string]string{
		"billing name":    order.Billing.Name,
		"billing address": order.Billing.Address,
		"billing city":    order.Billing.City,
		"billing state":   order.Billing.State,
		"billing pincode": order.Billing.Pincode,
		"billing email":   order.Billing.Email,
		"billing phone":   order.Billing.Phone,
	}
	for field, value := range required {
		if value == "" {
			return orderPayload{}, fmt.Errorf("shipment payload: missing %s", field)
		}
	}
	if len(order.Items) == 0 {
		return orderPayload{}, fmt.Errorf("shipment payload: order has no items")
	}
	if pickup.Location == "" {
		return orderPayload{}, fmt.Errorf("shipment payload: pickup location not configured")
	}

	shipping := order.Shipping
	if order.ShippingIsBilling {
		shipping = order.Billing
	}
	for field, value := range map[string]string{
		"shipping name":    shipping.Name,
		"shipping address": shipping.Address,
		"shipping city":    shipping.City,
		"shipping state":   shipping.State,
		"shipping pincode": shipping.Pincode,
	} {
		if value == "" {
			return orderPayload{}, fmt.Errorf("shipment payload: missing %s", field)
		}
	}

	dims := order.Package
	if dims.Length <= 0 {
		dims.Length = defaultLength
	}
	if dims.Breadth <= 0 {
		dims.Breadth = defaultBreadth
	}
	if dims.Height <= 0 {
		dims.Height = defaultHeight
	}
	if dims.Weight <= 0 {
		dims.Weight = defaultWeight
	}

	items := make([]orderItemPayload, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, orderItemPayload{
			Name:         it.Name,
			SKU:          it.ProductID,
			Units:        it.Quantity,
			SellingPrice: it.Price,
		})
	}

	method := "Prepaid"
	if order.PaymentMethod == models.PaymentMethodCOD {
		method = "COD"
	}

	return orderPayload{
		OrderID:         order.OrderID,
		OrderDate:       order.CreatedAt.Format("2006-01-02 15:04"),
		PickupLocation:  pickup.Location,
		ChannelID:       pickup.ChannelID,
		BillingName:     order.Billing.Name,
		BillingAddress:  order.Billing.Address,
		BillingCity:     order.Billing.City,
		BillingState:    order.Billing.State,
		BillingPincode:  order.Billing.Pincode,
		BillingCountry:  "India",
		BillingEmail:    order.Billing.Email,
		BillingPhone:    order.Billing.Phone,
		ShippingIsBill:  order.ShippingIsBilling,
		ShippingName:    shipping.Name,
		ShippingAddress: shipping.Address,
		ShippingCity:    shipping.City,
		ShippingState:   shipping.State,
		ShippingPincode: shipping.Pincode,
		ShippingCountry: "India",
		ShippingEmail:   shipping.Email,
		ShippingPhone:   shipping.Phone,
		OrderItems:      items,
		PaymentMethod:   method,
		SubTotal:        order.TotalAmount,
		Length:          dims.Length,
		Breadth:         dims.Breadth,
		Height:          dims.Height,
		Weight:          dims.Weight,
	}, nil
}

// CreateShipment registers the order with the carrier and returns its ids.
// Validation failures abort before any network traffic.
func (c *Client) CreateShipment(ctx context.Context, order models.Order, pickup PickupConfig) (CreateShipmentResult, error) {
	payload, err := buildOrderPayload(order, pickup)
	if err != nil {
		return CreateShipmentResult{}, err
	}
	if payload.OrderDate == "" || order.CreatedAt.IsZero() {
		payload.OrderDate = time.Now().Format("2006-01-02 15:04")
	}

	raw, err := c.doJSON(ctx, http.MethodPost, "/orders/create/adhoc", payload)
	if err != nil {
		return CreateShipmentResult{}, fmt.Errorf("create shipment for order %s: %w", order.OrderID, err)
	}

	var cr createResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return CreateShipmentResult{}, fmt.Errorf("create shipment for order %s: decode response: %w", order.OrderID, err)
	}
	return CreateShipmentResult{
		OrderID:    cr.OrderID.String(),
		ShipmentID: cr.ShipmentID.String(),
	}, nil
}
