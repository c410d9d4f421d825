package shiprocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ayurkart/models"
)

func testCreds(ctx context.Context) (Credentials, error) {
	return Credentials{Email: "store@example.com", Password: "secret"}, nil
}

func testOrder() models.Order {
	return models.Order{
		OrderID: "ord_test123",
		Items: []models.OrderItem{
			{ProductID: "prd_1", Name: "Ashwagandha Capsules", Price: 299, Quantity: 2},
		},
		Billing: models.Address{
			Name:    "Asha Rao",
			Address: "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
			Email:   "asha@example.com",
			Phone:   "9876543210",
		},
		ShippingIsBilling: true,
		PaymentMethod:     models.PaymentMethodCOD,
		TotalAmount:       598,
		CreatedAt:         time.Now(),
	}
}

func newMockCarrier(t *testing.T, loginCount *int64, createCount *int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(loginCount, 1)
		json.NewEncoder(w).Encode(map[string]any{"token": "tok-abc"})
	})
	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		if createCount != nil {
			atomic.AddInt64(createCount, 1)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("expected bearer token, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"order_id": 4321, "shipment_id": 8765})
	})
	mux.HandleFunc("/courier/track", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"current_status": "In Transit"})
	})
	mux.HandleFunc("/orders/cancel", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"message": "cancelled"})
	})
	return httptest.NewServer(mux)
}

func TestTokenReusedUntilExpiry(t *testing.T) {
	var logins int64
	srv := newMockCarrier(t, &logins, nil)
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, srv.Client(), testCreds)
	ctx := context.Background()

	if _, err := c.TrackShipment(ctx, "4321"); err != nil {
		t.Fatalf("first track failed: %v", err)
	}
	if _, err := c.TrackShipment(ctx, "4321"); err != nil {
		t.Fatalf("second track failed: %v", err)
	}
	if got := atomic.LoadInt64(&logins); got != 1 {
		t.Fatalf("expected 1 login for two calls within expiry, got %d", got)
	}
}

func TestTokenRefreshedAfterExpiry(t *testing.T) {
	var logins int64
	srv := newMockCarrier(t, &logins, nil)
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, srv.Client(), testCreds)
	ctx := context.Background()

	if _, err := c.TrackShipment(ctx, "4321"); err != nil {
		t.Fatalf("track failed: %v", err)
	}

	// Force the cached token past its expiry.
	c.mu.Lock()
	c.expiresAt = time.Now().Add(-time.Minute)
	c.mu.Unlock()

	if _, err := c.TrackShipment(ctx, "4321"); err != nil {
		t.Fatalf("track after expiry failed: %v", err)
	}
	if got := atomic.LoadInt64(&logins); got != 2 {
		t.Fatalf("expected re-authentication after expiry, got %d logins", got)
	}
}

func TestCreateShipmentValidatesBeforeNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call to %s", r.URL.Path)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, srv.Client(), testCreds)
	pickup := PickupConfig{Location: "Primary"}

	cases := []struct {
		name   string
		mutate func(*models.Order)
	}{
		{"missing billing address", func(o *models.Order) { o.Billing.Address = "" }},
		{"missing billing name", func(o *models.Order) { o.Billing.Name = "" }},
		{"missing billing pincode", func(o *models.Order) { o.Billing.Pincode = "" }},
		{"missing billing phone", func(o *models.Order) { o.Billing.Phone = "" }},
		{"no items", func(o *models.Order) { o.Items = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := testOrder()
			tc.mutate(&order)
			if _, err := c.CreateShipment(context.Background(), order, pickup); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestCancelAndTrackRequireOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call to %s", r.URL.Path)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, srv.Client(), testCreds)
	ctx := context.Background()

	if err := c.CancelShipment(ctx, "", "customer request"); err == nil {
		t.Fatal("expected error for empty order id on cancel")
	}
	if _, err := c.TrackShipment(ctx, ""); err == nil {
		t.Fatal("expected error for empty order id on track")
	}
}

func TestCreateShipmentHappyPath(t *testing.T) {
	var logins, creates int64
	srv := newMockCarrier(t, &logins, &creates)
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, srv.Client(), testCreds)
	res, err := c.CreateShipment(context.Background(), testOrder(), PickupConfig{Location: "Primary"})
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	if res.OrderID != "4321" || res.ShipmentID != "8765" {
		t.Fatalf("unexpected result %+v", res)
	}
	if atomic.LoadInt64(&creates) != 1 {
		t.Fatalf("expected exactly one create call")
	}
}

func TestShippingCopiedFromBilling(t *testing.T) {
	order := testOrder()
	order.ShippingIsBilling = true
	order.Shipping = models.Address{}

	p, err := buildOrderPayload(order, PickupConfig{Location: "Primary"})
	if err != nil {
		t.Fatalf("build payload failed: %v", err)
	}

	if p.ShippingName != p.BillingName ||
		p.ShippingAddress != p.BillingAddress ||
		p.ShippingCity != p.BillingCity ||
		p.ShippingState != p.BillingState ||
		p.ShippingPincode != p.BillingPincode ||
		p.ShippingEmail != p.BillingEmail ||
		p.ShippingPhone != p.BillingPhone {
		t.Fatalf("shipping fields not copied from billing: %+v", p)
	}
}

func TestPackageDimensionDefaults(t *testing.T) {
	order := testOrder()
	order.Package = models.PackageDims{}

	p, err := buildOrderPayload(order, PickupConfig{Location: "Primary"})
	if err != nil {
		t.Fatalf("build payload failed: %v", err)
	}
	if p.Length != 10 || p.Breadth != 10 || p.Height != 10 || p.Weight != 0.5 {
		t.Fatalf("expected default dims 10/10/10/0.5, got %v/%v/%v/%v", p.Length, p.Breadth, p.Height, p.Weight)
	}
}
