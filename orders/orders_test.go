package orders

import (
	"strings"
	"testing"

	"ayurkart/models"
)

func validOrderAddress() models.Address {
	return models.Address{
		Name:    "Priya Sharma",
		Address: "42 MG Road, 2nd Floor",
		City:    "Bengaluru",
		State:   "Karnataka",
		Pincode: "560001",
		Email:   "priya@example.com",
		Phone:   "+91 98765 43210",
	}
}

func TestValidateAddressAccepts(t *testing.T) {
	if err := validateAddress(validOrderAddress()); err != nil {
		t.Fatalf("valid address rejected: %v", err)
	}
}

func TestValidateAddressRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*models.Address)
		wantErr string
	}{
		{"short name", func(a *models.Address) { a.Name = "P" }, "name"},
		{"bad email", func(a *models.Address) { a.Email = "not-an-email" }, "email"},
		{"short phone", func(a *models.Address) { a.Phone = "12345" }, "phone"},
		{"short address", func(a *models.Address) { a.Address = "x" }, "address"},
		{"missing city", func(a *models.Address) { a.City = "" }, "city"},
		{"short pincode", func(a *models.Address) { a.Pincode = "56" }, "pincode"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			addr := validOrderAddress()
			tc.mutate(&addr)
			err := validateAddress(addr)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
