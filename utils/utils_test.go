package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Ashwagandha Capsules":      "ashwagandha-capsules",
		"  Brahmi & Shankhpushpi  ": "brahmi--shankhpushpi",
		"Chyawanprash (500g)":       "chyawanprash-500g",
		"---":                       "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewID(t *testing.T) {
	id := NewID("ord")
	if !strings.HasPrefix(id, "ord_") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("ord_")+10 {
		t.Fatalf("id %q has wrong length", id)
	}
	if id == NewID("ord") {
		t.Fatal("two ids should not collide")
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(12)
	if len(s) != 12 {
		t.Fatalf("length = %d, want 12", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %q", r, s)
		}
	}
}
