package promoid

import (
	"strings"
	"testing"
)

func TestDerive_Format(t *testing.T) {
	id := Derive("Reddit", "pumpguy123")
	if id != "PROM-REDDIT-PUMPGUY123" {
		t.Errorf("Derive mismatch: got %s, want PROM-REDDIT-PUMPGUY123", id)
	}
}

func TestDerive_Truncation(t *testing.T) {
	id := Derive("Discord Server", "very_long_identifier_99")
	// Platform keeps letters only, max 6; identifier keeps alphanumerics, max 10.
	if id != "PROM-DISCOR-VERYLONGID" {
		t.Errorf("Derive mismatch: got %s", id)
	}
}

func TestDerive_StripsNonAlphanumerics(t *testing.T) {
	id := Derive("X/Twitter", "@pump.guy!")
	if id != "PROM-XTWITT-PUMPGUY" {
		t.Errorf("Derive mismatch: got %s", id)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	a := Derive("Telegram", "stonklord")
	b := Derive("Telegram", "stonklord")
	if a != b {
		t.Errorf("Derive not deterministic: %s vs %s", a, b)
	}
}

func TestDerive_TruncationCollision(t *testing.T) {
	// Distinct identifiers that agree on the first 10 alphanumerics collide.
	a := Derive("Reddit", "pumpguy123456")
	b := Derive("Reddit", "pumpguy123789")
	if a != b {
		t.Fatalf("expected truncation collision, got %s vs %s", a, b)
	}

	// The discriminator separates them deterministically.
	da := Discriminator("Reddit", "pumpguy123456")
	db := Discriminator("Reddit", "pumpguy123789")
	if da == db {
		t.Errorf("discriminators should differ: %s vs %s", da, db)
	}
	if len(da) != 4 || len(db) != 4 {
		t.Errorf("discriminator length: got %d and %d, want 4", len(da), len(db))
	}
	if da != Discriminator("Reddit", "pumpguy123456") {
		t.Error("discriminator not deterministic")
	}
}

func TestDerive_EmptyInputs(t *testing.T) {
	id := Derive("", "")
	if !strings.HasPrefix(id, "PROM-") {
		t.Errorf("Derive on empty inputs: got %s", id)
	}
}
